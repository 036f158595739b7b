package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/smart-warehouse/internal/application/dto"
	"github.com/jhoicas/smart-warehouse/pkg/jwt"
)

// Locals keys para el actor y su rol en Fiber.
const (
	LocalActor = "actor"
	LocalRole  = "role"
)

// AuthMiddleware valida el Bearer Token JWT y deja actor y rol en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		actor, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalActor, actor)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Debe ir después de AuthMiddleware.
//   - 401 MISSING_ROLE → el token no trae rol.
//   - 403 FORBIDDEN    → el rol no está permitido.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no tiene rol"})
		}
		for _, r := range roles {
			if strings.EqualFold(r, role) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol '" + role + "' no tiene acceso"})
	}
}

// GetActor devuelve el actor del token (vacío si la autenticación está deshabilitada).
func GetActor(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalActor).(string)
	return s
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
