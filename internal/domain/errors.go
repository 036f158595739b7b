package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrInvalidQuantity      = errors.New("la cantidad debe ser un entero positivo")
	ErrInvalidKind          = errors.New("tipo de movimiento inválido")
	ErrConfirmationRequired = errors.New("se requiere confirmación explícita")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
)
