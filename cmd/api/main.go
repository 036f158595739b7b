package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/smart-warehouse/docs"
	"github.com/jhoicas/smart-warehouse/internal/bootstrap"
	httpRouter "github.com/jhoicas/smart-warehouse/internal/interfaces/http"
	"github.com/jhoicas/smart-warehouse/pkg/config"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

// @title         Smart Warehouse API
// @version       1.0
// @description   Log de transacciones de inventario, snapshots de stock, tareas y agente en lenguaje natural.
// @BasePath      /
// @securityDefinitions.apikey BearerAuth
// @in            header
// @name          Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	wired, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicialización")
	}
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: /api queda sin autenticación")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Smart Warehouse API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver, "llm": wired.Agent.UsesLLM()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Agent:        wired.Agent,
		Tools:        wired.Tools,
		Stock:        wired.Stock,
		Movements:    wired.Movements,
		Rebuild:      wired.Rebuild,
		Reports:      wired.Reports,
		Tasks:        wired.Tasks,
		ConfirmToken: cfg.Rebuild.ConfirmToken,
		JWTSecret:    cfg.JWT.Secret,
		Log:          log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := wired.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre del almacén")
	}

	log.Info().Msg("aplicación detenida")
}
