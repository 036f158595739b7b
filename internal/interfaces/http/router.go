package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/smart-warehouse/internal/application/agent"
	"github.com/jhoicas/smart-warehouse/internal/application/inventory"
	"github.com/jhoicas/smart-warehouse/internal/application/tasks"
	"github.com/jhoicas/smart-warehouse/pkg/jwt"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Agent        *agent.Agent
	Tools        *agent.Registry
	Stock        *inventory.StockUseCase
	Movements    *inventory.MovementUseCase
	Rebuild      *inventory.RebuildUseCase
	Reports      *inventory.ReportUseCase
	Tasks        *tasks.UseCase
	ConfirmToken string
	// JWTSecret vacío deja /api sin autenticación (entorno local).
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}

	// Endpoints de texto del agente (públicos, mismo contrato que las herramientas)
	agentHandler := NewAgentHandler(deps.Agent, deps.Tools, deps.Rebuild, deps.ConfirmToken, deps.Log.Component("agent_http"))
	app.Post("/ask", agentHandler.Ask)
	app.Post("/stock", agentHandler.Stock)
	app.Post("/history", agentHandler.History)
	app.Post("/inbound", agentHandler.Inbound)
	app.Post("/outbound", agentHandler.Outbound)
	app.Post("/search_transactions", agentHandler.SearchTransactions)
	app.Post("/rebuild_inventory", agentHandler.RebuildInventory)
	app.Post("/sync_inventory", agentHandler.SyncInventory)

	// API JSON (Bearer Token cuando hay secreto configurado)
	var (
		api       fiber.Router
		adminOnly fiber.Handler
	)
	if deps.JWTSecret != "" {
		api = app.Group("/api", AuthMiddleware(deps.JWTSecret))
		adminOnly = RequireRole(jwt.RoleAdmin)
	} else {
		api = app.Group("/api")
		adminOnly = func(c *fiber.Ctx) error { return c.Next() }
	}

	inventoryHandler := NewInventoryHandler(deps.Stock, deps.Movements, deps.Rebuild, deps.Reports, deps.Log.Component("inventory_http"))
	inv := api.Group("/inventory")
	inv.Get("/", inventoryHandler.ListSnapshots)
	inv.Get("/report.pdf", inventoryHandler.Report)
	inv.Post("/rebuild", adminOnly, inventoryHandler.Rebuild)
	inv.Get("/:sku", inventoryHandler.GetStock)
	inv.Put("/:sku", inventoryHandler.UpdateSnapshot)

	txs := api.Group("/transactions")
	txs.Get("/", inventoryHandler.ListTransactions)
	txs.Post("/", inventoryHandler.RecordTransaction)

	taskHandler := NewTaskHandler(deps.Tasks)
	tg := api.Group("/tasks")
	tg.Get("/", taskHandler.List)
	tg.Post("/", taskHandler.Create)
	tg.Put("/:id/assign", taskHandler.Assign)
	tg.Put("/:id/complete", taskHandler.Complete)
}
