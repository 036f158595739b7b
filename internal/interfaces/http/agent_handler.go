package http

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/smart-warehouse/internal/application/agent"
	"github.com/jhoicas/smart-warehouse/internal/application/dto"
	"github.com/jhoicas/smart-warehouse/internal/application/inventory"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

// AgentHandler expone el agente y sus herramientas como endpoints de texto.
// Todas las respuestas llevan un mensaje legible, también ante fallos.
type AgentHandler struct {
	agent        *agent.Agent
	tools        *agent.Registry
	rebuild      *inventory.RebuildUseCase
	confirmToken string
	log          *logger.Logger
}

// NewAgentHandler construye el handler.
func NewAgentHandler(a *agent.Agent, tools *agent.Registry, rebuild *inventory.RebuildUseCase, confirmToken string, log *logger.Logger) *AgentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AgentHandler{agent: a, tools: tools, rebuild: rebuild, confirmToken: confirmToken, log: log}
}

// Ask godoc
// @Summary      Preguntar al asistente de bodega
// @Description  Lenguaje natural: el agente elige la herramienta y responde en texto.
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AskRequest  true  "query"
// @Success      200   {object}  dto.AskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /ask [post]
func (h *AgentHandler) Ask(c *fiber.Ctx) error {
	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	answer, err := h.agent.Ask(c.UserContext(), req.Query)
	if err != nil {
		h.log.Error().Err(err).Str("query", req.Query).Msg("ask: fallo del LLM")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "LLM_ERROR", Message: answer})
	}
	return c.JSON(dto.AskResponse{Response: answer})
}

// Stock godoc
// @Summary      Stock actual de un SKU (recalculado desde el log)
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SKURequest  true  "sku"
// @Success      200   {object}  dto.MessageResponse
// @Router       /stock [post]
func (h *AgentHandler) Stock(c *fiber.Ctx) error {
	var req dto.SKURequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	return h.run(c, agent.ToolStockBySKU, req.SKU)
}

// History godoc
// @Summary      Últimos movimientos de un SKU
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SKURequest  true  "sku y limit opcional"
// @Success      200   {object}  dto.MessageResponse
// @Router       /history [post]
func (h *AgentHandler) History(c *fiber.Ctx) error {
	var req dto.SKURequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	input := req.SKU
	if req.Limit > 0 {
		input = req.SKU + ", " + strconv.Itoa(req.Limit)
	}
	return h.run(c, agent.ToolTransactionHistory, input)
}

// Inbound godoc
// @Summary      Registrar una entrada
// @Description  args "sku,qty,wh,by,note" o campos explícitos.
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransactionRequest  true  "movimiento"
// @Success      200   {object}  dto.MessageResponse
// @Router       /inbound [post]
func (h *AgentHandler) Inbound(c *fiber.Ctx) error {
	return h.record(c, agent.ToolRecordInbound)
}

// Outbound godoc
// @Summary      Registrar una salida
// @Description  args "sku,qty,wh,by,note" o campos explícitos.
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransactionRequest  true  "movimiento"
// @Success      200   {object}  dto.MessageResponse
// @Router       /outbound [post]
func (h *AgentHandler) Outbound(c *fiber.Ctx) error {
	return h.record(c, agent.ToolRecordOutbound)
}

func (h *AgentHandler) record(c *fiber.Ctx, tool string) error {
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	input := strings.TrimSpace(req.Args)
	if input == "" {
		if req.Actor == "" {
			req.Actor = GetActor(c)
		}
		fields := map[string]any{
			"sku":  req.SKU,
			"wh":   req.Warehouse,
			"by":   req.Actor,
			"note": req.Note,
		}
		if req.Quantity != nil {
			fields["qty"] = *req.Quantity
		}
		raw, err := json.Marshal(fields)
		if err != nil {
			return badBody(c)
		}
		input = string(raw)
	}
	return h.run(c, tool, input)
}

// SearchTransactions godoc
// @Summary      Buscar movimientos
// @Description  query es un filtro JSON: {"by":"...","wh":"...","sku":"...","limit":5}
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SearchRequest  true  "filtro"
// @Success      200   {object}  dto.MessageResponse
// @Router       /search_transactions [post]
func (h *AgentHandler) SearchTransactions(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	return h.run(c, agent.ToolTransactionSearch, req.Query)
}

// RebuildInventory godoc
// @Summary      Reconstruir todos los snapshots desde el log
// @Description  Sin la palabra de confirmación solo devuelve la instrucción para confirmar.
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ConfirmRequest  false  "confirm"
// @Success      200   {object}  dto.MessageResponse
// @Router       /rebuild_inventory [post]
func (h *AgentHandler) RebuildInventory(c *fiber.Ctx) error {
	var req dto.ConfirmRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}
	return h.run(c, agent.ToolRebuildInventory, req.Confirm)
}

// SyncInventory godoc
// @Summary      Reconstruir y devolver el informe de diferencias
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ConfirmRequest  true  "confirm"
// @Success      200   {object}  dto.RebuildResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /sync_inventory [post]
func (h *AgentHandler) SyncInventory(c *fiber.Ctx) error {
	var req dto.ConfirmRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}
	if !strings.EqualFold(strings.TrimSpace(req.Confirm), h.confirmToken) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "CONFIRMATION_REQUIRED",
			Message: "envía confirm=" + strconv.Quote(h.confirmToken) + " para reconstruir el inventario",
		})
	}
	report, err := h.rebuild.RebuildAll(c.UserContext())
	if err != nil {
		h.log.Error().Err(err).Msg("sync_inventory: fallo de la reconstrucción")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: "no se pudo reconstruir el inventario, intente más tarde",
		})
	}
	return c.JSON(dto.RebuildResponse{Message: agent.RebuildSummary(report), Report: report})
}

// run ejecuta la herramienta y envuelve su texto; las herramientas nunca fallan.
func (h *AgentHandler) run(c *fiber.Ctx, name, input string) error {
	tool, ok := h.tools.Get(name)
	if !ok {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "UNKNOWN_TOOL", Message: name})
	}
	return c.JSON(dto.MessageResponse{Message: tool.Run(c.UserContext(), input)})
}
