package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/smart-warehouse/internal/application/dto"
	"github.com/jhoicas/smart-warehouse/internal/application/inventory"
	"github.com/jhoicas/smart-warehouse/internal/domain"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

// InventoryHandler endpoints JSON de snapshots, movimientos y reconstrucción (/api).
type InventoryHandler struct {
	stock     *inventory.StockUseCase
	movements *inventory.MovementUseCase
	rebuild   *inventory.RebuildUseCase
	reports   *inventory.ReportUseCase
	log       *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockUseCase, movements *inventory.MovementUseCase, rebuild *inventory.RebuildUseCase, reports *inventory.ReportUseCase, log *logger.Logger) *InventoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InventoryHandler{stock: stock, movements: movements, rebuild: rebuild, reports: reports, log: log}
}

// ListSnapshots godoc
// @Summary      Listar snapshots de inventario (caché)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sku    query  string  false  "SKU exacto"
// @Param        name   query  string  false  "nombre parcial"
// @Param        wh     query  string  false  "bodega"
// @Param        limit  query  int     false  "máximo de resultados"
// @Success      200  {object}  dto.ListResponse[dto.SnapshotDTO]
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) ListSnapshots(c *fiber.Ctx) error {
	snaps, err := h.stock.Search(c.UserContext(), repository.SnapshotFilter{
		SKU:       c.Query("sku"),
		Name:      c.Query("name"),
		Warehouse: c.Query("wh"),
		Limit:     c.QueryInt("limit", -1),
	})
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.SnapshotDTO, len(snaps))
	for i, s := range snaps {
		items[i] = dto.SnapshotFromEntity(s)
	}
	return c.JSON(dto.NewListResponse(items))
}

// GetStock godoc
// @Summary      Stock de un SKU recalculado desde el log
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU"
// @Success      200  {object}  dto.StockLevelDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{sku} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	level, err := h.stock.Recompute(c.UserContext(), c.Params("sku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockLevelFromEntity(level))
}

// UpdateSnapshot godoc
// @Summary      Actualizar metadatos de un SKU
// @Description  No modifica la cantidad: esa solo se deriva del log.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sku   path  string                     true  "SKU"
// @Param        body  body  dto.UpdateSnapshotRequest  true  "metadatos"
// @Success      200   {object}  dto.SnapshotDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/{sku} [put]
func (h *InventoryHandler) UpdateSnapshot(c *fiber.Ctx) error {
	var req dto.UpdateSnapshotRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	snap := &entity.Snapshot{
		SKU:       c.Params("sku"),
		Name:      req.Name,
		UoM:       req.UoM,
		Warehouse: req.Warehouse,
		Location:  req.Location,
		ImageURL:  req.ImageURL,
	}
	if err := h.stock.SaveMetadata(c.UserContext(), snap); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SnapshotFromEntity(snap))
}

// Report godoc
// @Summary      Informe PDF del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        title  query  string  false  "título del informe"
// @Success      200
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/report.pdf [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.reports.Generate(c.UserContext(), c.Query("title"))
	if err != nil {
		h.log.Error().Err(err).Msg("informe de inventario")
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="inventario-`+time.Now().UTC().Format("20060102")+`.pdf"`)
	return c.Send(pdf)
}

// Rebuild godoc
// @Summary      Reconstruir todos los snapshots (solo admin)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RebuildResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/rebuild [post]
func (h *InventoryHandler) Rebuild(c *fiber.Ctx) error {
	report, err := h.rebuild.RebuildAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	h.log.Info().Str("actor", GetActor(c)).Int("processed", report.Processed).Msg("rebuild solicitado por API")
	return c.JSON(dto.RebuildResponse{Message: "ok", Report: report})
}

// ListTransactions godoc
// @Summary      Buscar movimientos del log
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        sku    query  string  false  "SKU"
// @Param        wh     query  string  false  "bodega"
// @Param        by     query  string  false  "actor"
// @Param        limit  query  int     false  "máximo (por defecto 10)"
// @Success      200  {object}  dto.ListResponse[dto.MovementDTO]
// @Router       /api/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	movs, err := h.movements.Search(c.UserContext(), repository.MovementFilter{
		SKU:       c.Query("sku"),
		Warehouse: c.Query("wh"),
		Actor:     c.Query("by"),
		Limit:     c.QueryInt("limit", inventory.DefaultSearchLimit),
	})
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.MovementDTO, len(movs))
	for i, m := range movs {
		items[i] = dto.MovementFromEntity(m)
	}
	return c.JSON(dto.NewListResponse(items))
}

// RecordTransaction godoc
// @Summary      Registrar un movimiento
// @Description  Sin actor en el cuerpo se usa el del token.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "movimiento"
// @Success      201   {object}  dto.RecordMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *InventoryHandler) RecordTransaction(c *fiber.Ctx) error {
	var req dto.RecordMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	kind, err := entity.ParseMovementKind(req.Kind)
	if err != nil {
		return writeError(c, err)
	}
	actor := strings.TrimSpace(req.Actor)
	if actor == "" {
		actor = GetActor(c)
	}
	if actor == "" {
		return writeError(c, domain.ErrInvalidInput)
	}
	res, err := h.movements.Record(c.UserContext(), inventory.MovementInput{
		SKU:       req.SKU,
		Kind:      kind,
		Quantity:  req.Quantity,
		Warehouse: req.Warehouse,
		Actor:     actor,
		Note:      req.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.RecordMovementResponse{Movement: dto.MovementFromEntity(res.Movement)}
	if res.Level != nil {
		lvl := dto.StockLevelFromEntity(res.Level)
		out.Stock = &lvl
	} else {
		out.Warning = "movimiento registrado; el snapshot se corregirá en el próximo rebuild"
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
