package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/smart-warehouse/internal/application/dto"
	"github.com/jhoicas/smart-warehouse/internal/application/tasks"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
)

// TaskHandler endpoints de tareas de bodega (/api/tasks).
type TaskHandler struct {
	uc *tasks.UseCase
}

// NewTaskHandler construye el handler.
func NewTaskHandler(uc *tasks.UseCase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

// List godoc
// @Summary      Buscar tareas
// @Description  Filtros combinables; los omitidos no se aplican.
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Param        sku       query  string  false  "SKU"
// @Param        wh        query  string  false  "bodega"
// @Param        assignee  query  string  false  "responsable"
// @Param        status    query  string  false  "open | done"
// @Param        limit     query  int     false  "máximo (por defecto 10)"
// @Success      200  {object}  dto.ListResponse[dto.TaskDTO]
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.Search(c.UserContext(), repository.TaskFilter{
		SKU:       c.Query("sku"),
		Warehouse: c.Query("wh"),
		Assignee:  c.Query("assignee"),
		Status:    entity.TaskStatus(strings.ToLower(c.Query("status"))),
		Limit:     c.QueryInt("limit", tasks.DefaultLimit),
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.TaskDTO, len(items))
	for i, t := range items {
		out[i] = dto.TaskFromEntity(t)
	}
	return c.JSON(dto.NewListResponse(out))
}

// Create godoc
// @Summary      Crear tarea
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTaskRequest  true  "type: cycle_count | putaway | pick"
// @Success      201   {object}  dto.TaskDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	t, err := h.uc.Create(c.UserContext(), tasks.CreateInput{
		Type:      entity.TaskType(strings.ToLower(req.Type)),
		Title:     req.Title,
		Priority:  entity.TaskPriority(strings.ToLower(req.Priority)),
		Assignee:  req.Assignee,
		SKU:       req.SKU,
		Warehouse: req.Warehouse,
		DueAt:     req.DueAt,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TaskFromEntity(t))
}

// Assign godoc
// @Summary      Asignar tarea
// @Description  404 si la tarea no existe o ya tenía ese responsable.
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la tarea"
// @Param        body  body  dto.AssignTaskRequest  true  "assignee"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/tasks/{id}/assign [put]
func (h *TaskHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	id := c.Params("id")
	ok, err := h.uc.Assign(c.UserContext(), id, req.Assignee)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_MODIFIED", Message: "tarea " + id + " no encontrada o sin cambios"})
	}
	return c.JSON(dto.MessageResponse{Message: "tarea " + id + " asignada a " + strings.TrimSpace(req.Assignee)})
}

// Complete godoc
// @Summary      Completar tarea
// @Description  404 si la tarea no existe o ya estaba completada.
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tasks/{id}/complete [put]
func (h *TaskHandler) Complete(c *fiber.Ctx) error {
	id := c.Params("id")
	ok, err := h.uc.Complete(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_MODIFIED", Message: "tarea " + id + " no encontrada o ya completada"})
	}
	return c.JSON(dto.MessageResponse{Message: "tarea " + id + " completada"})
}
