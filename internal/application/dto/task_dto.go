package dto

import (
	"time"

	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
)

// TaskDTO tarea de bodega.
type TaskDTO struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	Priority  string     `json:"priority"`
	Assignee  string     `json:"assignee,omitempty"`
	SKU       string     `json:"sku"`
	Warehouse string     `json:"warehouse"`
	CreatedAt time.Time  `json:"created_at"`
	DueAt     *time.Time `json:"due_at,omitempty"`
}

// TaskFromEntity convierte la entidad a DTO.
func TaskFromEntity(t *entity.Task) TaskDTO {
	return TaskDTO{
		ID:        t.ID,
		Type:      string(t.Type),
		Title:     t.Title,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		Assignee:  t.Assignee,
		SKU:       t.SKU,
		Warehouse: t.Warehouse,
		CreatedAt: t.CreatedAt,
		DueAt:     t.DueAt,
	}
}

// CreateTaskRequest body para POST /api/tasks.
type CreateTaskRequest struct {
	Type      string     `json:"type"`
	Title     string     `json:"title,omitempty"`
	Priority  string     `json:"priority,omitempty"`
	Assignee  string     `json:"assignee,omitempty"`
	SKU       string     `json:"sku"`
	Warehouse string     `json:"warehouse"`
	DueAt     *time.Time `json:"due_at,omitempty"`
}

// AssignTaskRequest body para PUT /api/tasks/:id/assign.
type AssignTaskRequest struct {
	Assignee string `json:"assignee"`
}
