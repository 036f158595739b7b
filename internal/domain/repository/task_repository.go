package repository

import (
	"context"

	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
)

// TaskFilter filtros combinables para tareas; los vacíos se omiten.
type TaskFilter struct {
	SKU       string
	Warehouse string
	Assignee  string
	Status    entity.TaskStatus
	Limit     int
}

// TaskRepository define el puerto de persistencia de tareas.
// SetAssignee y SetStatus devuelven true solo si un registro cambió: un ID
// inexistente y una actualización sin efecto son indistinguibles.
type TaskRepository interface {
	Insert(ctx context.Context, task *entity.Task) error
	// Find devuelve tareas de la más reciente a la más antigua.
	Find(ctx context.Context, filter TaskFilter) ([]*entity.Task, error)
	SetAssignee(ctx context.Context, id, assignee string) (modified bool, err error)
	SetStatus(ctx context.Context, id string, status entity.TaskStatus) (modified bool, err error)
}
