// Package tasks contiene los casos de uso de tareas operativas de bodega
// (conteos cíclicos, ubicación, picking). Es independiente del cálculo de stock.
package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/smart-warehouse/internal/domain"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
)

// DefaultLimit resultados por defecto en búsquedas de tareas.
const DefaultLimit = 10

// UseCase casos de uso del registro de tareas.
type UseCase struct {
	repo repository.TaskRepository
	now  func() time.Time
}

// NewUseCase construye el caso de uso de tareas.
func NewUseCase(repo repository.TaskRepository) *UseCase {
	return &UseCase{repo: repo, now: time.Now}
}

// CreateInput datos para crear una tarea.
type CreateInput struct {
	Type      entity.TaskType
	Title     string
	Priority  entity.TaskPriority
	Assignee  string
	SKU       string
	Warehouse string
	DueAt     *time.Time
}

// Create valida y registra una tarea abierta.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Task, error) {
	if !entity.ValidTaskType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	if in.Priority == "" {
		in.Priority = entity.PriorityNormal
	}
	if !entity.ValidTaskPriority(in.Priority) {
		return nil, domain.ErrInvalidInput
	}
	sku, wh := strings.TrimSpace(in.SKU), strings.TrimSpace(in.Warehouse)
	if sku == "" || wh == "" {
		return nil, domain.ErrInvalidInput
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = string(in.Type) + " " + sku + " @ " + wh
	}
	t := &entity.Task{
		ID:        uuid.New().String(),
		Type:      in.Type,
		Title:     title,
		Status:    entity.TaskOpen,
		Priority:  in.Priority,
		Assignee:  strings.TrimSpace(in.Assignee),
		SKU:       sku,
		Warehouse: wh,
		CreatedAt: uc.now().UTC(),
		DueAt:     in.DueAt,
	}
	if err := uc.repo.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Search filtra por cualquier combinación de sku, bodega, responsable y estado.
func (uc *UseCase) Search(ctx context.Context, filter repository.TaskFilter) ([]*entity.Task, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	return uc.repo.Find(ctx, filter)
}

// Open devuelve las tareas abiertas más recientes.
func (uc *UseCase) Open(ctx context.Context, limit int) ([]*entity.Task, error) {
	return uc.Search(ctx, repository.TaskFilter{Status: entity.TaskOpen, Limit: limit})
}

// Assign asigna la tarea. Devuelve false si no cambió nada (ID inexistente o mismo responsable).
func (uc *UseCase) Assign(ctx context.Context, id, assignee string) (bool, error) {
	id, assignee = strings.TrimSpace(id), strings.TrimSpace(assignee)
	if id == "" || assignee == "" {
		return false, domain.ErrInvalidInput
	}
	return uc.repo.SetAssignee(ctx, id, assignee)
}

// Complete marca la tarea como terminada. Devuelve false si no cambió nada.
func (uc *UseCase) Complete(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, domain.ErrInvalidInput
	}
	return uc.repo.SetStatus(ctx, id, entity.TaskDone)
}
