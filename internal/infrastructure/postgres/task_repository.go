package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo tareas de bodega sobre la tabla tasks.
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador. Acepta pool o tx.
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

func (r *TaskRepo) Insert(ctx context.Context, t *entity.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO tasks (id, type, title, status, priority, assignee, sku, warehouse, created_at, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		t.ID, string(t.Type), t.Title, string(t.Status), string(t.Priority),
		t.Assignee, t.SKU, t.Warehouse, t.CreatedAt, t.DueAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepo) Find(ctx context.Context, f repository.TaskFilter) ([]*entity.Task, error) {
	var w where
	w.eq("sku", f.SKU)
	w.eq("warehouse", f.Warehouse)
	w.eq("assignee", f.Assignee)
	w.eq("status", string(f.Status))
	query := `SELECT id, type, title, status, priority, assignee, sku, warehouse, created_at, due_at FROM tasks` +
		w.String() + ` ORDER BY created_at DESC, id DESC` + w.limit(f.Limit)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer rows.Close()

	var out []*entity.Task
	for rows.Next() {
		var (
			t                     entity.Task
			typ, status, priority string
		)
		if err := rows.Scan(&t.ID, &typ, &t.Title, &status, &priority, &t.Assignee, &t.SKU, &t.Warehouse, &t.CreatedAt, &t.DueAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Type = entity.TaskType(typ)
		t.Status = entity.TaskStatus(status)
		t.Priority = entity.TaskPriority(priority)
		out = append(out, &t)
	}
	return out, rows.Err()
}

// SetAssignee solo cuenta como modificación si el responsable cambia.
func (r *TaskRepo) SetAssignee(ctx context.Context, id, assignee string) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE tasks SET assignee = $2 WHERE id = $1 AND assignee IS DISTINCT FROM $2`, id, assignee)
	if err != nil {
		return false, fmt.Errorf("assign task %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TaskRepo) SetStatus(ctx context.Context, id string, status entity.TaskStatus) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE tasks SET status = $2 WHERE id = $1 AND status IS DISTINCT FROM $2`, id, string(status))
	if err != nil {
		return false, fmt.Errorf("set task status %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
