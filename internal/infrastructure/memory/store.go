// Package memory implementa los puertos de repositorio en memoria.
// Se usa en tests y con STORE_DRIVER=memory; no persiste nada entre procesos.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
)

var (
	_ repository.Store              = (*Store)(nil)
	_ repository.MovementRepository = (*movementRepo)(nil)
	_ repository.SnapshotRepository = (*snapshotRepo)(nil)
	_ repository.TaskRepository     = (*taskRepo)(nil)
)

// Store almacén en memoria protegido por un único RWMutex.
type Store struct {
	mu        sync.RWMutex
	movements []entity.Movement
	snapshots map[string]entity.Snapshot
	tasks     []entity.Task
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{snapshots: make(map[string]entity.Snapshot)}
}

func (s *Store) Movements() repository.MovementRepository { return &movementRepo{s: s} }
func (s *Store) Snapshots() repository.SnapshotRepository { return &snapshotRepo{s: s} }
func (s *Store) Tasks() repository.TaskRepository         { return &taskRepo{s: s} }
func (s *Store) Close(context.Context) error              { return nil }

// SnapshotCount devuelve cuántos snapshots hay (útil en tests).
func (s *Store) SnapshotCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

// MovementCount devuelve cuántos movimientos hay en el log.
func (s *Store) MovementCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movements)
}

// DumpSnapshots copia todos los snapshots ordenados por SKU.
func (s *Store) DumpSnapshots() []entity.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// ── Movimientos ───────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) Insert(_ context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *movementRepo) Find(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Movement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if f.SKU != "" && m.SKU != f.SKU {
			continue
		}
		if f.Warehouse != "" && m.Warehouse != f.Warehouse {
			continue
		}
		if f.Actor != "" && m.Actor != f.Actor {
			continue
		}
		out = append(out, &m)
	}
	// Más reciente primero; a igual fecha, el último insertado primero.
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	return limit(out, f.Limit), nil
}

func (r *movementRepo) SumBySKU(_ context.Context, sku string) (repository.MovementTotals, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var t repository.MovementTotals
	found := false
	for _, m := range r.s.movements {
		if m.SKU != sku {
			continue
		}
		found = true
		switch m.Kind {
		case entity.MovementInbound:
			t.Inbound += m.Quantity
		case entity.MovementOutbound:
			t.Outbound += m.Quantity
		}
	}
	return t, found, nil
}

func (r *movementRepo) DistinctSKUs(context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, m := range r.s.movements {
		if _, ok := seen[m.SKU]; ok {
			continue
		}
		seen[m.SKU] = struct{}{}
		out = append(out, m.SKU)
	}
	sort.Strings(out)
	return out, nil
}

// ── Snapshots ─────────────────────────────────────────────────────────────────

type snapshotRepo struct{ s *Store }

func (r *snapshotRepo) Get(_ context.Context, sku string) (*entity.Snapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	snap, ok := r.s.snapshots[sku]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (r *snapshotRepo) FindByName(_ context.Context, name string) (*entity.Snapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, snap := range r.s.snapshots {
		if strings.EqualFold(snap.Name, name) {
			found := snap
			return &found, nil
		}
	}
	return nil, nil
}

func (r *snapshotRepo) Search(_ context.Context, f repository.SnapshotFilter) ([]*entity.Snapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	name := strings.ToLower(f.Name)
	var out []*entity.Snapshot
	for _, snap := range r.s.snapshots {
		if f.SKU != "" && snap.SKU != f.SKU {
			continue
		}
		if f.Warehouse != "" && snap.Warehouse != f.Warehouse {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(snap.Name), name) {
			continue
		}
		s := snap
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return limit(out, f.Limit), nil
}

func (r *snapshotRepo) UpsertQuantity(_ context.Context, snap *entity.Snapshot) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.snapshots[snap.SKU]
	if !ok {
		r.s.snapshots[snap.SKU] = *snap
		return true, nil
	}
	cur.Quantity = snap.Quantity
	cur.UpdatedAt = snap.UpdatedAt
	r.s.snapshots[snap.SKU] = cur
	return false, nil
}

func (r *snapshotRepo) SaveMetadata(_ context.Context, snap *entity.Snapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.snapshots[snap.SKU]
	if ok {
		snap.Quantity = cur.Quantity
	}
	r.s.snapshots[snap.SKU] = *snap
	return nil
}

// ── Tareas ────────────────────────────────────────────────────────────────────

type taskRepo struct{ s *Store }

func (r *taskRepo) Insert(_ context.Context, t *entity.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tasks = append(r.s.tasks, *t)
	return nil
}

func (r *taskRepo) Find(_ context.Context, f repository.TaskFilter) ([]*entity.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Task
	for i := len(r.s.tasks) - 1; i >= 0; i-- {
		t := r.s.tasks[i]
		if f.SKU != "" && t.SKU != f.SKU {
			continue
		}
		if f.Warehouse != "" && t.Warehouse != f.Warehouse {
			continue
		}
		if f.Assignee != "" && t.Assignee != f.Assignee {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, &t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return limit(out, f.Limit), nil
}

func (r *taskRepo) SetAssignee(_ context.Context, id, assignee string) (bool, error) {
	return r.update(id, func(t *entity.Task) bool {
		if t.Assignee == assignee {
			return false
		}
		t.Assignee = assignee
		return true
	}), nil
}

func (r *taskRepo) SetStatus(_ context.Context, id string, status entity.TaskStatus) (bool, error) {
	return r.update(id, func(t *entity.Task) bool {
		if t.Status == status {
			return false
		}
		t.Status = status
		return true
	}), nil
}

func (r *taskRepo) update(id string, fn func(*entity.Task) bool) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.tasks {
		if r.s.tasks[i].ID == id {
			return fn(&r.s.tasks[i])
		}
	}
	return false
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
