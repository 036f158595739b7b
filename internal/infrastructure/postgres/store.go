package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
)

var _ repository.Store = (*Store)(nil)

// Store agrupa los repositorios sobre un mismo pool.
type Store struct {
	pool      *pgxpool.Pool
	movements *MovementRepo
	snapshots *SnapshotRepo
	tasks     *TaskRepo
}

// NewStore construye el almacén; el pool pasa a ser propiedad del Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:      pool,
		movements: NewMovementRepository(pool),
		snapshots: NewSnapshotRepository(pool),
		tasks:     NewTaskRepository(pool),
	}
}

func (s *Store) Movements() repository.MovementRepository { return s.movements }
func (s *Store) Snapshots() repository.SnapshotRepository { return s.snapshots }
func (s *Store) Tasks() repository.TaskRepository         { return s.tasks }

// Close cierra el pool.
func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}
