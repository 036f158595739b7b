package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo log de movimientos sobre la tabla movements.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Acepta pool o tx.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Insert agrega un movimiento al log.
func (r *MovementRepo) Insert(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, sku, kind, quantity, warehouse, actor, note, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, m.ID, m.SKU, string(m.Kind), m.Quantity, m.Warehouse, m.Actor, m.Note, m.At)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert movement %s: id duplicado: %w", m.ID, err)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// Find lista movimientos del más reciente al más antiguo.
func (r *MovementRepo) Find(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var w where
	w.eq("sku", f.SKU)
	w.eq("warehouse", f.Warehouse)
	w.eq("actor", f.Actor)
	query := `SELECT id, sku, kind, quantity, warehouse, actor, note, at FROM movements` +
		w.String() + ` ORDER BY at DESC, id DESC` + w.limit(f.Limit)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("find movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var kind string
		if err := rows.Scan(&m.ID, &m.SKU, &kind, &m.Quantity, &m.Warehouse, &m.Actor, &m.Note, &m.At); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		out = append(out, &m)
	}
	return out, rows.Err()
}

// SumBySKU agrega entradas y salidas del SKU en una sola consulta.
func (r *MovementRepo) SumBySKU(ctx context.Context, sku string) (repository.MovementTotals, bool, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN kind = 'inbound' THEN quantity ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'outbound' THEN quantity ELSE 0 END), 0)
		FROM movements WHERE sku = $1`
	var (
		count int64
		t     repository.MovementTotals
	)
	if err := r.q.QueryRow(ctx, query, sku).Scan(&count, &t.Inbound, &t.Outbound); err != nil {
		return repository.MovementTotals{}, false, fmt.Errorf("sum movements %s: %w", sku, err)
	}
	return t, count > 0, nil
}

// DistinctSKUs devuelve los SKU presentes en el log, ordenados.
func (r *MovementRepo) DistinctSKUs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT sku FROM movements ORDER BY sku`)
	if err != nil {
		return nil, fmt.Errorf("distinct skus: %w", err)
	}
	skus, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("distinct skus: %w", err)
	}
	return skus, nil
}
