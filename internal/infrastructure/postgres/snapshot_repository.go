package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

const snapshotColumns = `sku, name, quantity, uom, warehouse, location, image_url, updated_at`

// SnapshotRepo caché de inventario sobre la tabla snapshots.
type SnapshotRepo struct {
	q Querier
}

// NewSnapshotRepository construye el adaptador. Acepta pool o tx.
func NewSnapshotRepository(q Querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

func (r *SnapshotRepo) Get(ctx context.Context, sku string) (*entity.Snapshot, error) {
	row := r.q.QueryRow(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE sku = $1`, sku)
	return scanOptionalSnapshot(row, "get snapshot")
}

func (r *SnapshotRepo) FindByName(ctx context.Context, name string) (*entity.Snapshot, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE lower(name) = lower($1) ORDER BY sku LIMIT 1`, name)
	return scanOptionalSnapshot(row, "find snapshot by name")
}

func (r *SnapshotRepo) Search(ctx context.Context, f repository.SnapshotFilter) ([]*entity.Snapshot, error) {
	var w where
	w.eq("sku", f.SKU)
	w.eq("warehouse", f.Warehouse)
	w.ilike("name", f.Name)
	query := `SELECT ` + snapshotColumns + ` FROM snapshots` + w.String() + ` ORDER BY sku` + w.limit(f.Limit)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("search snapshots: %w", err)
	}
	defer rows.Close()

	var out []*entity.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpsertQuantity inserta el snapshot completo o, si existe, solo cantidad y fecha.
// xmax = 0 solo vale para filas recién insertadas.
func (r *SnapshotRepo) UpsertQuantity(ctx context.Context, s *entity.Snapshot) (bool, error) {
	query := `
		INSERT INTO snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (sku) DO UPDATE
			SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)`
	var inserted bool
	err := r.q.QueryRow(ctx, query,
		s.SKU, s.Name, s.Quantity, s.UoM, s.Warehouse, s.Location, s.ImageURL, s.UpdatedAt,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert snapshot %s: %w", s.SKU, err)
	}
	return inserted, nil
}

// SaveMetadata crea o actualiza los datos descriptivos; la cantidad existente se conserva.
func (r *SnapshotRepo) SaveMetadata(ctx context.Context, s *entity.Snapshot) error {
	query := `
		INSERT INTO snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, 0, $3, $4, $5, $6, $7)
		ON CONFLICT (sku) DO UPDATE SET
			name = EXCLUDED.name, uom = EXCLUDED.uom, warehouse = EXCLUDED.warehouse,
			location = EXCLUDED.location, image_url = EXCLUDED.image_url, updated_at = EXCLUDED.updated_at
		RETURNING quantity`
	err := r.q.QueryRow(ctx, query,
		s.SKU, s.Name, s.UoM, s.Warehouse, s.Location, s.ImageURL, s.UpdatedAt,
	).Scan(&s.Quantity)
	if err != nil {
		return fmt.Errorf("save snapshot metadata %s: %w", s.SKU, err)
	}
	return nil
}

func scanSnapshot(row pgx.Row) (*entity.Snapshot, error) {
	var s entity.Snapshot
	err := row.Scan(&s.SKU, &s.Name, &s.Quantity, &s.UoM, &s.Warehouse, &s.Location, &s.ImageURL, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanOptionalSnapshot(row pgx.Row, op string) (*entity.Snapshot, error) {
	s, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}
