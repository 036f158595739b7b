package repository

import (
	"context"

	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
)

// SnapshotFilter filtros de búsqueda de snapshots. Name es coincidencia parcial
// sin distinguir mayúsculas; SKU y Warehouse son exactos.
type SnapshotFilter struct {
	SKU       string
	Name      string
	Warehouse string
	Limit     int
}

// SnapshotRepository define el puerto del caché de inventario por SKU.
type SnapshotRepository interface {
	// Get devuelve nil, nil si el SKU no tiene snapshot.
	Get(ctx context.Context, sku string) (*entity.Snapshot, error)
	// FindByName busca por nombre exacto (sin distinguir mayúsculas); nil, nil si no existe.
	FindByName(ctx context.Context, name string) (*entity.Snapshot, error)
	Search(ctx context.Context, filter SnapshotFilter) ([]*entity.Snapshot, error)
	// UpsertQuantity actualiza cantidad y fecha si el SKU existe; si no, inserta el
	// snapshot completo. inserted indica cuál de los dos caminos se tomó.
	UpsertQuantity(ctx context.Context, snapshot *entity.Snapshot) (inserted bool, err error)
	// SaveMetadata crea o actualiza los datos descriptivos sin tocar la cantidad.
	SaveMetadata(ctx context.Context, snapshot *entity.Snapshot) error
}
