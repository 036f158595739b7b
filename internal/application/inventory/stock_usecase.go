package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/smart-warehouse/internal/domain"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
)

// StockUseCase es el reductor de stock: agrega el log de movimientos de un SKU
// y escribe el resultado en el snapshot (read-through / write-back).
// Toda lectura recalcula; no existe un camino de solo lectura sobre el caché.
type StockUseCase struct {
	movements repository.MovementRepository
	snapshots repository.SnapshotRepository
	now       func() time.Time
}

// NewStockUseCase construye el reductor.
func NewStockUseCase(movements repository.MovementRepository, snapshots repository.SnapshotRepository) *StockUseCase {
	return &StockUseCase{movements: movements, snapshots: snapshots, now: time.Now}
}

// Recompute suma entradas, resta salidas y guarda la cantidad con fecha refrescada
// (inserta si no existe, actualiza si existe). Si el log no tiene ningún registro
// del SKU devuelve domain.ErrNotFound y no crea ni modifica snapshots.
func (uc *StockUseCase) Recompute(ctx context.Context, sku string) (*entity.StockLevel, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, domain.ErrInvalidInput
	}

	totals, found, err := uc.movements.SumBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("agregar movimientos: %w", err)
	}
	if !found {
		return nil, domain.ErrNotFound
	}

	qty := totals.Net()
	if _, err := uc.snapshots.UpsertQuantity(ctx, entity.NewPlaceholderSnapshot(sku, qty, uc.now())); err != nil {
		return nil, fmt.Errorf("guardar snapshot: %w", err)
	}

	snap, err := uc.snapshots.Get(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("leer snapshot: %w", err)
	}
	return &entity.StockLevel{SKU: sku, Quantity: qty, UoM: snap.UnitOrDefault()}, nil
}

// StockByName resuelve el SKU por nombre de producto y recalcula su stock.
func (uc *StockUseCase) StockByName(ctx context.Context, name string) (*entity.StockLevel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	snap, err := uc.snapshots.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("buscar producto: %w", err)
	}
	if snap == nil {
		return nil, domain.ErrNotFound
	}
	return uc.Recompute(ctx, snap.SKU)
}

// Search devuelve snapshots tal como están en caché (sin recalcular).
// Limit 0 aplica el valor por defecto de 10; negativo devuelve todos.
func (uc *StockUseCase) Search(ctx context.Context, filter repository.SnapshotFilter) ([]*entity.Snapshot, error) {
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	return uc.snapshots.Search(ctx, filter)
}

// SaveMetadata registra los datos descriptivos de un SKU (nombre, unidad, ubicación...).
func (uc *StockUseCase) SaveMetadata(ctx context.Context, snap *entity.Snapshot) error {
	snap.SKU = strings.TrimSpace(snap.SKU)
	if snap.SKU == "" || strings.TrimSpace(snap.Name) == "" {
		return domain.ErrInvalidInput
	}
	if snap.UoM == "" {
		snap.UoM = entity.DefaultUoM
	}
	if snap.Warehouse == "" {
		snap.Warehouse = entity.UnknownPlace
	}
	if snap.Location == "" {
		snap.Location = entity.UnknownPlace
	}
	snap.UpdatedAt = uc.now()
	return uc.snapshots.SaveMetadata(ctx, snap)
}

// List devuelve todos los snapshots en caché ordenados por SKU.
func (uc *StockUseCase) List(ctx context.Context) ([]*entity.Snapshot, error) {
	return uc.snapshots.Search(ctx, repository.SnapshotFilter{})
}
