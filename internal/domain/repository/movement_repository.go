package repository

import (
	"context"

	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
)

// MovementFilter filtros para consultar el log. Los campos vacíos se omiten
// (no se comparan contra cadena vacía). Limit <= 0 significa sin límite.
type MovementFilter struct {
	SKU       string
	Warehouse string
	Actor     string
	Limit     int
}

// MovementTotals suma agrupada de entradas y salidas para un SKU.
type MovementTotals struct {
	Inbound  int64
	Outbound int64
}

// Net devuelve entradas menos salidas.
func (t MovementTotals) Net() int64 {
	return t.Inbound - t.Outbound
}

// MovementRepository define el puerto del log de movimientos (solo inserción).
type MovementRepository interface {
	Insert(ctx context.Context, movement *entity.Movement) error
	// Find devuelve movimientos ordenados del más reciente al más antiguo.
	Find(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// SumBySKU agrega el log del SKU; found es false si no hay ningún registro.
	SumBySKU(ctx context.Context, sku string) (totals MovementTotals, found bool, err error)
	DistinctSKUs(ctx context.Context) ([]string, error)
}
