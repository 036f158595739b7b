package dto

import (
	"time"

	"github.com/jhoicas/smart-warehouse/internal/application/inventory"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
)

// SnapshotDTO snapshot de inventario expuesto por /api/inventory.
type SnapshotDTO struct {
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	UoM       string    `json:"uom"`
	Warehouse string    `json:"warehouse"`
	Location  string    `json:"location"`
	ImageURL  string    `json:"image_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SnapshotFromEntity convierte la entidad a DTO.
func SnapshotFromEntity(s *entity.Snapshot) SnapshotDTO {
	return SnapshotDTO{
		SKU:       s.SKU,
		Name:      s.Name,
		Quantity:  s.Quantity,
		UoM:       s.UnitOrDefault(),
		Warehouse: s.Warehouse,
		Location:  s.Location,
		ImageURL:  s.ImageURL,
		UpdatedAt: s.UpdatedAt,
	}
}

// UpdateSnapshotRequest body para PUT /api/inventory/:sku (solo metadatos).
type UpdateSnapshotRequest struct {
	Name      string `json:"name"`
	UoM       string `json:"uom"`
	Warehouse string `json:"warehouse"`
	Location  string `json:"location"`
	ImageURL  string `json:"image_url"`
}

// StockLevelDTO cantidad recalculada desde el log.
type StockLevelDTO struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
	UoM      string `json:"uom"`
}

// StockLevelFromEntity convierte la entidad a DTO.
func StockLevelFromEntity(l *entity.StockLevel) StockLevelDTO {
	return StockLevelDTO{SKU: l.SKU, Quantity: l.Quantity, UoM: l.UoM}
}

// MovementDTO registro del log de movimientos.
type MovementDTO struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	Kind      string    `json:"kind"`
	Quantity  int64     `json:"quantity"`
	Warehouse string    `json:"warehouse"`
	Actor     string    `json:"actor"`
	Note      string    `json:"note,omitempty"`
	At        time.Time `json:"at"`
}

// MovementFromEntity convierte la entidad a DTO.
func MovementFromEntity(m *entity.Movement) MovementDTO {
	return MovementDTO{
		ID:        m.ID,
		SKU:       m.SKU,
		Kind:      string(m.Kind),
		Quantity:  m.Quantity,
		Warehouse: m.Warehouse,
		Actor:     m.Actor,
		Note:      m.Note,
		At:        m.At,
	}
}

// RecordMovementRequest body para POST /api/transactions. Sin actor se usa el del token.
type RecordMovementRequest struct {
	SKU       string `json:"sku"`
	Kind      string `json:"kind"` // inbound | outbound (acepta sinónimos)
	Quantity  int64  `json:"quantity"`
	Warehouse string `json:"warehouse"`
	Actor     string `json:"actor,omitempty"`
	Note      string `json:"note,omitempty"`
}

// RecordMovementResponse movimiento registrado y stock resultante. Stock es nil
// si el recálculo falló; el movimiento queda en el log igualmente.
type RecordMovementResponse struct {
	Movement MovementDTO    `json:"movement"`
	Stock    *StockLevelDTO `json:"stock"`
	Warning  string         `json:"warning,omitempty"`
}

// RebuildResponse resultado de la reconstrucción con su resumen textual.
type RebuildResponse struct {
	Message string                   `json:"message"`
	Report  *inventory.RebuildReport `json:"report"`
}
