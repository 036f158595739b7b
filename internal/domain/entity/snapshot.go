package entity

import "time"

// Valores por defecto para snapshots creados sin metadatos.
const (
	DefaultUoM   = "units"
	UnknownPlace = "unknown"
)

// Snapshot es la vista materializada del stock actual de un SKU.
// Quantity es un caché derivado del log y puede quedar desactualizado entre escrituras;
// no se aplica piso, así que puede ser negativo si el log es inconsistente.
type Snapshot struct {
	SKU       string
	Name      string
	Quantity  int64
	UoM       string
	Warehouse string
	Location  string
	ImageURL  string
	UpdatedAt time.Time
}

// NewPlaceholderSnapshot construye un snapshot con metadatos de relleno
// (bodega/ubicación desconocidas, unidad genérica, sin imagen).
func NewPlaceholderSnapshot(sku string, qty int64, at time.Time) *Snapshot {
	return &Snapshot{
		SKU:       sku,
		Name:      sku,
		Quantity:  qty,
		UoM:       DefaultUoM,
		Warehouse: UnknownPlace,
		Location:  UnknownPlace,
		UpdatedAt: at,
	}
}

// UnitOrDefault devuelve la unidad de medida del snapshot o la genérica.
func (s *Snapshot) UnitOrDefault() string {
	if s == nil || s.UoM == "" {
		return DefaultUoM
	}
	return s.UoM
}

// StockLevel resultado del reductor: cantidad recalculada y su unidad.
type StockLevel struct {
	SKU      string
	Quantity int64
	UoM      string
}
