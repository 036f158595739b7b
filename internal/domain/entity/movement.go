package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/smart-warehouse/internal/domain"
)

// MovementKind tipo de movimiento registrado en el log de transacciones.
type MovementKind string

const (
	MovementInbound  MovementKind = "inbound"  // entrada (recepción)
	MovementOutbound MovementKind = "outbound" // salida (despacho)
)

// ParseMovementKind normaliza el tipo de movimiento. Acepta sinónimos en inglés
// y vietnamita (sin tildes) además de los valores canónicos.
func ParseMovementKind(s string) (MovementKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inbound", "in", "receive", "receipt", "nhap":
		return MovementInbound, nil
	case "outbound", "out", "ship", "shipment", "xuat":
		return MovementOutbound, nil
	}
	return "", domain.ErrInvalidKind
}

// Movement representa un registro inmutable del log de movimientos (fuente de verdad).
// Una vez insertado no se modifica ni se elimina.
type Movement struct {
	ID        string
	SKU       string
	Kind      MovementKind
	Quantity  int64 // siempre > 0; el signo lo da Kind
	Warehouse string
	Actor     string
	Note      string
	At        time.Time
}

// Validate verifica las invariantes antes de insertar en el log.
func (m *Movement) Validate() error {
	if m.Kind != MovementInbound && m.Kind != MovementOutbound {
		return domain.ErrInvalidKind
	}
	if m.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if strings.TrimSpace(m.SKU) == "" || strings.TrimSpace(m.Warehouse) == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// Signed devuelve la cantidad con signo: positiva en entradas, negativa en salidas.
func (m *Movement) Signed() int64 {
	if m.Kind == MovementOutbound {
		return -m.Quantity
	}
	return m.Quantity
}
