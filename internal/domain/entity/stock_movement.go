package entity

import "time"

// SourceType identifica el flujo que originó un movimiento (referencia débil, sin FK).
type SourceType string

// Orígenes de movimiento.
const (
	SourceInbound    SourceType = "inbound"
	SourceOutbound   SourceType = "outbound"
	SourceMove       SourceType = "move"
	SourceInit       SourceType = "init"
	SourceCycleCount SourceType = "cycle-count"
)

// Valid indica si el origen es uno de los conocidos.
func (s SourceType) Valid() bool {
	switch s {
	case SourceInbound, SourceOutbound, SourceMove, SourceInit, SourceCycleCount:
		return true
	}
	return false
}

// StockMovement es una entrada inmutable del ledger. Quantity es firmada y nunca cero.
// La suma de Quantity por (producto, ubicación) es igual a LocationBalance.Quantity.
type StockMovement struct {
	ID          string
	ProductID   string
	LocationID  string
	Quantity    int64
	SourceType  SourceType
	SourceID    *string
	Description string
	Actor       string
	CreatedAt   time.Time
}
