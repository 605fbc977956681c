package entity

import "time"

// OutboundStatus fase del pedido de salida.
type OutboundStatus string

const (
	OutboundDraft     OutboundStatus = "DRAFT"
	OutboundSupplying OutboundStatus = "SUPPLYING"
	OutboundShipped   OutboundStatus = "SHIPPED"
	OutboundCancelled OutboundStatus = "CANCELLED"
)

// Outbound cabecera mínima del pedido de salida.
type Outbound struct {
	ID     string
	Status OutboundStatus
}

// OutboundLine una línea de producto de un pedido de salida.
// Supplied es una proyección: true sólo si las asignaciones cubren Quantity exactamente.
type OutboundLine struct {
	ID         string
	OutboundID string
	ProductID  string
	Quantity   int64
	Supplied   bool
	UpdatedAt  time.Time
}

// RecomputeSupplied actualiza Supplied a partir de lo surtido.
func (l *OutboundLine) RecomputeSupplied(supplied int64) {
	l.Supplied = l.Quantity > 0 && supplied == l.Quantity
}

// OutboundSupplyAssignment retiro de una ubicación para una línea. Borrado lógico al revertir.
type OutboundSupplyAssignment struct {
	ID         string
	LineID     string
	ProductID  string
	LocationID string
	Quantity   int64
	Actor      string
	CreatedAt  time.Time
	DeletedAt  *time.Time
}

// Active indica si el retiro sigue vigente.
func (a *OutboundSupplyAssignment) Active() bool {
	return a.DeletedAt == nil
}
