package entity

import "time"

// InboundStatus fase del documento de entrada (la controla la capa de flujo).
type InboundStatus string

const (
	InboundDraft     InboundStatus = "DRAFT"
	InboundReceiving InboundStatus = "RECEIVING"
	InboundSorting   InboundStatus = "SORTING"
	InboundCompleted InboundStatus = "COMPLETED"
)

// SortState estado de acomodo de una línea de entrada.
// PENDING <-> SUBMITTED mientras cambian las asignaciones; APPLIED es terminal.
type SortState string

const (
	SortPending   SortState = "PENDING"
	SortSubmitted SortState = "SUBMITTED"
	SortApplied   SortState = "APPLIED"
)

// Inbound cabecera mínima del documento de entrada que el motor necesita leer.
type Inbound struct {
	ID     string
	Status InboundStatus
}

// InboundLine una línea de producto de una entrada.
type InboundLine struct {
	ID                string
	InboundID         string
	ProductID         string
	RequestedQuantity int64
	ActualQuantity    *int64 // nil hasta que se recibe físicamente
	SortState         SortState
	UpdatedAt         time.Time
}

// Actual devuelve la cantidad recibida (0 si aún no se registra).
func (l *InboundLine) Actual() int64 {
	if l.ActualQuantity == nil {
		return 0
	}
	return *l.ActualQuantity
}

// RecomputeSortState proyecta el estado a partir de la suma de asignaciones.
// No toca líneas APPLIED.
func (l *InboundLine) RecomputeSortState(assigned int64) {
	if l.SortState == SortApplied {
		return
	}
	if l.ActualQuantity != nil && *l.ActualQuantity > 0 && assigned == *l.ActualQuantity {
		l.SortState = SortSubmitted
		return
	}
	l.SortState = SortPending
}

// InboundSortAssignment asignación de unidades recibidas a una ubicación.
// Única por (línea, ubicación) mientras está activa.
type InboundSortAssignment struct {
	ID         string
	LineID     string
	LocationID string
	Quantity   int64
	Actor      string
	CreatedAt  time.Time
}
