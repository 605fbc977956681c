package entity

import "time"

// CycleCountScope tipo de alcance del conteo.
type CycleCountScope string

const (
	ScopeProduct  CycleCountScope = "product"
	ScopeLocation CycleCountScope = "location"
)

// CycleCountState OPEN -> APPLIED | REJECTED (ambos terminales).
type CycleCountState string

const (
	CycleCountOpen     CycleCountState = "OPEN"
	CycleCountApplied  CycleCountState = "APPLIED"
	CycleCountRejected CycleCountState = "REJECTED"
)

// CycleCount auditoría física sobre un producto (todas sus ubicaciones) o una ubicación (todos sus productos).
type CycleCount struct {
	ID         string
	Scope      CycleCountScope
	ProductID  string // con Scope=product
	LocationID string // con Scope=location
	State      CycleCountState
	CreatedBy  string
	ApprovedBy string
	CreatedAt  time.Time
	ClosedAt   *time.Time
}

// IsOpen indica si aún acepta conteos y cierre.
func (c *CycleCount) IsOpen() bool {
	return c.State == CycleCountOpen
}

// CycleCountDifference fila de esperado vs contado por (producto, ubicación).
type CycleCountDifference struct {
	ID               string
	CycleCountID     string
	ProductID        string
	LocationID       string
	ExpectedQuantity int64
	CountedDelta     int64
	Counter          string
	AppliedQuantity  *int64 // snapshot al aplicar/rechazar
	UpdatedAt        time.Time
}
