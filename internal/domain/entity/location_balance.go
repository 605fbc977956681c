package entity

import "time"

// LocationBalance representa la cantidad actual de un producto en una ubicación (bin).
// Sólo el ledger de stock la modifica; se crea al primer movimiento y nunca se borra.
type LocationBalance struct {
	ProductID  string
	LocationID string
	Quantity   int64
	UpdatedAt  time.Time
}
