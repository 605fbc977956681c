package dto

import "time"

// RegisterMovementRequest body para POST /api/stock/movements.
// IN/OUT/INIT usan location_id; MOVE usa from_location_id y to_location_id.
type RegisterMovementRequest struct {
	ProductID      string `json:"product_id" validate:"required,max=64"`
	LocationID     string `json:"location_id,omitempty" validate:"required_unless=Type MOVE,omitempty,max=64"`
	FromLocationID string `json:"from_location_id,omitempty" validate:"required_if=Type MOVE,omitempty,max=64"`
	ToLocationID   string `json:"to_location_id,omitempty" validate:"required_if=Type MOVE,omitempty,max=64,nefield=FromLocationID"`
	Type           string `json:"type" validate:"required,oneof=IN OUT MOVE INIT"`
	Quantity       int64  `json:"quantity" validate:"gt=0"`
	SourceType     string `json:"source_type,omitempty" validate:"required_if=Type IN,required_if=Type OUT,omitempty,oneof=inbound outbound cycle-count"`
	SourceID       string `json:"source_id,omitempty" validate:"omitempty,max=64"`
	Description    string `json:"description,omitempty" validate:"max=255"`
}

// MovementResponse movimiento del ledger.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	LocationID  string    `json:"location_id"`
	Quantity    int64     `json:"quantity"`
	SourceType  string    `json:"source_type"`
	SourceID    *string   `json:"source_id,omitempty"`
	Description string    `json:"description,omitempty"`
	Actor       string    `json:"actor"`
	CreatedAt   time.Time `json:"created_at"`
}

// BalanceResponse saldo de un producto en una ubicación.
type BalanceResponse struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Quantity   int64  `json:"quantity"`
}

// TotalResponse total agregado por producto o por ubicación.
type TotalResponse struct {
	ProductID  string `json:"product_id,omitempty"`
	LocationID string `json:"location_id,omitempty"`
	Quantity   int64  `json:"quantity"`
}

// HistoryResponse página de movimientos.
type HistoryResponse struct {
	Movements []MovementResponse `json:"movements"`
	Page      PageResponse       `json:"page"`
}
