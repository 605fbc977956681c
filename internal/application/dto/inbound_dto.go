package dto

import "time"

// ReceiveRequest body para POST /api/inbound/lines/:id/receive.
type ReceiveRequest struct {
	ActualQuantity int64 `json:"actual_quantity" validate:"gt=0"`
}

// AssignRequest body para POST /api/inbound/lines/:id/assignments.
type AssignRequest struct {
	LocationID string `json:"location_id" validate:"required,max=64"`
	Quantity   int64  `json:"quantity" validate:"gt=0"`
}

// SortAssignmentResponse asignación de acomodo.
type SortAssignmentResponse struct {
	ID         string    `json:"id"`
	LocationID string    `json:"location_id"`
	Quantity   int64     `json:"quantity"`
	Actor      string    `json:"actor"`
	CreatedAt  time.Time `json:"created_at"`
}

// InboundLineResponse línea de entrada con totales de acomodo.
type InboundLineResponse struct {
	ID                string                   `json:"id"`
	InboundID         string                   `json:"inbound_id"`
	ProductID         string                   `json:"product_id"`
	RequestedQuantity int64                    `json:"requested_quantity"`
	ActualQuantity    *int64                   `json:"actual_quantity"`
	SortState         string                   `json:"sort_state"`
	Assigned          int64                    `json:"assigned"`
	Remaining         int64                    `json:"remaining"`
	Assignments       []SortAssignmentResponse `json:"assignments"`
}
