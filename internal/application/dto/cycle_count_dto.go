package dto

import "time"

// CreateCycleCountRequest body para POST /api/cycle-counts.
type CreateCycleCountRequest struct {
	Scope      string `json:"scope" validate:"required,oneof=product location"`
	ProductID  string `json:"product_id,omitempty" validate:"required_if=Scope product,excluded_if=Scope location,max=64"`
	LocationID string `json:"location_id,omitempty" validate:"required_if=Scope location,excluded_if=Scope product,max=64"`
}

// RecordCountRequest body para PUT /api/cycle-counts/differences/:id.
// CountedDelta = contado - esperado; puede ser negativo.
type RecordCountRequest struct {
	CountedDelta *int64 `json:"counted_delta" validate:"required"`
}

// DifferenceResponse fila de diferencia de un conteo.
type DifferenceResponse struct {
	ID               string `json:"id"`
	ProductID        string `json:"product_id"`
	LocationID       string `json:"location_id"`
	ExpectedQuantity int64  `json:"expected_quantity"`
	CountedDelta     int64  `json:"counted_delta"`
	Counter          string `json:"counter,omitempty"`
	AppliedQuantity  *int64 `json:"applied_quantity"`
}

// CycleCountResponse conteo cíclico con sus diferencias.
type CycleCountResponse struct {
	ID          string               `json:"id"`
	Scope       string               `json:"scope"`
	ProductID   string               `json:"product_id,omitempty"`
	LocationID  string               `json:"location_id,omitempty"`
	State       string               `json:"state"`
	CreatedBy   string               `json:"created_by"`
	ApprovedBy  string               `json:"approved_by,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	ClosedAt    *time.Time           `json:"closed_at,omitempty"`
	Differences []DifferenceResponse `json:"differences"`
}
