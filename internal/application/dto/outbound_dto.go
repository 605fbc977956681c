package dto

// SupplyRequest body para POST /api/outbound/lines/:id/supplies.
type SupplyRequest struct {
	LocationID string `json:"location_id" validate:"required,max=64"`
	Quantity   int64  `json:"quantity" validate:"gt=0"`
}

// LocationSupplyResponse desglose por ubicación.
type LocationSupplyResponse struct {
	LocationID       string `json:"location_id"`
	FreeQuantity     int64  `json:"free_quantity"`
	SuppliedQuantity int64  `json:"supplied_quantity"`
}

// SupplyStateResponse estado de surtido de una línea.
type SupplyStateResponse struct {
	LineID            string                   `json:"line_id"`
	OutboundID        string                   `json:"outbound_id"`
	ProductID         string                   `json:"product_id"`
	Quantity          int64                    `json:"quantity"`
	Supplied          bool                     `json:"supplied"`
	SuppliedQuantity  int64                    `json:"supplied_quantity"`
	FreeQuantity      int64                    `json:"free_quantity"`
	RemainingQuantity int64                    `json:"remaining_quantity"`
	Locations         []LocationSupplyResponse `json:"locations"`
}
