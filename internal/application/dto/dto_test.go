package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_RegisterMovementRequest(t *testing.T) {
	tests := []struct {
		name  string
		req   RegisterMovementRequest
		valid bool
	}{
		{"init", RegisterMovementRequest{ProductID: "P", LocationID: "A", Type: "INIT", Quantity: 3}, true},
		{"in con origen", RegisterMovementRequest{ProductID: "P", LocationID: "A", Type: "IN", Quantity: 3, SourceType: "inbound"}, true},
		{"in sin origen", RegisterMovementRequest{ProductID: "P", LocationID: "A", Type: "IN", Quantity: 3}, false},
		{"out con origen move", RegisterMovementRequest{ProductID: "P", LocationID: "A", Type: "OUT", Quantity: 3, SourceType: "move"}, false},
		{"move", RegisterMovementRequest{ProductID: "P", FromLocationID: "A", ToLocationID: "B", Type: "MOVE", Quantity: 1}, true},
		{"move misma ubicación", RegisterMovementRequest{ProductID: "P", FromLocationID: "A", ToLocationID: "A", Type: "MOVE", Quantity: 1}, false},
		{"cantidad cero", RegisterMovementRequest{ProductID: "P", LocationID: "A", Type: "INIT"}, false},
		{"tipo desconocido", RegisterMovementRequest{ProductID: "P", LocationID: "A", Type: "ADJUST", Quantity: 1}, false},
		{"sin ubicación", RegisterMovementRequest{ProductID: "P", Type: "INIT", Quantity: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_CreateCycleCountRequest(t *testing.T) {
	assert.NoError(t, Validate(CreateCycleCountRequest{Scope: "product", ProductID: "P"}))
	assert.NoError(t, Validate(CreateCycleCountRequest{Scope: "location", LocationID: "A"}))
	assert.Error(t, Validate(CreateCycleCountRequest{Scope: "product"}))
	assert.Error(t, Validate(CreateCycleCountRequest{Scope: "product", ProductID: "P", LocationID: "A"}))
	assert.Error(t, Validate(CreateCycleCountRequest{Scope: "warehouse", ProductID: "P"}))
}

func TestValidate_RecordCountRequest(t *testing.T) {
	zero := int64(0)
	assert.NoError(t, Validate(RecordCountRequest{CountedDelta: &zero}))
	assert.Error(t, Validate(RecordCountRequest{}))
}

func TestPageRequest_DefaultPage(t *testing.T) {
	p := PageRequest{}
	p.DefaultPage()
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 0, p.Offset)
}
