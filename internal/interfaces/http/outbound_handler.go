package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/application/outbound"
)

// OutboundHandler surtido de líneas de salida (protegido).
type OutboundHandler struct {
	uc *outbound.SupplyUseCase
}

// NewOutboundHandler construye el handler.
func NewOutboundHandler(uc *outbound.SupplyUseCase) *OutboundHandler {
	return &OutboundHandler{uc: uc}
}

// SupplyState GET /api/outbound/lines/:id/supply-state
func (h *OutboundHandler) SupplyState(c *fiber.Ctx) error {
	state, err := h.uc.SupplyState(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSupplyStateResponse(state))
}

// Supply POST /api/outbound/lines/:id/supplies
func (h *OutboundHandler) Supply(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.SupplyRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	state, err := h.uc.Supply(c.UserContext(), outbound.SupplyInput{
		LineID:     c.Params("id"),
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		Actor:      userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSupplyStateResponse(state))
}

// RevertSupply DELETE /api/outbound/lines/:id/supplies/:location
func (h *OutboundHandler) RevertSupply(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	state, err := h.uc.RevertSupply(c.UserContext(), c.Params("id"), c.Params("location"), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSupplyStateResponse(state))
}

func toSupplyStateResponse(s *outbound.SupplyState) dto.SupplyStateResponse {
	out := dto.SupplyStateResponse{
		LineID:            s.Line.ID,
		OutboundID:        s.Line.OutboundID,
		ProductID:         s.Line.ProductID,
		Quantity:          s.Line.Quantity,
		Supplied:          s.Line.Supplied,
		SuppliedQuantity:  s.SuppliedQuantity,
		FreeQuantity:      s.FreeQuantity,
		RemainingQuantity: s.RemainingQuantity,
		Locations:         make([]dto.LocationSupplyResponse, 0, len(s.Locations)),
	}
	for _, l := range s.Locations {
		out.Locations = append(out.Locations, dto.LocationSupplyResponse{
			LocationID:       l.LocationID,
			FreeQuantity:     l.FreeQuantity,
			SuppliedQuantity: l.SuppliedQuantity,
		})
	}
	return out
}
