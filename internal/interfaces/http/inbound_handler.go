package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/application/inbound"
)

// InboundHandler acomodo de líneas de entrada (protegido).
type InboundHandler struct {
	uc *inbound.SortUseCase
}

// NewInboundHandler construye el handler.
func NewInboundHandler(uc *inbound.SortUseCase) *InboundHandler {
	return &InboundHandler{uc: uc}
}

// GetLine GET /api/inbound/lines/:id
func (h *InboundHandler) GetLine(c *fiber.Ctx) error {
	view, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInboundLineResponse(view))
}

// Receive POST /api/inbound/lines/:id/receive
func (h *InboundHandler) Receive(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ReceiveRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	view, err := h.uc.Receive(c.UserContext(), c.Params("id"), in.ActualQuantity, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInboundLineResponse(view))
}

// Assign POST /api/inbound/lines/:id/assignments
func (h *InboundHandler) Assign(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.AssignRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	view, err := h.uc.Assign(c.UserContext(), inbound.AssignInput{
		LineID:     c.Params("id"),
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		Actor:      userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInboundLineResponse(view))
}

// Unassign DELETE /api/inbound/lines/:id/assignments/:location
func (h *InboundHandler) Unassign(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	view, err := h.uc.Unassign(c.UserContext(), c.Params("id"), c.Params("location"), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInboundLineResponse(view))
}

// Commit POST /api/inbound/lines/:id/commit
func (h *InboundHandler) Commit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	view, err := h.uc.Commit(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInboundLineResponse(view))
}

func toInboundLineResponse(v *inbound.LineView) dto.InboundLineResponse {
	out := dto.InboundLineResponse{
		ID:                v.Line.ID,
		InboundID:         v.Line.InboundID,
		ProductID:         v.Line.ProductID,
		RequestedQuantity: v.Line.RequestedQuantity,
		ActualQuantity:    v.Line.ActualQuantity,
		SortState:         string(v.Line.SortState),
		Assigned:          v.Assigned,
		Remaining:         v.Remaining,
		Assignments:       make([]dto.SortAssignmentResponse, 0, len(v.Assignments)),
	}
	for _, a := range v.Assignments {
		out.Assignments = append(out.Assignments, dto.SortAssignmentResponse{
			ID:         a.ID,
			LocationID: a.LocationID,
			Quantity:   a.Quantity,
			Actor:      a.Actor,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out
}
