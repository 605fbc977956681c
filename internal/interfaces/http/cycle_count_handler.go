package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ledger/internal/application/cyclecount"
	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// CycleCountHandler conteos cíclicos (protegido; aplicar y rechazar requieren rol).
type CycleCountHandler struct {
	uc *cyclecount.ReconcileUseCase
}

// NewCycleCountHandler construye el handler.
func NewCycleCountHandler(uc *cyclecount.ReconcileUseCase) *CycleCountHandler {
	return &CycleCountHandler{uc: uc}
}

// Create POST /api/cycle-counts
func (h *CycleCountHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateCycleCountRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	view, err := h.uc.Create(c.UserContext(), cyclecount.CreateInput{
		Scope:      entity.CycleCountScope(in.Scope),
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Actor:      userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCycleCountResponse(view))
}

// Get GET /api/cycle-counts/:id
func (h *CycleCountHandler) Get(c *fiber.Ctx) error {
	view, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCycleCountResponse(view))
}

// RecordCount PUT /api/cycle-counts/differences/:id
func (h *CycleCountHandler) RecordCount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.RecordCountRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	d, err := h.uc.RecordCount(c.UserContext(), c.Params("id"), *in.CountedDelta, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toDifferenceResponse(d))
}

// Apply POST /api/cycle-counts/:id/apply
func (h *CycleCountHandler) Apply(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	view, err := h.uc.Apply(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCycleCountResponse(view))
}

// Reject POST /api/cycle-counts/:id/reject
func (h *CycleCountHandler) Reject(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	view, err := h.uc.Reject(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCycleCountResponse(view))
}

func toCycleCountResponse(v *cyclecount.CountView) dto.CycleCountResponse {
	cc := v.CycleCount
	out := dto.CycleCountResponse{
		ID:          cc.ID,
		Scope:       string(cc.Scope),
		ProductID:   cc.ProductID,
		LocationID:  cc.LocationID,
		State:       string(cc.State),
		CreatedBy:   cc.CreatedBy,
		ApprovedBy:  cc.ApprovedBy,
		CreatedAt:   cc.CreatedAt,
		ClosedAt:    cc.ClosedAt,
		Differences: make([]dto.DifferenceResponse, 0, len(v.Differences)),
	}
	for _, d := range v.Differences {
		out.Differences = append(out.Differences, toDifferenceResponse(d))
	}
	return out
}

func toDifferenceResponse(d *entity.CycleCountDifference) dto.DifferenceResponse {
	return dto.DifferenceResponse{
		ID:               d.ID,
		ProductID:        d.ProductID,
		LocationID:       d.LocationID,
		ExpectedQuantity: d.ExpectedQuantity,
		CountedDelta:     d.CountedDelta,
		Counter:          d.Counter,
		AppliedQuantity:  d.AppliedQuantity,
	}
}
