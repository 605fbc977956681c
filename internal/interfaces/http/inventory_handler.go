package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// InventoryHandler movimientos directos y consultas del ledger (protegido).
type InventoryHandler struct {
	uc *inventory.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement POST /api/stock/movements
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.RegisterMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	movs, err := h.uc.RegisterMovement(c.UserContext(), inventory.MovementInputDTO{
		UserID:         userID,
		ProductID:      in.ProductID,
		LocationID:     in.LocationID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		SourceType:     entity.SourceType(in.SourceType),
		SourceID:       in.SourceID,
		Description:    in.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movements": out})
}

// Balance GET /api/stock/balance?product_id=&location_id=
func (h *InventoryHandler) Balance(c *fiber.Ctx) error {
	productID, locationID := c.Query("product_id"), c.Query("location_id")
	qty, err := h.uc.BalanceOf(c.UserContext(), productID, locationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BalanceResponse{ProductID: productID, LocationID: locationID, Quantity: qty})
}

// TotalByProduct GET /api/stock/products/:id/total
func (h *InventoryHandler) TotalByProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	qty, err := h.uc.TotalByProduct(c.UserContext(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TotalResponse{ProductID: productID, Quantity: qty})
}

// TotalByLocation GET /api/stock/locations/:id/total
func (h *InventoryHandler) TotalByLocation(c *fiber.Ctx) error {
	locationID := c.Params("id")
	qty, err := h.uc.TotalByLocation(c.UserContext(), locationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TotalResponse{LocationID: locationID, Quantity: qty})
}

// History GET /api/stock/history?product_id=&location_id=&limit=&offset=
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	if err := dto.Validate(page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit debe estar entre 1 y 500"})
	}
	page.DefaultPage()
	list, err := h.uc.History(c.UserContext(), c.Query("product_id"), c.Query("location_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(dto.HistoryResponse{
		Movements: out,
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Verify GET /api/stock/verify?product_id=&location_id=
func (h *InventoryHandler) Verify(c *fiber.Ctx) error {
	if err := h.uc.Verify(c.UserContext(), c.Query("product_id"), c.Query("location_id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"consistent": true})
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		LocationID:  m.LocationID,
		Quantity:    m.Quantity,
		SourceType:  string(m.SourceType),
		SourceID:    m.SourceID,
		Description: m.Description,
		Actor:       m.Actor,
		CreatedAt:   m.CreatedAt,
	}
}
