package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/domain"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrInsufficientStock, "INSUFFICIENT_STOCK"},
	{domain.ErrInsufficientFreeStock, "INSUFFICIENT_FREE_STOCK"},
	{domain.ErrOverAllocation, "OVER_ALLOCATION"},
	{domain.ErrDuplicateLocationAssignment, "DUPLICATE_LOCATION_ASSIGNMENT"},
	{domain.ErrLedgerDrift, "LEDGER_DRIFT"},
	{domain.ErrWrongLineState, "WRONG_LINE_STATE"},
	{domain.ErrAlreadyApplied, "ALREADY_APPLIED"},
	{domain.ErrNotFullyAllocated, "NOT_FULLY_ALLOCATED"},
	{domain.ErrAlreadySupplied, "ALREADY_SUPPLIED"},
	{domain.ErrNotOpen, "NOT_OPEN"},
	{domain.ErrEmptyScope, "EMPTY_SCOPE"},
	{domain.ErrNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, "VALIDATION"},
	{domain.ErrTxConflict, "TX_CONFLICT"},
}

func errorCode(err error) string {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return "INTERNAL"
}

// statusFor invariantes y estado 409, alcance 422, inexistente 404, entrada 400, conflicto 409.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindInvariantViolation, domain.KindStateViolation, domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindScopeViolation:
		return fiber.StatusUnprocessableEntity
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindInvalidInput:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError traduce un error de caso de uso a dto.ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	msg := err.Error()
	if kind == domain.KindUnknown {
		msg = "error interno"
	}
	return c.Status(statusFor(kind)).JSON(dto.ErrorResponse{Code: errorCode(err), Message: msg})
}

// parseBody decodifica y valida el cuerpo; responde 400 si falla. Devuelve false si ya respondió.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(out); err != nil {
		var verrs validator.ValidationErrors
		msg := "datos inválidos"
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msg = "campo inválido: " + verrs[0].Field() + " (" + verrs[0].Tag() + ")"
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
	}
	return true, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
