package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrTxConflict   = errors.New("conflicto de transacción concurrente")

	// Invariantes de cantidad.
	ErrInsufficientStock           = errors.New("stock insuficiente")
	ErrInsufficientFreeStock       = errors.New("stock libre insuficiente en la ubicación")
	ErrOverAllocation              = errors.New("la cantidad excede lo pendiente por asignar")
	ErrDuplicateLocationAssignment = errors.New("la ubicación ya tiene una asignación para esta línea")
	ErrLedgerDrift                 = errors.New("el saldo no coincide con la suma de movimientos")

	// Estado de flujo.
	ErrWrongLineState    = errors.New("la línea no admite la operación en su estado actual")
	ErrAlreadyApplied    = errors.New("la línea ya fue aplicada al ledger")
	ErrNotFullyAllocated = errors.New("la línea no está completamente asignada")
	ErrAlreadySupplied   = errors.New("la línea ya está completamente surtida")
	ErrNotOpen           = errors.New("el conteo cíclico no está abierto")

	// Alcance.
	ErrEmptyScope = errors.New("el alcance del conteo no tiene existencias")
)

// Kind clasifica un error de dominio para que la capa de transporte decida la respuesta.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvariantViolation
	KindStateViolation
	KindScopeViolation
	KindNotFound
	KindInvalidInput
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvariantViolation:
		return "invariant_violation"
	case KindStateViolation:
		return "state_violation"
	case KindScopeViolation:
		return "scope_violation"
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInsufficientStock, KindInvariantViolation},
	{ErrInsufficientFreeStock, KindInvariantViolation},
	{ErrOverAllocation, KindInvariantViolation},
	{ErrDuplicateLocationAssignment, KindInvariantViolation},
	{ErrLedgerDrift, KindInvariantViolation},
	{ErrWrongLineState, KindStateViolation},
	{ErrAlreadyApplied, KindStateViolation},
	{ErrNotFullyAllocated, KindStateViolation},
	{ErrAlreadySupplied, KindStateViolation},
	{ErrNotOpen, KindStateViolation},
	{ErrEmptyScope, KindScopeViolation},
	{ErrNotFound, KindNotFound},
	{ErrInvalidInput, KindInvalidInput},
	{ErrTxConflict, KindConflict},
}

// KindOf devuelve la clase de un error (respeta errores envueltos con %w).
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}
