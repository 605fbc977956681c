package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/wms-ledger/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isSerializationFailure 40001 serialization_failure, 40P01 deadlock_detected.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// mapTxError traduce fallos de concurrencia a domain.ErrTxConflict; el resto pasa tal cual.
func mapTxError(err error) error {
	if err == nil || errors.Is(err, domain.ErrTxConflict) {
		return err
	}
	if isSerializationFailure(err) {
		return fmt.Errorf("%w: %v", domain.ErrTxConflict, err)
	}
	return err
}

// nullString '' se guarda como NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNull(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
