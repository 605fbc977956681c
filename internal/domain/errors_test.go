package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/wms-ledger/internal/domain"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want domain.Kind
	}{
		{domain.ErrInsufficientStock, domain.KindInvariantViolation},
		{fmt.Errorf("supply: %w", domain.ErrInsufficientFreeStock), domain.KindInvariantViolation},
		{domain.ErrDuplicateLocationAssignment, domain.KindInvariantViolation},
		{domain.ErrAlreadyApplied, domain.KindStateViolation},
		{fmt.Errorf("apply: %w", domain.ErrNotOpen), domain.KindStateViolation},
		{domain.ErrEmptyScope, domain.KindScopeViolation},
		{domain.ErrNotFound, domain.KindNotFound},
		{domain.ErrTxConflict, domain.KindConflict},
		{errors.New("otro"), domain.KindUnknown},
		{nil, domain.KindUnknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, domain.KindOf(c.err), "error: %v", c.err)
	}
}
