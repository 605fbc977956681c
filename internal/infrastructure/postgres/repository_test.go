package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// execQuerier registra la última sentencia y responde a Exec con execErr.
type execQuerier struct {
	execErr error
	sql     string
	args    []any
}

func (q *execQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql, q.args = sql, args
	if q.execErr != nil {
		return pgconn.CommandTag{}, q.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (q *execQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("no implementado")
}

func (q *execQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestOutboundRepo_CreateAssignmentDuplicada(t *testing.T) {
	tests := []struct {
		name      string
		execErr   error
		duplicate bool
	}{
		{"ok", nil, false},
		{"índice único parcial", &pgconn.PgError{Code: "23505", ConstraintName: "uq_outbound_supply_active"}, true},
		{"otra violación", &pgconn.PgError{Code: "23503"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &execQuerier{execErr: tt.execErr}
			a := &entity.OutboundSupplyAssignment{LineID: "L1", ProductID: "P1", LocationID: "binX", Quantity: 3, Actor: "u"}

			err := NewOutboundRepository(q).CreateAssignment(context.Background(), a)

			assert.NotEmpty(t, a.ID)
			assert.Contains(t, q.sql, "INSERT INTO outbound_supply_assignments")
			require.Len(t, q.args, 8)
			assert.Equal(t, a.ID, q.args[0])
			if tt.execErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.duplicate, errors.Is(err, domain.ErrDuplicateLocationAssignment))
			if !tt.duplicate {
				var pgErr *pgconn.PgError
				assert.True(t, errors.As(err, &pgErr))
			}
		})
	}
}

func TestInboundRepo_CreateAssignmentDuplicada(t *testing.T) {
	q := &execQuerier{execErr: &pgconn.PgError{Code: "23505"}}
	a := &entity.InboundSortAssignment{ID: "A1", LineID: "L1", LocationID: "binX", Quantity: 2, Actor: "u"}

	err := NewInboundRepository(q).CreateAssignment(context.Background(), a)

	assert.ErrorIs(t, err, domain.ErrDuplicateLocationAssignment)
	assert.Equal(t, "A1", a.ID)
	assert.Contains(t, q.sql, "INSERT INTO inbound_sort_assignments")
}
