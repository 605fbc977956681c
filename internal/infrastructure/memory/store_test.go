package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

func TestStore_RunConfirmaCambios(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		b, err := r.Balances.GetForUpdate(ctx, "P1", "A")
		require.NoError(t, err)
		b.Quantity = 5
		return r.Balances.Upsert(ctx, b)
	}))

	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		b, err := r.Balances.Get(ctx, "P1", "A")
		require.NoError(t, err)
		assert.Equal(t, int64(5), b.Quantity)
		return nil
	}))
}

func TestStore_RunDescartaSiFalla(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		b, _ := r.Balances.GetForUpdate(ctx, "P1", "A")
		b.Quantity = 9
		_ = r.Balances.Upsert(ctx, b)
		_ = r.Movements.Create(ctx, &entity.StockMovement{ProductID: "P1", LocationID: "A", Quantity: 9})
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		b, _ := r.Balances.Get(ctx, "P1", "A")
		assert.Zero(t, b.Quantity)
		sum, _ := r.Movements.SumByProductLocation(ctx, "P1", "A")
		assert.Zero(t, sum)
		return nil
	}))
}

func TestStore_ContextoCancelado(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx, func(context.Context, repository.Repos) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBalanceRepo_ListOmiteCeros(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		for _, b := range []*entity.LocationBalance{
			{ProductID: "P1", LocationID: "B", Quantity: 3},
			{ProductID: "P1", LocationID: "A", Quantity: 2},
			{ProductID: "P1", LocationID: "C", Quantity: 0},
			{ProductID: "P2", LocationID: "A", Quantity: 4},
		} {
			require.NoError(t, r.Balances.Upsert(ctx, b))
		}
		list, err := r.Balances.ListByProduct(ctx, "P1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "A", list[0].LocationID)
		assert.Equal(t, "B", list[1].LocationID)

		total, _ := r.Balances.SumByLocation(ctx, "A")
		assert.Equal(t, int64(6), total)
		return nil
	}))
}

func TestMovementRepo_ListRecientesPrimero(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		for _, q := range []int64{1, 2, 3, 4} {
			require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{ProductID: "P", LocationID: "L", Quantity: q}))
		}
		list, err := r.Movements.ListByProductLocation(ctx, "P", "L", 2, 1)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, int64(3), list[0].Quantity)
		assert.Equal(t, int64(2), list[1].Quantity)
		return nil
	}))
}

func TestInboundRepo_AsignacionDuplicada(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		require.NoError(t, r.Inbound.Create(ctx, &entity.Inbound{ID: "IN1", Status: entity.InboundSorting}))
		require.NoError(t, r.Inbound.CreateLine(ctx, &entity.InboundLine{ID: "L1", InboundID: "IN1", ProductID: "P"}))
		require.NoError(t, r.Inbound.CreateAssignment(ctx, &entity.InboundSortAssignment{LineID: "L1", LocationID: "A", Quantity: 1}))
		err := r.Inbound.CreateAssignment(ctx, &entity.InboundSortAssignment{LineID: "L1", LocationID: "A", Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrDuplicateLocationAssignment)
		return nil
	}))
}

func TestOutboundRepo_BorradoLogico(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		require.NoError(t, r.Outbound.Create(ctx, &entity.Outbound{ID: "O1", Status: entity.OutboundSupplying}))
		require.NoError(t, r.Outbound.CreateLine(ctx, &entity.OutboundLine{ID: "L1", OutboundID: "O1", ProductID: "P", Quantity: 5}))
		a := &entity.OutboundSupplyAssignment{LineID: "L1", ProductID: "P", LocationID: "A", Quantity: 3}
		require.NoError(t, r.Outbound.CreateAssignment(ctx, a))

		sum, _ := r.Outbound.SumActiveAssignments(ctx, "L1")
		assert.Equal(t, int64(3), sum)

		require.NoError(t, r.Outbound.SoftDeleteAssignment(ctx, a.ID, a.CreatedAt))
		sum, _ = r.Outbound.SumActiveAssignments(ctx, "L1")
		assert.Zero(t, sum)
		got, _ := r.Outbound.GetActiveAssignment(ctx, "L1", "A")
		assert.Nil(t, got)

		// Tras revertir, la ubicación admite una nueva asignación.
		assert.NoError(t, r.Outbound.CreateAssignment(ctx, &entity.OutboundSupplyAssignment{LineID: "L1", ProductID: "P", LocationID: "A", Quantity: 1}))
		return nil
	}))
}
