package inbound_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ledger/internal/application/inbound"
	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
	"github.com/jhoicas/wms-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/wms-ledger/pkg/logger"
	"github.com/jhoicas/wms-ledger/pkg/metrics"
)

const (
	sorter  = "sorter-1"
	product = "P"
)

type fixture struct {
	store *memory.Store
	uc    *inbound.SortUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		store: store,
		uc:    inbound.NewSortUseCase(store, inventory.NewLedger(), logger.Nop(), metrics.New("test")),
	}
}

// seedLine crea una entrada en el estado indicado con una línea recibida (actual=nil si actual<0).
func (f *fixture) seedLine(t *testing.T, status entity.InboundStatus, actual int64) string {
	t.Helper()
	line := &entity.InboundLine{InboundID: "IN-1", ProductID: product, RequestedQuantity: 10}
	if actual >= 0 {
		line.ActualQuantity = &actual
	}
	require.NoError(t, f.store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		if h, _ := r.Inbound.Get(ctx, "IN-1"); h == nil {
			if err := r.Inbound.Create(ctx, &entity.Inbound{ID: "IN-1", Status: status}); err != nil {
				return err
			}
		}
		return r.Inbound.CreateLine(ctx, line)
	}))
	return line.ID
}

func (f *fixture) setStatus(t *testing.T, status entity.InboundStatus) {
	t.Helper()
	require.NoError(t, f.store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		return r.Inbound.UpdateStatus(ctx, "IN-1", status)
	}))
}

func (f *fixture) balance(t *testing.T, location string) int64 {
	t.Helper()
	var qty int64
	require.NoError(t, f.store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		b, err := r.Balances.Get(ctx, product, location)
		qty = b.Quantity
		return err
	}))
	return qty
}

func (f *fixture) assign(t *testing.T, lineID, location string, qty int64) *inbound.LineView {
	t.Helper()
	view, err := f.uc.Assign(context.Background(), inbound.AssignInput{LineID: lineID, LocationID: location, Quantity: qty, Actor: sorter})
	require.NoError(t, err)
	return view
}

func TestSort_EscenarioCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lineID := f.seedLine(t, entity.InboundSorting, 7)

	view := f.assign(t, lineID, "binA", 2)
	assert.Equal(t, entity.SortPending, view.Line.SortState)
	assert.Equal(t, int64(5), view.Remaining)

	view = f.assign(t, lineID, "binB", 5)
	assert.Equal(t, entity.SortSubmitted, view.Line.SortState)
	assert.Zero(t, view.Remaining)
	assert.Zero(t, f.balance(t, "binA"), "asignar no toca el ledger")

	view, err := f.uc.Commit(ctx, lineID, sorter)
	require.NoError(t, err)
	assert.Equal(t, entity.SortApplied, view.Line.SortState)
	assert.Equal(t, int64(2), f.balance(t, "binA"))
	assert.Equal(t, int64(5), f.balance(t, "binB"))

	_, err = f.uc.Commit(ctx, lineID, sorter)
	assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
	assert.Equal(t, int64(2), f.balance(t, "binA"), "un segundo commit no duplica")

	require.NoError(t, f.store.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		movs, err := r.Movements.ListBySource(ctx, entity.SourceInbound, lineID)
		require.NoError(t, err)
		assert.Len(t, movs, 2)
		for _, m := range movs {
			assert.Equal(t, sorter, m.Actor)
		}
		return nil
	}))
}

func TestSort_CommitSinCompletar(t *testing.T) {
	f := newFixture(t)
	lineID := f.seedLine(t, entity.InboundSorting, 7)
	f.assign(t, lineID, "binA", 6)

	_, err := f.uc.Commit(context.Background(), lineID, sorter)
	assert.ErrorIs(t, err, domain.ErrNotFullyAllocated)
	assert.Zero(t, f.balance(t, "binA"))
}

func TestSort_AssignFueraDeFase(t *testing.T) {
	f := newFixture(t)
	lineID := f.seedLine(t, entity.InboundReceiving, 7)

	_, err := f.uc.Assign(context.Background(), inbound.AssignInput{LineID: lineID, LocationID: "binA", Quantity: 1, Actor: sorter})
	assert.ErrorIs(t, err, domain.ErrWrongLineState)
}

func TestSort_AssignDuplicado(t *testing.T) {
	f := newFixture(t)
	lineID := f.seedLine(t, entity.InboundSorting, 7)
	f.assign(t, lineID, "binA", 1)

	_, err := f.uc.Assign(context.Background(), inbound.AssignInput{LineID: lineID, LocationID: "binA", Quantity: 1, Actor: sorter})
	assert.ErrorIs(t, err, domain.ErrDuplicateLocationAssignment)
}

func TestSort_SobreAsignacion(t *testing.T) {
	f := newFixture(t)
	lineID := f.seedLine(t, entity.InboundSorting, 7)
	f.assign(t, lineID, "binA", 5)

	_, err := f.uc.Assign(context.Background(), inbound.AssignInput{LineID: lineID, LocationID: "binB", Quantity: 3, Actor: sorter})
	assert.ErrorIs(t, err, domain.ErrOverAllocation)

	view, err := f.uc.Get(context.Background(), lineID)
	require.NoError(t, err)
	assert.Len(t, view.Assignments, 1)
	assert.Equal(t, int64(5), view.Assigned)
}

func TestSort_AssignSinRecepcion(t *testing.T) {
	f := newFixture(t)
	lineID := f.seedLine(t, entity.InboundSorting, -1)

	_, err := f.uc.Assign(context.Background(), inbound.AssignInput{LineID: lineID, LocationID: "binA", Quantity: 1, Actor: sorter})
	assert.ErrorIs(t, err, domain.ErrOverAllocation)
}

func TestSort_UnassignRegresaAPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lineID := f.seedLine(t, entity.InboundSorting, 4)
	f.assign(t, lineID, "binA", 1)
	view := f.assign(t, lineID, "binB", 3)
	require.Equal(t, entity.SortSubmitted, view.Line.SortState)

	view, err := f.uc.Unassign(ctx, lineID, "binB", sorter)
	require.NoError(t, err)
	assert.Equal(t, entity.SortPending, view.Line.SortState)
	assert.Equal(t, int64(3), view.Remaining)

	_, err = f.uc.Unassign(ctx, lineID, "binB", sorter)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// La ubicación puede volver a asignarse tras liberarla.
	view = f.assign(t, lineID, "binB", 3)
	assert.Equal(t, entity.SortSubmitted, view.Line.SortState)
}

func TestSort_UnassignTrasAplicar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lineID := f.seedLine(t, entity.InboundSorting, 2)
	f.assign(t, lineID, "binA", 2)
	_, err := f.uc.Commit(ctx, lineID, sorter)
	require.NoError(t, err)

	_, err = f.uc.Unassign(ctx, lineID, "binA", sorter)
	assert.ErrorIs(t, err, domain.ErrWrongLineState)
	_, err = f.uc.Assign(ctx, inbound.AssignInput{LineID: lineID, LocationID: "binC", Quantity: 1, Actor: sorter})
	assert.ErrorIs(t, err, domain.ErrWrongLineState)
}

// Si un aumento falla a mitad del commit no queda ningún aumento aplicado.
func TestSort_CommitTodoONada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lineID := f.seedLine(t, entity.InboundSorting, 3)
	f.assign(t, lineID, "binA", 1)
	f.assign(t, lineID, "binZ", 2)

	// binZ está al límite: el aumento desborda y falla.
	require.NoError(t, f.store.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		return r.Balances.Upsert(ctx, &entity.LocationBalance{ProductID: product, LocationID: "binZ", Quantity: math.MaxInt64})
	}))

	_, err := f.uc.Commit(ctx, lineID, sorter)
	require.Error(t, err)
	assert.Zero(t, f.balance(t, "binA"))

	view, err := f.uc.Get(ctx, lineID)
	require.NoError(t, err)
	assert.Equal(t, entity.SortSubmitted, view.Line.SortState)
}

func TestSort_Receive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lineID := f.seedLine(t, entity.InboundReceiving, -1)

	view, err := f.uc.Receive(ctx, lineID, 9, sorter)
	require.NoError(t, err)
	require.NotNil(t, view.Line.ActualQuantity)
	assert.Equal(t, int64(9), *view.Line.ActualQuantity)

	f.setStatus(t, entity.InboundSorting)
	f.assign(t, lineID, "binA", 1)
	_, err = f.uc.Receive(ctx, lineID, 10, sorter)
	assert.ErrorIs(t, err, domain.ErrWrongLineState, "no se corrige la recepción con asignaciones vivas")

	_, err = f.uc.Receive(ctx, lineID, 0, sorter)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSort_LineaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Commit(context.Background(), "nope", sorter)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
