// Package inbound implementa el acomodo (sorting) de líneas de entrada en ubicaciones.
//
// A diferencia de outbound, las asignaciones NO tocan el ledger: la mercancía no existe
// en stock hasta que la línea está completamente acomodada. Commit es el único punto en
// que las asignaciones se convierten en aumentos del ledger, todos en una sola transacción.
package inbound

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
	"github.com/jhoicas/wms-ledger/pkg/logger"
	"github.com/jhoicas/wms-ledger/pkg/metrics"
)

// SortUseCase asignador de entradas.
type SortUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	log      *logger.Logger
	metrics  *metrics.Engine
	now      func() time.Time
}

// NewSortUseCase construye el caso de uso.
func NewSortUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, log *logger.Logger, m *metrics.Engine) *SortUseCase {
	return &SortUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		log:      log.Component("inbound"),
		metrics:  m,
		now:      time.Now,
	}
}

// AssignInput datos para asignar unidades recibidas a una ubicación.
type AssignInput struct {
	LineID     string
	LocationID string
	Quantity   int64
	Actor      string
}

// LineView línea con sus asignaciones y totales calculados.
type LineView struct {
	Line        *entity.InboundLine
	Assignments []*entity.InboundSortAssignment
	Assigned    int64
	Remaining   int64
}

// Receive registra la cantidad física recibida. Sólo mientras la línea no tiene asignaciones.
func (uc *SortUseCase) Receive(ctx context.Context, lineID string, actual int64, actor string) (*LineView, error) {
	if lineID == "" || actor == "" || actual <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var view *LineView
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		line, header, err := lockLine(ctx, repos, lineID)
		if err != nil {
			return err
		}
		if line.SortState != entity.SortPending {
			return domain.ErrWrongLineState
		}
		if header.Status != entity.InboundReceiving && header.Status != entity.InboundSorting {
			return domain.ErrWrongLineState
		}
		assigned, err := repos.Inbound.SumAssignments(ctx, lineID)
		if err != nil {
			return err
		}
		if assigned > 0 {
			return domain.ErrWrongLineState
		}
		line.ActualQuantity = &actual
		line.UpdatedAt = uc.now()
		line.RecomputeSortState(0)
		if err := repos.Inbound.UpdateLine(ctx, line); err != nil {
			return err
		}
		view, err = buildView(ctx, repos, line)
		return err
	})
	uc.metrics.Operation("inbound_receive", inventory.Outcome(err))
	return view, err
}

// Assign asigna unidades a una ubicación y recalcula SortState
// (SUBMITTED si la suma de asignaciones iguala la cantidad recibida).
func (uc *SortUseCase) Assign(ctx context.Context, in AssignInput) (*LineView, error) {
	if in.LineID == "" || in.LocationID == "" || in.Actor == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var view *LineView
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		line, err := lockSortableLine(ctx, repos, in.LineID)
		if err != nil {
			return err
		}
		existing, err := repos.Inbound.GetAssignment(ctx, in.LineID, in.LocationID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateLocationAssignment
		}
		assigned, err := repos.Inbound.SumAssignments(ctx, in.LineID)
		if err != nil {
			return err
		}
		if remaining := line.Actual() - assigned; in.Quantity > remaining {
			return fmt.Errorf("assign %d a %s (pendiente %d): %w", in.Quantity, in.LocationID, remaining, domain.ErrOverAllocation)
		}
		now := uc.now()
		if err := repos.Inbound.CreateAssignment(ctx, &entity.InboundSortAssignment{
			LineID:     in.LineID,
			LocationID: in.LocationID,
			Quantity:   in.Quantity,
			Actor:      in.Actor,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		line.RecomputeSortState(assigned + in.Quantity)
		line.UpdatedAt = now
		if err := repos.Inbound.UpdateLine(ctx, line); err != nil {
			return err
		}
		view, err = buildView(ctx, repos, line)
		return err
	})
	uc.metrics.Operation("inbound_assign", inventory.Outcome(err))
	if err != nil {
		uc.log.Warn().Err(err).Str("line_id", in.LineID).Str("location_id", in.LocationID).
			Int64("quantity", in.Quantity).Msg("asignación rechazada")
		return nil, err
	}
	return view, nil
}

// Unassign elimina la asignación de la ubicación; la línea vuelve a PENDING si deja de estar cubierta.
func (uc *SortUseCase) Unassign(ctx context.Context, lineID, locationID, actor string) (*LineView, error) {
	if lineID == "" || locationID == "" || actor == "" {
		return nil, domain.ErrInvalidInput
	}
	var view *LineView
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		line, err := lockSortableLine(ctx, repos, lineID)
		if err != nil {
			return err
		}
		a, err := repos.Inbound.GetAssignment(ctx, lineID, locationID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if err := repos.Inbound.DeleteAssignment(ctx, a.ID); err != nil {
			return err
		}
		assigned, err := repos.Inbound.SumAssignments(ctx, lineID)
		if err != nil {
			return err
		}
		line.RecomputeSortState(assigned)
		line.UpdatedAt = uc.now()
		if err := repos.Inbound.UpdateLine(ctx, line); err != nil {
			return err
		}
		view, err = buildView(ctx, repos, line)
		return err
	})
	uc.metrics.Operation("inbound_unassign", inventory.Outcome(err))
	return view, err
}

// Commit aplica todas las asignaciones al ledger (SourceType=inbound) y marca la línea APPLIED.
// Todo o nada: si un aumento falla, la transacción completa se revierte.
func (uc *SortUseCase) Commit(ctx context.Context, lineID, actor string) (*LineView, error) {
	if lineID == "" || actor == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		view *LineView
		movs []*entity.StockMovement
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		line, header, err := lockLine(ctx, repos, lineID)
		if err != nil {
			return err
		}
		if line.SortState == entity.SortApplied {
			return domain.ErrAlreadyApplied
		}
		if line.SortState != entity.SortSubmitted {
			return domain.ErrNotFullyAllocated
		}
		assignments, err := repos.Inbound.ListAssignments(ctx, lineID)
		if err != nil {
			return err
		}
		var assigned int64
		for _, a := range assignments {
			assigned += a.Quantity
		}
		// La proyección SortState podría estar desfasada; la suma manda.
		if assigned != line.Actual() || assigned == 0 {
			return domain.ErrNotFullyAllocated
		}
		for _, a := range assignments {
			mov, err := uc.ledger.Increase(ctx, repos, inventory.MovementInput{
				ProductID:   line.ProductID,
				LocationID:  a.LocationID,
				Quantity:    a.Quantity,
				SourceType:  entity.SourceInbound,
				SourceID:    &line.ID,
				Description: "acomodo de entrada " + header.ID,
				Actor:       actor,
			})
			if err != nil {
				return err
			}
			movs = append(movs, mov)
		}
		line.SortState = entity.SortApplied
		line.UpdatedAt = uc.now()
		if err := repos.Inbound.UpdateLine(ctx, line); err != nil {
			return err
		}
		view = &LineView{Line: line, Assignments: assignments, Assigned: assigned}
		return nil
	})
	uc.metrics.Operation("inbound_commit", inventory.Outcome(err))
	if err != nil {
		uc.log.Warn().Err(err).Str("line_id", lineID).Msg("commit de acomodo rechazado")
		return nil, err
	}
	for _, m := range movs {
		uc.metrics.Movement(string(m.SourceType), m.Quantity)
	}
	uc.log.Info().Str("line_id", lineID).Str("actor", actor).
		Int64("quantity", view.Assigned).Int("locations", len(movs)).Msg("línea de entrada aplicada")
	return view, nil
}

// Get devuelve la línea con sus asignaciones.
func (uc *SortUseCase) Get(ctx context.Context, lineID string) (*LineView, error) {
	var view *LineView
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		line, err := repos.Inbound.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		view, err = buildView(ctx, repos, line)
		return err
	})
	return view, err
}

func lockLine(ctx context.Context, repos repository.Repos, lineID string) (*entity.InboundLine, *entity.Inbound, error) {
	line, err := repos.Inbound.GetLineForUpdate(ctx, lineID)
	if err != nil {
		return nil, nil, err
	}
	if line == nil {
		return nil, nil, domain.ErrNotFound
	}
	header, err := repos.Inbound.Get(ctx, line.InboundID)
	if err != nil {
		return nil, nil, err
	}
	if header == nil {
		return nil, nil, domain.ErrNotFound
	}
	return line, header, nil
}

// lockSortableLine bloquea la línea y exige que la entrada esté en fase de acomodo.
func lockSortableLine(ctx context.Context, repos repository.Repos, lineID string) (*entity.InboundLine, error) {
	line, header, err := lockLine(ctx, repos, lineID)
	if err != nil {
		return nil, err
	}
	if line.SortState == entity.SortApplied || header.Status != entity.InboundSorting {
		return nil, domain.ErrWrongLineState
	}
	return line, nil
}

func buildView(ctx context.Context, repos repository.Repos, line *entity.InboundLine) (*LineView, error) {
	assignments, err := repos.Inbound.ListAssignments(ctx, line.ID)
	if err != nil {
		return nil, err
	}
	var assigned int64
	for _, a := range assignments {
		assigned += a.Quantity
	}
	remaining := line.Actual() - assigned
	if line.SortState == entity.SortApplied {
		remaining = 0
	}
	return &LineView{Line: line, Assignments: assignments, Assigned: assigned, Remaining: remaining}, nil
}
