package cyclecount

import (
	"context"
	"time"

	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
	"github.com/jhoicas/wms-ledger/pkg/logger"
	"github.com/jhoicas/wms-ledger/pkg/metrics"
)

// ReconcileUseCase conteos cíclicos: foto de esperado vs contado y cierre (aplicar o rechazar).
type ReconcileUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	log      *logger.Logger
	metrics  *metrics.Engine
	now      func() time.Time
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, log *logger.Logger, m *metrics.Engine) *ReconcileUseCase {
	return &ReconcileUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		log:      log.Component("cyclecount"),
		metrics:  m,
		now:      time.Now,
	}
}

// CreateInput alcance del conteo: un producto (todas sus ubicaciones) o una ubicación (todos sus productos).
type CreateInput struct {
	Scope      entity.CycleCountScope
	ProductID  string
	LocationID string
	Actor      string
}

// CountView conteo con sus diferencias.
type CountView struct {
	CycleCount  *entity.CycleCount
	Differences []*entity.CycleCountDifference
}

// Create toma la foto de saldos del alcance. Si no hay existencias falla con ErrEmptyScope
// y no persiste nada.
func (uc *ReconcileUseCase) Create(ctx context.Context, in CreateInput) (*CountView, error) {
	if in.Actor == "" {
		return nil, domain.ErrInvalidInput
	}
	switch in.Scope {
	case entity.ScopeProduct:
		if in.ProductID == "" || in.LocationID != "" {
			return nil, domain.ErrInvalidInput
		}
	case entity.ScopeLocation:
		if in.LocationID == "" || in.ProductID != "" {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	var view *CountView
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var (
			balances []*entity.LocationBalance
			err      error
		)
		if in.Scope == entity.ScopeProduct {
			balances, err = repos.Balances.ListByProduct(ctx, in.ProductID)
		} else {
			balances, err = repos.Balances.ListByLocation(ctx, in.LocationID)
		}
		if err != nil {
			return err
		}
		if len(balances) == 0 {
			return domain.ErrEmptyScope
		}

		now := uc.now()
		cc := &entity.CycleCount{
			Scope:      in.Scope,
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			State:      entity.CycleCountOpen,
			CreatedBy:  in.Actor,
			CreatedAt:  now,
		}
		if err := repos.CycleCounts.Create(ctx, cc); err != nil {
			return err
		}
		view = &CountView{CycleCount: cc}
		for _, b := range balances {
			d := &entity.CycleCountDifference{
				CycleCountID:     cc.ID,
				ProductID:        b.ProductID,
				LocationID:       b.LocationID,
				ExpectedQuantity: b.Quantity,
				UpdatedAt:        now,
			}
			if err := repos.CycleCounts.CreateDifference(ctx, d); err != nil {
				return err
			}
			view.Differences = append(view.Differences, d)
		}
		return nil
	})
	uc.metrics.Operation("cyclecount_create", inventory.Outcome(err))
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("cycle_count_id", view.CycleCount.ID).Str("scope", string(in.Scope)).
		Int("differences", len(view.Differences)).Msg("conteo cíclico creado")
	return view, nil
}

// RecordCount registra la diferencia contada (contado - esperado) de una fila.
func (uc *ReconcileUseCase) RecordCount(ctx context.Context, differenceID string, delta int64, actor string) (*entity.CycleCountDifference, error) {
	if differenceID == "" || actor == "" {
		return nil, domain.ErrInvalidInput
	}
	var diff *entity.CycleCountDifference
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		d, err := repos.CycleCounts.GetDifference(ctx, differenceID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if _, err := lockOpen(ctx, repos, d.CycleCountID); err != nil {
			return err
		}
		if d.ExpectedQuantity+delta < 0 {
			return domain.ErrInvalidInput
		}
		d.CountedDelta = delta
		d.Counter = actor
		d.UpdatedAt = uc.now()
		if err := repos.CycleCounts.UpdateDifference(ctx, d); err != nil {
			return err
		}
		diff = d
		return nil
	})
	uc.metrics.Operation("cyclecount_record", inventory.Outcome(err))
	return diff, err
}

// Apply aplica al ledger cada diferencia no nula (SourceType=cycle-count) y cierra el conteo
// como APPLIED. Si un ajuste falla se revierte todo y el conteo sigue OPEN.
func (uc *ReconcileUseCase) Apply(ctx context.Context, id, actor string) (*CountView, error) {
	var movs []*entity.StockMovement
	view, err := uc.closeCount(ctx, id, actor, entity.CycleCountApplied, func(ctx context.Context, repos repository.Repos, cc *entity.CycleCount, d *entity.CycleCountDifference) error {
		if d.CountedDelta == 0 {
			return nil
		}
		in := inventory.MovementInput{
			ProductID:   d.ProductID,
			LocationID:  d.LocationID,
			SourceType:  entity.SourceCycleCount,
			SourceID:    &cc.ID,
			Description: "ajuste por conteo cíclico",
			Actor:       actor,
		}
		var (
			mov *entity.StockMovement
			err error
		)
		if d.CountedDelta > 0 {
			in.Quantity = d.CountedDelta
			mov, err = uc.ledger.Increase(ctx, repos, in)
		} else {
			in.Quantity = -d.CountedDelta
			mov, err = uc.ledger.Decrease(ctx, repos, in)
		}
		if err != nil {
			return err
		}
		movs = append(movs, mov)
		return nil
	})
	uc.metrics.Operation("cyclecount_apply", inventory.Outcome(err))
	if err != nil {
		return nil, err
	}
	for _, m := range movs {
		uc.metrics.Movement(string(m.SourceType), m.Quantity)
	}
	uc.log.Info().Str("cycle_count_id", id).Str("actor", actor).Int("adjustments", len(movs)).Msg("conteo cíclico aplicado")
	return view, nil
}

// Reject cierra el conteo como REJECTED sin tocar el ledger.
func (uc *ReconcileUseCase) Reject(ctx context.Context, id, actor string) (*CountView, error) {
	view, err := uc.closeCount(ctx, id, actor, entity.CycleCountRejected, nil)
	uc.metrics.Operation("cyclecount_reject", inventory.Outcome(err))
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("cycle_count_id", id).Str("actor", actor).Msg("conteo cíclico rechazado")
	return view, nil
}

// Get devuelve el conteo y sus diferencias.
func (uc *ReconcileUseCase) Get(ctx context.Context, id string) (*CountView, error) {
	var view *CountView
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		cc, err := repos.CycleCounts.Get(ctx, id)
		if err != nil {
			return err
		}
		if cc == nil {
			return domain.ErrNotFound
		}
		diffs, err := repos.CycleCounts.ListDifferences(ctx, id)
		if err != nil {
			return err
		}
		view = &CountView{CycleCount: cc, Differences: diffs}
		return nil
	})
	return view, err
}

type differenceFn func(ctx context.Context, repos repository.Repos, cc *entity.CycleCount, d *entity.CycleCountDifference) error

// closeCount transición terminal común a Apply y Reject: guarda la foto AppliedQuantity de cada fila.
func (uc *ReconcileUseCase) closeCount(ctx context.Context, id, actor string, to entity.CycleCountState, each differenceFn) (*CountView, error) {
	if id == "" || actor == "" {
		return nil, domain.ErrInvalidInput
	}
	var view *CountView
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		cc, err := lockOpen(ctx, repos, id)
		if err != nil {
			return err
		}
		diffs, err := repos.CycleCounts.ListDifferences(ctx, id)
		if err != nil {
			return err
		}
		now := uc.now()
		for _, d := range diffs {
			snapshot := d.ExpectedQuantity
			d.AppliedQuantity = &snapshot
			d.UpdatedAt = now
			if err := repos.CycleCounts.UpdateDifference(ctx, d); err != nil {
				return err
			}
			if each != nil {
				if err := each(ctx, repos, cc, d); err != nil {
					return err
				}
			}
		}
		cc.State = to
		cc.ApprovedBy = actor
		cc.ClosedAt = &now
		if err := repos.CycleCounts.Update(ctx, cc); err != nil {
			return err
		}
		view = &CountView{CycleCount: cc, Differences: diffs}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("cycle_count_id", id).Str("to", string(to)).Msg("cierre de conteo rechazado")
		return nil, err
	}
	return view, nil
}

func lockOpen(ctx context.Context, repos repository.Repos, id string) (*entity.CycleCount, error) {
	cc, err := repos.CycleCounts.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if cc == nil {
		return nil, domain.ErrNotFound
	}
	if !cc.IsOpen() {
		return nil, domain.ErrNotOpen
	}
	return cc, nil
}
