// Package outbound implementa el surtido (supply) de líneas de salida desde ubicaciones.
//
// Cada retiro se confirma en el ledger en el momento de asignarlo (commit inmediato), al
// contrario que inbound: el stock ya existe y otras líneas concurrentes deben ver el
// stock libre real. Revertir un retiro devuelve las unidades con un aumento compensatorio.
package outbound

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
	"github.com/jhoicas/wms-ledger/pkg/logger"
	"github.com/jhoicas/wms-ledger/pkg/metrics"
)

// SupplyUseCase asignador de salidas.
type SupplyUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	log      *logger.Logger
	metrics  *metrics.Engine
	now      func() time.Time
}

// NewSupplyUseCase construye el caso de uso.
func NewSupplyUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, log *logger.Logger, m *metrics.Engine) *SupplyUseCase {
	return &SupplyUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		log:      log.Component("outbound"),
		metrics:  m,
		now:      time.Now,
	}
}

// SupplyInput retiro de unidades de una ubicación para una línea.
type SupplyInput struct {
	LineID     string
	LocationID string
	Quantity   int64
	Actor      string
}

// LocationSupply desglose por ubicación.
type LocationSupply struct {
	LocationID       string
	FreeQuantity     int64
	SuppliedQuantity int64
}

// SupplyState modelo de lectura de una línea: calculado por agregación, no almacenado.
type SupplyState struct {
	Line              *entity.OutboundLine
	Locations         []LocationSupply
	SuppliedQuantity  int64
	FreeQuantity      int64
	RemainingQuantity int64
}

// Supply retira unidades de la ubicación. El aumento de lo surtido y la disminución en el
// ledger ocurren en la misma transacción, con el saldo bloqueado.
func (uc *SupplyUseCase) Supply(ctx context.Context, in SupplyInput) (*SupplyState, error) {
	if in.LineID == "" || in.LocationID == "" || in.Actor == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var (
		state *SupplyState
		mov   *entity.StockMovement
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		line, header, err := lockSupplyableLine(ctx, repos, in.LineID)
		if err != nil {
			return err
		}
		if line.Supplied {
			return domain.ErrAlreadySupplied
		}
		existing, err := repos.Outbound.GetActiveAssignment(ctx, in.LineID, in.LocationID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateLocationAssignment
		}
		supplied, err := repos.Outbound.SumActiveAssignments(ctx, in.LineID)
		if err != nil {
			return err
		}
		bal, err := repos.Balances.GetForUpdate(ctx, line.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		if free := freeQuantity(bal); in.Quantity > free {
			return fmt.Errorf("supply %d de %s (libre %d): %w", in.Quantity, in.LocationID, free, domain.ErrInsufficientFreeStock)
		}
		if remaining := line.Quantity - supplied; in.Quantity > remaining {
			return fmt.Errorf("supply %d (pendiente %d): %w", in.Quantity, remaining, domain.ErrOverAllocation)
		}
		mov, err = uc.ledger.Decrease(ctx, repos, inventory.MovementInput{
			ProductID:   line.ProductID,
			LocationID:  in.LocationID,
			Quantity:    in.Quantity,
			SourceType:  entity.SourceOutbound,
			SourceID:    &line.ID,
			Description: "surtido de salida " + header.ID,
			Actor:       in.Actor,
		})
		if err != nil {
			return err
		}
		now := uc.now()
		if err := repos.Outbound.CreateAssignment(ctx, &entity.OutboundSupplyAssignment{
			LineID:     line.ID,
			ProductID:  line.ProductID,
			LocationID: in.LocationID,
			Quantity:   in.Quantity,
			Actor:      in.Actor,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		line.RecomputeSupplied(supplied + in.Quantity)
		line.UpdatedAt = now
		if err := repos.Outbound.UpdateLine(ctx, line); err != nil {
			return err
		}
		state, err = buildState(ctx, repos, line)
		return err
	})
	uc.metrics.Operation("outbound_supply", inventory.Outcome(err))
	if err != nil {
		uc.log.Warn().Err(err).Str("line_id", in.LineID).Str("location_id", in.LocationID).
			Int64("quantity", in.Quantity).Msg("surtido rechazado")
		return nil, err
	}
	uc.metrics.Movement(string(mov.SourceType), mov.Quantity)
	uc.log.Info().Str("line_id", in.LineID).Str("location_id", in.LocationID).Int64("quantity", in.Quantity).
		Bool("supplied", state.Line.Supplied).Msg("retiro confirmado")
	return state, nil
}

// RevertSupply devuelve al ledger lo retirado en la ubicación y borra lógicamente el retiro.
func (uc *SupplyUseCase) RevertSupply(ctx context.Context, lineID, locationID, actor string) (*SupplyState, error) {
	if lineID == "" || locationID == "" || actor == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		state *SupplyState
		mov   *entity.StockMovement
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		line, header, err := lockSupplyableLine(ctx, repos, lineID)
		if err != nil {
			return err
		}
		a, err := repos.Outbound.GetActiveAssignment(ctx, lineID, locationID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		mov, err = uc.ledger.Increase(ctx, repos, inventory.MovementInput{
			ProductID:   a.ProductID,
			LocationID:  a.LocationID,
			Quantity:    a.Quantity,
			SourceType:  entity.SourceOutbound,
			SourceID:    &line.ID,
			Description: "reverso de surtido " + header.ID,
			Actor:       actor,
		})
		if err != nil {
			return err
		}
		now := uc.now()
		if err := repos.Outbound.SoftDeleteAssignment(ctx, a.ID, now); err != nil {
			return err
		}
		supplied, err := repos.Outbound.SumActiveAssignments(ctx, lineID)
		if err != nil {
			return err
		}
		line.RecomputeSupplied(supplied)
		line.UpdatedAt = now
		if err := repos.Outbound.UpdateLine(ctx, line); err != nil {
			return err
		}
		state, err = buildState(ctx, repos, line)
		return err
	})
	uc.metrics.Operation("outbound_revert", inventory.Outcome(err))
	if err != nil {
		return nil, err
	}
	uc.metrics.Movement(string(mov.SourceType), mov.Quantity)
	uc.log.Info().Str("line_id", lineID).Str("location_id", locationID).Msg("retiro revertido")
	return state, nil
}

// SupplyState devuelve el desglose de stock libre y surtido de la línea.
func (uc *SupplyUseCase) SupplyState(ctx context.Context, lineID string) (*SupplyState, error) {
	var state *SupplyState
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		line, err := repos.Outbound.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		state, err = buildState(ctx, repos, line)
		return err
	})
	return state, err
}

// freeQuantity stock libre de un saldo. Los retiros confirmados ya están descontados del
// saldo, así que no queda nada pendiente que restar.
func freeQuantity(bal *entity.LocationBalance) int64 {
	if bal.Quantity < 0 {
		return 0
	}
	return bal.Quantity
}

func lockSupplyableLine(ctx context.Context, repos repository.Repos, lineID string) (*entity.OutboundLine, *entity.Outbound, error) {
	line, err := repos.Outbound.GetLineForUpdate(ctx, lineID)
	if err != nil {
		return nil, nil, err
	}
	if line == nil {
		return nil, nil, domain.ErrNotFound
	}
	header, err := repos.Outbound.Get(ctx, line.OutboundID)
	if err != nil {
		return nil, nil, err
	}
	if header == nil {
		return nil, nil, domain.ErrNotFound
	}
	if header.Status != entity.OutboundSupplying {
		return nil, nil, domain.ErrWrongLineState
	}
	return line, header, nil
}

func buildState(ctx context.Context, repos repository.Repos, line *entity.OutboundLine) (*SupplyState, error) {
	balances, err := repos.Balances.ListByProduct(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	assignments, err := repos.Outbound.ListActiveAssignments(ctx, line.ID)
	if err != nil {
		return nil, err
	}
	byLocation := map[string]*LocationSupply{}
	for _, b := range balances {
		byLocation[b.LocationID] = &LocationSupply{LocationID: b.LocationID, FreeQuantity: freeQuantity(b)}
	}
	for _, a := range assignments {
		ls, ok := byLocation[a.LocationID]
		if !ok {
			ls = &LocationSupply{LocationID: a.LocationID}
			byLocation[a.LocationID] = ls
		}
		ls.SuppliedQuantity += a.Quantity
	}

	state := &SupplyState{Line: line, Locations: make([]LocationSupply, 0, len(byLocation))}
	for _, ls := range byLocation {
		state.Locations = append(state.Locations, *ls)
		state.FreeQuantity += ls.FreeQuantity
		state.SuppliedQuantity += ls.SuppliedQuantity
	}
	sort.Slice(state.Locations, func(i, j int) bool {
		return state.Locations[i].LocationID < state.Locations[j].LocationID
	})
	state.RemainingQuantity = line.Quantity - state.SuppliedQuantity
	return state, nil
}
