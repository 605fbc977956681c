package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
	"github.com/jhoicas/wms-ledger/pkg/logger"
	"github.com/jhoicas/wms-ledger/pkg/metrics"
)

// Tipos de registro directo sobre el ledger.
const (
	MovementTypeIN   = "IN"   // aumento con origen explícito
	MovementTypeOUT  = "OUT"  // disminución con origen explícito
	MovementTypeMOVE = "MOVE" // traslado entre ubicaciones
	MovementTypeINIT = "INIT" // carga inicial de existencias
)

// StockUseCase expone el ledger a llamadores directos, cada operación en su propia transacción.
type StockUseCase struct {
	txRunner TxRunner
	ledger   *Ledger
	log      *logger.Logger
	metrics  *metrics.Engine
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, ledger *Ledger, log *logger.Logger, m *metrics.Engine) *StockUseCase {
	return &StockUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		log:      log.Component("stock"),
		metrics:  m,
	}
}

// MovementInputDTO entrada para registrar un movimiento.
// Para IN/OUT/INIT: ProductID, LocationID, Quantity (IN/OUT además SourceType).
// Para MOVE: ProductID, FromLocationID, ToLocationID, Quantity.
type MovementInputDTO struct {
	UserID         string
	ProductID      string
	LocationID     string
	FromLocationID string
	ToLocationID   string
	Type           string
	Quantity       int64
	SourceType     entity.SourceType
	SourceID       string
	Description    string
}

// RegisterMovement valida, abre transacción y aplica el movimiento según tipo.
func (uc *StockUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) ([]*entity.StockMovement, error) {
	if input.UserID == "" || input.ProductID == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var sourceID *string
	if input.SourceID != "" {
		sourceID = &input.SourceID
	}

	var movs []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		switch input.Type {
		case MovementTypeIN, MovementTypeOUT:
			if input.SourceType == entity.SourceMove || input.SourceType == entity.SourceInit {
				return domain.ErrInvalidInput
			}
			mi := MovementInput{
				ProductID:   input.ProductID,
				LocationID:  input.LocationID,
				Quantity:    input.Quantity,
				SourceType:  input.SourceType,
				SourceID:    sourceID,
				Description: input.Description,
				Actor:       input.UserID,
			}
			var mov *entity.StockMovement
			if input.Type == MovementTypeIN {
				mov, err = uc.ledger.Increase(ctx, repos, mi)
			} else {
				mov, err = uc.ledger.Decrease(ctx, repos, mi)
			}
			if err == nil {
				movs = append(movs, mov)
			}
		case MovementTypeINIT:
			var mov *entity.StockMovement
			mov, err = uc.ledger.Increase(ctx, repos, MovementInput{
				ProductID:   input.ProductID,
				LocationID:  input.LocationID,
				Quantity:    input.Quantity,
				SourceType:  entity.SourceInit,
				SourceID:    sourceID,
				Description: input.Description,
				Actor:       input.UserID,
			})
			if err == nil {
				movs = append(movs, mov)
			}
		case MovementTypeMOVE:
			movs, err = uc.ledger.Move(ctx, repos, MoveInput{
				ProductID:      input.ProductID,
				FromLocationID: input.FromLocationID,
				ToLocationID:   input.ToLocationID,
				Quantity:       input.Quantity,
				Description:    input.Description,
				Actor:          input.UserID,
			})
		default:
			err = domain.ErrInvalidInput
		}
		return err
	})
	uc.metrics.Operation("register_movement", Outcome(err))
	if err != nil {
		uc.log.Warn().Err(err).
			Str("type", input.Type).
			Str("product_id", input.ProductID).
			Int64("quantity", input.Quantity).
			Msg("movimiento rechazado")
		return nil, err
	}
	for _, m := range movs {
		uc.metrics.Movement(string(m.SourceType), m.Quantity)
	}
	uc.log.Debug().Str("type", input.Type).Str("product_id", input.ProductID).
		Int("movements", len(movs)).Msg("movimiento registrado")
	return movs, nil
}

// BalanceOf saldo de un producto en una ubicación.
func (uc *StockUseCase) BalanceOf(ctx context.Context, productID, locationID string) (int64, error) {
	if productID == "" || locationID == "" {
		return 0, domain.ErrInvalidInput
	}
	var qty int64
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		qty, err = uc.ledger.BalanceOf(ctx, repos, productID, locationID)
		return err
	})
	return qty, err
}

// TotalByProduct saldo total del producto.
func (uc *StockUseCase) TotalByProduct(ctx context.Context, productID string) (int64, error) {
	if productID == "" {
		return 0, domain.ErrInvalidInput
	}
	var qty int64
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		qty, err = uc.ledger.TotalByProduct(ctx, repos, productID)
		return err
	})
	return qty, err
}

// TotalByLocation unidades totales en la ubicación.
func (uc *StockUseCase) TotalByLocation(ctx context.Context, locationID string) (int64, error) {
	if locationID == "" {
		return 0, domain.ErrInvalidInput
	}
	var qty int64
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		qty, err = uc.ledger.TotalByLocation(ctx, repos, locationID)
		return err
	})
	return qty, err
}

// History lista los movimientos de (producto, ubicación), más recientes primero.
func (uc *StockUseCase) History(ctx context.Context, productID, locationID string, limit, offset int) ([]*entity.StockMovement, error) {
	if productID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	var list []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		list, err = repos.Movements.ListByProductLocation(ctx, productID, locationID, limit, offset)
		return err
	})
	return list, err
}

// Verify comprueba que el saldo coincide con la suma de movimientos y que no es negativo.
func (uc *StockUseCase) Verify(ctx context.Context, productID, locationID string) error {
	if productID == "" || locationID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		bal, err := repos.Balances.Get(ctx, productID, locationID)
		if err != nil {
			return err
		}
		sum, err := repos.Movements.SumByProductLocation(ctx, productID, locationID)
		if err != nil {
			return err
		}
		if sum != bal.Quantity || bal.Quantity < 0 {
			uc.log.Error().Str("product_id", productID).Str("location_id", locationID).
				Int64("balance", bal.Quantity).Int64("movements", sum).Msg("descuadre en ledger")
			return fmt.Errorf("%s@%s saldo %d, movimientos %d: %w", productID, locationID, bal.Quantity, sum, domain.ErrLedgerDrift)
		}
		return nil
	})
}

// Outcome etiqueta de resultado para métricas: "ok" o la clase del error.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return domain.KindOf(err).String()
}
