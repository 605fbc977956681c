package inventory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

// MovementInput datos de un aumento o disminución en el ledger. Quantity siempre positiva;
// el signo lo decide la operación.
type MovementInput struct {
	ProductID   string
	LocationID  string
	Quantity    int64
	SourceType  entity.SourceType
	SourceID    *string
	Description string
	Actor       string
}

func (in MovementInput) validate() error {
	if in.ProductID == "" || in.LocationID == "" || in.Actor == "" {
		return domain.ErrInvalidInput
	}
	if in.Quantity <= 0 || !in.SourceType.Valid() {
		return domain.ErrInvalidInput
	}
	return nil
}

// MoveInput traslado entre dos ubicaciones del mismo producto.
type MoveInput struct {
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Quantity       int64
	Description    string
	Actor          string
}

// Ledger es la única vía para modificar LocationBalance. Opera sobre los repositorios
// de la transacción del llamador: no abre ni confirma transacciones.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el ledger.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// Increase bloquea (o crea) el saldo, suma la cantidad y agrega un movimiento +Quantity.
func (l *Ledger) Increase(ctx context.Context, repos repository.Repos, in MovementInput) (*entity.StockMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	bal, err := repos.Balances.GetForUpdate(ctx, in.ProductID, in.LocationID)
	if err != nil {
		return nil, err
	}
	if bal.Quantity > math.MaxInt64-in.Quantity {
		return nil, fmt.Errorf("increase %s@%s: %w", in.ProductID, in.LocationID, domain.ErrInvalidInput)
	}
	return l.apply(ctx, repos, bal, in, in.Quantity)
}

// Decrease bloquea el saldo, verifica Saldo >= Quantity, resta y agrega un movimiento -Quantity.
func (l *Ledger) Decrease(ctx context.Context, repos repository.Repos, in MovementInput) (*entity.StockMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	bal, err := repos.Balances.GetForUpdate(ctx, in.ProductID, in.LocationID)
	if err != nil {
		return nil, err
	}
	if bal.Quantity < in.Quantity {
		return nil, fmt.Errorf("decrease %s@%s (saldo %d, solicitado %d): %w",
			in.ProductID, in.LocationID, bal.Quantity, in.Quantity, domain.ErrInsufficientStock)
	}
	return l.apply(ctx, repos, bal, in, -in.Quantity)
}

func (l *Ledger) apply(ctx context.Context, repos repository.Repos, bal *entity.LocationBalance, in MovementInput, signed int64) (*entity.StockMovement, error) {
	now := l.now()
	bal.Quantity += signed
	bal.UpdatedAt = now
	if err := repos.Balances.Upsert(ctx, bal); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ProductID:   in.ProductID,
		LocationID:  in.LocationID,
		Quantity:    signed,
		SourceType:  in.SourceType,
		SourceID:    in.SourceID,
		Description: in.Description,
		Actor:       in.Actor,
		CreatedAt:   now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Move resta de origen y suma en destino, ambos con SourceType=move y SourceID apuntando
// a la otra ubicación. La atomicidad la da la transacción del llamador.
func (l *Ledger) Move(ctx context.Context, repos repository.Repos, in MoveInput) ([]*entity.StockMovement, error) {
	if in.FromLocationID == "" || in.ToLocationID == "" || in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidInput
	}
	// Orden fijo de bloqueo para que dos traslados cruzados no se bloqueen mutuamente.
	first, second := in.FromLocationID, in.ToLocationID
	if second < first {
		first, second = second, first
	}
	for _, loc := range []string{first, second} {
		if _, err := repos.Balances.GetForUpdate(ctx, in.ProductID, loc); err != nil {
			return nil, err
		}
	}

	from, to := in.FromLocationID, in.ToLocationID
	out, err := l.Decrease(ctx, repos, MovementInput{
		ProductID:   in.ProductID,
		LocationID:  from,
		Quantity:    in.Quantity,
		SourceType:  entity.SourceMove,
		SourceID:    &to,
		Description: in.Description,
		Actor:       in.Actor,
	})
	if err != nil {
		return nil, err
	}
	inc, err := l.Increase(ctx, repos, MovementInput{
		ProductID:   in.ProductID,
		LocationID:  to,
		Quantity:    in.Quantity,
		SourceType:  entity.SourceMove,
		SourceID:    &from,
		Description: in.Description,
		Actor:       in.Actor,
	})
	if err != nil {
		return nil, err
	}
	return []*entity.StockMovement{out, inc}, nil
}

// BalanceOf saldo actual de un producto en una ubicación (0 si nunca tuvo movimientos).
func (l *Ledger) BalanceOf(ctx context.Context, repos repository.Repos, productID, locationID string) (int64, error) {
	bal, err := repos.Balances.Get(ctx, productID, locationID)
	if err != nil {
		return 0, err
	}
	return bal.Quantity, nil
}

// TotalByProduct saldo total del producto en todas sus ubicaciones.
func (l *Ledger) TotalByProduct(ctx context.Context, repos repository.Repos, productID string) (int64, error) {
	return repos.Balances.SumByProduct(ctx, productID)
}

// TotalByLocation unidades totales (todos los productos) en una ubicación.
func (l *Ledger) TotalByLocation(ctx context.Context, repos repository.Repos, locationID string) (int64, error) {
	return repos.Balances.SumByLocation(ctx, locationID)
}
