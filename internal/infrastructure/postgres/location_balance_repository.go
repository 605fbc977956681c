package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ repository.LocationBalanceRepository = (*LocationBalanceRepo)(nil)

// LocationBalanceRepo implementación de LocationBalanceRepository sobre PostgreSQL (usable con pool o tx).
type LocationBalanceRepo struct {
	q Querier
}

// NewLocationBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationBalanceRepository(q Querier) *LocationBalanceRepo {
	return &LocationBalanceRepo{q: q}
}

// Get obtiene el saldo de un producto en una ubicación; cero si la fila no existe.
func (r *LocationBalanceRepo) Get(ctx context.Context, productID, locationID string) (*entity.LocationBalance, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM location_balances WHERE product_id = $1 AND location_id = $2`
	b, err := scanBalance(r.q.QueryRow(ctx, query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.LocationBalance{ProductID: productID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// GetForUpdate crea la fila en cero si falta y la bloquea (SELECT FOR UPDATE).
func (r *LocationBalanceRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.LocationBalance, error) {
	insert := `
		INSERT INTO location_balances (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, productID, locationID); err != nil {
		return nil, fmt.Errorf("ensure balance: %w", err)
	}
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM location_balances WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	b, err := scanBalance(r.q.QueryRow(ctx, query, productID, locationID))
	if err != nil {
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return b, nil
}

// Upsert inserta o actualiza la cantidad (por producto y ubicación).
func (r *LocationBalanceRepo) Upsert(ctx context.Context, balance *entity.LocationBalance) error {
	query := `
		INSERT INTO location_balances (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, balance.ProductID, balance.LocationID, balance.Quantity); err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

func (r *LocationBalanceRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	var sum int64
	query := `SELECT COALESCE(SUM(quantity), 0) FROM location_balances WHERE product_id = $1`
	if err := r.q.QueryRow(ctx, query, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum by product: %w", err)
	}
	return sum, nil
}

func (r *LocationBalanceRepo) SumByLocation(ctx context.Context, locationID string) (int64, error) {
	var sum int64
	query := `SELECT COALESCE(SUM(quantity), 0) FROM location_balances WHERE location_id = $1`
	if err := r.q.QueryRow(ctx, query, locationID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum by location: %w", err)
	}
	return sum, nil
}

// ListByProduct saldos positivos del producto, ordenados por ubicación.
func (r *LocationBalanceRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.LocationBalance, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM location_balances WHERE product_id = $1 AND quantity > 0
		ORDER BY location_id`
	return r.list(ctx, query, productID)
}

// ListByLocation saldos positivos de la ubicación, ordenados por producto.
func (r *LocationBalanceRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.LocationBalance, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM location_balances WHERE location_id = $1 AND quantity > 0
		ORDER BY product_id`
	return r.list(ctx, query, locationID)
}

func (r *LocationBalanceRepo) list(ctx context.Context, query string, arg string) ([]*entity.LocationBalance, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.LocationBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBalance(row pgx.Row) (*entity.LocationBalance, error) {
	var b entity.LocationBalance
	if err := row.Scan(&b.ProductID, &b.LocationID, &b.Quantity, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
