package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx). Sólo inserta.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, product_id, location_id, quantity, source_type, source_id, description, actor, created_at`

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ProductID, movement.LocationID, movement.Quantity,
		string(movement.SourceType), movement.SourceID, movement.Description,
		movement.Actor, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) SumByProductLocation(ctx context.Context, productID, locationID string) (int64, error) {
	var sum int64
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_movements WHERE product_id = $1 AND location_id = $2`
	if err := r.q.QueryRow(ctx, query, productID, locationID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

// ListByProductLocation historial del más reciente al más antiguo.
func (r *StockMovementRepo) ListByProductLocation(ctx context.Context, productID, locationID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE product_id = $1 AND location_id = $2
		ORDER BY seq DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, productID, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list by product/location: %w", err)
	}
	return collectMovements(rows)
}

func (r *StockMovementRepo) ListBySource(ctx context.Context, sourceType entity.SourceType, sourceID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE source_type = $1 AND source_id = $2
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, string(sourceType), sourceID)
	if err != nil {
		return nil, fmt.Errorf("list by source: %w", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var sourceType string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.LocationID, &m.Quantity, &sourceType,
			&m.SourceID, &m.Description, &m.Actor, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.SourceType = entity.SourceType(sourceType)
		list = append(list, &m)
	}
	return list, rows.Err()
}
