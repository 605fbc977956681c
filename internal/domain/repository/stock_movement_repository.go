package repository

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para movimientos (sólo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	SumByProductLocation(ctx context.Context, productID, locationID string) (int64, error)
	ListByProductLocation(ctx context.Context, productID, locationID string, limit, offset int) ([]*entity.StockMovement, error)
	ListBySource(ctx context.Context, sourceType entity.SourceType, sourceID string) ([]*entity.StockMovement, error)
}
