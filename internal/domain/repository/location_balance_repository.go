package repository

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// LocationBalanceRepository define el puerto para el saldo por (producto, ubicación).
// Usado dentro de transacciones para garantizar consistencia.
type LocationBalanceRepository interface {
	// Get devuelve el saldo; si la fila no existe devuelve saldo cero (no nil).
	Get(ctx context.Context, productID, locationID string) (*entity.LocationBalance, error)
	// GetForUpdate crea la fila si falta y la bloquea hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, productID, locationID string) (*entity.LocationBalance, error)
	Upsert(ctx context.Context, balance *entity.LocationBalance) error
	SumByProduct(ctx context.Context, productID string) (int64, error)
	SumByLocation(ctx context.Context, locationID string) (int64, error)
	// ListByProduct / ListByLocation devuelven sólo saldos positivos.
	ListByProduct(ctx context.Context, productID string) ([]*entity.LocationBalance, error)
	ListByLocation(ctx context.Context, locationID string) ([]*entity.LocationBalance, error)
}
