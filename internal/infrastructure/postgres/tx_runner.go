package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los fallos de serialización o deadlock (en fn o en el commit) salen como domain.ErrTxConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, NewRepos(tx)); err != nil {
		return mapTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapTxError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// NewRepos arma el conjunto de repositorios sobre un Querier (pool o tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Balances:    NewLocationBalanceRepository(q),
		Movements:   NewStockMovementRepository(q),
		Inbound:     NewInboundRepository(q),
		Outbound:    NewOutboundRepository(q),
		CycleCounts: NewCycleCountRepository(q),
	}
}
