package inventory

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback completo; ningún commit parcial es observable.
// Los conflictos de serialización se devuelven como domain.ErrTxConflict; no hay reintento interno.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error
}
