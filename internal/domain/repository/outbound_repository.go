package repository

import (
	"context"
	"time"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// OutboundRepository puerto para pedidos de salida, líneas y retiros.
// Sólo los retiros activos (sin DeletedAt) participan en búsquedas y sumas.
type OutboundRepository interface {
	Create(ctx context.Context, outbound *entity.Outbound) error
	Get(ctx context.Context, id string) (*entity.Outbound, error)
	UpdateStatus(ctx context.Context, id string, status entity.OutboundStatus) error

	CreateLine(ctx context.Context, line *entity.OutboundLine) error
	GetLine(ctx context.Context, lineID string) (*entity.OutboundLine, error)
	GetLineForUpdate(ctx context.Context, lineID string) (*entity.OutboundLine, error)
	UpdateLine(ctx context.Context, line *entity.OutboundLine) error

	CreateAssignment(ctx context.Context, a *entity.OutboundSupplyAssignment) error
	GetActiveAssignment(ctx context.Context, lineID, locationID string) (*entity.OutboundSupplyAssignment, error)
	SoftDeleteAssignment(ctx context.Context, id string, at time.Time) error
	ListActiveAssignments(ctx context.Context, lineID string) ([]*entity.OutboundSupplyAssignment, error)
	SumActiveAssignments(ctx context.Context, lineID string) (int64, error)
}
