package repository

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// InboundRepository puerto para cabeceras, líneas y asignaciones de acomodo.
// Los Get* devuelven (nil, nil) si no existe.
type InboundRepository interface {
	Create(ctx context.Context, inbound *entity.Inbound) error
	Get(ctx context.Context, id string) (*entity.Inbound, error)
	UpdateStatus(ctx context.Context, id string, status entity.InboundStatus) error

	CreateLine(ctx context.Context, line *entity.InboundLine) error
	GetLine(ctx context.Context, lineID string) (*entity.InboundLine, error)
	GetLineForUpdate(ctx context.Context, lineID string) (*entity.InboundLine, error)
	UpdateLine(ctx context.Context, line *entity.InboundLine) error

	// CreateAssignment devuelve domain.ErrDuplicateLocationAssignment si ya existe para (línea, ubicación).
	CreateAssignment(ctx context.Context, a *entity.InboundSortAssignment) error
	GetAssignment(ctx context.Context, lineID, locationID string) (*entity.InboundSortAssignment, error)
	DeleteAssignment(ctx context.Context, id string) error
	ListAssignments(ctx context.Context, lineID string) ([]*entity.InboundSortAssignment, error)
	SumAssignments(ctx context.Context, lineID string) (int64, error)
}
