package repository

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// CycleCountRepository puerto para conteos cíclicos y sus diferencias.
type CycleCountRepository interface {
	Create(ctx context.Context, cc *entity.CycleCount) error
	Get(ctx context.Context, id string) (*entity.CycleCount, error)
	GetForUpdate(ctx context.Context, id string) (*entity.CycleCount, error)
	Update(ctx context.Context, cc *entity.CycleCount) error

	CreateDifference(ctx context.Context, d *entity.CycleCountDifference) error
	GetDifference(ctx context.Context, id string) (*entity.CycleCountDifference, error)
	UpdateDifference(ctx context.Context, d *entity.CycleCountDifference) error
	ListDifferences(ctx context.Context, cycleCountID string) ([]*entity.CycleCountDifference, error)
}
