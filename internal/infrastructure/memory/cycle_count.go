package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ repository.CycleCountRepository = (*cycleCountRepo)(nil)

type cycleCountRepo struct {
	st *state
}

func (r *cycleCountRepo) Create(_ context.Context, cc *entity.CycleCount) error {
	if cc.ID == "" {
		cc.ID = uuid.New().String()
	}
	r.st.cycleCounts[cc.ID] = copyCycleCount(cc)
	return nil
}

func (r *cycleCountRepo) Get(_ context.Context, id string) (*entity.CycleCount, error) {
	if v, ok := r.st.cycleCounts[id]; ok {
		return copyCycleCount(v), nil
	}
	return nil, nil
}

func (r *cycleCountRepo) GetForUpdate(ctx context.Context, id string) (*entity.CycleCount, error) {
	return r.Get(ctx, id)
}

func (r *cycleCountRepo) Update(_ context.Context, cc *entity.CycleCount) error {
	if _, ok := r.st.cycleCounts[cc.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.cycleCounts[cc.ID] = copyCycleCount(cc)
	return nil
}

func (r *cycleCountRepo) CreateDifference(_ context.Context, d *entity.CycleCountDifference) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	r.st.differences[d.ID] = copyDifference(d)
	return nil
}

func (r *cycleCountRepo) GetDifference(_ context.Context, id string) (*entity.CycleCountDifference, error) {
	if v, ok := r.st.differences[id]; ok {
		return copyDifference(v), nil
	}
	return nil, nil
}

func (r *cycleCountRepo) UpdateDifference(_ context.Context, d *entity.CycleCountDifference) error {
	if _, ok := r.st.differences[d.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.differences[d.ID] = copyDifference(d)
	return nil
}

func (r *cycleCountRepo) ListDifferences(_ context.Context, cycleCountID string) ([]*entity.CycleCountDifference, error) {
	var list []*entity.CycleCountDifference
	for _, v := range r.st.differences {
		if v.CycleCountID == cycleCountID {
			list = append(list, copyDifference(v))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].ProductID != list[j].ProductID {
			return list[i].ProductID < list[j].ProductID
		}
		return list[i].LocationID < list[j].LocationID
	})
	return list, nil
}
