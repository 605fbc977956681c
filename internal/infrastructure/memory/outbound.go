package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ repository.OutboundRepository = (*outboundRepo)(nil)

type outboundRepo struct {
	st *state
}

func (r *outboundRepo) Create(_ context.Context, outbound *entity.Outbound) error {
	if outbound.ID == "" {
		outbound.ID = uuid.New().String()
	}
	if _, ok := r.st.outbounds[outbound.ID]; ok {
		return domain.ErrInvalidInput
	}
	c := *outbound
	r.st.outbounds[outbound.ID] = &c
	return nil
}

func (r *outboundRepo) Get(_ context.Context, id string) (*entity.Outbound, error) {
	if v, ok := r.st.outbounds[id]; ok {
		c := *v
		return &c, nil
	}
	return nil, nil
}

func (r *outboundRepo) UpdateStatus(_ context.Context, id string, status entity.OutboundStatus) error {
	v, ok := r.st.outbounds[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.Status = status
	return nil
}

func (r *outboundRepo) CreateLine(_ context.Context, line *entity.OutboundLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if _, ok := r.st.outbounds[line.OutboundID]; !ok {
		return domain.ErrNotFound
	}
	c := *line
	r.st.outboundLines[line.ID] = &c
	return nil
}

func (r *outboundRepo) GetLine(_ context.Context, lineID string) (*entity.OutboundLine, error) {
	if v, ok := r.st.outboundLines[lineID]; ok {
		c := *v
		return &c, nil
	}
	return nil, nil
}

func (r *outboundRepo) GetLineForUpdate(ctx context.Context, lineID string) (*entity.OutboundLine, error) {
	return r.GetLine(ctx, lineID)
}

func (r *outboundRepo) UpdateLine(_ context.Context, line *entity.OutboundLine) error {
	if _, ok := r.st.outboundLines[line.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *line
	r.st.outboundLines[line.ID] = &c
	return nil
}

func (r *outboundRepo) CreateAssignment(_ context.Context, a *entity.OutboundSupplyAssignment) error {
	for _, v := range r.st.outboundAssignments {
		if v.LineID == a.LineID && v.LocationID == a.LocationID && v.Active() {
			return domain.ErrDuplicateLocationAssignment
		}
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	r.st.outboundAssignments[a.ID] = copySupply(a)
	return nil
}

func (r *outboundRepo) GetActiveAssignment(_ context.Context, lineID, locationID string) (*entity.OutboundSupplyAssignment, error) {
	for _, v := range r.st.outboundAssignments {
		if v.LineID == lineID && v.LocationID == locationID && v.Active() {
			return copySupply(v), nil
		}
	}
	return nil, nil
}

func (r *outboundRepo) SoftDeleteAssignment(_ context.Context, id string, at time.Time) error {
	v, ok := r.st.outboundAssignments[id]
	if !ok || !v.Active() {
		return domain.ErrNotFound
	}
	v.DeletedAt = &at
	return nil
}

func (r *outboundRepo) ListActiveAssignments(_ context.Context, lineID string) ([]*entity.OutboundSupplyAssignment, error) {
	var list []*entity.OutboundSupplyAssignment
	for _, v := range r.st.outboundAssignments {
		if v.LineID == lineID && v.Active() {
			list = append(list, copySupply(v))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].LocationID < list[j].LocationID
	})
	return list, nil
}

func (r *outboundRepo) SumActiveAssignments(_ context.Context, lineID string) (int64, error) {
	var sum int64
	for _, v := range r.st.outboundAssignments {
		if v.LineID == lineID && v.Active() {
			sum += v.Quantity
		}
	}
	return sum, nil
}
