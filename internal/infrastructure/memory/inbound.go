package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ repository.InboundRepository = (*inboundRepo)(nil)

type inboundRepo struct {
	st *state
}

func (r *inboundRepo) Create(_ context.Context, inbound *entity.Inbound) error {
	if inbound.ID == "" {
		inbound.ID = uuid.New().String()
	}
	if _, ok := r.st.inbounds[inbound.ID]; ok {
		return domain.ErrInvalidInput
	}
	r.st.inbounds[inbound.ID] = copyInbound(inbound)
	return nil
}

func (r *inboundRepo) Get(_ context.Context, id string) (*entity.Inbound, error) {
	if v, ok := r.st.inbounds[id]; ok {
		return copyInbound(v), nil
	}
	return nil, nil
}

func (r *inboundRepo) UpdateStatus(_ context.Context, id string, status entity.InboundStatus) error {
	v, ok := r.st.inbounds[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.Status = status
	return nil
}

func (r *inboundRepo) CreateLine(_ context.Context, line *entity.InboundLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if _, ok := r.st.inbounds[line.InboundID]; !ok {
		return domain.ErrNotFound
	}
	if line.SortState == "" {
		line.SortState = entity.SortPending
	}
	r.st.inboundLines[line.ID] = copyInboundLine(line)
	return nil
}

func (r *inboundRepo) GetLine(_ context.Context, lineID string) (*entity.InboundLine, error) {
	if v, ok := r.st.inboundLines[lineID]; ok {
		return copyInboundLine(v), nil
	}
	return nil, nil
}

func (r *inboundRepo) GetLineForUpdate(ctx context.Context, lineID string) (*entity.InboundLine, error) {
	return r.GetLine(ctx, lineID)
}

func (r *inboundRepo) UpdateLine(_ context.Context, line *entity.InboundLine) error {
	if _, ok := r.st.inboundLines[line.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.inboundLines[line.ID] = copyInboundLine(line)
	return nil
}

func (r *inboundRepo) CreateAssignment(_ context.Context, a *entity.InboundSortAssignment) error {
	for _, v := range r.st.inboundAssignments {
		if v.LineID == a.LineID && v.LocationID == a.LocationID {
			return domain.ErrDuplicateLocationAssignment
		}
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	c := *a
	r.st.inboundAssignments[a.ID] = &c
	return nil
}

func (r *inboundRepo) GetAssignment(_ context.Context, lineID, locationID string) (*entity.InboundSortAssignment, error) {
	for _, v := range r.st.inboundAssignments {
		if v.LineID == lineID && v.LocationID == locationID {
			c := *v
			return &c, nil
		}
	}
	return nil, nil
}

func (r *inboundRepo) DeleteAssignment(_ context.Context, id string) error {
	if _, ok := r.st.inboundAssignments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.inboundAssignments, id)
	return nil
}

func (r *inboundRepo) ListAssignments(_ context.Context, lineID string) ([]*entity.InboundSortAssignment, error) {
	var list []*entity.InboundSortAssignment
	for _, v := range r.st.inboundAssignments {
		if v.LineID == lineID {
			c := *v
			list = append(list, &c)
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

func (r *inboundRepo) SumAssignments(_ context.Context, lineID string) (int64, error) {
	var sum int64
	for _, v := range r.st.inboundAssignments {
		if v.LineID == lineID {
			sum += v.Quantity
		}
	}
	return sum, nil
}
