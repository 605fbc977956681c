package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var (
	_ repository.LocationBalanceRepository = (*balanceRepo)(nil)
	_ repository.StockMovementRepository   = (*movementRepo)(nil)
)

type balanceRepo struct {
	st *state
}

func (r *balanceRepo) Get(_ context.Context, productID, locationID string) (*entity.LocationBalance, error) {
	if b, ok := r.st.balances[balanceKey{productID, locationID}]; ok {
		c := *b
		return &c, nil
	}
	return &entity.LocationBalance{ProductID: productID, LocationID: locationID}, nil
}

// GetForUpdate crea la fila si falta; el bloqueo lo da el mutex de la transacción.
func (r *balanceRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.LocationBalance, error) {
	k := balanceKey{productID, locationID}
	if _, ok := r.st.balances[k]; !ok {
		r.st.balances[k] = &entity.LocationBalance{ProductID: productID, LocationID: locationID}
	}
	return r.Get(ctx, productID, locationID)
}

func (r *balanceRepo) Upsert(_ context.Context, balance *entity.LocationBalance) error {
	c := *balance
	r.st.balances[balanceKey{balance.ProductID, balance.LocationID}] = &c
	return nil
}

func (r *balanceRepo) SumByProduct(_ context.Context, productID string) (int64, error) {
	var sum int64
	for k, b := range r.st.balances {
		if k.productID == productID {
			sum += b.Quantity
		}
	}
	return sum, nil
}

func (r *balanceRepo) SumByLocation(_ context.Context, locationID string) (int64, error) {
	var sum int64
	for k, b := range r.st.balances {
		if k.locationID == locationID {
			sum += b.Quantity
		}
	}
	return sum, nil
}

func (r *balanceRepo) ListByProduct(_ context.Context, productID string) ([]*entity.LocationBalance, error) {
	return r.list(func(k balanceKey) bool { return k.productID == productID }), nil
}

func (r *balanceRepo) ListByLocation(_ context.Context, locationID string) ([]*entity.LocationBalance, error) {
	return r.list(func(k balanceKey) bool { return k.locationID == locationID }), nil
}

func (r *balanceRepo) list(match func(balanceKey) bool) []*entity.LocationBalance {
	var list []*entity.LocationBalance
	for k, b := range r.st.balances {
		if match(k) && b.Quantity > 0 {
			c := *b
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].ProductID != list[j].ProductID {
			return list[i].ProductID < list[j].ProductID
		}
		return list[i].LocationID < list[j].LocationID
	})
	return list
}

type movementRepo struct {
	st *state
}

func (r *movementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	c := *movement
	r.st.movements = append(r.st.movements, &c)
	return nil
}

func (r *movementRepo) SumByProductLocation(_ context.Context, productID, locationID string) (int64, error) {
	var sum int64
	for _, m := range r.st.movements {
		if m.ProductID == productID && m.LocationID == locationID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

func (r *movementRepo) ListByProductLocation(_ context.Context, productID, locationID string, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	skipped := 0
	for i := len(r.st.movements) - 1; i >= 0 && len(list) < limit; i-- {
		m := r.st.movements[i]
		if m.ProductID != productID || m.LocationID != locationID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		c := *m
		list = append(list, &c)
	}
	return list, nil
}

func (r *movementRepo) ListBySource(_ context.Context, sourceType entity.SourceType, sourceID string) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.st.movements {
		if m.SourceType == sourceType && m.SourceID != nil && *m.SourceID == sourceID {
			c := *m
			list = append(list, &c)
		}
	}
	return list, nil
}
