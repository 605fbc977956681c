package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ repository.CycleCountRepository = (*CycleCountRepo)(nil)

// CycleCountRepo conteos cíclicos y sus diferencias sobre PostgreSQL.
type CycleCountRepo struct {
	q Querier
}

// NewCycleCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCycleCountRepository(q Querier) *CycleCountRepo {
	return &CycleCountRepo{q: q}
}

const cycleCountColumns = `id, scope, product_id, location_id, state, created_by, approved_by, created_at, closed_at`

func (r *CycleCountRepo) Create(ctx context.Context, cc *entity.CycleCount) error {
	if cc.ID == "" {
		cc.ID = uuid.New().String()
	}
	query := `INSERT INTO cycle_counts (` + cycleCountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, cc.ID, string(cc.Scope), nullString(cc.ProductID), nullString(cc.LocationID),
		string(cc.State), cc.CreatedBy, nullString(cc.ApprovedBy), cc.CreatedAt, cc.ClosedAt)
	if err != nil {
		return fmt.Errorf("create cycle count: %w", err)
	}
	return nil
}

func (r *CycleCountRepo) Get(ctx context.Context, id string) (*entity.CycleCount, error) {
	return r.get(ctx, `SELECT `+cycleCountColumns+` FROM cycle_counts WHERE id = $1`, id)
}

// GetForUpdate bloquea el conteo; registrar, aplicar y rechazar se serializan sobre esta fila.
func (r *CycleCountRepo) GetForUpdate(ctx context.Context, id string) (*entity.CycleCount, error) {
	return r.get(ctx, `SELECT `+cycleCountColumns+` FROM cycle_counts WHERE id = $1 FOR UPDATE`, id)
}

func (r *CycleCountRepo) get(ctx context.Context, query, id string) (*entity.CycleCount, error) {
	var (
		cc                              entity.CycleCount
		scope, state                    string
		productID, locationID, approved *string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(&cc.ID, &scope, &productID, &locationID, &state,
		&cc.CreatedBy, &approved, &cc.CreatedAt, &cc.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cycle count: %w", err)
	}
	cc.Scope = entity.CycleCountScope(scope)
	cc.State = entity.CycleCountState(state)
	cc.ProductID = fromNull(productID)
	cc.LocationID = fromNull(locationID)
	cc.ApprovedBy = fromNull(approved)
	return &cc, nil
}

func (r *CycleCountRepo) Update(ctx context.Context, cc *entity.CycleCount) error {
	query := `UPDATE cycle_counts SET state = $2, approved_by = $3, closed_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, cc.ID, string(cc.State), nullString(cc.ApprovedBy), cc.ClosedAt)
	if err != nil {
		return fmt.Errorf("update cycle count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const differenceColumns = `id, cycle_count_id, product_id, location_id, expected_quantity, counted_delta, counter, applied_quantity, updated_at`

func (r *CycleCountRepo) CreateDifference(ctx context.Context, d *entity.CycleCountDifference) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	query := `INSERT INTO cycle_count_differences (` + differenceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, d.ID, d.CycleCountID, d.ProductID, d.LocationID, d.ExpectedQuantity,
		d.CountedDelta, nullString(d.Counter), d.AppliedQuantity, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create cycle count difference: %w", err)
	}
	return nil
}

func (r *CycleCountRepo) GetDifference(ctx context.Context, id string) (*entity.CycleCountDifference, error) {
	query := `SELECT ` + differenceColumns + ` FROM cycle_count_differences WHERE id = $1`
	d, err := scanDifference(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cycle count difference: %w", err)
	}
	return d, nil
}

func (r *CycleCountRepo) UpdateDifference(ctx context.Context, d *entity.CycleCountDifference) error {
	query := `
		UPDATE cycle_count_differences
		SET counted_delta = $2, counter = $3, applied_quantity = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, d.ID, d.CountedDelta, nullString(d.Counter), d.AppliedQuantity, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update cycle count difference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CycleCountRepo) ListDifferences(ctx context.Context, cycleCountID string) ([]*entity.CycleCountDifference, error) {
	query := `SELECT ` + differenceColumns + ` FROM cycle_count_differences
		WHERE cycle_count_id = $1
		ORDER BY product_id, location_id`
	rows, err := r.q.Query(ctx, query, cycleCountID)
	if err != nil {
		return nil, fmt.Errorf("list cycle count differences: %w", err)
	}
	defer rows.Close()
	var list []*entity.CycleCountDifference
	for rows.Next() {
		d, err := scanDifference(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cycle count difference: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanDifference(row pgx.Row) (*entity.CycleCountDifference, error) {
	var (
		d       entity.CycleCountDifference
		counter *string
	)
	if err := row.Scan(&d.ID, &d.CycleCountID, &d.ProductID, &d.LocationID, &d.ExpectedQuantity,
		&d.CountedDelta, &counter, &d.AppliedQuantity, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Counter = fromNull(counter)
	return &d, nil
}
