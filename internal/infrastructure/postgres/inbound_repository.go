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

var _ repository.InboundRepository = (*InboundRepo)(nil)

// InboundRepo cabeceras, líneas y asignaciones de acomodo sobre PostgreSQL.
type InboundRepo struct {
	q Querier
}

// NewInboundRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInboundRepository(q Querier) *InboundRepo {
	return &InboundRepo{q: q}
}

func (r *InboundRepo) Create(ctx context.Context, inbound *entity.Inbound) error {
	if inbound.ID == "" {
		inbound.ID = uuid.New().String()
	}
	query := `INSERT INTO inbounds (id, status) VALUES ($1, $2)`
	if _, err := r.q.Exec(ctx, query, inbound.ID, string(inbound.Status)); err != nil {
		return fmt.Errorf("create inbound: %w", err)
	}
	return nil
}

func (r *InboundRepo) Get(ctx context.Context, id string) (*entity.Inbound, error) {
	var (
		in     entity.Inbound
		status string
	)
	err := r.q.QueryRow(ctx, `SELECT id, status FROM inbounds WHERE id = $1`, id).Scan(&in.ID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inbound: %w", err)
	}
	in.Status = entity.InboundStatus(status)
	return &in, nil
}

func (r *InboundRepo) UpdateStatus(ctx context.Context, id string, status entity.InboundStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE inbounds SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update inbound status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const inboundLineColumns = `id, inbound_id, product_id, requested_quantity, actual_quantity, sort_state, updated_at`

func (r *InboundRepo) CreateLine(ctx context.Context, line *entity.InboundLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if line.SortState == "" {
		line.SortState = entity.SortPending
	}
	query := `INSERT INTO inbound_lines (` + inboundLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err := r.q.Exec(ctx, query, line.ID, line.InboundID, line.ProductID,
		line.RequestedQuantity, line.ActualQuantity, string(line.SortState))
	if err != nil {
		return fmt.Errorf("create inbound line: %w", err)
	}
	return nil
}

func (r *InboundRepo) GetLine(ctx context.Context, lineID string) (*entity.InboundLine, error) {
	query := `SELECT ` + inboundLineColumns + ` FROM inbound_lines WHERE id = $1`
	return r.getLine(ctx, query, lineID)
}

// GetLineForUpdate bloquea la línea; serializa asignaciones concurrentes sobre ella.
func (r *InboundRepo) GetLineForUpdate(ctx context.Context, lineID string) (*entity.InboundLine, error) {
	query := `SELECT ` + inboundLineColumns + ` FROM inbound_lines WHERE id = $1 FOR UPDATE`
	return r.getLine(ctx, query, lineID)
}

func (r *InboundRepo) getLine(ctx context.Context, query, lineID string) (*entity.InboundLine, error) {
	var (
		l     entity.InboundLine
		state string
	)
	err := r.q.QueryRow(ctx, query, lineID).Scan(&l.ID, &l.InboundID, &l.ProductID,
		&l.RequestedQuantity, &l.ActualQuantity, &state, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inbound line: %w", err)
	}
	l.SortState = entity.SortState(state)
	return &l, nil
}

func (r *InboundRepo) UpdateLine(ctx context.Context, line *entity.InboundLine) error {
	query := `
		UPDATE inbound_lines
		SET actual_quantity = $2, sort_state = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, line.ID, line.ActualQuantity, string(line.SortState))
	if err != nil {
		return fmt.Errorf("update inbound line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateAssignment la restricción UNIQUE (line_id, location_id) se traduce a ErrDuplicateLocationAssignment.
func (r *InboundRepo) CreateAssignment(ctx context.Context, a *entity.InboundSortAssignment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inbound_sort_assignments (id, line_id, location_id, quantity, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, a.ID, a.LineID, a.LocationID, a.Quantity, a.Actor, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sort assignment %s@%s: %w", a.LineID, a.LocationID, domain.ErrDuplicateLocationAssignment)
		}
		return fmt.Errorf("create sort assignment: %w", err)
	}
	return nil
}

func (r *InboundRepo) GetAssignment(ctx context.Context, lineID, locationID string) (*entity.InboundSortAssignment, error) {
	query := `
		SELECT id, line_id, location_id, quantity, actor, created_at
		FROM inbound_sort_assignments WHERE line_id = $1 AND location_id = $2`
	var a entity.InboundSortAssignment
	err := r.q.QueryRow(ctx, query, lineID, locationID).Scan(
		&a.ID, &a.LineID, &a.LocationID, &a.Quantity, &a.Actor, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sort assignment: %w", err)
	}
	return &a, nil
}

func (r *InboundRepo) DeleteAssignment(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inbound_sort_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sort assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InboundRepo) ListAssignments(ctx context.Context, lineID string) ([]*entity.InboundSortAssignment, error) {
	query := `
		SELECT id, line_id, location_id, quantity, actor, created_at
		FROM inbound_sort_assignments WHERE line_id = $1
		ORDER BY location_id`
	rows, err := r.q.Query(ctx, query, lineID)
	if err != nil {
		return nil, fmt.Errorf("list sort assignments: %w", err)
	}
	defer rows.Close()
	var list []*entity.InboundSortAssignment
	for rows.Next() {
		var a entity.InboundSortAssignment
		if err := rows.Scan(&a.ID, &a.LineID, &a.LocationID, &a.Quantity, &a.Actor, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sort assignment: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *InboundRepo) SumAssignments(ctx context.Context, lineID string) (int64, error) {
	var sum int64
	query := `SELECT COALESCE(SUM(quantity), 0) FROM inbound_sort_assignments WHERE line_id = $1`
	if err := r.q.QueryRow(ctx, query, lineID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum sort assignments: %w", err)
	}
	return sum, nil
}
