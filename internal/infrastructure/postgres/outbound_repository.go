package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ repository.OutboundRepository = (*OutboundRepo)(nil)

// OutboundRepo pedidos de salida, líneas y retiros sobre PostgreSQL.
type OutboundRepo struct {
	q Querier
}

// NewOutboundRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutboundRepository(q Querier) *OutboundRepo {
	return &OutboundRepo{q: q}
}

func (r *OutboundRepo) Create(ctx context.Context, outbound *entity.Outbound) error {
	if outbound.ID == "" {
		outbound.ID = uuid.New().String()
	}
	query := `INSERT INTO outbounds (id, status) VALUES ($1, $2)`
	if _, err := r.q.Exec(ctx, query, outbound.ID, string(outbound.Status)); err != nil {
		return fmt.Errorf("create outbound: %w", err)
	}
	return nil
}

func (r *OutboundRepo) Get(ctx context.Context, id string) (*entity.Outbound, error) {
	var (
		o      entity.Outbound
		status string
	)
	err := r.q.QueryRow(ctx, `SELECT id, status FROM outbounds WHERE id = $1`, id).Scan(&o.ID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outbound: %w", err)
	}
	o.Status = entity.OutboundStatus(status)
	return &o, nil
}

func (r *OutboundRepo) UpdateStatus(ctx context.Context, id string, status entity.OutboundStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE outbounds SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update outbound status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const outboundLineColumns = `id, outbound_id, product_id, quantity, supplied, updated_at`

func (r *OutboundRepo) CreateLine(ctx context.Context, line *entity.OutboundLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `INSERT INTO outbound_lines (` + outboundLineColumns + `) VALUES ($1, $2, $3, $4, $5, now())`
	_, err := r.q.Exec(ctx, query, line.ID, line.OutboundID, line.ProductID, line.Quantity, line.Supplied)
	if err != nil {
		return fmt.Errorf("create outbound line: %w", err)
	}
	return nil
}

func (r *OutboundRepo) GetLine(ctx context.Context, lineID string) (*entity.OutboundLine, error) {
	return r.getLine(ctx, `SELECT `+outboundLineColumns+` FROM outbound_lines WHERE id = $1`, lineID)
}

// GetLineForUpdate bloquea la línea antes de leer las sumas de retiros.
func (r *OutboundRepo) GetLineForUpdate(ctx context.Context, lineID string) (*entity.OutboundLine, error) {
	return r.getLine(ctx, `SELECT `+outboundLineColumns+` FROM outbound_lines WHERE id = $1 FOR UPDATE`, lineID)
}

func (r *OutboundRepo) getLine(ctx context.Context, query, lineID string) (*entity.OutboundLine, error) {
	var l entity.OutboundLine
	err := r.q.QueryRow(ctx, query, lineID).Scan(&l.ID, &l.OutboundID, &l.ProductID, &l.Quantity, &l.Supplied, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outbound line: %w", err)
	}
	return &l, nil
}

func (r *OutboundRepo) UpdateLine(ctx context.Context, line *entity.OutboundLine) error {
	tag, err := r.q.Exec(ctx, `UPDATE outbound_lines SET supplied = $2, updated_at = now() WHERE id = $1`, line.ID, line.Supplied)
	if err != nil {
		return fmt.Errorf("update outbound line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const supplyColumns = `id, line_id, product_id, location_id, quantity, actor, created_at, deleted_at`

// CreateAssignment el índice único parcial sobre retiros activos se traduce a ErrDuplicateLocationAssignment.
func (r *OutboundRepo) CreateAssignment(ctx context.Context, a *entity.OutboundSupplyAssignment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `INSERT INTO outbound_supply_assignments (` + supplyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, a.ID, a.LineID, a.ProductID, a.LocationID, a.Quantity, a.Actor, a.CreatedAt, a.DeletedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("supply assignment %s@%s: %w", a.LineID, a.LocationID, domain.ErrDuplicateLocationAssignment)
		}
		return fmt.Errorf("create supply assignment: %w", err)
	}
	return nil
}

func (r *OutboundRepo) GetActiveAssignment(ctx context.Context, lineID, locationID string) (*entity.OutboundSupplyAssignment, error) {
	query := `SELECT ` + supplyColumns + ` FROM outbound_supply_assignments
		WHERE line_id = $1 AND location_id = $2 AND deleted_at IS NULL`
	a, err := scanSupply(r.q.QueryRow(ctx, query, lineID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply assignment: %w", err)
	}
	return a, nil
}

func (r *OutboundRepo) SoftDeleteAssignment(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE outbound_supply_assignments SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("soft delete supply assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OutboundRepo) ListActiveAssignments(ctx context.Context, lineID string) ([]*entity.OutboundSupplyAssignment, error) {
	query := `SELECT ` + supplyColumns + ` FROM outbound_supply_assignments
		WHERE line_id = $1 AND deleted_at IS NULL
		ORDER BY location_id`
	rows, err := r.q.Query(ctx, query, lineID)
	if err != nil {
		return nil, fmt.Errorf("list supply assignments: %w", err)
	}
	defer rows.Close()
	var list []*entity.OutboundSupplyAssignment
	for rows.Next() {
		a, err := scanSupply(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supply assignment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *OutboundRepo) SumActiveAssignments(ctx context.Context, lineID string) (int64, error) {
	var sum int64
	query := `SELECT COALESCE(SUM(quantity), 0) FROM outbound_supply_assignments WHERE line_id = $1 AND deleted_at IS NULL`
	if err := r.q.QueryRow(ctx, query, lineID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum supply assignments: %w", err)
	}
	return sum, nil
}

func scanSupply(row pgx.Row) (*entity.OutboundSupplyAssignment, error) {
	var a entity.OutboundSupplyAssignment
	if err := row.Scan(&a.ID, &a.LineID, &a.ProductID, &a.LocationID, &a.Quantity, &a.Actor, &a.CreatedAt, &a.DeletedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
