package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// Migrate aplica el esquema embebido. Todas las sentencias son IF NOT EXISTS.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
