package postgres

import (
	"context"
	"errors"
)

// ErrSchemaNotMigrated means the database is reachable but has no payments table.
var ErrSchemaNotMigrated = errors.New("payments table missing, run migrations")

// SchemaCheck reports PostgreSQL healthy only once migrations have created
// the payments table.
type SchemaCheck struct {
	pool Pool
}

func NewSchemaCheck(pool Pool) *SchemaCheck {
	return &SchemaCheck{pool: pool}
}

func (h *SchemaCheck) Name() string {
	return "postgresql"
}

func (h *SchemaCheck) Check(ctx context.Context) error {
	var ready bool
	if err := h.pool.QueryRow(ctx, `SELECT to_regclass('public.payments') IS NOT NULL`).Scan(&ready); err != nil {
		return err
	}
	if !ready {
		return ErrSchemaNotMigrated
	}
	return nil
}
