package dbx

import (
	"context"
	"database/sql"
)

// Transactor hands out the handles services run repositories against:
// Conn for single statements and WithTx for units of work that must commit
// or roll back together.
type Transactor interface {
	Conn() DBTX
	WithTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLTransactor is a Transactor over a *sql.DB.
type SQLTransactor struct {
	db   *sql.DB
	opts *sql.TxOptions
}

// NewSQLTransactor wraps db. opts may be nil for driver defaults.
func NewSQLTransactor(db *sql.DB, opts *sql.TxOptions) *SQLTransactor {
	return &SQLTransactor{db: db, opts: opts}
}

// Conn returns the underlying pool.
func (t *SQLTransactor) Conn() DBTX { return t.db }

// WithTx runs fn via the package-level WithTx.
func (t *SQLTransactor) WithTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return WithTx(ctx, t.db, t.opts, fn)
}
