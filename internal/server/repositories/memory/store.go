// Package memory is an in-process storage backend. It implements
// repomanager.RepositoryManager and dbx.Transactor so the services run on it
// unchanged; useful for demos and for exercising ledger invariants in tests.
//
// Units of work run one at a time on a private copy of the data, which
// replaces the committed data only when the unit succeeds. Reads through
// Conn see committed data only. A write through Conn is a unit of its own.
package memory

import (
	"context"
	"database/sql"
	"maps"
	"sync"

	"github.com/dmitrijs2005/moneytracker/internal/dbx"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/people"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/users"
)

type state struct {
	users        map[string]models.User
	tokens       map[string]models.RefreshToken
	people       map[string]models.Person
	transactions map[string]models.Transaction
}

func (s state) clone() state {
	return state{
		users:        maps.Clone(s.users),
		tokens:       maps.Clone(s.tokens),
		people:       maps.Clone(s.people),
		transactions: maps.Clone(s.transactions),
	}
}

// Store holds the committed data guarded by mu. txMu serialises writers.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data state
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{data: state{
		users:        map[string]models.User{},
		tokens:       map[string]models.RefreshToken{},
		people:       map[string]models.Person{},
		transactions: map[string]models.Transaction{},
	}}
}

// unit is the handle WithTx passes to fn. It carries the unit's working
// copy; the embedded DBTX is nil and must not be called.
type unit struct {
	dbx.DBTX
	data state
}

// view is what a repository reads and writes through: a unit's working copy
// when bound to one, the committed data otherwise.
type view struct {
	s *Store
	u *unit
}

func (s *Store) view(db dbx.DBTX) view {
	u, _ := db.(*unit)
	return view{s: s, u: u}
}

func (v view) read(fn func(d *state)) {
	if v.u != nil {
		fn(&v.u.data)
		return
	}
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	fn(&v.s.data)
}

// write must not be called on a committed view from inside WithTx.
func (v view) write(fn func(d *state) error) error {
	if v.u != nil {
		return fn(&v.u.data)
	}
	v.s.txMu.Lock()
	defer v.s.txMu.Unlock()
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(&v.s.data)
}

// RunMigrations is a no-op; the store has no schema.
func (s *Store) RunMigrations(context.Context, *sql.DB) error { return nil }

// Handles other than the one WithTx passes select the committed data.

func (s *Store) Users(db dbx.DBTX) users.Repository {
	return &usersRepo{v: s.view(db)}
}

func (s *Store) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return &tokensRepo{v: s.view(db)}
}

func (s *Store) People(db dbx.DBTX) people.Repository {
	return &peopleRepo{v: s.view(db)}
}

func (s *Store) Transactions(db dbx.DBTX) transactions.Repository {
	return &transactionsRepo{v: s.view(db)}
}

// Conn returns a nil handle, which selects the committed data.
func (s *Store) Conn() dbx.DBTX { return nil }

// WithTx runs fn on a copy of the committed data and publishes the copy if
// fn succeeds. A failed or panicking fn leaves the committed data untouched.
// Panics are rethrown.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	u := &unit{data: s.data.clone()}
	s.mu.RUnlock()

	if err := fn(ctx, u); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = u.data
	s.mu.Unlock()
	return nil
}
