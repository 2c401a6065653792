// Package repomanager vends storage-specific repositories bound to a
// database handle, so services can run the same code on a pool or inside a
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/moneytracker/internal/dbx"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/people"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	People(db dbx.DBTX) people.Repository
	Transactions(db dbx.DBTX) transactions.Repository
}
