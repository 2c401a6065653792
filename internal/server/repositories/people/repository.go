// Package people stores the counterparties each user keeps a balance with.
package people

import (
	"context"

	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/shopspring/decimal"
)

// Repository is the storage contract for people.
//
// Lookups that find nothing return common.ErrorNotFound. Create returns
// common.ErrorConflict when the owner already has a person with that name.
// The ForUpdate variants lock the row until the surrounding transaction ends
// and must only be called on a transactional handle.
type Repository interface {
	Create(ctx context.Context, person *models.Person) (*models.Person, error)
	ListByUser(ctx context.Context, userID string) ([]models.Person, error)
	GetByName(ctx context.Context, userID, name string) (*models.Person, error)
	GetByNameForUpdate(ctx context.Context, userID, name string) (*models.Person, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Person, error)

	// AdjustBalance adds delta to the stored balance and returns the result.
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
	SetBalance(ctx context.Context, id string, balance decimal.Decimal) error

	Delete(ctx context.Context, id string) error
}
