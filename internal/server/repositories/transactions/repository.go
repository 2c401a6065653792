// Package transactions stores the send and receive records of the ledger.
package transactions

import (
	"context"

	"github.com/dmitrijs2005/moneytracker/internal/server/models"
)

// Repository is the storage contract for transactions.
//
// List methods return newest first (date descending, then id descending)
// and fill Transaction.Person with the counterparty as currently stored.
type Repository interface {
	// Create stores t, assigning a time-ordered ID when t.ID is empty.
	Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	// GetByID returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]models.Transaction, error)
	ListByPerson(ctx context.Context, personID string) ([]models.Transaction, error)
	// Delete returns common.ErrorNotFound when absent.
	Delete(ctx context.Context, id string) error
	// DeleteByPerson removes every transaction of a person and reports how
	// many there were.
	DeleteByPerson(ctx context.Context, personID string) (int64, error)
}
