// Package users stores user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/moneytracker/internal/server/models"
)

// Repository is the storage contract for users. Lookups that find nothing
// return common.ErrorNotFound; inserts that hit a unique username or email
// return common.ErrorConflict.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	ExistsByUserName(ctx context.Context, userName string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
