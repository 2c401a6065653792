// Package refreshtokens stores the single-use refresh tokens handed out at
// login.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/moneytracker/internal/server/models"
)

// Repository defines operations for issuing, retrieving and revoking refresh
// tokens.
type Repository interface {
	// Create stores token.
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find looks up a refresh token by its opaque string.
	// It returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
