package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/dmitrijs2005/moneytracker/internal/logging"
)

// User-facing errors. Each is classified by a common sentinel so callers
// can switch on the kind with errors.Is.
var (
	ErrUserNameTaken      = common.NewError(common.ErrorConflict, "Username already exists")
	ErrEmailTaken         = common.NewError(common.ErrorConflict, "Email already exists")
	ErrInvalidCredentials = common.NewError(common.ErrorUnauthorized, "Invalid username or password")
	ErrUserNotFound       = common.NewError(common.ErrorNotFound, "User not found")

	ErrPersonNameRequired = common.NewError(common.ErrorInvalidInput, "Name is required")
	ErrPersonExists       = common.NewError(common.ErrorConflict, "Person with this name already exists")
	ErrPersonNotFound     = common.NewError(common.ErrorNotFound, "Person not found")

	ErrTransactionNotFound = common.NewError(common.ErrorNotFound, "Transaction not found")
	ErrNotTransactionOwner = common.NewError(common.ErrorForbidden, "Unauthorized to reverse this transaction")
	ErrDescriptionTooLong  = common.NewError(common.ErrorInvalidInput, "Description must be at most 500 characters")
	ErrBalanceOutOfRange   = common.NewError(common.ErrorInvalidInput, "Balance would exceed 9999999999.99")
)

var kinds = []error{
	common.ErrorNotFound,
	common.ErrorConflict,
	common.ErrorInvalidInput,
	common.ErrorUnauthorized,
	common.ErrorForbidden,
	common.ErrorInternal,
	common.ErrInvalidToken,
	common.ErrTokenExpired,
	common.ErrRefreshTokenExpired,
}

// classify passes already-classified errors through. Anything else is a
// storage or infrastructure failure: it is logged and replaced by
// common.ErrorInternal.
func classify(ctx context.Context, log logging.Logger, op string, err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return err
		}
	}
	log.Error(ctx, op+" failed", "error", err)
	return common.ErrorInternal
}
