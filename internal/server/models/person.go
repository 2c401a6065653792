package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Person is a named counterparty owned by one user.
//
// Balance is positive when the owner has sent more than received, i.e. the
// person owes the owner. Only the ledger engine writes it.
type Person struct {
	ID        string
	UserID    string
	Name      string
	Balance   decimal.Decimal
	CreatedAt time.Time
}
