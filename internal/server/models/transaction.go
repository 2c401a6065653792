package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells which way money moved.
type TransactionType string

const (
	// Send is money the owner gave to the person.
	Send TransactionType = "SEND"
	// Receive is money the owner got from the person.
	Receive TransactionType = "RECEIVE"
)

// Valid reports whether t is one of the known types.
func (t TransactionType) Valid() bool {
	return t == Send || t == Receive
}

// DescriptionMaxLen is the longest description accepted, in characters.
const DescriptionMaxLen = 500

// AmountScale is the number of fractional digits amounts and balances keep.
const AmountScale = 2

// amountIntDigits is the number of integer digits NUMERIC(12,2) leaves.
const amountIntDigits = 10

// maxFractionDigits bounds how far ValidateAmount will rescale an input.
const maxFractionDigits = 18

// MaxAmount is the largest magnitude an amount or a balance may reach.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// DateLayout renders Transaction.Date for display.
const DateLayout = "2006-01-02 15:04"

// Transaction is a single send or receive against a person.
// Person is a read-time snapshot of the counterparty, filled by list queries.
type Transaction struct {
	ID          string
	UserID      string
	PersonID    string
	Amount      decimal.Decimal
	Description *string
	Type        TransactionType
	Date        time.Time
	Person      *Person
}

// SignedAmount is +Amount for Send and -Amount for Receive: the change this
// transaction made to its person's balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	return SignedAmount(t.Type, t.Amount)
}

// FormattedDate renders Date with DateLayout.
func (t *Transaction) FormattedDate() string {
	return t.Date.Format(DateLayout)
}

// SignedAmount returns the balance delta of a transaction of type typ.
func SignedAmount(typ TransactionType, amount decimal.Decimal) decimal.Decimal {
	if typ == Receive {
		return amount.Neg()
	}
	return amount
}

// ParseAmount parses a decimal string such as "12.50". It does not check
// the sign; see ValidateAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("amount is required")
	}
	return decimal.NewFromString(s)
}

// ValidateAmount reports whether amount is strictly positive, carries no
// more than AmountScale fractional digits and does not exceed MaxAmount.
func ValidateAmount(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	// range-check the exponent first; rescaling 1e200000 is not free
	exp := int(amount.Exponent())
	if exp < -maxFractionDigits || amount.NumDigits()+exp > amountIntDigits {
		return false
	}
	return amount.Equal(amount.Truncate(AmountScale)) && amount.LessThanOrEqual(MaxAmount)
}

// BalanceInRange reports whether balance fits the balance column.
func BalanceInRange(balance decimal.Decimal) bool {
	return balance.Abs().LessThanOrEqual(MaxAmount)
}
