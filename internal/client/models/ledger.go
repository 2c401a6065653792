// Package models holds the client-side view of the REST API payloads.
package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Person is a counterparty with the current balance: positive means the
// person owes the user.
type Person struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

func (p Person) String() string {
	return fmt.Sprintf("%-20s %12s", p.Name, p.Balance.StringFixed(2))
}

// Transaction is a single send or receive as returned by the server.
type Transaction struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   *string         `json:"description"`
	Type          string          `json:"type"`
	Date          string          `json:"date"`
	FormattedDate string          `json:"formattedDate"`
	Person        *Person         `json:"person"`
}

func (t Transaction) String() string {
	name := ""
	if t.Person != nil {
		name = t.Person.Name
	}
	desc := ""
	if t.Description != nil {
		desc = *t.Description
	}
	return fmt.Sprintf("%s  %s  %-7s %-20s %12s  %s", t.ID, t.FormattedDate, t.Type, name, t.Amount.StringFixed(2), desc)
}

// Session is what the server returns on register, login and refresh.
type Session struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	Message      string `json:"message,omitempty"`
}

// Statement points at an exported CSV ledger.
type Statement struct {
	URL     string `json:"url"`
	Key     string `json:"key"`
	Rows    int    `json:"rows"`
	Expires string `json:"expires"`
}
