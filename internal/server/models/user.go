// Package models defines server-side data models persisted in storage.
package models

import "time"

// User is an account that owns people and transactions.
// Email is nil when none was given at registration.
type User struct {
	ID           string
	UserName     string
	Email        *string
	PasswordHash string
	CreatedAt    time.Time
}
