package models

import "time"

// RefreshToken is a server-stored, single-use token exchanged for a new
// token pair. Token holds the hex SHA-256 digest, never the value given to
// the client.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
