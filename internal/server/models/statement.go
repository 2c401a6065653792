package models

import "time"

// Statement describes an exported CSV ledger stored in object storage.
type Statement struct {
	// Key is the object-storage key of the CSV file.
	Key string
	// URL is a presigned GET link to the object.
	URL string
	// Expires is when URL stops working.
	Expires time.Time
	// Rows is the number of transactions written.
	Rows int
}
