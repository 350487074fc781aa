// Package models holds the records persisted by the reference server.
package models

import "time"

// Reading is a glucose reading as stored remotely. Value is kept in the
// units it was submitted with.
type Reading struct {
	ID        string
	Name      string
	Value     float64
	Units     string
	Comment   *string
	SnackPass bool
	Source    string
	CreatedAt time.Time
}
