package models

import (
	"time"

	"github.com/dmitrijs2005/glucosync/internal/glucose"
)

// AuthResult is a successful authenticate response.
type AuthResult struct {
	Token string
	TTL   time.Duration
}

// Submission carries the fields sent when creating a reading remotely.
type Submission struct {
	Name      string
	Value     float64
	Unit      glucose.Unit
	Comment   *string
	SnackPass bool
	Source    string
}

// SubmissionFromReading builds the remote payload for r.
func SubmissionFromReading(r Reading) Submission {
	return Submission{
		Name:      r.Name,
		Value:     r.Value,
		Unit:      r.Unit,
		Comment:   r.Comment,
		SnackPass: r.SnackPass,
		Source:    r.Source,
	}
}

// SubmitAck is the remote acknowledgement of a created reading.
type SubmitAck struct {
	Result   string
	Message  string
	RemoteID string
}

// RemoteTimestamp is the server timestamp, which arrives either as
// {"_seconds", "_nanoseconds"} or as {"seconds", "nanoseconds"}.
type RemoteTimestamp struct {
	UnderscoreSeconds     *int64 `json:"_seconds,omitempty"`
	UnderscoreNanoseconds *int64 `json:"_nanoseconds,omitempty"`
	Seconds               *int64 `json:"seconds,omitempty"`
	Nanoseconds           *int64 `json:"nanoseconds,omitempty"`
}

// GlucoseLevelDetails is the nested severity block of a remote record.
type GlucoseLevelDetails struct {
	GlucoseLevel *float64 `json:"glucoseLevel,omitempty"`
	Color        *string  `json:"color,omitempty"`
}

// RemoteReading is a reading as returned by GET /readings. Every field is
// optional; missing values are defaulted during normalization.
type RemoteReading struct {
	ID           *string              `json:"id,omitempty"`
	ReadingID    *string              `json:"readingId,omitempty"`
	Reading      *float64             `json:"reading,omitempty"`
	Units        *string              `json:"units,omitempty"`
	Name         *string              `json:"name,omitempty"`
	Comment      *string              `json:"comment,omitempty"`
	SnackPass    *bool                `json:"snackPass,omitempty"`
	Source       *string              `json:"source,omitempty"`
	Timestamp    *RemoteTimestamp     `json:"timestamp,omitempty"`
	TS           *RemoteTimestamp     `json:"ts,omitempty"`
	Color        *string              `json:"color,omitempty"`
	GlucoseLevel *GlucoseLevelDetails `json:"glucoseLevel,omitempty"`
}
