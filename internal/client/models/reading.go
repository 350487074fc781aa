// Package models defines the client-side data models of glucosync.
package models

import (
	"time"

	"github.com/dmitrijs2005/glucosync/internal/glucose"
)

// DefaultProfileID owns readings created without an explicit profile.
const DefaultProfileID = "00000000-0000-0000-0000-000000000001"

// Reading is a single glucose measurement.
//
// A Reading is pending while Synced is false and exists only locally; it is
// confirmed once the remote service has accepted it or it was pulled from
// the remote service. It never goes back from confirmed to pending.
type Reading struct {
	// ID is assigned at local creation time and never reassigned.
	ID string `json:"id"`

	Value float64      `json:"reading"`
	Unit  glucose.Unit `json:"units"`

	// Name is the owner name used for per-user filtering.
	Name    string  `json:"name"`
	Comment *string `json:"comment,omitempty"`

	// SnackPass suppresses downstream alerting.
	SnackPass bool `json:"snackPass"`

	// Source is a free tag such as "manual", "photo" or "android".
	Source string `json:"source"`

	// Timestamp is the client-assigned creation time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`

	Color        *string `json:"color,omitempty"`
	GlucoseLevel *int    `json:"glucoseLevel,omitempty"`

	Synced bool `json:"synced"`

	// PhotoURI references a local photo. Remote records never carry one.
	PhotoURI *string `json:"photoUri,omitempty"`

	// Tags is a comma-joined tag list.
	Tags *string `json:"tags,omitempty"`

	ProfileID string `json:"profileId"`
}

// Time returns Timestamp as a time.Time in the local zone.
func (r Reading) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Mmol returns the value converted to mmol/L.
func (r Reading) Mmol() float64 {
	return r.Unit.ToMmol(r.Value)
}

// TagList splits Tags back into individual tags.
func (r Reading) TagList() []string {
	if r.Tags == nil {
		return nil
	}
	return SplitTags(*r.Tags)
}
