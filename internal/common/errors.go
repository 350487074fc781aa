// Package common defines sentinel errors shared by the client and server
// layers of glucosync. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrNotFound is returned by repositories when a keyed record is absent.
	ErrNotFound = errors.New("not found")

	// ErrAuthRejected means the remote service explicitly refused the
	// credentials. It is never retried automatically.
	ErrAuthRejected = errors.New("authentication rejected")

	// ErrTransport covers network failures, timeouts and non-2xx responses.
	ErrTransport = errors.New("transport error")

	// ErrNormalizationSkipped marks a single malformed remote record that was
	// dropped from a batch.
	ErrNormalizationSkipped = errors.New("normalization skipped")

	// ErrLocalStorage wraps failures of the local database.
	ErrLocalStorage = errors.New("local storage error")

	// ErrInvalidToken is used by the reference server for bad bearer tokens.
	ErrInvalidToken = errors.New("invalid token")
)
