package client

import (
	"fmt"

	"github.com/dmitrijs2005/glucosync/internal/common"
)

// RemoteError is the failure outcome of a remote call. StatusCode is zero
// when no HTTP response was received.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	// Kind is common.ErrAuthRejected or common.ErrTransport.
	Kind error
	Err  error
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %v: HTTP %d: %s", e.Op, e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, msg)
}

func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func transportErr(op string, status int, msg string, err error) *RemoteError {
	return &RemoteError{Op: op, StatusCode: status, Message: msg, Kind: common.ErrTransport, Err: err}
}

func authRejected(op string, status int, msg string) *RemoteError {
	return &RemoteError{Op: op, StatusCode: status, Message: msg, Kind: common.ErrAuthRejected}
}
