package services

// SyncError is the failure result of a sync operation. Err keeps the kind
// (common.ErrAuthRejected, common.ErrTransport, ...) reachable via errors.Is.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return e.Op + " failed: " + e.Err.Error()
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
