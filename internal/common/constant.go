package common

const (
	// APIKeyHeaderName carries the fixed API key on every remote request.
	APIKeyHeaderName = "x-api-key"

	// SyncJobName is the unique name of the periodic reconciliation job.
	SyncJobName = "kulus_sync"
)
