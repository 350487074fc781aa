package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/glucosync/internal/client/models"
)

// Client is the remote service contract.
type Client interface {
	Authenticate(ctx context.Context, password string) (*models.AuthResult, error)
	// FetchReadings returns the raw reading records of owner; decoding and
	// defaulting them is the caller's job.
	FetchReadings(ctx context.Context, owner string) ([]json.RawMessage, error)
	SubmitReading(ctx context.Context, s models.Submission) (*models.SubmitAck, error)
	VerifyToken(ctx context.Context, token string) (bool, error)
	Ping(ctx context.Context) error
}

// TokenSource yields the bearer token to attach, if any.
type TokenSource interface {
	CurrentToken() (string, bool)
}
