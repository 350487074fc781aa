package api

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/logging"
	"github.com/dmitrijs2005/glucosync/internal/server/models"
	"github.com/dmitrijs2005/glucosync/internal/server/services"
)

const (
	testKey   = "test-key"
	goodToken = "good-token"
)

type fakeAuth struct {
	Password     string
	IssueErr     error
	LastPassword string
}

func (f *fakeAuth) ValidatePassword(_ context.Context, password string) (*services.Token, error) {
	f.LastPassword = password
	if f.IssueErr != nil {
		return nil, f.IssueErr
	}
	if password != f.Password {
		return nil, common.ErrAuthRejected
	}
	return &services.Token{Value: goodToken, ExpiresIn: time.Hour}, nil
}

func (f *fakeAuth) Authorize(token string) error {
	if token != goodToken {
		return common.ErrInvalidToken
	}
	return nil
}

func (f *fakeAuth) VerifyToken(token string) bool { return f.Authorize(token) == nil }

type fakeReadings struct {
	mu        sync.Mutex
	Items     []models.Reading
	AddErr    error
	ListErr   error
	Panic     bool
	LastInput services.AddReadingInput
	LastName  string
}

func (f *fakeReadings) Add(_ context.Context, in services.AddReadingInput) (*models.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.LastInput = in
	if f.AddErr != nil {
		return nil, f.AddErr
	}
	r := models.Reading{
		ID:        "srv-1",
		Name:      in.Name,
		Value:     6.5,
		Units:     "mmol/L",
		Source:    in.Source,
		CreatedAt: time.Unix(1_700_000_000, 250_000_000).UTC(),
	}
	f.Items = append(f.Items, r)
	return &r, nil
}

func (f *fakeReadings) List(_ context.Context, name string) ([]models.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Panic {
		panic("boom")
	}
	f.LastName = name
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Items, nil
}

func newTestServer(a Authenticator, rs ReadingStore) *Server {
	return NewServer("127.0.0.1:0", testKey, time.Second, logging.NewNop(), a, rs)
}
