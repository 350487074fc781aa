package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/client/client"
	"github.com/dmitrijs2005/glucosync/internal/client/credentials"
	"github.com/dmitrijs2005/glucosync/internal/client/models"
	"github.com/dmitrijs2005/glucosync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// fakeClient implements client.Client for engine tests.
type fakeClient struct {
	mu sync.Mutex

	AuthenticateFn func(ctx context.Context, password string) (*models.AuthResult, error)
	AuthCalls      int
	LastPassword   string

	FetchRet   []json.RawMessage
	FetchErr   error
	FetchCalls int
	LastOwner  string

	// SubmitErr applies to every submission unless SubmitErrFor has an entry
	// for the submitted comment.
	SubmitErr    error
	SubmitErrFor map[string]error
	Submitted    []models.Submission
	// OnSubmit runs after a submission is accepted, before it is acknowledged.
	OnSubmit func(s models.Submission)
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		AuthenticateFn: func(context.Context, string) (*models.AuthResult, error) {
			return &models.AuthResult{Token: "tok", TTL: time.Hour}, nil
		},
	}
}

func (f *fakeClient) Authenticate(ctx context.Context, password string) (*models.AuthResult, error) {
	f.mu.Lock()
	f.AuthCalls++
	f.LastPassword = password
	fn := f.AuthenticateFn
	f.mu.Unlock()
	return fn(ctx, password)
}

func (f *fakeClient) FetchReadings(ctx context.Context, owner string) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FetchCalls++
	f.LastOwner = owner
	return f.FetchRet, f.FetchErr
}

func (f *fakeClient) SubmitReading(ctx context.Context, s models.Submission) (*models.SubmitAck, error) {
	f.mu.Lock()
	if s.Comment != nil {
		if err, ok := f.SubmitErrFor[*s.Comment]; ok {
			f.mu.Unlock()
			return nil, err
		}
	}
	if f.SubmitErr != nil {
		err := f.SubmitErr
		f.mu.Unlock()
		return nil, err
	}
	f.Submitted = append(f.Submitted, s)
	n := len(f.Submitted)
	hook := f.OnSubmit
	f.mu.Unlock()

	if hook != nil {
		hook(s)
	}
	return &models.SubmitAck{Result: "success", RemoteID: fmt.Sprintf("remote-%d", n)}, nil
}

func (f *fakeClient) VerifyToken(context.Context, string) (bool, error) { return true, nil }

func (f *fakeClient) Ping(context.Context) error { return nil }

func (f *fakeClient) authCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.AuthCalls
}

func (f *fakeClient) submitted() []models.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Submission(nil), f.Submitted...)
}

func (f *fakeClient) set(fn func(f *fakeClient)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

var (
	errOffline = &client.RemoteError{Op: "test", Message: "connection refused", Kind: common.ErrTransport}
	errRevoked = &client.RemoteError{Op: "test", StatusCode: 401, Message: "token revoked", Kind: common.ErrAuthRejected}
)

type fixture struct {
	repos  *client.Repositories
	creds  *credentials.Store
	client *fakeClient
	auth   AuthService
	svc    *readingService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	repos, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "engine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	creds, err := credentials.Load(ctx, repos.Metadata.In(metadata.NamespaceCredential), nil)
	require.NoError(t, err)

	fc := newFakeClient()
	auth := NewAuthService(fc, creds, "build-password", logging.NewNop())
	svc := NewReadingService(auth, fc, repos.Readings, logging.NewNop()).(*readingService)

	return &fixture{repos: repos, creds: creds, client: fc, auth: auth, svc: svc}
}
