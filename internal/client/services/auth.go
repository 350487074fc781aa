package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/client/client"
	"github.com/dmitrijs2005/glucosync/internal/logging"
	"golang.org/x/sync/singleflight"
)

// CredentialStore is the part of credentials.Store the services use.
type CredentialStore interface {
	IsValid() bool
	Save(ctx context.Context, token string, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// AuthService keeps a valid bearer credential around.
type AuthService interface {
	// EnsureAuthenticated returns immediately while the stored credential is
	// valid. Otherwise it authenticates with the configured password; callers
	// arriving while that call is in flight share its result.
	EnsureAuthenticated(ctx context.Context) error
	IsAuthenticated() bool
	SignOut(ctx context.Context) error
}

type authService struct {
	client   client.Client
	creds    CredentialStore
	password string
	logger   logging.Logger
	flight   singleflight.Group
}

func NewAuthService(c client.Client, creds CredentialStore, password string, logger logging.Logger) AuthService {
	return &authService{client: c, creds: creds, password: password, logger: logger}
}

func (s *authService) IsAuthenticated() bool {
	return s.creds.IsValid()
}

func (s *authService) EnsureAuthenticated(ctx context.Context) error {
	if s.creds.IsValid() {
		return nil
	}

	ch := s.flight.DoChan("credential", func() (any, error) {
		// a caller may have refreshed the credential just before we got here
		if s.creds.IsValid() {
			return nil, nil
		}
		// the shared call must outlive any single caller giving up
		ctx := context.WithoutCancel(ctx)

		res, err := s.client.Authenticate(ctx, s.password)
		if err != nil {
			s.logger.Warn(ctx, "authentication failed", "error", err)
			return nil, fmt.Errorf("authenticate: %w", err)
		}
		if err := s.creds.Save(ctx, res.Token, res.TTL); err != nil {
			return nil, err
		}
		s.logger.Info(ctx, "authenticated", "ttl", res.TTL)
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-ch:
		return r.Err
	}
}

func (s *authService) SignOut(ctx context.Context) error {
	if err := s.creds.Clear(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}
