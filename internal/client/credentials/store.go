// Package credentials keeps the bearer token issued by the remote service
// together with its absolute expiry.
//
// The token is written through to the credential namespace of the metadata
// table and cached in memory, so reads never touch the database. A
// credential is valid while the current time is before its expiry; an
// expired token is hidden from CurrentToken but stays stored until Clear.
package credentials

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/client/repositories/metadata"
)

const (
	keyToken  = "token"
	keyExpiry = "expiry_ms"
)

// Store is safe for concurrent use.
type Store struct {
	repo metadata.Repository
	now  func() time.Time

	mu     sync.RWMutex
	token  string
	expiry time.Time
}

// Load restores the persisted credential, if any. A nil now uses time.Now.
func Load(ctx context.Context, repo metadata.Repository, now func() time.Time) (*Store, error) {
	if now == nil {
		now = time.Now
	}
	s := &Store{repo: repo, now: now}

	token, err := repo.Get(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	rawExpiry, err := repo.Get(ctx, keyExpiry)
	if err != nil {
		return nil, err
	}
	if token == nil || rawExpiry == nil {
		return s, nil
	}

	ms, err := strconv.ParseInt(string(rawExpiry), 10, 64)
	if err != nil {
		// unreadable expiry: treat as no credential
		return s, nil
	}
	s.token = string(token)
	s.expiry = time.UnixMilli(ms)
	return s, nil
}

// Save stores token with expiry = now + ttl, replacing any prior value.
func (s *Store) Save(ctx context.Context, token string, ttl time.Duration) error {
	expiry := s.now().Add(ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.SetMany(ctx, map[string][]byte{
		keyToken:  []byte(token),
		keyExpiry: []byte(strconv.FormatInt(expiry.UnixMilli(), 10)),
	})
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	s.token, s.expiry = token, expiry
	return nil
}

// CurrentToken returns the token while it is valid.
func (s *Store) CurrentToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || !s.now().Before(s.expiry) {
		return "", false
	}
	return s.token, true
}

// IsValid reports whether a token exists and has not expired.
func (s *Store) IsValid() bool {
	_, ok := s.CurrentToken()
	return ok
}

// Expiry returns the stored expiry, or the zero time when nothing is stored.
func (s *Store) Expiry() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiry
}

// Clear removes the credential. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	s.token, s.expiry = "", time.Time{}
	return nil
}
