// Package services contains the reference server's business logic: the
// shared-password token exchange and reading intake.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/server/auth"
	"github.com/dmitrijs2005/glucosync/internal/server/config"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is lowered by tests.
var bcryptCost = bcrypt.DefaultCost

// Token is an issued bearer token.
type Token struct {
	Value     string
	ExpiresIn time.Duration
}

// AuthService checks the shared password and mints bearer tokens.
type AuthService struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
}

// NewAuthService uses cfg.PasswordHash when set and otherwise hashes
// cfg.Password. Having neither is an error.
func NewAuthService(cfg *config.Config) (*AuthService, error) {
	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		if cfg.Password == "" {
			return nil, errors.New("no password configured")
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("password hash: %w", err)
	}

	if cfg.SecretKey == "" {
		return nil, errors.New("no secret key configured")
	}

	return &AuthService{
		passwordHash: hash,
		secret:       []byte(cfg.SecretKey),
		ttl:          cfg.TokenTTL,
	}, nil
}

// ValidatePassword exchanges password for a token. A wrong password
// yields common.ErrAuthRejected.
func (s *AuthService) ValidatePassword(ctx context.Context, password string) (*Token, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return nil, common.ErrAuthRejected
	}

	tok, _, err := auth.GenerateToken("kulus", s.secret, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{Value: tok, ExpiresIn: s.ttl}, nil
}

// Authorize reports common.ErrInvalidToken for any token this server did
// not issue or that has expired.
func (s *AuthService) Authorize(token string) error {
	_, err := auth.ValidateToken(token, s.secret)
	return err
}

func (s *AuthService) VerifyToken(token string) bool {
	return s.Authorize(token) == nil
}
