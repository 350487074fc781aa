package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/server/auth"
	"github.com/dmitrijs2005/glucosync/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	bcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{Password: "kulus", SecretKey: "secret", TokenTTL: time.Hour}
}

func TestNewAuthService(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pw"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "plain password", mutate: func(*config.Config) {}},
		{name: "hash wins", mutate: func(c *config.Config) { c.PasswordHash = string(hash); c.Password = "" }},
		{name: "no password", mutate: func(c *config.Config) { c.Password = "" }, wantErr: "no password configured"},
		{name: "bad hash", mutate: func(c *config.Config) { c.PasswordHash = "plaintext" }, wantErr: "password hash"},
		{name: "no secret", mutate: func(c *config.Config) { c.SecretKey = "" }, wantErr: "no secret key configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			s, err := NewAuthService(cfg)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, s)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	s, err := NewAuthService(testConfig())
	require.NoError(t, err)

	tok, err := s.ValidatePassword(context.Background(), "kulus")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, tok.ExpiresIn)
	assert.True(t, s.VerifyToken(tok.Value))

	_, err = s.ValidatePassword(context.Background(), "wrong")
	assert.ErrorIs(t, err, common.ErrAuthRejected)
}

func TestVerifyToken_RejectsForeignAndExpired(t *testing.T) {
	s, err := NewAuthService(testConfig())
	require.NoError(t, err)

	foreign, _, err := auth.GenerateToken("kulus", []byte("other-secret"), time.Hour)
	require.NoError(t, err)
	assert.False(t, s.VerifyToken(foreign))

	expired, _, err := auth.GenerateToken("kulus", []byte("secret"), -time.Minute)
	require.NoError(t, err)
	assert.False(t, s.VerifyToken(expired))
	assert.ErrorIs(t, s.Authorize(expired), common.ErrInvalidToken)

	assert.False(t, s.VerifyToken(""))
}
