package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/client/client"
	cm "github.com/dmitrijs2005/glucosync/internal/client/models"
	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/glucose"
	"github.com/dmitrijs2005/glucosync/internal/logging"
	"github.com/dmitrijs2005/glucosync/internal/server/config"
	"github.com/dmitrijs2005/glucosync/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type staticTokens struct{ token string }

func (s *staticTokens) CurrentToken() (string, bool) { return s.token, s.token != "" }

// The client package talks to this router exactly as it would to the
// production service.
func TestClientRoundTrip(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("kulus"), bcrypt.MinCost)
	require.NoError(t, err)

	authSvc, err := services.NewAuthService(&config.Config{PasswordHash: string(hash), SecretKey: "s", TokenTTL: time.Hour})
	require.NoError(t, err)

	rs := &fakeReadings{}
	ts := httptest.NewServer(NewServer("", testKey, time.Second, logging.NewNop(), authSvc, rs).Routes())
	defer ts.Close()

	ctx := context.Background()
	tokens := &staticTokens{}
	c, err := client.NewHTTPClient(ts.URL, testKey, tokens, 5*time.Second)
	require.NoError(t, err)

	require.NoError(t, c.Ping(ctx))

	_, err = c.Authenticate(ctx, "wrong")
	assert.ErrorIs(t, err, common.ErrAuthRejected)

	_, err = c.FetchReadings(ctx, "Pat")
	assert.ErrorIs(t, err, common.ErrAuthRejected)

	res, err := c.Authenticate(ctx, "kulus")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, res.TTL)
	tokens.token = res.Token

	ok, err := c.VerifyToken(ctx, res.Token)
	require.NoError(t, err)
	assert.True(t, ok)

	comment := "lunch"
	ack, err := c.SubmitReading(ctx, cm.Submission{
		Name: "Pat", Value: 6.5, Unit: glucose.UnitMmolL, Comment: &comment, SnackPass: true, Source: "manual",
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", ack.RemoteID)
	assert.Equal(t, "6.5", rs.LastInput.Reading)
	assert.Equal(t, "true", rs.LastInput.SnackPass)

	raws, err := c.FetchReadings(ctx, "Pat")
	require.NoError(t, err)
	require.Len(t, raws, 1)

	var rec cm.RemoteReading
	require.NoError(t, json.Unmarshal(raws[0], &rec))
	require.NotNil(t, rec.ID)
	assert.Equal(t, "srv-1", *rec.ID)
	require.NotNil(t, rec.Timestamp)
	require.NotNil(t, rec.Timestamp.UnderscoreSeconds)
	assert.Equal(t, int64(1_700_000_000), *rec.Timestamp.UnderscoreSeconds)
	assert.Equal(t, int64(250_000_000), *rec.Timestamp.UnderscoreNanoseconds)
	require.NotNil(t, rec.GlucoseLevel)
	assert.Equal(t, "green", *rec.GlucoseLevel.Color)
}

func TestClientRoundTrip_WrongAPIKey(t *testing.T) {
	ts := httptest.NewServer(newTestServer(&fakeAuth{Password: "kulus"}, &fakeReadings{}).Routes())
	defer ts.Close()

	c, err := client.NewHTTPClient(ts.URL, "not-the-key", nil, time.Second)
	require.NoError(t, err)

	_, err = c.Authenticate(context.Background(), "kulus")
	assert.ErrorIs(t, err, common.ErrAuthRejected)

	assert.NoError(t, c.Ping(context.Background()))
}
