package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/client/models"
	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/glucose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecord_Boundaries(t *testing.T) {
	now := time.UnixMilli(1_600_000_000_000)

	tests := []struct {
		name  string
		in    string
		check func(t *testing.T, r models.Reading)
	}{
		{
			name: "empty object gets every default",
			in:   `{}`,
			check: func(t *testing.T, r models.Reading) {
				assert.NotEmpty(t, r.ID)
				assert.Zero(t, r.Value)
				assert.Equal(t, glucose.DefaultUnit, r.Unit)
				assert.Equal(t, "", r.Name)
				assert.False(t, r.SnackPass)
				assert.Equal(t, DefaultSource, r.Source)
				assert.Equal(t, now.UnixMilli(), r.Timestamp)
				assert.True(t, r.Synced)
				assert.Nil(t, r.PhotoURI)
				assert.Nil(t, r.GlucoseLevel)
			},
		},
		{
			name: "id wins over readingId",
			in:   `{"id":"x","readingId":"y"}`,
			check: func(t *testing.T, r models.Reading) {
				assert.Equal(t, "x", r.ID)
			},
		},
		{
			name: "empty id falls back to readingId",
			in:   `{"id":"","readingId":"y"}`,
			check: func(t *testing.T, r models.Reading) {
				assert.Equal(t, "y", r.ID)
			},
		},
		{
			name: "primary value wins over nested level",
			in:   `{"reading":4.2,"glucoseLevel":{"glucoseLevel":9.9}}`,
			check: func(t *testing.T, r models.Reading) {
				assert.Equal(t, 4.2, r.Value)
				assert.Equal(t, 9, *r.GlucoseLevel)
			},
		},
		{
			name: "timestamp object without seconds uses now",
			in:   `{"timestamp":{}}`,
			check: func(t *testing.T, r models.Reading) {
				assert.Equal(t, now.UnixMilli(), r.Timestamp)
			},
		},
		{
			name: "timestamp preferred over ts",
			in:   `{"timestamp":{"_seconds":5},"ts":{"seconds":9}}`,
			check: func(t *testing.T, r models.Reading) {
				assert.Equal(t, int64(5000), r.Timestamp)
			},
		},
		{
			name: "plain field names with nanoseconds",
			in:   `{"ts":{"seconds":2,"nanoseconds":999999999}}`,
			check: func(t *testing.T, r models.Reading) {
				assert.Equal(t, int64(2999), r.Timestamp)
			},
		},
		{
			name: "top level color wins",
			in:   `{"color":"red","glucoseLevel":{"color":"green"}}`,
			check: func(t *testing.T, r models.Reading) {
				assert.Equal(t, "red", *r.Color)
			},
		},
		{
			name: "mg/dL and explicit fields kept",
			in:   `{"units":"mg/dL","name":"Pat","snackPass":true,"source":"photo","comment":"c"}`,
			check: func(t *testing.T, r models.Reading) {
				assert.Equal(t, glucose.UnitMgDL, r.Unit)
				assert.Equal(t, "Pat", r.Name)
				assert.True(t, r.SnackPass)
				assert.Equal(t, "photo", r.Source)
				assert.Equal(t, "c", *r.Comment)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := normalizeRecord(json.RawMessage(tt.in), now)
			require.NoError(t, err)
			tt.check(t, r)
		})
	}
}

func TestNormalizeRecord_StableIDWithoutServerID(t *testing.T) {
	now := time.Now()
	a, err := normalizeRecord(json.RawMessage(`{"reading":5,"name":"Pat"}`), now)
	require.NoError(t, err)
	b, err := normalizeRecord(json.RawMessage(` {"reading":5,"name":"Pat"} `), now)
	require.NoError(t, err)
	c, err := normalizeRecord(json.RawMessage(`{"reading":6,"name":"Pat"}`), now)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestNormalizeRecord_Skipped(t *testing.T) {
	for _, in := range []string{`null`, ``, `[1,2]`, `{"reading":"high"}`, `{"timestamp":"yesterday"}`} {
		_, err := normalizeRecord(json.RawMessage(in), time.Now())
		require.ErrorIs(t, err, common.ErrNormalizationSkipped, in)
	}
}
