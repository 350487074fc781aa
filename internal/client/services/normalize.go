package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/client/models"
	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/glucose"
	"github.com/google/uuid"
)

// DefaultSource tags readings whose origin is unknown.
const DefaultSource = "manual"

// remoteIDSpace derives stable ids for remote records that carry none, so
// pulling the same data twice does not duplicate it.
var remoteIDSpace = uuid.MustParse("6b0f5a3e-4d1c-4c8e-9d2a-3f1e7b9c5a10")

var errNullRecord = errors.New("null record")

// normalizeRecord decodes one raw remote record and fills in defaults.
// Records that cannot be decoded are reported as ErrNormalizationSkipped.
func normalizeRecord(raw json.RawMessage, now time.Time) (models.Reading, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return models.Reading{}, fmt.Errorf("%w: %w", common.ErrNormalizationSkipped, errNullRecord)
	}

	var dto models.RemoteReading
	if err := json.Unmarshal(trimmed, &dto); err != nil {
		return models.Reading{}, fmt.Errorf("%w: %w", common.ErrNormalizationSkipped, err)
	}

	r := normalize(dto, now)
	if r.ID == "" {
		r.ID = uuid.NewSHA1(remoteIDSpace, trimmed).String()
	}
	return r, nil
}

// normalize maps a remote record onto a confirmed Reading. ID is left empty
// when the record has none.
func normalize(dto models.RemoteReading, now time.Time) models.Reading {
	r := models.Reading{
		ID:        firstNonEmpty(dto.ID, dto.ReadingID),
		Unit:      glucose.DefaultUnit,
		Source:    DefaultSource,
		Timestamp: remoteMillis(dto, now),
		Synced:    true,
		ProfileID: models.DefaultProfileID,
	}

	switch {
	case dto.Reading != nil:
		r.Value = *dto.Reading
	case dto.GlucoseLevel != nil && dto.GlucoseLevel.GlucoseLevel != nil:
		r.Value = *dto.GlucoseLevel.GlucoseLevel
	}

	if dto.Units != nil {
		r.Unit, _ = glucose.ParseUnit(*dto.Units)
	}
	if dto.Name != nil {
		r.Name = *dto.Name
	}
	r.Comment = dto.Comment
	if dto.SnackPass != nil {
		r.SnackPass = *dto.SnackPass
	}
	if dto.Source != nil && *dto.Source != "" {
		r.Source = *dto.Source
	}

	r.Color = dto.Color
	if dto.GlucoseLevel != nil {
		if r.Color == nil {
			r.Color = dto.GlucoseLevel.Color
		}
		if dto.GlucoseLevel.GlucoseLevel != nil {
			level := int(*dto.GlucoseLevel.GlucoseLevel)
			r.GlucoseLevel = &level
		}
	}

	return r
}

func remoteMillis(dto models.RemoteReading, now time.Time) int64 {
	ts := dto.Timestamp
	if ts == nil {
		ts = dto.TS
	}
	if ts == nil {
		return now.UnixMilli()
	}

	sec := ts.UnderscoreSeconds
	if sec == nil {
		sec = ts.Seconds
	}
	if sec == nil {
		return now.UnixMilli()
	}

	var nanos int64
	switch {
	case ts.UnderscoreNanoseconds != nil:
		nanos = *ts.UnderscoreNanoseconds
	case ts.Nanoseconds != nil:
		nanos = *ts.Nanoseconds
	}
	return *sec*1000 + nanos/1_000_000
}

func firstNonEmpty(vals ...*string) string {
	for _, v := range vals {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}
