package models

import (
	"testing"

	"github.com/dmitrijs2005/glucosync/internal/glucose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags(t *testing.T) {
	joined := JoinTags([]string{" Fasting", "", "  ", "Morning "})
	require.NotNil(t, joined)
	assert.Equal(t, "Fasting,Morning", *joined)

	assert.Nil(t, JoinTags([]string{" ", ""}))
	assert.Nil(t, JoinTags(nil))

	r := Reading{Tags: joined}
	assert.Equal(t, []string{"Fasting", "Morning"}, r.TagList())
	assert.Nil(t, Reading{}.TagList())
}

func TestReading_Mmol(t *testing.T) {
	r := Reading{Value: 180, Unit: glucose.UnitMgDL}
	assert.InDelta(t, 10.0, r.Mmol(), 1e-9)
}
