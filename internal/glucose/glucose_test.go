package glucose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in     string
		want   Unit
		wantOK bool
	}{
		{"mmol/L", UnitMmolL, true},
		{"MG/DL", UnitMgDL, true},
		{" mg/dL ", UnitMgDL, true},
		{"", DefaultUnit, false},
		{"furlongs", DefaultUnit, false},
	}
	for _, tt := range tests {
		got, ok := ParseUnit(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}

func TestUnitConversion(t *testing.T) {
	assert.InDelta(t, 7.0, UnitMgDL.ToMmol(126), 1e-9)
	assert.InDelta(t, 7.0, UnitMmolL.ToMmol(7), 1e-9)
	assert.InDelta(t, 126.0, UnitMmolL.ToMgDL(7), 1e-9)
	assert.InDelta(t, 126.0, UnitMgDL.ToMgDL(126), 1e-9)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		mmol float64
		want Severity
	}{
		{2.9, SeverityCriticalLow},
		{3.0, SeverityCriticalLow},
		{3.5, SeverityLow},
		{3.9, SeverityLow},
		{5.5, SeverityNormal},
		{10.0, SeverityHigh},
		{13.8, SeverityHigh},
		{13.9, SeverityCriticalHigh},
		{25, SeverityCriticalHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.mmol), "%v", tt.mmol)
	}
}

func TestSeverity_ColorAndString(t *testing.T) {
	assert.Equal(t, "green", SeverityNormal.Color())
	assert.Equal(t, "orange", SeverityLow.Color())
	assert.Equal(t, "red", SeverityCriticalHigh.Color())
	assert.Equal(t, "critical low", SeverityCriticalLow.String())
	assert.True(t, SeverityCriticalLow.Critical())
	assert.False(t, SeverityHigh.Critical())
}
