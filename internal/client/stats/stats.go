// Package stats summarizes glucose readings. All figures are in mmol/L.
package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/client/models"
)

type TimeInRange struct {
	VeryLowCount  int
	LowCount      int
	InRangeCount  int
	HighCount     int
	VeryHighCount int

	VeryLowPercent  float64
	LowPercent      float64
	InRangePercent  float64
	HighPercent     float64
	VeryHighPercent float64
}

type Statistics struct {
	Count             int
	Average           float64
	Minimum           float64
	Maximum           float64
	StandardDeviation float64
	// CoefficientOfVariation is a percentage; zero when Average is zero.
	CoefficientOfVariation float64
	TimeInRange            TimeInRange
	EstimatedA1C           float64
}

// Compute summarizes rs. It returns nil for an empty slice.
func Compute(rs []models.Reading) *Statistics {
	if len(rs) == 0 {
		return nil
	}

	values := make([]float64, len(rs))
	var sum float64
	for i, r := range rs {
		values[i] = r.Mmol()
		sum += values[i]
	}

	n := float64(len(values))
	s := &Statistics{
		Count:   len(values),
		Average: sum / n,
		Minimum: math.Inf(1),
		Maximum: math.Inf(-1),
	}

	var variance float64
	for _, v := range values {
		s.Minimum = math.Min(s.Minimum, v)
		s.Maximum = math.Max(s.Maximum, v)
		variance += (v - s.Average) * (v - s.Average)
	}
	s.StandardDeviation = math.Sqrt(variance / n)
	if s.Average > 0 {
		s.CoefficientOfVariation = s.StandardDeviation / s.Average * 100
	}
	s.TimeInRange = timeInRange(values)
	s.EstimatedA1C = (s.Average + 2.59) / 1.59

	return s
}

// timeInRange buckets values. Bounds are inclusive on both sides for the
// inner ranges, so a value on a boundary is counted in both neighbours.
func timeInRange(values []float64) TimeInRange {
	var t TimeInRange
	for _, v := range values {
		if v < 3.0 {
			t.VeryLowCount++
		}
		if v >= 3.0 && v <= 3.9 {
			t.LowCount++
		}
		if v >= 3.9 && v <= 10.0 {
			t.InRangeCount++
		}
		if v >= 10.0 && v <= 13.9 {
			t.HighCount++
		}
		if v >= 13.9 {
			t.VeryHighCount++
		}
	}

	total := float64(len(values))
	pct := func(c int) float64 { return float64(c) / total * 100 }
	t.VeryLowPercent = pct(t.VeryLowCount)
	t.LowPercent = pct(t.LowCount)
	t.InRangePercent = pct(t.InRangeCount)
	t.HighPercent = pct(t.HighCount)
	t.VeryHighPercent = pct(t.VeryHighCount)
	return t
}

// TimeRange is a trailing window used to filter readings.
type TimeRange int

const (
	RangeDay TimeRange = iota
	RangeWeek
	RangeMonth
	RangeQuarter
	RangeYear
)

func (r TimeRange) Days() int {
	switch r {
	case RangeWeek:
		return 7
	case RangeMonth:
		return 30
	case RangeQuarter:
		return 90
	case RangeYear:
		return 365
	}
	return 1
}

func (r TimeRange) String() string {
	switch r {
	case RangeWeek:
		return "7 Days"
	case RangeMonth:
		return "30 Days"
	case RangeQuarter:
		return "90 Days"
	case RangeYear:
		return "1 Year"
	}
	return "24 Hours"
}

// ParseTimeRange accepts day, week, month, quarter or year.
func ParseTimeRange(s string) (TimeRange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day":
		return RangeDay, nil
	case "week":
		return RangeWeek, nil
	case "month":
		return RangeMonth, nil
	case "quarter":
		return RangeQuarter, nil
	case "year":
		return RangeYear, nil
	}
	return RangeDay, fmt.Errorf("unknown time range %q", s)
}

// Since returns the start of the window ending at now.
func (r TimeRange) Since(now time.Time) time.Time {
	return now.Add(-time.Duration(r.Days()) * 24 * time.Hour)
}

// Filter keeps readings taken at or after the start of the window.
func Filter(rs []models.Reading, r TimeRange, now time.Time) []models.Reading {
	start := r.Since(now).UnixMilli()
	out := make([]models.Reading, 0, len(rs))
	for _, rd := range rs {
		if rd.Timestamp >= start {
			out = append(out, rd)
		}
	}
	return out
}
