package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/glucosync/internal/client/export"
	"github.com/dmitrijs2005/glucosync/internal/client/stats"
)

// Stats prints statistics of the current user's readings over a trailing
// window (day by default).
func (a *App) Stats(ctx context.Context, period string) error {
	tr, err := stats.ParseTimeRange(period)
	if err != nil {
		return err
	}

	rs, err := a.readings.Readings(ctx, a.currentUser())
	if err != nil {
		return err
	}

	s := stats.Compute(stats.Filter(rs, tr, a.now()))
	if s == nil {
		fmt.Fprintf(a.out, "No readings in the last %s.\n", tr)
		return nil
	}

	tir := s.TimeInRange
	fmt.Fprintf(a.out, "Last %s: %d reading(s)\n", tr, s.Count)
	fmt.Fprintf(a.out, "  Average:        %.1f mmol/L\n", s.Average)
	fmt.Fprintf(a.out, "  Min / Max:      %.1f / %.1f mmol/L\n", s.Minimum, s.Maximum)
	fmt.Fprintf(a.out, "  Std deviation:  %.1f mmol/L (CV %.1f%%)\n", s.StandardDeviation, s.CoefficientOfVariation)
	fmt.Fprintf(a.out, "  Estimated A1C:  %.1f%%\n", s.EstimatedA1C)
	fmt.Fprintf(a.out, "  Time in range:  %.1f%% in range, %.1f%% low, %.1f%% high\n",
		tir.InRangePercent, tir.LowPercent+tir.VeryLowPercent, tir.HighPercent+tir.VeryHighPercent)
	return nil
}

// Export writes the current user's readings to a file and optionally
// uploads it.
func (a *App) Export(ctx context.Context, format string, upload bool) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	rs, err := a.readings.Readings(ctx, a.currentUser())
	if err != nil {
		return err
	}

	path, err := a.exporter.Export(f, rs)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d reading(s) to %s\n", len(rs), path)

	if !upload {
		return nil
	}
	if a.uploader == nil {
		u, err := a.newUploader(ctx)
		if err != nil {
			return fmt.Errorf("upload unavailable: %w", err)
		}
		a.uploader = u
	}
	key, err := a.uploader.Upload(ctx, path, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded as %s\n", key)
	return nil
}
