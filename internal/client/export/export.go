// Package export writes readings to CSV, JSON or plain-text files in an
// export directory and keeps only the most recent ones.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/client/models"
	"github.com/dmitrijs2005/glucosync/internal/client/stats"
	"github.com/dmitrijs2005/glucosync/internal/filex"
)

// DefaultKeep is how many export files survive a cleanup.
const DefaultKeep = 5

const filePrefix = "kulus_export_"

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "txt"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatText:
		return f, nil
	case "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	}
	return "text/plain"
}

type Exporter struct {
	dir  string
	keep int
	now  func() time.Time
}

func New(dir string) *Exporter {
	return &Exporter{dir: dir, keep: DefaultKeep, now: time.Now}
}

// Export writes rs in format f to a new timestamped file, prunes older
// exports and returns the path of the new file.
func (e *Exporter) Export(f Format, rs []models.Reading) (string, error) {
	if _, err := filex.EnsureDir(e.dir); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	now := e.now()
	path := filepath.Join(e.dir, filePrefix+now.Format("20060102_150405")+"."+string(f))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	switch f {
	case FormatCSV:
		err = WriteCSV(file, rs)
	case FormatJSON:
		err = WriteJSON(file, rs, now)
	case FormatText:
		err = WriteText(file, rs, stats.Compute(rs), now)
	default:
		err = fmt.Errorf("unknown export format %q", f)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}

	if err := e.Cleanup(); err != nil {
		return path, err
	}
	return path, nil
}

// Cleanup removes all but the newest exports.
func (e *Exporter) Cleanup() error {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return fmt.Errorf("failed to read export dir: %w", err)
	}

	type export struct {
		name string
		mod  time.Time
	}
	var files []export
	for _, de := range entries {
		if de.IsDir() || !strings.HasPrefix(de.Name(), filePrefix) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			return err
		}
		files = append(files, export{name: de.Name(), mod: info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].mod.Equal(files[j].mod) {
			return files[i].mod.After(files[j].mod)
		}
		return files[i].name > files[j].name
	})

	for i := e.keep; i < len(files); i++ {
		if err := os.Remove(filepath.Join(e.dir, files[i].name)); err != nil {
			return fmt.Errorf("failed to remove old export: %w", err)
		}
	}
	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var csvHeader = []string{"ID", "Reading", "Units", "Name", "Comment", "Snack Pass", "Source", "Timestamp", "Date", "Synced", "Photo URI"}

func WriteCSV(w io.Writer, rs []models.Reading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rs {
		row := []string{
			r.ID,
			formatValue(r.Value),
			string(r.Unit),
			r.Name,
			deref(r.Comment),
			strconv.FormatBool(r.SnackPass),
			r.Source,
			strconv.FormatInt(r.Timestamp, 10),
			r.Time().Format(time.DateTime),
			strconv.FormatBool(r.Synced),
			deref(r.PhotoURI),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonReading struct {
	ID           string   `json:"id"`
	Reading      float64  `json:"reading"`
	Units        string   `json:"units"`
	Name         string   `json:"name"`
	Comment      *string  `json:"comment"`
	SnackPass    bool     `json:"snackPass"`
	Source       string   `json:"source"`
	Timestamp    int64    `json:"timestamp"`
	Date         string   `json:"date"`
	Color        *string  `json:"color"`
	GlucoseLevel *int     `json:"glucoseLevel"`
	Synced       bool     `json:"synced"`
	PhotoURI     *string  `json:"photoUri"`
	Tags         []string `json:"tags,omitempty"`
}

type jsonExport struct {
	ExportDate    string        `json:"exportDate"`
	TotalReadings int           `json:"totalReadings"`
	Readings      []jsonReading `json:"readings"`
}

const isoUTC = "2006-01-02T15:04:05Z"

func WriteJSON(w io.Writer, rs []models.Reading, now time.Time) error {
	out := jsonExport{
		ExportDate:    now.UTC().Format(isoUTC),
		TotalReadings: len(rs),
		Readings:      make([]jsonReading, 0, len(rs)),
	}
	for _, r := range rs {
		out.Readings = append(out.Readings, jsonReading{
			ID:           r.ID,
			Reading:      r.Value,
			Units:        string(r.Unit),
			Name:         r.Name,
			Comment:      r.Comment,
			SnackPass:    r.SnackPass,
			Source:       r.Source,
			Timestamp:    r.Timestamp,
			Date:         r.Time().UTC().Format(isoUTC),
			Color:        r.Color,
			GlucoseLevel: r.GlucoseLevel,
			Synced:       r.Synced,
			PhotoURI:     r.PhotoURI,
			Tags:         r.TagList(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteText writes a human-readable report: an optional statistics summary
// followed by readings grouped by day, newest first.
func WriteText(w io.Writer, rs []models.Reading, st *stats.Statistics, now time.Time) error {
	var b strings.Builder
	rule := strings.Repeat("=", 50)
	thin := strings.Repeat("-", 50)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Kulus Glucose Readings Export")
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Export Date: %s\n", now.Format("January 2, 2006 at 3:04 PM"))
	fmt.Fprintf(&b, "Total Readings: %d\n", len(rs))
	fmt.Fprintln(&b)

	if st != nil {
		tir := st.TimeInRange
		fmt.Fprintln(&b, "STATISTICS")
		fmt.Fprintln(&b, thin)
		fmt.Fprintf(&b, "Average: %.1f mmol/L\n", st.Average)
		fmt.Fprintf(&b, "Minimum: %.1f mmol/L\n", st.Minimum)
		fmt.Fprintf(&b, "Maximum: %.1f mmol/L\n", st.Maximum)
		fmt.Fprintf(&b, "Standard Deviation: %.1f mmol/L\n", st.StandardDeviation)
		fmt.Fprintf(&b, "Coefficient of Variation: %.1f%%\n", st.CoefficientOfVariation)
		fmt.Fprintf(&b, "Estimated A1C: %.1f%%\n", st.EstimatedA1C)
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "TIME IN RANGE")
		fmt.Fprintln(&b, thin)
		fmt.Fprintf(&b, "In Range (3.9-10.0): %.1f%% (%d readings)\n", tir.InRangePercent, tir.InRangeCount)
		fmt.Fprintf(&b, "Low (<3.9): %.1f%% (%d readings)\n", tir.LowPercent+tir.VeryLowPercent, tir.LowCount+tir.VeryLowCount)
		fmt.Fprintf(&b, "High (>10.0): %.1f%% (%d readings)\n", tir.HighPercent+tir.VeryHighPercent, tir.HighCount+tir.VeryHighCount)
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, "READINGS")
	fmt.Fprintln(&b, thin)

	sorted := append([]models.Reading(nil), rs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp > sorted[j].Timestamp })

	day := ""
	for _, r := range sorted {
		t := r.Time().In(now.Location())
		if d := t.Format("Monday, January 2, 2006"); d != day {
			day = d
			fmt.Fprintf(&b, "\n%s\n", d)
		}
		fmt.Fprintf(&b, "%s - %s\n", t.Format("3:04 PM"), r.Name)
		fmt.Fprintf(&b, "  Reading: %s %s\n", formatValue(r.Value), r.Unit)
		if r.Comment != nil {
			fmt.Fprintf(&b, "  Comment: %s\n", *r.Comment)
		}
		if r.SnackPass {
			fmt.Fprintln(&b, "  [Snack Pass]")
		}
		if !r.Synced {
			fmt.Fprintln(&b, "  [Not Synced]")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
