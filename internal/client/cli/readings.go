package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/client/models"
	"github.com/dmitrijs2005/glucosync/internal/client/notify"
	"github.com/dmitrijs2005/glucosync/internal/client/services"
	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/glucose"
)

func (a *App) readNewReading() (services.NewReading, error) {
	var in services.NewReading

	raw, err := GetSimpleText(a.reader, "Enter reading value", a.out)
	if err != nil {
		return in, err
	}
	in.Value, err = strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || in.Value <= 0 {
		return in, fmt.Errorf("invalid reading value %q", raw)
	}

	raw, err = GetSimpleText(a.reader, "Units: mmol/L or mg/dL [mmol/L]", a.out)
	if err != nil {
		return in, err
	}
	if raw != "" {
		u, ok := glucose.ParseUnit(raw)
		if !ok {
			return in, fmt.Errorf("unknown unit %q", raw)
		}
		in.Unit = u
	}

	owner := a.currentUser()
	prompt := "Name"
	if owner != "" {
		prompt = fmt.Sprintf("Name [%s]", owner)
	}
	in.Name, err = GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return in, err
	}
	if in.Name == "" {
		in.Name = owner
	}
	if in.Name == "" {
		return in, errors.New("name is required")
	}

	if in.Comment, err = GetOptionalText(a.reader, "Comment", a.out); err != nil {
		return in, err
	}
	if in.SnackPass, err = GetYesNo(a.reader, "Snack pass?", a.out); err != nil {
		return in, err
	}

	raw, err = GetSimpleText(a.reader, "Tags, comma separated (optional): "+strings.Join(models.PredefinedTags, ", "), a.out)
	if err != nil {
		return in, err
	}
	in.Tags = models.SplitTags(raw)
	in.Source = services.DefaultSource

	return in, nil
}

// Add prompts for a reading, saves it and raises an alert for critical
// levels.
func (a *App) Add(ctx context.Context) error {
	in, err := a.readNewReading()
	if err != nil {
		return err
	}

	r, err := a.readings.AddReading(ctx, in)
	if err != nil {
		return err
	}

	state := "synced"
	if !r.Synced {
		state = "saved offline, will sync later"
	}
	fmt.Fprintf(a.out, "Saved reading %s (%s)\n", r.ID, state)

	if _, err := notify.CheckAndNotify(ctx, a.notifier, r, a.alertsEnabled()); err != nil {
		a.logger.Warn(ctx, "alert delivery failed", "error", err)
	}
	return nil
}

func formatReading(r models.Reading) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s %s  %s",
		r.ID, r.Time().Format("2006-01-02 15:04"), strconv.FormatFloat(r.Value, 'f', -1, 64), r.Unit, r.Name)
	if r.SnackPass {
		b.WriteString("  [snack pass]")
	}
	if !r.Synced {
		b.WriteString("  [pending]")
	}
	if r.Comment != nil {
		fmt.Fprintf(&b, "  %q", *r.Comment)
	}
	return b.String()
}

// List prints the current user's readings, or all readings when no user is
// set.
func (a *App) List(ctx context.Context) error {
	rs, err := a.readings.Readings(ctx, a.currentUser())
	if err != nil {
		return err
	}
	if len(rs) == 0 {
		fmt.Fprintln(a.out, "No readings.")
		return nil
	}
	for _, r := range rs {
		fmt.Fprintln(a.out, formatReading(r))
	}
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	r, err := a.readings.Reading(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("reading %s not found", id)
		}
		return err
	}

	fmt.Fprintf(a.out, "ID:         %s\n", r.ID)
	fmt.Fprintf(a.out, "Name:       %s\n", r.Name)
	fmt.Fprintf(a.out, "Reading:    %s %s\n", strconv.FormatFloat(r.Value, 'f', -1, 64), r.Unit)
	fmt.Fprintf(a.out, "Taken at:   %s\n", r.Time().Format(time.DateTime))
	fmt.Fprintf(a.out, "Severity:   %s\n", glucose.Classify(r.Mmol()))
	fmt.Fprintf(a.out, "Source:     %s\n", r.Source)
	fmt.Fprintf(a.out, "Synced:     %t\n", r.Synced)
	if r.SnackPass {
		fmt.Fprintln(a.out, "Snack pass: yes")
	}
	if r.Comment != nil {
		fmt.Fprintf(a.out, "Comment:    %s\n", *r.Comment)
	}
	if tags := r.TagList(); len(tags) > 0 {
		fmt.Fprintf(a.out, "Tags:       %s\n", strings.Join(tags, ", "))
	}
	if r.PhotoURI != nil {
		fmt.Fprintf(a.out, "Photo:      %s\n", *r.PhotoURI)
	}
	return nil
}

// Delete removes a reading from the local store only.
func (a *App) Delete(ctx context.Context, id string) error {
	r, err := a.readings.Reading(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("reading %s not found", id)
		}
		return err
	}
	if err := a.readings.DeleteReading(ctx, *r); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", id)
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	ok, err := GetYesNo(a.reader, "Delete ALL local readings?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.readings.ClearAllReadings(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "All local readings deleted.")
	return nil
}

// Sync pushes pending readings and, when a user is set, pulls theirs.
func (a *App) Sync(ctx context.Context) error {
	pushed, err := a.readings.SyncUnsyncedReadings(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Pushed %d pending reading(s)\n", pushed)

	owner := a.currentUser()
	if owner == "" {
		fmt.Fprintln(a.out, "No user set; skipping download (use: user <name>)")
		return nil
	}
	pulled, err := a.readings.SyncReadingsFromServer(ctx, owner)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Downloaded %d reading(s) for %s\n", len(pulled), owner)
	return nil
}

// consoleNotifier shows alerts to the user and records them in the log.
type consoleNotifier struct {
	out io.Writer
	log notify.Notifier
}

func (n *consoleNotifier) Notify(ctx context.Context, al notify.Alert) error {
	fmt.Fprintf(n.out, "!! %s: %s\n", al.Title, al.Message)
	return n.log.Notify(ctx, al)
}
