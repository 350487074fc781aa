// Package notify classifies readings by severity and raises alerts for
// critical levels.
package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/glucosync/internal/client/models"
	"github.com/dmitrijs2005/glucosync/internal/glucose"
	"github.com/dmitrijs2005/glucosync/internal/logging"
)

type Alert struct {
	ReadingID string
	Severity  glucose.Severity
	Title     string
	Message   string
}

// Evaluate returns the alert for r, if any. Only critical readings alert,
// and never when alerts are off or the reading has a snack pass.
func Evaluate(r models.Reading, alertsEnabled bool) (Alert, bool) {
	if !alertsEnabled || r.SnackPass {
		return Alert{}, false
	}

	sev := glucose.Classify(r.Mmol())
	value := strconv.FormatFloat(r.Value, 'f', -1, 64) + " " + string(r.Unit)

	a := Alert{ReadingID: r.ID, Severity: sev}
	switch sev {
	case glucose.SeverityCriticalHigh:
		a.Title = "Critical High Glucose"
		a.Message = fmt.Sprintf("Your glucose is %s. This is dangerously high. Please take action.", value)
	case glucose.SeverityCriticalLow:
		a.Title = "Critical Low Glucose"
		a.Message = fmt.Sprintf("Your glucose is %s. This is dangerously low. Treat immediately.", value)
	default:
		return Alert{}, false
	}
	return a, true
}

// Notifier delivers alerts.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

// CheckAndNotify evaluates r and hands any alert to n. It reports whether
// an alert was raised.
func CheckAndNotify(ctx context.Context, n Notifier, r models.Reading, alertsEnabled bool) (bool, error) {
	a, ok := Evaluate(r, alertsEnabled)
	if !ok {
		return false, nil
	}
	if err := n.Notify(ctx, a); err != nil {
		return false, fmt.Errorf("notify %s: %w", a.ReadingID, err)
	}
	return true, nil
}

// LogNotifier writes alerts to a logger.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, a Alert) error {
	n.logger.Warn(ctx, a.Title, "reading", a.ReadingID, "severity", a.Severity.String(), "message", a.Message)
	return nil
}
