package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/common"
)

func (a *App) SetUser(ctx context.Context, name string) error {
	if err := a.prefs.Set(ctx, prefOwnerName, []byte(name)); err != nil {
		return err
	}
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
	fmt.Fprintf(a.out, "Current user: %s\n", name)
	return nil
}

func (a *App) SetAlerts(ctx context.Context, on bool) error {
	if err := a.prefs.Set(ctx, prefAlertsEnabled, []byte(strconv.FormatBool(on))); err != nil {
		return err
	}
	a.mu.Lock()
	a.alerts = on
	a.mu.Unlock()

	state := "off"
	if on {
		state = "on"
	}
	fmt.Fprintf(a.out, "Alerts %s\n", state)
	return nil
}

// Status prints connectivity, credential and sync state. The credential is
// checked with the remote service when online.
func (a *App) Status(ctx context.Context) error {
	user := a.currentUser()
	if user == "" {
		user = "(none)"
	}
	fmt.Fprintf(a.out, "User:       %s\n", user)
	fmt.Fprintf(a.out, "Server:     %s (%s)\n", a.config.ServerURL, a.currentMode())
	fmt.Fprintf(a.out, "Alerts:     %t\n", a.alertsEnabled())

	if token, ok := a.creds.CurrentToken(); ok {
		fmt.Fprintf(a.out, "Credential: valid until %s\n", a.creds.Expiry().Format(time.DateTime))
		if a.currentMode() == ModeOnline {
			valid, err := a.remote.VerifyToken(ctx, token)
			switch {
			case err != nil:
				fmt.Fprintf(a.out, "            remote check failed: %v\n", err)
			case !valid:
				fmt.Fprintln(a.out, "            rejected by the server")
			default:
				fmt.Fprintln(a.out, "            accepted by the server")
			}
		}
	} else {
		fmt.Fprintln(a.out, "Credential: none")
	}

	all, err := a.readings.Readings(ctx, "")
	if err != nil {
		return err
	}
	pending := 0
	for _, r := range all {
		if !r.Synced {
			pending++
		}
	}
	fmt.Fprintf(a.out, "Readings:   %d stored, %d pending\n", len(all), pending)

	if a.scheduler != nil {
		if last, ok := a.scheduler.Last(common.SyncJobName); ok {
			fmt.Fprintf(a.out, "Last sync:  %s after %d attempt(s)\n", last.Outcome, last.Attempt)
		} else {
			fmt.Fprintln(a.out, "Last sync:  not run yet")
		}
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out. A new credential will be requested on the next sync.")
	return nil
}
