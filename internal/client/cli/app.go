package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/client/client"
	"github.com/dmitrijs2005/glucosync/internal/client/config"
	"github.com/dmitrijs2005/glucosync/internal/client/credentials"
	"github.com/dmitrijs2005/glucosync/internal/client/export"
	"github.com/dmitrijs2005/glucosync/internal/client/notify"
	"github.com/dmitrijs2005/glucosync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/glucosync/internal/client/scheduler"
	"github.com/dmitrijs2005/glucosync/internal/client/services"
	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Preference keys in the metadata "preferences" namespace.
const (
	prefOwnerName     = "owner_name"
	prefAlertsEnabled = "alerts_enabled"
)

type App struct {
	config *config.Config
	logger logging.Logger

	repos    *client.Repositories
	prefs    metadata.Repository
	creds    *credentials.Store
	remote   client.Client
	auth     services.AuthService
	readings services.ReadingService

	scheduler *scheduler.Scheduler
	notifier  notify.Notifier
	exporter  *export.Exporter
	// newUploader builds the export uploader on first use.
	newUploader func(ctx context.Context) (export.Uploader, error)
	uploader    export.Uploader

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	mu       sync.Mutex
	userName string
	alerts   bool
	mode     Mode
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	creds, err := credentials.Load(ctx, repos.Metadata.In(metadata.NamespaceCredential), nil)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	remote, err := client.NewHTTPClient(c.ServerURL, c.APIKey, creds, c.RequestTimeout)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	password := c.Password
	if password == "" {
		pw, err := GetPassword(os.Stdout)
		if err != nil {
			_ = repos.Close()
			return nil, fmt.Errorf("read password: %w", err)
		}
		password = string(pw)
	}

	auth := services.NewAuthService(remote, creds, password, logger)
	rs := services.NewReadingService(auth, remote, repos.Readings, logger)

	sched := scheduler.New(scheduler.Options{
		BackoffBase: c.BackoffBase,
		MaxAttempts: c.MaxAttempts,
		Ready:       remote.Ping,
	}, logger)

	a := &App{
		config:    c,
		logger:    logger,
		repos:     repos,
		prefs:     repos.Metadata.In(metadata.NamespacePreferences),
		creds:     creds,
		remote:    remote,
		auth:      auth,
		readings:  rs,
		scheduler: sched,
		exporter:  export.New(c.ExportDir),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		now:       time.Now,
		mode:      ModeOffline,
	}
	a.notifier = &consoleNotifier{out: a.out, log: notify.NewLogNotifier(logger)}
	a.newUploader = func(ctx context.Context) (export.Uploader, error) {
		return export.NewS3Uploader(ctx, export.S3Config{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		})
	}

	if err := a.loadPreferences(ctx); err != nil {
		_ = repos.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) loadPreferences(ctx context.Context) error {
	prefs, err := a.prefs.List(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.userName = a.config.DefaultUser
	if v, ok := prefs[prefOwnerName]; ok {
		a.userName = string(v)
	}
	a.alerts = a.config.AlertsEnabled
	if v, ok := prefs[prefAlertsEnabled]; ok {
		a.alerts = string(v) == "true"
	}
	return nil
}

func (a *App) currentUser() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName
}

func (a *App) alertsEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.alerts
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// setMode records the reachability of the remote service and reports
// whether it changed.
func (a *App) setMode(ctx context.Context, mode Mode) bool {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
	return changed
}

func (a *App) getStatus() string {
	s := a.currentUser()
	if m := a.currentMode(); m != "" {
		if s != "" {
			s += " "
		}
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// syncJob is the body of the periodic reconciliation job: push pending
// readings, then pull the current user's readings.
func (a *App) syncJob(ctx context.Context) error {
	owner := a.currentUser()
	if owner == "" {
		_, err := a.readings.SyncUnsyncedReadings(ctx)
		return err
	}
	return a.readings.FullSync(ctx, owner)
}

// StartOnlineStatusWatcher probes the remote service every interval until
// ctx is done. Coming back online triggers an immediate sync.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.remote.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	if a.setMode(ctx, ModeOnline) && a.scheduler != nil {
		go func() {
			if _, err := a.scheduler.RunNow(ctx, common.SyncJobName); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn(ctx, "sync after reconnect failed", "error", err)
			}
		}()
	}
}

// Run registers the periodic sync job, starts the online watcher and runs
// the REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.scheduler.Register(ctx, common.SyncJobName, a.config.SyncInterval, a.syncJob); err != nil {
		return err
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	a.checkOnline(ctx)

	fmt.Fprintln(a.out, "Welcome to glucosync (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// Close stops background jobs and closes the database.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.repos != nil {
		if err := a.repos.Close(); err != nil {
			a.logger.Error(context.Background(), "error closing database", "error", err)
		}
	}
}
