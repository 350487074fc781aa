// Package scheduler runs named periodic jobs in the background. A firing
// that fails is retried with exponential backoff up to a fixed number of
// attempts; the next firing starts with a fresh budget.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/logging"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultBackoffBase = 30 * time.Second
	DefaultMaxAttempts = 3
)

// ErrUnknownJob is returned for operations on a name that is not registered.
var ErrUnknownJob = errors.New("unknown job")

// Job is one unit of periodic work. A returned error wrapping
// common.ErrAuthRejected ends the firing without further attempts.
type Job func(ctx context.Context) error

// Precondition gates every firing. A non-nil error skips the firing.
type Precondition func(ctx context.Context) error

type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomeSuccess Outcome = "success"
	OutcomeRetry   Outcome = "retry"
	OutcomeFailure Outcome = "failure"
)

// SyncAttempt is the state of a single firing.
type SyncAttempt struct {
	Attempt int
	Outcome Outcome
}

type Options struct {
	BackoffBase time.Duration
	MaxAttempts int
	// Ready is checked before each firing; nil means always ready.
	Ready Precondition
}

type Scheduler struct {
	logger      logging.Logger
	backoffBase time.Duration
	maxAttempts int
	ready       Precondition

	mu   sync.Mutex
	jobs map[string]*entry
}

type entry struct {
	name     string
	job      Job
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}

	// running serializes scheduled firings with RunNow.
	running sync.Mutex

	lastMu sync.Mutex
	last   SyncAttempt
	fired  bool
}

func New(opts Options, logger logging.Logger) *Scheduler {
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = DefaultBackoffBase
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	return &Scheduler{
		logger:      logger,
		backoffBase: opts.BackoffBase,
		maxAttempts: opts.MaxAttempts,
		ready:       opts.Ready,
		jobs:        make(map[string]*entry),
	}
}

// Register starts job under name, firing every interval until ctx is done
// or the job is cancelled. Registering a name that already exists replaces
// the previous job; at most one job per name is ever active.
func (s *Scheduler) Register(ctx context.Context, name string, interval time.Duration, job Job) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive, got %s", name, interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.jobs[name]; ok {
		old.stop()
		s.logger.Info(ctx, "replacing periodic job", "job", name)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	e := &entry{
		name:     name,
		job:      job,
		interval: interval,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	s.jobs[name] = e

	go s.loop(loopCtx, e)

	s.logger.Info(ctx, "registered periodic job", "job", name, "interval", interval)
	return nil
}

func (e *entry) stop() {
	e.cancel()
	<-e.done
}

func (s *Scheduler) loop(ctx context.Context, e *entry) {
	defer close(e.done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.fire(ctx, e)
		case <-ctx.Done():
			return
		}
	}
}

// RunNow performs one firing of the named job immediately and returns its
// final state.
func (s *Scheduler) RunNow(ctx context.Context, name string) (SyncAttempt, error) {
	s.mu.Lock()
	e, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return SyncAttempt{}, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.fire(ctx, e)
}

// Last reports the final state of the most recent firing of name.
func (s *Scheduler) Last(name string) (SyncAttempt, bool) {
	s.mu.Lock()
	e, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return SyncAttempt{}, false
	}
	e.lastMu.Lock()
	defer e.lastMu.Unlock()
	return e.last, e.fired
}

// Jobs lists registered job names.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for n := range s.jobs {
		names = append(names, n)
	}
	return names
}

// Cancel stops and forgets the named job. Unknown names are ignored.
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.jobs[name]; ok {
		e.stop()
		delete(s.jobs, name)
	}
}

// Stop cancels every job and waits for running firings to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, e := range s.jobs {
		e.stop()
		delete(s.jobs, name)
	}
}

func (s *Scheduler) fire(ctx context.Context, e *entry) (SyncAttempt, error) {
	e.running.Lock()
	defer e.running.Unlock()

	log := s.logger.With("job", e.name)
	att := SyncAttempt{Outcome: OutcomePending}

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			log.Debug(ctx, "skipping firing, precondition not met", "error", err)
			return att, err
		}
	}

	b := retry.WithMaxRetries(uint64(s.maxAttempts-1), retry.NewExponential(s.backoffBase))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		att.Attempt++
		err := e.job(ctx)
		switch {
		case err == nil:
			att.Outcome = OutcomeSuccess
			return nil
		case errors.Is(err, common.ErrAuthRejected):
			return err
		}
		att.Outcome = OutcomeRetry
		log.Warn(ctx, "firing attempt failed", "attempt", att.Attempt, "max", s.maxAttempts, "error", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		att.Outcome = OutcomeFailure
		log.Error(ctx, "firing failed", "attempts", att.Attempt, "error", err)
	} else {
		log.Info(ctx, "firing succeeded", "attempts", att.Attempt)
	}

	e.lastMu.Lock()
	e.last, e.fired = att, true
	e.lastMu.Unlock()

	return att, err
}
