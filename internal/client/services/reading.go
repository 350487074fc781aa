package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/client/client"
	"github.com/dmitrijs2005/glucosync/internal/client/models"
	"github.com/dmitrijs2005/glucosync/internal/client/repositories/readings"
	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/glucose"
	"github.com/dmitrijs2005/glucosync/internal/logging"
	"github.com/google/uuid"
)

// NewReading holds the caller-supplied fields of AddReading.
type NewReading struct {
	Value     float64
	Name      string
	Unit      glucose.Unit
	Comment   *string
	SnackPass bool
	Source    string
	Tags      []string
	PhotoURI  *string
	ProfileID string
}

// ReadingService is the reconciliation engine. Local storage is the source
// of truth for writes; the remote service is reconciled with it on demand.
type ReadingService interface {
	// AddReading stores the reading locally before anything else and then
	// tries to push it. Remote failures are not reported: the reading is
	// returned pending and picked up by the next push.
	AddReading(ctx context.Context, in NewReading) (models.Reading, error)

	// SyncReadingsFromServer pulls the owner's remote readings into the
	// local store, replacing local copies with the same id.
	SyncReadingsFromServer(ctx context.Context, owner string) ([]models.Reading, error)

	// SyncUnsyncedReadings pushes every pending reading once and returns how
	// many were confirmed. Items that fail stay pending.
	SyncUnsyncedReadings(ctx context.Context) (int, error)

	// FullSync pushes pending readings and then pulls the owner's readings.
	FullSync(ctx context.Context, owner string) error

	Readings(ctx context.Context, owner string) ([]models.Reading, error)
	Reading(ctx context.Context, id string) (*models.Reading, error)
	DeleteReading(ctx context.Context, r models.Reading) error
	ClearAllReadings(ctx context.Context) error
}

type readingService struct {
	auth   AuthService
	client client.Client
	store  readings.Repository
	logger logging.Logger

	now   func() time.Time
	newID func() string
}

func NewReadingService(auth AuthService, c client.Client, store readings.Repository, logger logging.Logger) ReadingService {
	return &readingService{
		auth:   auth,
		client: c,
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *readingService) AddReading(ctx context.Context, in NewReading) (models.Reading, error) {
	r := models.Reading{
		ID:        s.newID(),
		Value:     in.Value,
		Unit:      in.Unit,
		Name:      in.Name,
		Comment:   in.Comment,
		SnackPass: in.SnackPass,
		Source:    in.Source,
		Timestamp: s.now().UnixMilli(),
		PhotoURI:  in.PhotoURI,
		Tags:      models.JoinTags(in.Tags),
		ProfileID: in.ProfileID,
	}
	if r.Unit == "" {
		r.Unit = glucose.DefaultUnit
	}
	if r.Source == "" {
		r.Source = DefaultSource
	}
	if r.ProfileID == "" {
		r.ProfileID = models.DefaultProfileID
	}

	if err := s.store.InsertOrReplace(ctx, r); err != nil {
		return models.Reading{}, err
	}

	ack, err := s.push(ctx, r)
	if err != nil {
		s.logger.Info(ctx, "reading kept pending", "id", r.ID, "error", err)
		return r, nil
	}

	r.Synced = true
	// the remote side has accepted it; record that even if the caller left
	if err := s.store.Update(context.WithoutCancel(ctx), r); err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return models.Reading{}, err
		}
		// deleted locally while the push was in flight
		s.logger.Info(ctx, "pushed reading no longer stored locally", "id", r.ID)
	}
	s.logger.Debug(ctx, "reading pushed", "id", r.ID, "remote_id", ack.RemoteID)
	return r, nil
}

func (s *readingService) push(ctx context.Context, r models.Reading) (*models.SubmitAck, error) {
	if err := s.auth.EnsureAuthenticated(ctx); err != nil {
		return nil, err
	}
	ack, err := s.client.SubmitReading(ctx, models.SubmissionFromReading(r))
	if err != nil {
		s.forgetRejected(ctx, err)
		return nil, err
	}
	return ack, nil
}

// forgetRejected drops a credential the remote service no longer accepts so
// the next call authenticates again.
func (s *readingService) forgetRejected(ctx context.Context, err error) {
	if !errors.Is(err, common.ErrAuthRejected) {
		return
	}
	if err := s.auth.SignOut(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error(ctx, "failed to drop rejected credential", "error", err)
	}
}

func (s *readingService) SyncReadingsFromServer(ctx context.Context, owner string) ([]models.Reading, error) {
	const op = "sync from server"

	if err := s.auth.EnsureAuthenticated(ctx); err != nil {
		return nil, &SyncError{Op: op, Err: err}
	}

	raw, err := s.client.FetchReadings(ctx, owner)
	if err != nil {
		s.forgetRejected(ctx, err)
		return nil, &SyncError{Op: op, Err: err}
	}

	now := s.now()
	out := make([]models.Reading, 0, len(raw))
	for i, rec := range raw {
		r, err := normalizeRecord(rec, now)
		if err != nil {
			s.logger.Warn(ctx, "dropping remote reading", "index", i, "error", err)
			continue
		}
		out = append(out, r)
	}

	if err := s.store.InsertOrReplaceMany(ctx, out); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "pulled readings", "owner", owner, "received", len(raw), "stored", len(out))
	return out, nil
}

func (s *readingService) SyncUnsyncedReadings(ctx context.Context) (int, error) {
	const op = "sync unsynced"

	if err := s.auth.EnsureAuthenticated(ctx); err != nil {
		return 0, &SyncError{Op: op, Err: err}
	}

	pending, err := s.store.Unsynced(ctx)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, r := range pending {
		if err := ctx.Err(); err != nil {
			return synced, &SyncError{Op: op, Err: err}
		}

		ack, err := s.client.SubmitReading(ctx, models.SubmissionFromReading(r))
		if err != nil {
			s.logger.Warn(ctx, "push failed, reading stays pending", "id", r.ID, "error", err)
			s.forgetRejected(ctx, err)
			continue
		}
		s.logger.Debug(ctx, "reading pushed", "id", r.ID, "remote_id", ack.RemoteID)

		if err := s.store.MarkSynced(context.WithoutCancel(ctx), r.ID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				// deleted locally while the push was in flight
				continue
			}
			return synced, err
		}
		synced++
	}

	if len(pending) > 0 {
		s.logger.Info(ctx, "pushed pending readings", "pending", len(pending), "synced", synced)
	}
	return synced, nil
}

func (s *readingService) FullSync(ctx context.Context, owner string) error {
	if _, err := s.SyncUnsyncedReadings(ctx); err != nil {
		return err
	}
	_, err := s.SyncReadingsFromServer(ctx, owner)
	return err
}

// Readings lists the owner's readings newest first; an empty owner lists all.
func (s *readingService) Readings(ctx context.Context, owner string) ([]models.Reading, error) {
	if owner == "" {
		return readings.Collect(s.store.All(ctx))
	}
	return readings.Collect(s.store.ByOwner(ctx, owner))
}

func (s *readingService) Reading(ctx context.Context, id string) (*models.Reading, error) {
	return s.store.ByID(ctx, id)
}

func (s *readingService) DeleteReading(ctx context.Context, r models.Reading) error {
	return s.store.Delete(ctx, r)
}

func (s *readingService) ClearAllReadings(ctx context.Context) error {
	return s.store.DeleteAll(ctx)
}
