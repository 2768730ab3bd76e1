package schedulerimpl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/orgball2608/omnipost/internal/orchestrator"
	"github.com/orgball2608/omnipost/internal/repositories/publication"
	"github.com/orgball2608/omnipost/internal/scheduler"
	"github.com/orgball2608/omnipost/pkg/config"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
	"github.com/orgball2608/omnipost/pkg/logger"
	"go.uber.org/fx"
)

const (
	publishTimeout = 10 * time.Minute
	cleanupTimeout = 5 * time.Minute
)

type Opts struct {
	fx.In

	Config       *config.Config
	Logger       logger.Logger
	Session      orchestrator.Session
	Publications publication.Repository
}

type SchedulerImpl struct {
	scheduler    gocron.Scheduler
	session      orchestrator.Session
	publications publication.Repository
	retention    time.Duration
	logger       logger.Logger

	mu   sync.Mutex
	jobs map[uuid.UUID]uuid.UUID
}

func New(opts Opts) (*SchedulerImpl, error) {
	log := opts.Logger.WithComponent("Scheduler")

	loc, err := time.LoadLocation(opts.Config.Scheduler.Timezone)
	if err != nil {
		loc = time.Local
		log.Warn("Failed to load scheduler timezone, using local timezone",
			"timezone", opts.Config.Scheduler.Timezone, "error", err)
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &SchedulerImpl{
		scheduler:    s,
		session:      opts.Session,
		publications: opts.Publications,
		retention:    opts.Config.Scheduler.HistoryRetention,
		logger:       log,
		jobs:         make(map[uuid.UUID]uuid.UUID),
	}, nil
}

var _ scheduler.Client = (*SchedulerImpl)(nil)

func (s *SchedulerImpl) Start() {
	s.scheduler.Start()
}

func (s *SchedulerImpl) Shutdown() error {
	return s.scheduler.Shutdown()
}

func (s *SchedulerImpl) ScheduleBatch(batchID uuid.UUID, at time.Time) error {
	if !at.After(time.Now()) {
		return apperrors.Validation("scheduled time %s is in the past", at.Format(time.RFC3339))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.jobs[batchID]; ok {
		_ = s.scheduler.RemoveJob(prev)
		delete(s.jobs, batchID)
	}

	job, err := s.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(at)),
		gocron.NewTask(s.runBatch, batchID),
		gocron.WithName("publish-"+batchID.String()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule batch: %w", err)
	}
	s.jobs[batchID] = job.ID()

	s.logger.Info("Batch scheduled", "batch", batchID, "at", at)
	return nil
}

func (s *SchedulerImpl) CancelBatch(batchID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.jobs[batchID]
	if !ok {
		return false
	}
	delete(s.jobs, batchID)
	if err := s.scheduler.RemoveJob(id); err != nil {
		s.logger.Warn("Failed to remove scheduled job", "batch", batchID, "error", err)
	}
	return true
}

// runBatch publishes batchID if it is still the session's batch when the run
// gets hold of the session.
func (s *SchedulerImpl) runBatch(batchID uuid.UUID) {
	s.mu.Lock()
	delete(s.jobs, batchID)
	s.mu.Unlock()

	log := s.logger.With("batch", batchID)

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	report, err := s.session.PublishBatch(ctx, batchID, orchestrator.Approve)
	switch {
	case errors.Is(err, orchestrator.ErrBatchReplaced), errors.Is(err, orchestrator.ErrNoBatch):
		log.Info("Batch was replaced, skipping scheduled publish")
		return
	case err != nil:
		log.Error("Scheduled publish failed", "error", err)
		return
	}
	log.Info("Scheduled publish finished",
		"posted", len(report.Posted),
		"failed", len(report.Failed),
		"no_op", report.NoOp)
}

// ScheduleHistoryCleanup sets up a daily job that trims publication history
func (s *SchedulerImpl) ScheduleHistoryCleanup(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)),
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				s.logger.Info("Context cancelled, skipping history cleanup")
				return
			}
			s.cleanup(ctx)
		}),
		gocron.WithName("history-cleanup"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule history cleanup: %w", err)
	}
	return nil
}

func (s *SchedulerImpl) cleanup(ctx context.Context) {
	s.logger.Info("Starting scheduled history cleanup")

	cleanupCtx, cancel := context.WithTimeout(ctx, cleanupTimeout)
	defer cancel()

	rowsDeleted, err := s.publications.CleanupOldRecords(cleanupCtx, s.retention)
	if err != nil {
		s.logger.Error("Failed to clean up old records", "error", err)
		return
	}

	s.logger.Info("History cleanup completed successfully", "rows_deleted", rowsDeleted)
}
