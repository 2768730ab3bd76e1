package orchestratorimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/internal/orchestrator"
	"github.com/orgball2608/omnipost/internal/tracker"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
)

func (s *SessionImpl) Publish(ctx context.Context, platform domain.Platform) (domain.PublishState, error) {
	batch, tr := s.current()
	if batch == nil {
		return domain.Idle(), errNoBatch()
	}
	return s.publishOne(ctx, batch, tr, platform)
}

// publishOne runs Posting -> Posted | Failed for one platform. The returned
// error is the publisher's error when the attempt failed.
func (s *SessionImpl) publishOne(ctx context.Context, batch *domain.Batch, tr *tracker.Tracker, platform domain.Platform) (domain.PublishState, error) {
	post, ok := batch.Post(platform)
	if !ok {
		return domain.Idle(), apperrors.Validation("%s is not part of the current batch", platform)
	}

	prev, ok := tr.Begin(platform)
	if !ok {
		if prev.IsPosted() {
			return prev, apperrors.WrapWithCode(orchestrator.ErrAlreadyPosted, apperrors.CodeConflict,
				fmt.Sprintf("%s already posted", platform.Label()))
		}
		return prev, apperrors.WrapWithCode(orchestrator.ErrPublishInFlight, apperrors.CodeConflict,
			fmt.Sprintf("%s is already publishing", platform.Label()))
	}

	log := s.logger.With("batch", batch.ID, "platform", platform)
	log.Info("Publishing")

	cred := s.credentials.Lookup(platform)
	err := s.publisher.Publish(ctx, post, cred)

	state := domain.Posted()
	if err != nil {
		state = domain.Failed(err.Error())
	}
	if setErr := tr.Set(platform, state); setErr != nil {
		log.Error("Could not record publish state", "error", setErr)
	}

	if !s.isCurrent(batch) {
		log.Warn("Batch replaced while publishing, result discarded", "state", state)
	} else if err != nil {
		log.Warn("Publish failed", "reason", state.Reason)
	} else {
		log.Info("Published")
	}

	s.record(ctx, batch, platform, state, cred)
	return state, err
}

func (s *SessionImpl) record(ctx context.Context, batch *domain.Batch, platform domain.Platform, state domain.PublishState, cred *domain.Credential) {
	if s.recorder == nil {
		return
	}
	rec := domain.PublishRecord{
		BatchID:   batch.ID,
		Platform:  platform,
		Status:    state.Status,
		Reason:    state.Reason,
		Simulated: cred != nil && cred.Simulated(),
		CreatedAt: time.Now(),
	}
	if err := s.recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Error("Failed to record publication", "platform", platform, "error", err)
	}
}

func (s *SessionImpl) PublishAll(ctx context.Context, confirmer orchestrator.Confirmer) (orchestrator.Report, error) {
	return s.publishAll(ctx, uuid.Nil, confirmer)
}

func (s *SessionImpl) PublishBatch(ctx context.Context, batchID uuid.UUID, confirmer orchestrator.Confirmer) (orchestrator.Report, error) {
	return s.publishAll(ctx, batchID, confirmer)
}

// publishAll runs the fan-out and reports it once the session is released.
// A non-nil want pins the run to that batch.
func (s *SessionImpl) publishAll(ctx context.Context, want uuid.UUID, confirmer orchestrator.Confirmer) (orchestrator.Report, error) {
	report, err := s.fanOut(ctx, want, confirmer)
	if err != nil {
		return report, err
	}

	if s.notifier != nil && report.Attempted() > 0 {
		if err := s.notifier.NotifyReport(context.WithoutCancel(ctx), report); err != nil {
			s.logger.Error("Failed to send publish report", "error", err)
		}
	}
	return report, nil
}

func (s *SessionImpl) fanOut(ctx context.Context, want uuid.UUID, confirmer orchestrator.Confirmer) (orchestrator.Report, error) {
	s.fanout.Lock()
	defer s.fanout.Unlock()

	batch, tr := s.current()
	if batch == nil {
		return orchestrator.Report{}, errNoBatch()
	}
	if want != uuid.Nil && batch.ID != want {
		return orchestrator.Report{}, apperrors.WrapWithCode(orchestrator.ErrBatchReplaced, apperrors.CodeConflict,
			fmt.Sprintf("batch %s is no longer current", want))
	}

	report := orchestrator.Report{
		BatchID: batch.ID,
		Posted:  []domain.Platform{},
		Failed:  map[domain.Platform]string{},
	}

	pending := tr.Pending()
	if len(pending) == 0 {
		s.logger.Info("Nothing pending to publish", "batch", batch.ID)
		report.NoOp = true
		return report, nil
	}

	if confirmer == nil || !confirmer.Confirm(ctx, confirmQuestion(pending)) {
		s.logger.Info("Bulk publish declined", "batch", batch.ID)
		report.Declined = true
		return report, nil
	}

	for _, platform := range pending {
		state, err := s.publishOne(ctx, batch, tr, platform)
		switch {
		case err == nil:
			report.Posted = append(report.Posted, platform)
		case errors.Is(err, orchestrator.ErrAlreadyPosted), errors.Is(err, orchestrator.ErrPublishInFlight):
			report.Skipped = append(report.Skipped, platform)
		default:
			report.Failed[platform] = state.Reason
		}
	}

	s.logger.Info("Bulk publish finished",
		"batch", batch.ID,
		"posted", len(report.Posted),
		"failed", len(report.Failed),
		"skipped", len(report.Skipped))
	return report, nil
}

func confirmQuestion(pending []domain.Platform) string {
	labels := make([]string, len(pending))
	for i, p := range pending {
		labels[i] = p.Label()
	}
	return fmt.Sprintf("Publish to %d platform(s): %s?", len(pending), strings.Join(labels, ", "))
}

func errNoBatch() error {
	return apperrors.WrapWithCode(orchestrator.ErrNoBatch, apperrors.CodeConflict, "generate variants first")
}
