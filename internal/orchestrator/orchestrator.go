package orchestrator

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/orgball2608/omnipost/internal/domain"
)

// Sessions return these wrapped in an error coded conflict.
var (
	ErrNoBatch         = errors.New("no batch has been generated yet")
	ErrAlreadyPosted   = errors.New("already posted in this batch")
	ErrPublishInFlight = errors.New("a publish is already in progress for this platform")
	ErrBatchReplaced   = errors.New("batch was replaced by a newer one")
)

//go:generate go run go.uber.org/mock/mockgen -source=orchestrator.go -destination=mocks/mock.go
type Session interface {
	// Generate replaces the current batch with a freshly generated one. On
	// error the previous batch and its publish states are left untouched.
	Generate(ctx context.Context, draft domain.Draft, platforms domain.PlatformSet) (*domain.Batch, error)
	// Publish sends one platform's post of the current batch. Already posted
	// and in-flight platforms are rejected before any network call.
	Publish(ctx context.Context, platform domain.Platform) (domain.PublishState, error)
	// PublishAll asks confirmer once, then publishes every pending platform
	// serially in batch order. A platform failure never stops the run.
	PublishAll(ctx context.Context, confirmer Confirmer) (Report, error)
	// PublishBatch is PublishAll bound to batchID. It fails with
	// ErrBatchReplaced when batchID is no longer the current batch once the
	// run holds the session.
	PublishBatch(ctx context.Context, batchID uuid.UUID, confirmer Confirmer) (Report, error)
	// Batch returns a copy of the current batch with live publish states.
	Batch() (*domain.Batch, bool)
}

// Confirmer is asked once before a bulk publish.
type Confirmer interface {
	Confirm(ctx context.Context, question string) bool
}

type ConfirmFunc func(ctx context.Context, question string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, question string) bool { return f(ctx, question) }

// Approve confirms without asking. Used for runs the user approved earlier,
// such as scheduled publishes.
var Approve = ConfirmFunc(func(context.Context, string) bool { return true })

// Recorder receives every terminal publish transition.
type Recorder interface {
	Record(ctx context.Context, rec domain.PublishRecord) error
}

// Notifier receives the report of every PublishAll run that attempted work.
type Notifier interface {
	NotifyReport(ctx context.Context, report Report) error
}

// Report summarises one PublishAll run.
type Report struct {
	BatchID  uuid.UUID                  `json:"batchId"`
	NoOp     bool                       `json:"noOp"`
	Declined bool                       `json:"declined"`
	Posted   []domain.Platform          `json:"posted"`
	Failed   map[domain.Platform]string `json:"failed"`
	// Skipped platforms changed state while the run was in progress.
	Skipped []domain.Platform `json:"skipped,omitempty"`
}

func (r Report) Attempted() int {
	return len(r.Posted) + len(r.Failed)
}
