package orchestratorimpl

import (
	"context"
	"sync"

	"github.com/orgball2608/omnipost/internal/credentials"
	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/internal/generator"
	"github.com/orgball2608/omnipost/internal/orchestrator"
	"github.com/orgball2608/omnipost/internal/publisher"
	"github.com/orgball2608/omnipost/internal/tracker"
	"github.com/orgball2608/omnipost/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Generator   generator.Client
	Publisher   publisher.Client
	Credentials credentials.Provider
	Logger      logger.Logger
	Recorder    orchestrator.Recorder `optional:"true"`
	Notifier    orchestrator.Notifier `optional:"true"`
}

// SessionImpl holds one batch at a time. Each batch owns its tracker, so a
// publish that finishes after the batch was replaced lands in an orphaned
// tracker nobody reads.
type SessionImpl struct {
	generator   generator.Client
	publisher   publisher.Client
	credentials credentials.Provider
	recorder    orchestrator.Recorder
	notifier    orchestrator.Notifier
	logger      logger.Logger

	mu      sync.RWMutex
	batch   *domain.Batch
	tracker *tracker.Tracker

	// fanout serialises PublishAll runs.
	fanout sync.Mutex
}

func New(opts Opts) *SessionImpl {
	return &SessionImpl{
		generator:   opts.Generator,
		publisher:   opts.Publisher,
		credentials: opts.Credentials,
		recorder:    opts.Recorder,
		notifier:    opts.Notifier,
		logger:      opts.Logger.WithComponent("Session"),
	}
}

var _ orchestrator.Session = (*SessionImpl)(nil)

func (s *SessionImpl) Generate(ctx context.Context, draft domain.Draft, platforms domain.PlatformSet) (*domain.Batch, error) {
	posts, err := s.generator.Generate(ctx, draft, platforms)
	if err != nil {
		s.logger.Warn("Generation failed, keeping previous batch", "error", err)
		return nil, err
	}

	batch := domain.NewBatch(draft, posts)
	tr := tracker.New()
	tr.Reset(batch.Platforms())

	s.mu.Lock()
	s.batch = batch
	s.tracker = tr
	s.mu.Unlock()

	s.logger.Info("New batch ready", "batch", batch.ID, "platforms", batch.Platforms())
	return withStates(batch, tr), nil
}

func (s *SessionImpl) Batch() (*domain.Batch, bool) {
	batch, tr := s.current()
	if batch == nil {
		return nil, false
	}
	return withStates(batch, tr), true
}

func (s *SessionImpl) current() (*domain.Batch, *tracker.Tracker) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batch, s.tracker
}

func (s *SessionImpl) isCurrent(batch *domain.Batch) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batch == batch
}

// withStates copies batch and fills each post's state from the tracker.
func withStates(batch *domain.Batch, tr *tracker.Tracker) *domain.Batch {
	states := tr.Snapshot()
	out := *batch
	out.Draft = batch.Draft.Clone()
	out.Posts = make([]domain.AdaptedPost, len(batch.Posts))
	for i, p := range batch.Posts {
		p.Hashtags = append([]string(nil), p.Hashtags...)
		if st, ok := states[p.Platform]; ok {
			p.State = st
		}
		out.Posts[i] = p
	}
	return &out
}
