package tracker

import (
	"fmt"
	"sync"

	"github.com/orgball2608/omnipost/internal/domain"
)

// Tracker maps each platform of the current batch to its publish state.
// Reads after a write for the same platform always observe that write.
type Tracker struct {
	mu     sync.RWMutex
	order  []domain.Platform
	states map[domain.Platform]domain.PublishState
}

func New() *Tracker {
	return &Tracker{states: make(map[domain.Platform]domain.PublishState)}
}

// Reset discards every key and starts the given platforms at Idle, in order.
func (t *Tracker) Reset(platforms []domain.Platform) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.order = make([]domain.Platform, 0, len(platforms))
	t.states = make(map[domain.Platform]domain.PublishState, len(platforms))
	for _, p := range platforms {
		if _, dup := t.states[p]; dup {
			continue
		}
		t.order = append(t.order, p)
		t.states[p] = domain.Idle()
	}
}

// Set overwrites the state of a tracked platform.
func (t *Tracker) Set(platform domain.Platform, state domain.PublishState) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.states[platform]; !ok {
		return fmt.Errorf("platform %s is not part of the current batch", platform)
	}
	t.states[platform] = state
	return nil
}

func (t *Tracker) Get(platform domain.Platform) (domain.PublishState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.states[platform]
	return s, ok
}

// Begin moves platform to Posting unless it is already Posted or Posting.
// It returns the state it found so the caller can report why it refused.
func (t *Tracker) Begin(platform domain.Platform) (domain.PublishState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.states[platform]
	if !ok || !cur.CanTransition(domain.StatusPosting) {
		return cur, false
	}
	t.states[platform] = domain.Posting()
	return cur, true
}

// AllPosted is true when every tracked platform is Posted. An empty tracker
// has nothing left to post.
func (t *Tracker) AllPosted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, s := range t.states {
		if !s.IsPosted() {
			return false
		}
	}
	return true
}

// Pending lists platforms not yet Posted, in batch order.
func (t *Tracker) Pending() []domain.Platform {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.Platform, 0, len(t.order))
	for _, p := range t.order {
		if !t.states[p].IsPosted() {
			out = append(out, p)
		}
	}
	return out
}

func (t *Tracker) Snapshot() map[domain.Platform]domain.PublishState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[domain.Platform]domain.PublishState, len(t.states))
	for p, s := range t.states {
		out[p] = s
	}
	return out
}
