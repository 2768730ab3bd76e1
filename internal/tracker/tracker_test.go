package tracker

import (
	"sync"
	"testing"

	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetStartsIdleAndDropsOldKeys(t *testing.T) {
	tr := New()
	tr.Reset([]domain.Platform{domain.PlatformTwitter, domain.PlatformLinkedIn})
	require.NoError(t, tr.Set(domain.PlatformTwitter, domain.Posted()))

	tr.Reset([]domain.Platform{domain.PlatformInstagram, domain.PlatformTwitter})

	_, ok := tr.Get(domain.PlatformLinkedIn)
	assert.False(t, ok)

	s, ok := tr.Get(domain.PlatformTwitter)
	require.True(t, ok)
	assert.Equal(t, domain.Idle(), s)
	assert.Equal(t, []domain.Platform{domain.PlatformInstagram, domain.PlatformTwitter}, tr.Pending())
}

func TestSetUnknownPlatform(t *testing.T) {
	tr := New()
	tr.Reset([]domain.Platform{domain.PlatformTwitter})
	assert.Error(t, tr.Set(domain.PlatformFacebook, domain.Posted()))
}

func TestGetObservesLatestSet(t *testing.T) {
	tr := New()
	tr.Reset([]domain.Platform{domain.PlatformTwitter})

	require.NoError(t, tr.Set(domain.PlatformTwitter, domain.Failed("boom")))
	s, _ := tr.Get(domain.PlatformTwitter)
	assert.Equal(t, domain.Failed("boom"), s)
}

func TestPendingAndAllPosted(t *testing.T) {
	tr := New()
	tr.Reset([]domain.Platform{domain.PlatformTwitter, domain.PlatformLinkedIn, domain.PlatformFacebook})
	assert.False(t, tr.AllPosted())

	require.NoError(t, tr.Set(domain.PlatformLinkedIn, domain.Posted()))
	require.NoError(t, tr.Set(domain.PlatformFacebook, domain.Failed("denied")))
	assert.Equal(t, []domain.Platform{domain.PlatformTwitter, domain.PlatformFacebook}, tr.Pending())

	require.NoError(t, tr.Set(domain.PlatformTwitter, domain.Posted()))
	require.NoError(t, tr.Set(domain.PlatformFacebook, domain.Posted()))
	assert.True(t, tr.AllPosted())
	assert.Empty(t, tr.Pending())
}

func TestBegin(t *testing.T) {
	tr := New()
	tr.Reset([]domain.Platform{domain.PlatformTwitter})

	_, ok := tr.Begin(domain.PlatformTwitter)
	require.True(t, ok)

	prev, ok := tr.Begin(domain.PlatformTwitter)
	assert.False(t, ok)
	assert.True(t, prev.IsPosting())

	require.NoError(t, tr.Set(domain.PlatformTwitter, domain.Failed("x")))
	_, ok = tr.Begin(domain.PlatformTwitter)
	assert.True(t, ok, "failed platforms may be retried")

	require.NoError(t, tr.Set(domain.PlatformTwitter, domain.Posted()))
	prev, ok = tr.Begin(domain.PlatformTwitter)
	assert.False(t, ok)
	assert.True(t, prev.IsPosted())

	_, ok = tr.Begin(domain.PlatformTikTok)
	assert.False(t, ok)
}

func TestBeginIsExclusive(t *testing.T) {
	tr := New()
	tr.Reset([]domain.Platform{domain.PlatformTwitter})

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := tr.Begin(domain.PlatformTwitter); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := New()
	tr.Reset([]domain.Platform{domain.PlatformTwitter})

	snap := tr.Snapshot()
	snap[domain.PlatformTwitter] = domain.Posted()

	s, _ := tr.Get(domain.PlatformTwitter)
	assert.Equal(t, domain.Idle(), s)
}
