package publisherimpl

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/internal/publisher"
	"github.com/orgball2608/omnipost/pkg/config"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
	"github.com/orgball2608/omnipost/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	path   string
	auth   string
	header http.Header
	body   map[string]any
}

type testServer struct {
	*httptest.Server
	hits atomic.Int32
	last atomic.Pointer[captured]
}

func newTestServer(t *testing.T, status int) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.hits.Add(1)
		raw, _ := io.ReadAll(r.Body)
		c := &captured{path: r.URL.Path, auth: r.Header.Get("Authorization"), header: r.Header.Clone()}
		_ = json.Unmarshal(raw, &c.body)
		ts.last.Store(c)

		w.WriteHeader(status)
		if status >= 300 {
			_, _ = w.Write([]byte(`{"error":"invalid token"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestPublisher(baseURL string) (*PublisherImpl, *[]time.Duration) {
	cfg := &config.Config{}
	cfg.Publisher.SimulatedLatency = 1500 * time.Millisecond
	cfg.Publisher.CallToActionURL = "https://shop.example.com"

	p := New(Opts{Config: cfg, Logger: logger.NewNop()})
	p.endpoints = Endpoints{
		Twitter:        baseURL,
		LinkedIn:       baseURL,
		Graph:          baseURL,
		TikTok:         baseURL,
		GoogleBusiness: baseURL,
	}
	slept := &[]time.Duration{}
	p.sleep = func(ctx context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return ctx.Err()
	}
	return p, slept
}

func realCred(platform domain.Platform, fields map[string]string) *domain.Credential {
	c := domain.NewCredential(platform, fields, false)
	return &c
}

func post(platform domain.Platform) domain.AdaptedPost {
	return domain.NewAdaptedPost(domain.Draft{Text: "Launch day!"}, platform, "Launch day!", []string{"launch", "ship"})
}

func TestPublishNotConnected(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)
	p, _ := newTestPublisher(srv.URL)

	for _, platform := range domain.Platforms() {
		err := p.Publish(context.Background(), post(platform), nil)
		var nc *publisher.NotConnectedError
		require.ErrorAs(t, err, &nc)
		assert.Equal(t, platform, nc.Platform)
		assert.True(t, apperrors.IsNotConnected(err))

		err = p.Publish(context.Background(), post(platform), realCred(platform, map[string]string{}))
		assert.True(t, apperrors.IsNotConnected(err))
	}
	assert.Zero(t, srv.hits.Load())
}

func TestPublishSimulatedNeverTouchesNetwork(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError)
	p, slept := newTestPublisher(srv.URL)

	for _, platform := range domain.Platforms() {
		cred := domain.NewCredential(platform, map[string]string{platform.PrimaryField(): "mock_token"}, false)
		require.True(t, cred.Simulated())
		require.NoError(t, p.Publish(context.Background(), post(platform), &cred))
	}

	assert.Zero(t, srv.hits.Load())
	require.Len(t, *slept, len(domain.Platforms()))
	for _, d := range *slept {
		assert.Equal(t, 1500*time.Millisecond, d)
	}
}

func TestPublishMockTokenStaysOffNetworkWithoutClassification(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)
	p, slept := newTestPublisher(srv.URL)

	cred := &domain.Credential{
		Platform: domain.PlatformTwitter,
		Fields:   map[string]string{domain.FieldBearerToken: "mock_abc"},
	}
	require.Equal(t, domain.CredentialReal, cred.Kind)

	require.NoError(t, p.Publish(context.Background(), post(domain.PlatformTwitter), cred))
	assert.Zero(t, srv.hits.Load())
	assert.Len(t, *slept, 1)
}

func TestPublishSimulatedCancelled(t *testing.T) {
	p, _ := newTestPublisher("http://127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cred := domain.NewCredential(domain.PlatformTwitter, map[string]string{domain.FieldBearerToken: "x"}, true)
	err := p.Publish(ctx, post(domain.PlatformTwitter), &cred)
	assert.True(t, apperrors.IsPublish(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPublishTwitter(t *testing.T) {
	srv := newTestServer(t, http.StatusCreated)
	p, _ := newTestPublisher(srv.URL)

	err := p.Publish(context.Background(), post(domain.PlatformTwitter),
		realCred(domain.PlatformTwitter, map[string]string{domain.FieldBearerToken: "tw-token"}))
	require.NoError(t, err)

	c := srv.last.Load()
	assert.Equal(t, "/2/tweets", c.path)
	assert.Equal(t, "Bearer tw-token", c.auth)
	assert.Equal(t, "Launch day! #launch #ship", c.body["text"])
}

func TestPublishLinkedIn(t *testing.T) {
	srv := newTestServer(t, http.StatusCreated)
	p, _ := newTestPublisher(srv.URL)

	err := p.Publish(context.Background(), post(domain.PlatformLinkedIn), realCred(domain.PlatformLinkedIn, map[string]string{
		domain.FieldAccessToken: "li-token",
		domain.FieldPersonURN:   "abc123",
	}))
	require.NoError(t, err)

	c := srv.last.Load()
	assert.Equal(t, "/v2/ugcPosts", c.path)
	assert.Equal(t, "Bearer li-token", c.auth)
	assert.Equal(t, "2.0.0", c.header.Get("X-Restli-Protocol-Version"))
	assert.Equal(t, "urn:li:person:abc123", c.body["author"])

	share := c.body["specificContent"].(map[string]any)["com.linkedin.ugc.ShareContent"].(map[string]any)
	assert.Equal(t, "Launch day!\n\n#launch #ship", share["shareCommentary"].(map[string]any)["text"])
	assert.Equal(t, "PUBLIC", c.body["visibility"].(map[string]any)["com.linkedin.ugc.MemberNetworkVisibility"])
}

func TestPublishMissingIdentifierFailsBeforeNetwork(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)
	p, _ := newTestPublisher(srv.URL)

	cases := []domain.Platform{
		domain.PlatformLinkedIn,
		domain.PlatformFacebook,
		domain.PlatformGoogleBusiness,
	}
	for _, platform := range cases {
		err := p.Publish(context.Background(), post(platform),
			realCred(platform, map[string]string{domain.FieldAccessToken: "t"}))
		var pe *publisher.PublishError
		require.ErrorAs(t, err, &pe, platform)
		assert.False(t, pe.Transport)
	}
	assert.Zero(t, srv.hits.Load())
}

func TestPublishInstagram(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)
	p, _ := newTestPublisher(srv.URL)
	cred := realCred(domain.PlatformInstagram, map[string]string{
		domain.FieldAccessToken: "ig-token",
		domain.FieldAccountID:   "1784",
	})

	draft := domain.Draft{Text: "x", Media: "data:image/png;base64,aGVsbG8=", MediaKind: domain.MediaImage}
	embedded := domain.NewAdaptedPost(draft, domain.PlatformInstagram, "x", nil)
	err := p.Publish(context.Background(), embedded, cred)
	assert.True(t, apperrors.IsPublish(err))
	assert.Zero(t, srv.hits.Load())

	draft.Media = "https://cdn.example.com/a.png"
	remote := domain.NewAdaptedPost(draft, domain.PlatformInstagram, "caption", []string{"a"})
	require.NoError(t, p.Publish(context.Background(), remote, cred))

	c := srv.last.Load()
	assert.Equal(t, "/1784/media", c.path)
	assert.Equal(t, "https://cdn.example.com/a.png", c.body["image_url"])
	assert.Equal(t, "caption\n\n#a", c.body["caption"])
	assert.Equal(t, "ig-token", c.body["access_token"])
}

func TestPublishTikTokVideo(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)
	p, _ := newTestPublisher(srv.URL)

	draft := domain.Draft{Text: "x", Media: "https://cdn.example.com/v.mp4", MediaKind: domain.MediaVideo}
	err := p.Publish(context.Background(), domain.NewAdaptedPost(draft, domain.PlatformTikTok, "hook", []string{"fyp"}),
		realCred(domain.PlatformTikTok, map[string]string{domain.FieldAccessToken: "tt"}))
	require.NoError(t, err)

	c := srv.last.Load()
	assert.Equal(t, "/v2/post/publish/video/init/", c.path)
	assert.Equal(t, "Bearer tt", c.auth)
	source := c.body["source_info"].(map[string]any)
	assert.Equal(t, "PULL_FROM_URL", source["source"])
	assert.Equal(t, "https://cdn.example.com/v.mp4", source["video_url"])

	err = p.Publish(context.Background(), post(domain.PlatformTikTok),
		realCred(domain.PlatformTikTok, map[string]string{domain.FieldAccessToken: "tt"}))
	assert.True(t, apperrors.IsPublish(err))
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestPublishFacebookEmbedsToken(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)
	p, _ := newTestPublisher(srv.URL)

	err := p.Publish(context.Background(), post(domain.PlatformFacebook), realCred(domain.PlatformFacebook, map[string]string{
		domain.FieldAccessToken: "fb-token",
		domain.FieldPageID:      "55",
	}))
	require.NoError(t, err)

	c := srv.last.Load()
	assert.Equal(t, "/55/feed", c.path)
	assert.Empty(t, c.auth)
	assert.Equal(t, "fb-token", c.body["access_token"])
	assert.Equal(t, "Launch day!\n\n#launch #ship", c.body["message"])
}

func TestPublishGoogleBusiness(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)
	p, _ := newTestPublisher(srv.URL)

	err := p.Publish(context.Background(), post(domain.PlatformGoogleBusiness), realCred(domain.PlatformGoogleBusiness, map[string]string{
		domain.FieldAccessToken: "gb",
		domain.FieldLocationID:  "accounts/1/locations/2",
	}))
	require.NoError(t, err)

	c := srv.last.Load()
	assert.Equal(t, "/v4/accounts/1/locations/2/localPosts", c.path)
	assert.Equal(t, "Bearer gb", c.auth)
	assert.Equal(t, "Launch day!", c.body["summary"])
	assert.Equal(t, "STANDARD", c.body["topicType"])
	assert.Equal(t, "https://shop.example.com", c.body["callToAction"].(map[string]any)["url"])
}

func TestPublishRemoteRejection(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized)
	p, _ := newTestPublisher(srv.URL)

	err := p.Publish(context.Background(), post(domain.PlatformTwitter),
		realCred(domain.PlatformTwitter, map[string]string{domain.FieldBearerToken: "bad"}))

	var pe *publisher.PublishError
	require.ErrorAs(t, err, &pe)
	assert.False(t, pe.Transport)
	assert.Equal(t, http.StatusUnauthorized, pe.StatusCode)
	assert.Contains(t, pe.Reason, "401")
	assert.Contains(t, pe.Reason, "invalid token")
	assert.True(t, apperrors.IsPublish(err))
}

func TestPublishTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	p, _ := newTestPublisher(baseURL)
	err := p.Publish(context.Background(), post(domain.PlatformTwitter),
		realCred(domain.PlatformTwitter, map[string]string{domain.FieldBearerToken: "tok"}))

	var pe *publisher.PublishError
	require.ErrorAs(t, err, &pe)
	assert.True(t, pe.Transport)
	assert.Contains(t, pe.Reason, "server-side relay")
	assert.NotContains(t, pe.Reason, "rejected")
}

func TestPublishCredentialPlatformMismatch(t *testing.T) {
	p, _ := newTestPublisher("http://127.0.0.1:0")
	err := p.Publish(context.Background(), post(domain.PlatformTwitter),
		realCred(domain.PlatformLinkedIn, map[string]string{domain.FieldAccessToken: "t"}))
	assert.True(t, apperrors.IsValidation(err))
}

func TestEveryPlatformHasAdapter(t *testing.T) {
	for _, platform := range domain.Platforms() {
		_, ok := adapters[platform]
		assert.True(t, ok, platform)
	}
	assert.Len(t, adapters, len(domain.Platforms()))
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, errors.Is(sleepContext(ctx, time.Hour), context.Canceled))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))
}
