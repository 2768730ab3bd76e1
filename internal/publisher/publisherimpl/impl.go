package publisherimpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/internal/publisher"
	"github.com/orgball2608/omnipost/pkg/config"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
	"github.com/orgball2608/omnipost/pkg/formatter"
	"github.com/orgball2608/omnipost/pkg/logger"
	"go.uber.org/fx"
	"golang.org/x/oauth2"
)

const maxErrorBody = 300

// Endpoints holds the API base URL of each platform.
type Endpoints struct {
	Twitter        string
	LinkedIn       string
	Graph          string
	TikTok         string
	GoogleBusiness string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Twitter:        "https://api.twitter.com",
		LinkedIn:       "https://api.linkedin.com",
		Graph:          "https://graph.facebook.com",
		TikTok:         "https://open.tiktokapis.com",
		GoogleBusiness: "https://mybusiness.googleapis.com",
	}
}

// apiRequest is one outbound publish call built by a platform adapter.
type apiRequest struct {
	url     string
	body    any
	headers map[string]string
	// bearer authorizes the call with the credential's primary token.
	bearer bool
}

type buildFunc func(p *PublisherImpl, post domain.AdaptedPost, cred domain.Credential) (apiRequest, error)

// adapters has exactly one entry per platform.
var adapters = map[domain.Platform]buildFunc{
	domain.PlatformTwitter:        buildTwitter,
	domain.PlatformLinkedIn:       buildLinkedIn,
	domain.PlatformInstagram:      buildInstagram,
	domain.PlatformTikTok:         buildTikTok,
	domain.PlatformFacebook:       buildFacebook,
	domain.PlatformGoogleBusiness: buildGoogleBusiness,
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type PublisherImpl struct {
	logger    logger.Logger
	client    *http.Client
	endpoints Endpoints
	latency   time.Duration
	ctaURL    string
	sleep     func(ctx context.Context, d time.Duration) error
}

func New(opts Opts) *PublisherImpl {
	timeout := opts.Config.Publisher.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PublisherImpl{
		logger:    opts.Logger.WithComponent("Publisher"),
		client:    &http.Client{Timeout: timeout},
		endpoints: DefaultEndpoints(),
		latency:   opts.Config.Publisher.SimulatedLatency,
		ctaURL:    opts.Config.Publisher.CallToActionURL,
		sleep:     sleepContext,
	}
}

var _ publisher.Client = (*PublisherImpl)(nil)

func (p *PublisherImpl) Publish(ctx context.Context, post domain.AdaptedPost, cred *domain.Credential) error {
	build, ok := adapters[post.Platform]
	if !ok {
		return apperrors.Validation("unsupported platform %q", post.Platform)
	}
	if !domain.Connected(cred) {
		return &publisher.NotConnectedError{Platform: post.Platform}
	}
	if cred.Platform != "" && cred.Platform != post.Platform {
		return apperrors.Validation("%s credential cannot publish to %s", cred.Platform, post.Platform)
	}

	log := p.logger.With("platform", post.Platform)

	if cred.Simulated() {
		log.Info("Publishing with simulated credential", "latency", p.latency)
		if err := p.sleep(ctx, p.latency); err != nil {
			return &publisher.PublishError{
				Platform: post.Platform,
				Reason:   fmt.Sprintf("%s publish was cancelled", post.Platform.Label()),
				Err:      err,
			}
		}
		return nil
	}

	req, err := build(p, post, *cred)
	if err != nil {
		log.Warn("Post rejected before sending", "error", err)
		return &publisher.PublishError{Platform: post.Platform, Reason: err.Error(), Err: err}
	}

	if err := p.send(ctx, post.Platform, cred.Token(), req); err != nil {
		log.Error("Publish failed", "error", err)
		return err
	}

	log.Info("Published post")
	return nil
}

func (p *PublisherImpl) send(ctx context.Context, platform domain.Platform, token string, req apiRequest) error {
	payload, err := json.Marshal(req.body)
	if err != nil {
		return &publisher.PublishError{Platform: platform, Reason: "could not encode the post", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.url, bytes.NewReader(payload))
	if err != nil {
		return &publisher.PublishError{Platform: platform, Reason: "could not build the request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	client := p.client
	if req.bearer {
		client = oauth2.NewClient(
			context.WithValue(ctx, oauth2.HTTPClient, p.client),
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return &publisher.PublishError{
			Platform:  platform,
			Transport: true,
			Reason: fmt.Sprintf("Connection to the %s API failed before it responded. "+
				"The request was likely blocked by the calling environment and must be routed through a server-side relay.",
				platform.Label()),
			Err: err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	reason := fmt.Sprintf("%s API rejected the post: %s", platform.Label(), resp.Status)
	if detail := strings.TrimSpace(string(raw)); detail != "" {
		reason += ": " + formatter.Truncate(detail, maxErrorBody)
	}
	return &publisher.PublishError{
		Platform:   platform,
		Reason:     reason,
		StatusCode: resp.StatusCode,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
