package credentials

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/omnipost/internal/domain"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
)

// Connector runs the interactive authorization flow for one platform and
// returns the resulting credential, or an error when the user backs out.
//
//go:generate go run go.uber.org/mock/mockgen -source=connector.go -destination=mocks/mock.go
type Connector interface {
	Connect(ctx context.Context, platform domain.Platform) (domain.Credential, error)
}

// SimulatedConnector stands in for real OAuth. Every credential it returns is
// Simulated and carries plausible identifier fields.
type SimulatedConnector struct {
	Delay time.Duration
}

func NewSimulatedConnector() *SimulatedConnector {
	return &SimulatedConnector{Delay: 800 * time.Millisecond}
}

var _ Connector = (*SimulatedConnector)(nil)

func (c *SimulatedConnector) Connect(ctx context.Context, platform domain.Platform) (domain.Credential, error) {
	if !platform.Valid() {
		return domain.Credential{}, apperrors.Validation("unknown platform %q", platform)
	}

	if c.Delay > 0 {
		timer := time.NewTimer(c.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.Credential{}, apperrors.Wrap(ctx.Err(), "authorization cancelled")
		case <-timer.C:
		}
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	fields := map[string]string{}
	switch platform {
	case domain.PlatformTwitter:
		fields[domain.FieldBearerToken] = domain.LegacyMockPrefix + "bearer_" + token + "_twitter"
	case domain.PlatformLinkedIn:
		fields[domain.FieldAccessToken] = domain.LegacyMockPrefix + "access_" + token
		fields[domain.FieldPersonURN] = "urn:li:person:mock123"
	case domain.PlatformInstagram:
		fields[domain.FieldAccessToken] = domain.LegacyMockPrefix + "graph_" + token
		fields[domain.FieldAccountID] = "1784140000000000"
	case domain.PlatformTikTok:
		fields[domain.FieldAccessToken] = domain.LegacyMockPrefix + "tk_" + token
		fields[domain.FieldOpenID] = "user_open_id_mock"
	case domain.PlatformFacebook:
		fields[domain.FieldAccessToken] = domain.LegacyMockPrefix + "page_" + token
		fields[domain.FieldPageID] = "100000000000001"
	case domain.PlatformGoogleBusiness:
		fields[domain.FieldAccessToken] = domain.LegacyMockPrefix + "gbp_" + token
		fields[domain.FieldLocationID] = "accounts/mock/locations/mock"
	}

	return domain.NewCredential(platform, fields, true), nil
}
