package credentials

import (
	"sync"

	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/pkg/config"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
	"github.com/orgball2608/omnipost/pkg/logger"
	"go.uber.org/fx"
)

// Provider resolves the credential to publish with. It returns nil when the
// platform has nothing stored.
type Provider interface {
	Lookup(platform domain.Platform) *domain.Credential
}

// Status is the connection summary shown by the configuration surface. Token
// values never leave the store through it.
type Status struct {
	Platform  domain.Platform `json:"platform"`
	Label     string          `json:"label"`
	Connected bool            `json:"connected"`
	Kind      string          `json:"kind,omitempty"`
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type Store struct {
	mu     sync.RWMutex
	creds  map[domain.Platform]domain.Credential
	logger logger.Logger
}

func NewStore(opts Opts) *Store {
	s := &Store{
		creds:  make(map[domain.Platform]domain.Credential),
		logger: opts.Logger.WithComponent("CredentialStore"),
	}
	if opts.Config != nil {
		s.LoadFromConfig(opts.Config)
	}
	return s
}

var _ Provider = (*Store)(nil)

// LoadFromConfig seeds credentials from the environment. Platforms whose
// primary token is unset are skipped.
func (s *Store) LoadFromConfig(cfg *config.Config) {
	c := cfg.Credentials
	seeds := map[domain.Platform]map[string]string{
		domain.PlatformTwitter: {
			domain.FieldBearerToken: c.TwitterBearerToken,
		},
		domain.PlatformLinkedIn: {
			domain.FieldAccessToken: c.LinkedInAccessToken,
			domain.FieldPersonURN:   c.LinkedInPersonURN,
		},
		domain.PlatformInstagram: {
			domain.FieldAccessToken: c.InstagramAccessToken,
			domain.FieldAccountID:   c.InstagramAccountID,
		},
		domain.PlatformTikTok: {
			domain.FieldAccessToken: c.TikTokAccessToken,
			domain.FieldOpenID:      c.TikTokOpenID,
		},
		domain.PlatformFacebook: {
			domain.FieldAccessToken: c.FacebookAccessToken,
			domain.FieldPageID:      c.FacebookPageID,
		},
		domain.PlatformGoogleBusiness: {
			domain.FieldAccessToken: c.GoogleBusinessAccessToken,
			domain.FieldLocationID:  c.GoogleBusinessLocationID,
		},
	}

	for _, platform := range domain.Platforms() {
		cred := domain.NewCredential(platform, seeds[platform], false)
		if !domain.Connected(&cred) {
			continue
		}
		if err := s.Set(cred); err != nil {
			s.logger.Warn("Skipping credential seed", "platform", platform, "error", err)
			continue
		}
		s.logger.Info("Loaded credential from environment", "platform", platform, "kind", cred.Kind)
	}
}

func (s *Store) Get(platform domain.Platform) (domain.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.creds[platform]
	if !ok {
		return domain.Credential{}, false
	}
	return clone(c), true
}

func (s *Store) Lookup(platform domain.Platform) *domain.Credential {
	c, ok := s.Get(platform)
	if !ok {
		return nil
	}
	return &c
}

// Set stores cred, replacing any previous credential of its platform.
func (s *Store) Set(cred domain.Credential) error {
	if !cred.Platform.Valid() {
		return apperrors.Validation("unknown platform %q", cred.Platform)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[cred.Platform] = clone(cred)
	return nil
}

// Delete disconnects the platform. It reports whether anything was stored.
func (s *Store) Delete(platform domain.Platform) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.creds[platform]
	delete(s.creds, platform)
	return ok
}

func (s *Store) Connected(platform domain.Platform) bool {
	return domain.Connected(s.Lookup(platform))
}

// Statuses lists every platform in display order.
func (s *Store) Statuses() []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Status, 0, len(domain.Platforms()))
	for _, platform := range domain.Platforms() {
		st := Status{Platform: platform, Label: platform.Label()}
		if c, ok := s.creds[platform]; ok && domain.Connected(&c) {
			st.Connected = true
			st.Kind = domain.CredentialReal.String()
			if c.Simulated() {
				st.Kind = domain.CredentialSimulated.String()
			}
		}
		out = append(out, st)
	}
	return out
}

func clone(c domain.Credential) domain.Credential {
	fields := make(map[string]string, len(c.Fields))
	for k, v := range c.Fields {
		fields[k] = v
	}
	c.Fields = fields
	return c
}
