package api

import (
	"github.com/orgball2608/omnipost/internal/credentials"
	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/internal/orchestrator"
	"github.com/orgball2608/omnipost/internal/ratelimit"
	"github.com/orgball2608/omnipost/internal/repositories/draft"
	"github.com/orgball2608/omnipost/internal/repositories/publication"
	"github.com/orgball2608/omnipost/internal/repositories/template"
	"github.com/orgball2608/omnipost/internal/scheduler"
	"github.com/orgball2608/omnipost/pkg/logger"
	"go.uber.org/fx"
)

const maxBodyBytes = 25 << 20

// CredentialStore is the part of the credential store the settings routes edit.
type CredentialStore interface {
	Statuses() []credentials.Status
	Set(cred domain.Credential) error
	Delete(platform domain.Platform) bool
}

type Opts struct {
	fx.In

	Logger       logger.Logger
	Session      orchestrator.Session
	Credentials  CredentialStore
	Connector    credentials.Connector
	Drafts       draft.Repository
	Templates    template.Repository
	Publications publication.Repository
	Scheduler    scheduler.Client
	Limiter      ratelimit.Limiter
}

type Handler struct {
	logger       logger.Logger
	session      orchestrator.Session
	credentials  CredentialStore
	connector    credentials.Connector
	drafts       draft.Repository
	templates    template.Repository
	publications publication.Repository
	scheduler    scheduler.Client
	limiter      ratelimit.Limiter
}

func NewHandler(opts Opts) *Handler {
	return &Handler{
		logger:       opts.Logger.WithComponent("API"),
		session:      opts.Session,
		credentials:  opts.Credentials,
		connector:    opts.Connector,
		drafts:       opts.Drafts,
		templates:    opts.Templates,
		publications: opts.Publications,
		scheduler:    opts.Scheduler,
		limiter:      opts.Limiter,
	}
}
