package commandimpl

import (
	"sync"
	"time"

	"github.com/orgball2608/omnipost/internal/command"
	"github.com/orgball2608/omnipost/internal/credentials"
	"github.com/orgball2608/omnipost/internal/orchestrator"
	"github.com/orgball2608/omnipost/internal/ratelimit"
	"github.com/orgball2608/omnipost/internal/repositories/template"
	"github.com/orgball2608/omnipost/internal/telegram"
	"github.com/orgball2608/omnipost/pkg/config"
	"github.com/orgball2608/omnipost/pkg/logger"
	"go.uber.org/fx"
)

const defaultConfirmTimeout = 2 * time.Minute

type Opts struct {
	fx.In

	Telegram    telegram.Client
	Session     orchestrator.Session
	Credentials *credentials.Store
	Templates   template.Repository
	Limiter     ratelimit.Limiter
	Logger      logger.Logger
	Config      *config.Config
}

type CommandImpl struct {
	Telegram    telegram.Client
	Session     orchestrator.Session
	Credentials *credentials.Store
	Templates   template.Repository
	Limiter     ratelimit.Limiter
	Logger      logger.Logger
	Owner       int64

	confirmTimeout time.Duration
	mu             sync.Mutex
	pending        map[string]chan bool
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram:       opts.Telegram,
		Session:        opts.Session,
		Credentials:    opts.Credentials,
		Templates:      opts.Templates,
		Limiter:        opts.Limiter,
		Logger:         opts.Logger.WithComponent("Command"),
		Owner:          opts.Config.Telegram.User,
		confirmTimeout: defaultConfirmTimeout,
		pending:        make(map[string]chan bool),
	}
}

var _ command.Client = (*CommandImpl)(nil)
