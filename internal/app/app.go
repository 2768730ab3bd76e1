package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/orgball2608/omnipost/internal/api"
	"github.com/orgball2608/omnipost/internal/command"
	"github.com/orgball2608/omnipost/internal/command/commandimpl"
	"github.com/orgball2608/omnipost/internal/credentials"
	"github.com/orgball2608/omnipost/internal/db"
	"github.com/orgball2608/omnipost/internal/generator"
	"github.com/orgball2608/omnipost/internal/generator/generatorimpl"
	"github.com/orgball2608/omnipost/internal/notifier"
	"github.com/orgball2608/omnipost/internal/orchestrator"
	"github.com/orgball2608/omnipost/internal/orchestrator/orchestratorimpl"
	"github.com/orgball2608/omnipost/internal/publisher"
	"github.com/orgball2608/omnipost/internal/publisher/publisherimpl"
	"github.com/orgball2608/omnipost/internal/ratelimit"
	repositories "github.com/orgball2608/omnipost/internal/repositories/fx"
	"github.com/orgball2608/omnipost/internal/scheduler"
	"github.com/orgball2608/omnipost/internal/scheduler/schedulerimpl"
	"github.com/orgball2608/omnipost/internal/telegram"
	"github.com/orgball2608/omnipost/internal/telegram/telegramimpl"
	"github.com/orgball2608/omnipost/pkg/config"
	"github.com/orgball2608/omnipost/pkg/llm"
	"github.com/orgball2608/omnipost/pkg/logger"
	"github.com/orgball2608/omnipost/pkg/pgx"
	"go.uber.org/fx"
)

const commandRestartDelay = 5 * time.Second

var App = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		newLLMProvider,
		ratelimit.New,
	),
	fx.Provide(
		credentials.NewStore,
		func(s *credentials.Store) credentials.Provider { return s },
		func(s *credentials.Store) api.CredentialStore { return s },
		fx.Annotate(
			credentials.NewSimulatedConnector,
			fx.As(new(credentials.Connector)),
		),
	),
	fx.Provide(
		fx.Annotate(
			generatorimpl.New,
			fx.As(new(generator.Client)),
		), fx.Annotate(
			publisherimpl.New,
			fx.As(new(publisher.Client)),
		), fx.Annotate(
			orchestratorimpl.New,
			fx.As(new(orchestrator.Session)),
		), fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		), fx.Annotate(
			notifier.New,
			fx.As(new(orchestrator.Notifier)),
		), fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
		schedulerimpl.New,
		func(s *schedulerimpl.SchedulerImpl) scheduler.Client { return s },
	),
	repositories.Module,
	api.Module,
	fx.Invoke(func(cfg *config.Config, log logger.Logger) error {
		return db.Migrate(context.Background(), cfg, log.WithComponent("Migrations"))
	}),
	fx.Invoke(run),
)

func newLLMProvider(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(llm.Config{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		APIURL:   cfg.LLM.APIURL,
		Timeout:  cfg.LLM.Timeout,
	})
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, router http.Handler,
	sched *schedulerimpl.SchedulerImpl, tgClient telegram.Client, cmdClient command.Client) {
	ctx, cancel := context.WithCancel(context.Background())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, server)

			if err := sched.ScheduleHistoryCleanup(ctx); err != nil {
				log.Error("Schedule history cleanup error", "Error", err)
				tgClient.SendMessageToUser("Schedule history cleanup error: " + err.Error())
			}
			sched.Start()

			if tgClient.Enabled() {
				go runCommands(ctx, log, tgClient, cmdClient)
			}
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			if err := sched.Shutdown(); err != nil {
				log.Error("Failed to shut down scheduler", "error", err)
			}
			return server.Shutdown(stopCtx)
		},
	})
}

// runCommands keeps the bot listening, restarting the handler after failures.
func runCommands(ctx context.Context, log logger.Logger, tgClient telegram.Client, cmdClient command.Client) {
	for {
		err := cmdClient.HandleCommand(ctx)
		if ctx.Err() != nil {
			return
		}
		log.Error("Command error", "Error", err)
		tgClient.SendMessageToUser("Command error: " + err.Error())

		select {
		case <-ctx.Done():
			return
		case <-time.After(commandRestartDelay):
		}
	}
}

func startHttpServer(log logger.Logger, server *http.Server) {
	log.Info(fmt.Sprintf("Starting server on %s", server.Addr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server failed", "error", err)
	}
}
