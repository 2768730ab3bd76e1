package publication

import (
	"github.com/orgball2608/omnipost/internal/orchestrator"
	"go.uber.org/fx"
)

var Module = fx.Module("publication_repository",
	fx.Provide(
		NewPgx,
		fx.Annotate(
			func(repo *Pgx) Repository {
				return repo
			},
			fx.As(new(Repository)),
		),
		fx.Annotate(
			func(repo *Pgx) orchestrator.Recorder {
				return repo
			},
			fx.As(new(orchestrator.Recorder)),
		),
	),
)
