package fx

import (
	"github.com/orgball2608/omnipost/internal/repositories/draft"
	"github.com/orgball2608/omnipost/internal/repositories/publication"
	"github.com/orgball2608/omnipost/internal/repositories/template"
	"go.uber.org/fx"
)

var Module = fx.Options(
	draft.Module,
	template.Module,
	publication.Module,
)
