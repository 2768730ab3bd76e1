package generatorimpl

import (
	"context"
	"errors"

	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/internal/generator"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
	"github.com/orgball2608/omnipost/pkg/llm"
	"github.com/orgball2608/omnipost/pkg/logger"
	"go.uber.org/fx"
)

var errNoVariants = errors.New("provider returned no variants for the requested platforms")

type Opts struct {
	fx.In

	Provider llm.Provider
	Logger   logger.Logger
}

type GeneratorImpl struct {
	provider llm.Provider
	logger   logger.Logger
}

func New(opts Opts) *GeneratorImpl {
	return &GeneratorImpl{
		provider: opts.Provider,
		logger:   opts.Logger.WithComponent("Generator"),
	}
}

var _ generator.Client = (*GeneratorImpl)(nil)

func (g *GeneratorImpl) Generate(ctx context.Context, draft domain.Draft, platforms domain.PlatformSet) ([]domain.AdaptedPost, error) {
	if platforms.Empty() {
		return nil, apperrors.Validation("select at least one platform")
	}
	draft = draft.Normalize().Clone()
	if err := draft.Validate(); err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeValidation, "invalid draft")
	}

	req := llm.Request{
		Prompt: buildPrompt(draft, platforms.List()),
		Schema: responseSchema,
	}
	if img, ok := draft.InlineImage(); ok {
		req.Images = []llm.Image{{MIMEType: img.MIMEType, Data: img.Data}}
	}

	g.logger.Info("Generating variants",
		"platforms", platforms.Strings(),
		"mediaKind", draft.MediaKind,
		"inlineImage", len(req.Images) > 0)

	text, err := g.provider.GenerateJSON(ctx, req)
	if err != nil {
		g.logger.Error("Provider call failed", "error", err)
		return nil, apperrors.WrapWithCode(err, apperrors.CodeGeneration, "failed to generate variants")
	}

	variants, skipped, err := parseVariants(text, platforms)
	if err != nil {
		g.logger.Error("Unparsable provider response", "error", err)
		return nil, apperrors.WrapWithCode(err, apperrors.CodeGeneration, "failed to parse generated variants")
	}
	if len(skipped.unrequested) > 0 {
		g.logger.Warn("Dropped variants for unrequested platforms", "platforms", skipped.unrequested)
	}
	if len(skipped.duplicates) > 0 {
		g.logger.Warn("Dropped duplicate variants, kept the first per platform", "platforms", skipped.duplicates)
	}
	if len(variants) == 0 {
		return nil, apperrors.WrapWithCode(errNoVariants, apperrors.CodeGeneration, "failed to generate variants")
	}

	posts := make([]domain.AdaptedPost, 0, len(variants))
	for _, v := range variants {
		posts = append(posts, domain.NewAdaptedPost(draft, v.platform, v.content, v.hashtags))
	}

	g.logger.Info("Generated variants", "count", len(posts))
	return posts, nil
}

