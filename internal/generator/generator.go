package generator

import (
	"context"

	"github.com/orgball2608/omnipost/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=generator.go -destination=mocks/mock.go
type Client interface {
	// Generate adapts draft for every platform in platforms with a single
	// provider call. It returns the complete batch of posts, all Idle, or an
	// error coded validation or generation. It never returns a partial batch.
	Generate(ctx context.Context, draft domain.Draft, platforms domain.PlatformSet) ([]domain.AdaptedPost, error)
}
