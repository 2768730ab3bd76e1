package draft

import (
	"context"
	"errors"

	"github.com/orgball2608/omnipost/internal/domain"
)

var ErrNotFound = errors.New("draft not found")

//go:generate go run go.uber.org/mock/mockgen -source=draft.go -destination=mocks/mock.go
type Repository interface {
	// List returns saved drafts, most recently modified first
	List(ctx context.Context) ([]*domain.SavedDraft, error)

	Get(ctx context.Context, id string) (*domain.SavedDraft, error)

	// Save inserts or replaces a draft. A missing id or name is filled in.
	Save(ctx context.Context, draft domain.SavedDraft) (*domain.SavedDraft, error)

	Delete(ctx context.Context, id string) error
}
