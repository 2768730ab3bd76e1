package template

import (
	"context"
	"errors"

	"github.com/orgball2608/omnipost/internal/domain"
)

var (
	ErrNotFound      = errors.New("template not found")
	ErrAlreadyExists = errors.New("template already exists")
)

//go:generate go run go.uber.org/mock/mockgen -source=template.go -destination=mocks/mock.go
type Repository interface {
	List(ctx context.Context) ([]*domain.Template, error)
	Create(ctx context.Context, name, content string) (*domain.Template, error)
	Delete(ctx context.Context, id string) error
}
