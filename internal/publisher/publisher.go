package publisher

import (
	"context"
	"fmt"

	"github.com/orgball2608/omnipost/internal/domain"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
)

//go:generate go run go.uber.org/mock/mockgen -source=publisher.go -destination=mocks/mock.go
type Client interface {
	// Publish delivers one adapted post with the given credential. It is
	// stateless: the caller owns the publish state of the platform.
	Publish(ctx context.Context, post domain.AdaptedPost, cred *domain.Credential) error
}

// NotConnectedError is returned without any network attempt when the
// platform has no usable credential.
type NotConnectedError struct {
	Platform domain.Platform
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("%s is not connected. Connect the account in settings before publishing.", e.Platform.Label())
}

func (e *NotConnectedError) Unwrap() error { return apperrors.ErrNotConnected }

// PublishError carries a reason fit for showing to the user. Transport is set
// when the request never reached the platform.
type PublishError struct {
	Platform   domain.Platform
	Reason     string
	Transport  bool
	StatusCode int
	Err        error
}

func (e *PublishError) Error() string {
	return e.Reason
}

func (e *PublishError) Unwrap() []error {
	if e.Err == nil {
		return []error{apperrors.ErrPublish}
	}
	return []error{apperrors.ErrPublish, e.Err}
}
