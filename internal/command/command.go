package command

import "context"

// Client serves the operator bot until ctx is cancelled.
type Client interface {
	HandleCommand(ctx context.Context) error
}
