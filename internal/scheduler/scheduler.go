package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate go run go.uber.org/mock/mockgen -source=scheduler.go -destination=mocks/mock.go
type Client interface {
	// ScheduleBatch publishes every pending platform of batchID at the given
	// time. A later call for the same batch replaces the earlier one.
	ScheduleBatch(batchID uuid.UUID, at time.Time) error
	// CancelBatch drops a pending scheduled publish. It reports whether one existed.
	CancelBatch(batchID uuid.UUID) bool
	ScheduleHistoryCleanup(ctx context.Context) error
}
