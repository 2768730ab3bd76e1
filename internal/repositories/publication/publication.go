package publication

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/omnipost/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=publication.go -destination=mocks/mock.go
type Repository interface {
	// Record stores one terminal publish result
	Record(ctx context.Context, rec domain.PublishRecord) error

	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*domain.PublishRecord, error)

	// CleanupOldRecords deletes records older than olderThan and returns how many were removed
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
