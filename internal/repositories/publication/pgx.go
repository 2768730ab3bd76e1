package publication

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/internal/orchestrator"
	"github.com/orgball2608/omnipost/internal/repositories"
	"github.com/orgball2608/omnipost/pkg/logger"
)

const table = "publications"

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("PublicationRepo"),
	}
}

var (
	_ Repository            = (*Pgx)(nil)
	_ orchestrator.Recorder = (*Pgx)(nil)
)

func (p *Pgx) Record(ctx context.Context, rec domain.PublishRecord) error {
	query, args, err := insertQuery(rec)
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	return err
}

func (p *Pgx) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*domain.PublishRecord, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "batch_id", "platform", "status", "reason", "simulated", "created_at").
		From(table).
		Where(sq.Eq{"batch_id": batchID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.PublishRecord
	for rows.Next() {
		var (
			rec      domain.PublishRecord
			platform string
			status   string
		)
		if err := rows.Scan(&rec.ID, &rec.BatchID, &platform, &status, &rec.Reason, &rec.Simulated, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Platform = domain.Platform(platform)
		if rec.Status, err = domain.ParsePublishStatus(status); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (p *Pgx) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	query, args, err := cleanupQuery(time.Now().Add(-olderThan))
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	deleted := result.RowsAffected()
	p.logger.Info("Cleaned up publish history", "deleted", deleted, "older_than", olderThan)
	return deleted, nil
}

func insertQuery(rec domain.PublishRecord) (string, []interface{}, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return repositories.SqBuilder.
		Insert(table).
		Columns("batch_id", "platform", "status", "reason", "simulated", "created_at").
		Values(rec.BatchID, string(rec.Platform), rec.Status.String(), rec.Reason, rec.Simulated, createdAt).
		ToSql()
}

func cleanupQuery(cutoff time.Time) (string, []interface{}, error) {
	return repositories.SqBuilder.
		Delete(table).
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
}
