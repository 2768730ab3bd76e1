package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/internal/repositories"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
	"github.com/orgball2608/omnipost/pkg/logger"
)

const table = "drafts"

var columns = []string{"id", "name", "text", "media", "media_kind", "scheduled_at", "platforms", "last_modified"}

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("DraftRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) List(ctx context.Context) ([]*domain.SavedDraft, error) {
	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From(table).
		OrderBy("last_modified DESC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []*domain.SavedDraft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return drafts, nil
}

// Get loads a draft and checks it still satisfies the draft invariants.
func (p *Pgx) Get(ctx context.Context, id string) (*domain.SavedDraft, error) {
	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	d, err := scanDraft(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := d.Draft.Validate(); err != nil {
		p.logger.Warn("Stored draft is invalid", "id", id, "error", err)
		return nil, apperrors.WrapWithCode(err, apperrors.CodeValidation, "stored draft is invalid")
	}
	return d, nil
}

func (p *Pgx) Save(ctx context.Context, d domain.SavedDraft) (*domain.SavedDraft, error) {
	d, err := prepare(d, time.Now())
	if err != nil {
		return nil, err
	}

	query, args, err := upsertQuery(d)
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	if _, err := p.pg.Exec(ctx, query, args...); err != nil {
		return nil, err
	}

	p.logger.Info("Draft saved", "id", d.ID, "name", d.Name)
	return &d, nil
}

func (p *Pgx) Delete(ctx context.Context, id string) error {
	query, args, err := repositories.SqBuilder.
		Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// prepare validates d and fills id, name and modification time.
func prepare(d domain.SavedDraft, now time.Time) (domain.SavedDraft, error) {
	d.Draft = d.Draft.Normalize().Clone()
	if err := d.Draft.Validate(); err != nil {
		return d, apperrors.WrapWithCode(err, apperrors.CodeValidation, "invalid draft")
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	} else if _, err := uuid.Parse(d.ID); err != nil {
		return d, apperrors.Validation("invalid draft id %q", d.ID)
	}
	if d.Name == "" {
		d.Name = fmt.Sprintf("Draft %s", now.Format("2006-01-02 15:04"))
	}
	d.LastModified = now
	return d, nil
}

func upsertQuery(d domain.SavedDraft) (string, []interface{}, error) {
	return repositories.SqBuilder.
		Insert(table).
		Columns(columns...).
		Values(d.ID, d.Name, d.Draft.Text, d.Draft.Media, string(d.Draft.MediaKind),
			d.Draft.ScheduledAt, d.Platforms.Strings(), d.LastModified).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			text = EXCLUDED.text,
			media = EXCLUDED.media,
			media_kind = EXCLUDED.media_kind,
			scheduled_at = EXCLUDED.scheduled_at,
			platforms = EXCLUDED.platforms,
			last_modified = EXCLUDED.last_modified`).
		ToSql()
}

func scanDraft(row pgx.Row) (*domain.SavedDraft, error) {
	var (
		d         domain.SavedDraft
		kind      string
		platforms []string
	)
	if err := row.Scan(&d.ID, &d.Name, &d.Draft.Text, &d.Draft.Media, &kind,
		&d.Draft.ScheduledAt, &platforms, &d.LastModified); err != nil {
		return nil, err
	}
	d.Draft.MediaKind = domain.MediaKind(kind)

	set, err := domain.ParsePlatformSet(platforms)
	if err != nil {
		return nil, fmt.Errorf("draft %s: %w", d.ID, err)
	}
	d.Platforms = set
	return &d, nil
}
