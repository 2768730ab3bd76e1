package template

import (
	"context"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/internal/repositories"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
	"github.com/orgball2608/omnipost/pkg/logger"
)

const table = "templates"

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("TemplateRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) List(ctx context.Context) ([]*domain.Template, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "name", "content", "created_at").
		From(table).
		OrderBy("created_at ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*domain.Template
	for rows.Next() {
		var t domain.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

func (p *Pgx) Create(ctx context.Context, name, content string) (*domain.Template, error) {
	t, err := newTemplate(name, content, time.Now())
	if err != nil {
		return nil, err
	}

	query, args, err := repositories.SqBuilder.
		Insert(table).
		Columns("id", "name", "content", "created_at").
		Values(t.ID, t.Name, t.Content, t.CreatedAt).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	if _, err := p.pg.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == repositories.UniqueViolation {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	p.logger.Info("Template created", "id", t.ID, "name", t.Name)
	return t, nil
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

func newTemplate(name, content string, now time.Time) (*domain.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("template name is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Validation("template content is required")
	}
	return &domain.Template{
		ID:        uuid.NewString(),
		Name:      name,
		Content:   content,
		CreatedAt: now,
	}, nil
}
