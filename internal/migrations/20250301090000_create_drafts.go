package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateDrafts, downCreateDrafts)
}

func upCreateDrafts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE drafts (
		id            TEXT PRIMARY KEY,
		name          TEXT        NOT NULL,
		text          TEXT        NOT NULL DEFAULT '',
		media         TEXT        NOT NULL DEFAULT '',
		media_kind    TEXT        NOT NULL DEFAULT 'none',
		scheduled_at  TIMESTAMPTZ,
		platforms     TEXT[]      NOT NULL DEFAULT '{}',
		last_modified TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX drafts_last_modified_idx ON drafts (last_modified DESC);
	`)
	return err
}

func downCreateDrafts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE drafts;`)
	return err
}
