package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreatePublications, downCreatePublications)
}

func upCreatePublications(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE publications (
		id         SERIAL PRIMARY KEY,
		batch_id   UUID        NOT NULL,
		platform   TEXT        NOT NULL,
		status     TEXT        NOT NULL,
		reason     TEXT        NOT NULL DEFAULT '',
		simulated  BOOLEAN     NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX publications_batch_id_idx ON publications (batch_id);
	CREATE INDEX publications_created_at_idx ON publications (created_at);
	`)
	return err
}

func downCreatePublications(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE publications;`)
	return err
}
