package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateTemplates, downCreateTemplates)
}

var defaultTemplates = []struct {
	id, name, content string
}{
	{
		id:      "default-1",
		name:    "Product Launch 🚀",
		content: "🚀 Big News! We just launched [Product Name].\n\nIt helps you [Benefit 1] and [Benefit 2].\n\nCheck it out here: [Link]",
	},
	{
		id:      "default-2",
		name:    "Hiring Announcement 📢",
		content: "We're hiring! 📢\n\nLooking for a [Role] to join our team at [Company].\n\nIf you love [Topic], apply here: [Link]\n\n#Hiring #TechJobs",
	},
	{
		id:      "default-3",
		name:    "Weekly Insight 💡",
		content: "Here's a lesson I learned this week about [Topic]:\n\n1. [Point 1]\n2. [Point 2]\n3. [Point 3]\n\nWhat's your take? 👇",
	},
}

func upCreateTemplates(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE templates (
		id         TEXT PRIMARY KEY,
		name       TEXT        NOT NULL UNIQUE,
		content    TEXT        NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`)
	if err != nil {
		return err
	}

	for i, t := range defaultTemplates {
		// stagger created_at so the defaults keep their order
		_, err := tx.ExecContext(ctx,
			`INSERT INTO templates (id, name, content, created_at) VALUES ($1, $2, $3, now() + make_interval(secs => $4))`,
			t.id, t.name, t.content, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func downCreateTemplates(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE templates;`)
	return err
}
