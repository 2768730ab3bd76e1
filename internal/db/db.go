package db

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	_ "github.com/orgball2608/omnipost/internal/migrations"
	"github.com/orgball2608/omnipost/pkg/config"
	"github.com/orgball2608/omnipost/pkg/logger"
	"github.com/pressly/goose/v3"
)

// Open returns a database/sql handle for goose. The app itself talks to
// postgres through pgxpool.
func Open(cfg *config.Config) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// NewProvider serves the Go migrations registered by internal/migrations.
func NewProvider(conn *sql.DB) (*goose.Provider, error) {
	return goose.NewProvider(goose.DialectPostgres, conn, nil)
}

func Migrate(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	conn, err := Open(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	provider, err := NewProvider(conn)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, r := range results {
		log.Info("Applied migration", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}
