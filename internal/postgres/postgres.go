package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Config struct {
	DSN             string        `envconfig:"DSN" split_words:"true" required:"true"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"10"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" split_words:"true" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" split_words:"true" default:"5m"`
	PingTimeout     time.Duration `envconfig:"PING_TIMEOUT" split_words:"true" default:"5s"`
}

// Connect opens a bun DB over the Postgres wire driver and verifies the
// connection with a bounded ping.
func Connect(cfg Config) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	db := bun.NewDB(sqldb, pgdialect.New())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
