// FilePath: internal/database/database.go
package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sarlink/relayhub/internal/config"
	nuts "github.com/vaudience/go-nuts"
)

// DB is an interface that both the app and telemetry databases implement
type DB interface {
	Close() error
	Ping(ctx context.Context) error
	GetDB() *sqlx.DB
}

// PostgresDB represents the application database connection
type PostgresDB struct {
	db *sqlx.DB
}

// TelemetryDB represents the time-series database connection. TimescaleDB
// is used when the extension is installed; a plain table works otherwise.
type TelemetryDB struct {
	db          *sqlx.DB
	hypertables bool
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg config.PostgresConfig) (DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to PostgreSQL: %w", err)
	}

	nuts.L.Infof("[PostgresDB] Connected to %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
	return &PostgresDB{db: db}, nil
}

// NewTelemetryDB creates a new telemetry database connection
func NewTelemetryDB(cfg config.PostgresConfig) (DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to telemetry database: %w", err)
	}

	var hasTimescaleDB bool
	err = db.Get(&hasTimescaleDB, "SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'timescaledb')")
	if err != nil || !hasTimescaleDB {
		nuts.L.Warnf("[TelemetryDB] TimescaleDB extension not available, using plain tables")
		hasTimescaleDB = false
	}

	nuts.L.Infof("[TelemetryDB] Connected to %s:%d/%s (hypertables=%v)", cfg.Host, cfg.Port, cfg.DBName, hasTimescaleDB)
	return &TelemetryDB{db: db, hypertables: hasTimescaleDB}, nil
}

// Implementation of DB interface for PostgresDB
func (p *PostgresDB) Close() error {
	return p.db.Close()
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresDB) GetDB() *sqlx.DB {
	return p.db
}

// Implementation of DB interface for TelemetryDB
func (t *TelemetryDB) Close() error {
	return t.db.Close()
}

func (t *TelemetryDB) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

func (t *TelemetryDB) GetDB() *sqlx.DB {
	return t.db
}

// Hypertables reports whether the TimescaleDB extension is active
func (t *TelemetryDB) Hypertables() bool {
	return t.hypertables
}
