package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/config"
	"github.com/jryandunlap/brain-dump/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const slowQuery = 100 * time.Millisecond

type Storage struct {
	pool    *pgxpool.Pool
	connURL string
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: failed to parse database config", err)
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.MinConnections > 0 {
		poolConfig.MinConns = int32(cfg.MinConnections)
	}
	if cfg.IdleTimeout > 0 {
		poolConfig.MaxConnIdleTime = cfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: failed to create pool", err)
		return nil, fmt.Errorf("create pool: %w", err)
	}

	retries := cfg.ConnectRetries
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(retries)), ctx)
	err = backoff.RetryNotify(func() error {
		return pool.Ping(ctx)
	}, policy, func(err error, next time.Duration) {
		logger.Warn("Repository: ping failed, retrying", zap.Error(err), zap.Duration("next_attempt", next))
	})
	if err != nil {
		pool.Close()
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: connected to PostgreSQL")
	return &Storage{pool: pool, connURL: cfg.URL}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: closed all PostgreSQL connections")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) migrator() (*migrate.Migrate, *sql.DB, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("open migrations: %w", err)
	}

	db, err := sql.Open("postgres", s.connURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrator: %w", err)
	}
	return m, db, nil
}

// Migrate applies every pending embedded migration.
func (s *Storage) Migrate(ctx context.Context) error {
	logger.Info("Repository: applying migrations")

	m, db, err := s.migrator()
	if err != nil {
		logger.Error("Repository: failed to prepare migrations", err)
		return err
	}
	defer db.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: failed to apply migrations", err)
		return fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Repository: migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Down rolls every migration back.
func (s *Storage) Down(ctx context.Context) error {
	logger.Info("Repository: rolling back migrations")

	m, db, err := s.migrator()
	if err != nil {
		logger.Error("Repository: failed to prepare migrations", err)
		return err
	}
	defer db.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: failed to roll back migrations", err)
		return fmt.Errorf("migrate down: %w", err)
	}

	logger.Info("Repository: migrations rolled back")
	return nil
}

// MigrateTo moves the schema up or down to exactly version.
func (s *Storage) MigrateTo(ctx context.Context, version uint) error {
	logger.Info("Repository: migrating to version", zap.Uint("version", version))

	m, db, err := s.migrator()
	if err != nil {
		logger.Error("Repository: failed to prepare migrations", err)
		return err
	}
	defer db.Close()

	if err := m.Migrate(version); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: failed to migrate", err, zap.Uint("version", version))
		return fmt.Errorf("migrate to %d: %w", version, err)
	}
	return nil
}

func warnIfSlow(operation string, start time.Time, limit time.Duration) {
	if elapsed := time.Since(start); elapsed > limit {
		logger.Warn("Repository: slow query", zap.String("operation", operation), zap.Duration("ms", elapsed))
	}
}
