// Package bootstrap opens the configured store for the binaries under cmd/.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mesto-api/config"
	repo "github.com/oksasatya/mesto-api/internal/domain/repository"
	"github.com/oksasatya/mesto-api/internal/infrastructure/couchdb"
	"github.com/oksasatya/mesto-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/mesto-api/internal/infrastructure/postgres"
	"github.com/oksasatya/mesto-api/internal/infrastructure/store"
)

// Stores is an open store behind the repository interfaces.
type Stores struct {
	Users repo.UserRepository
	Cards repo.CardRepository
	close func()
}

func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore connects to cfg.StoreDriver, retrying while the server comes up,
// and runs migrations for postgres.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Stores, error) {
	conn := store.Connector{
		Attempts: cfg.DBConnectAttempts,
		Interval: cfg.DBConnectInterval,
		Logger:   logger,
	}

	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		st := memory.New()
		return &Stores{Users: st.Users(), Cards: st.Cards()}, nil

	case config.StorePostgres:
		var pool *pgxpool.Pool
		err := conn.Connect(ctx, "postgres", func(ctx context.Context) error {
			p, err := pginfra.NewPool(ctx, pginfra.PoolOptions{
				DSN:         cfg.DatabaseURI,
				AppName:     cfg.AppName,
				MaxConns:    cfg.DBMaxConns,
				MinConns:    cfg.DBMinConns,
				MaxConnLife: cfg.DBMaxConnLife,
			})
			pool = p
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := runMigrations(cfg.DatabaseURI, cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &Stores{
			Users: pginfra.NewUserRepository(pool),
			Cards: pginfra.NewCardRepository(pool),
			close: pool.Close,
		}, nil

	default:
		var client *couchdb.Client
		err := conn.Connect(ctx, "couchdb", func(ctx context.Context) error {
			c, err := couchdb.Open(ctx, cfg.DatabaseURI, cfg.DBNamePrefix)
			client = c
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("connect couchdb: %w", err)
		}
		return &Stores{
			Users: client.Users(),
			Cards: client.Cards(),
			close: func() { _ = client.Close() },
		}, nil
	}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
