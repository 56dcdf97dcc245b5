package mysql

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsTable = "schema_migrations"

type migrator interface {
	Up() error
	Close() (sourceErr error, databaseErr error)
}

// The driver runs on a dedicated connection; WithInstance would close the
// shared pool along with the migrator.
var driverFactory = func(ctx context.Context, db *sql.DB) (database.Driver, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	drv, err := migratemysql.WithConnection(ctx, conn, &migratemysql.Config{MigrationsTable: migrationsTable})
	if err != nil {
		conn.Close()
		return nil, err
	}
	return drv, nil
}

var migratorFactory = func(driver database.Driver) (migrator, error) {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", src, "mysql", driver)
}

// Migrate applies every pending embedded migration. Closing the migrator
// releases its dedicated connection but leaves db open.
func Migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if db == nil {
		return errors.New("migrations: db is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	driver, err := driverFactory(ctx, db)
	if err != nil {
		return fmt.Errorf("migrations: mysql driver: %w", err)
	}

	m, err := migratorFactory(driver)
	if err != nil {
		return fmt.Errorf("migrations: init: %w", err)
	}

	var closeOnce sync.Once
	closeMigrator := func() {
		closeOnce.Do(func() {
			srcErr, dbErr := m.Close()
			if srcErr != nil {
				logger.Warn("migrations source close error", zap.Error(srcErr))
			}
			if dbErr != nil {
				logger.Warn("migrations db close error", zap.Error(dbErr))
			}
		})
	}
	defer closeMigrator()

	logger.Info("running sql migrations", zap.String("table", migrationsTable))

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Up()
	}()

	select {
	case <-ctx.Done():
		// migrate has no context support; closing interrupts it.
		closeMigrator()
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no migrations to apply")
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrations: up: %w", err)
		}
	}

	logger.Info("migrations applied")
	return nil
}
