package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"angelina/internal/config"

	"github.com/go-sql-driver/mysql"
)

func NewConnection(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// DSN builds the driver connection string. Timestamps are parsed into
// time.Time and interpreted as UTC, matching NOW() on a UTC server.
func DSN(cfg config.DatabaseConfig) string {
	c := mysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	c.DBName = cfg.Name
	c.ParseTime = true
	c.Loc = time.UTC
	// Report matched rows so a same-value status update still counts.
	c.ClientFoundRows = true
	return c.FormatDSN()
}

// IsDuplicateEntry reports whether err is a MySQL unique-key violation.
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
