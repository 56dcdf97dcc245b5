package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"angelina/internal/infrastructure/mysql"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/angelina_test?parseTime=true&loc=UTC&clientFoundRows=true"

// SetupTestDB opens the integration database named by TEST_DATABASE_DSN
// (default angelina_test on localhost) and skips the test when it is unreachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables brings the schema up to date with the embedded migrations.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()

	if err := mysql.Migrate(context.Background(), db, zap.NewNop()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// CleanupTestDB empties the tables and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	for _, table := range []string{"appointments", "newsletter_subscribers"} {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}
