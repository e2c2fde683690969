package dbtest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
)

const envTestDSN = "PG_TEST_DSN"

// Connect opens the test database named by PG_TEST_DSN or skips the test.
func Connect(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(envTestDSN)
	if dsn == "" {
		t.Skipf("%s is not set", envTestDSN)
	}

	db, err := sqlx.ConnectContext(context.Background(), "pgx", dsn)
	if err != nil {
		t.Fatalf("sqlx.ConnectContext: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}

// MigrateFromFS executes all SQL queries from the files over a database
// connection.
func MigrateFromFS(db *sqlx.DB, fsys fs.FS, fileNames ...string) error {
	for _, fileName := range fileNames {
		fileBytes, err := fs.ReadFile(fsys, fileName)
		if err != nil {
			return fmt.Errorf("fs.ReadFile: %w", err)
		}

		if _, err = db.Exec(string(fileBytes)); err != nil {
			return fmt.Errorf("db.Exec: %w", err)
		}
	}

	return nil
}

// Truncate empties the tables between tests.
func Truncate(db *sqlx.DB, tables ...string) error {
	if _, err := db.Exec("TRUNCATE " + strings.Join(tables, ", ") + " CASCADE"); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}
