package history

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS lookups (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	question_key TEXT    NOT NULL UNIQUE,
	question     TEXT    NOT NULL,
	answer       TEXT    NOT NULL,
	updated_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_lookups_updated ON lookups(updated_at DESC, id DESC);
`

// initDB runs the embedded migration statements in order.
func initDB(ctx context.Context, db *sql.DB) error {
	for _, s := range strings.Split(migrationsSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
