package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteBackend stores drafts in a single-table SQLite database.
type SQLiteBackend struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if path == "" {
		return nil, errors.New("draft: sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("draft: create sqlite dir: %w", err)
		}
	}

	// modernc.org/sqlite registers itself as "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("draft: open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise get its own database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("draft: sqlite pragma: %w", err)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS drafts (
		key TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("draft: migrate sqlite: %w", err)
	}

	return &SQLiteBackend{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (b *SQLiteBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := b.db.QueryRowContext(ctx, `SELECT body FROM drafts WHERE key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDraft
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (b *SQLiteBackend) Put(ctx context.Context, key string, payload []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO drafts (key, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		key, payload, b.now().UTC().UnixMilli(),
	)
	return err
}
