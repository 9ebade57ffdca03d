package history

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a database schema migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// migrations is the ordered list of all database migrations
var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema with resolutions",
		SQL: `
CREATE TABLE IF NOT EXISTS resolutions (
    id TEXT PRIMARY KEY,
    model TEXT NOT NULL,
    format TEXT NOT NULL,
    root_dir TEXT NOT NULL,
    sub_dir TEXT,
    valid_time TEXT,
    domain TEXT,
    strategy TEXT,
    search_path TEXT,
    files TEXT,
    error_kind TEXT,
    error_message TEXT,
    duration_ms INTEGER,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resolutions_model ON resolutions(model);
CREATE INDEX IF NOT EXISTS idx_resolutions_created_at ON resolutions(created_at DESC);
`,
	},
	{
		Version:     2,
		Description: "Record where a resolution came from (cli, server, watch)",
		SQL: `
ALTER TABLE resolutions ADD COLUMN source TEXT NOT NULL DEFAULT 'cli';
CREATE INDEX IF NOT EXISTS idx_resolutions_source ON resolutions(source);
`,
	},
}

// ApplyMigrations applies every migration not yet recorded in schema_version
func (s *Store) ApplyMigrations(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin exclusive transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("ensure schema_version table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := tx.QueryContext(ctx, `SELECT version FROM schema_version`)
	if err != nil {
		return fmt.Errorf("get applied versions: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("scan version: %w", err)
		}
		applied[v] = true
	}
	rows.Close()

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, m.Version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

// LatestVersion returns the highest applied schema version, or 0
func (s *Store) LatestVersion(ctx context.Context) (int, error) {
	var v sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("get latest version: %w", err)
	}
	return int(v.Int64), nil
}
