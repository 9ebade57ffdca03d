// Package history keeps a SQLite record of resolutions so past requests can
// be listed and repeated.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/modelout/internal/models"
)

// ErrNotFound is returned by Get for unknown ids
var ErrNotFound = errors.New("resolution not found")

// Sources of a recorded resolution
const (
	SourceCLI    = "cli"
	SourceServer = "server"
	SourceWatch  = "watch"
)

// Resolution is one recorded resolution attempt
type Resolution struct {
	ID           string                   `json:"id"`
	Request      models.ResolutionRequest `json:"request"`
	Strategy     models.Strategy          `json:"strategy,omitempty"`
	SearchPath   string                   `json:"search_path,omitempty"`
	Files        []string                 `json:"files"`
	ErrorKind    string                   `json:"error_kind,omitempty"`
	ErrorMessage string                   `json:"error_message,omitempty"`
	Duration     time.Duration            `json:"duration"`
	Source       string                   `json:"source"`
	CreatedAt    time.Time                `json:"created_at"`
}

// Succeeded reports whether the resolution produced files
func (r *Resolution) Succeeded() bool {
	return r.ErrorMessage == ""
}

// NewResolution builds a record from a resolution outcome
func NewResolution(source string, req models.ResolutionRequest, result *models.ResolutionResult, err error, duration time.Duration) *Resolution {
	rec := &Resolution{
		ID:        uuid.NewString(),
		Request:   req,
		Duration:  duration,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
	if result != nil {
		rec.Strategy = result.Strategy
		rec.SearchPath = result.SearchPath
		rec.Files = append([]string(nil), result.ValidFiles...)
	}
	if err != nil {
		rec.ErrorKind = models.ErrorKind(err)
		rec.ErrorMessage = err.Error()
		var re *models.ResolveError
		if errors.As(err, &re) && rec.SearchPath == "" {
			rec.SearchPath = re.SearchPath
		}
	}
	return rec
}

// Store manages the SQLite database of resolutions
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new Store instance and initializes the database
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would get its own empty in-memory database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a resolution
func (s *Store) Record(ctx context.Context, rec *Resolution) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Source == "" {
		rec.Source = SourceCLI
	}

	files, err := json.Marshal(nonNil(rec.Files))
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}

	query := `INSERT INTO resolutions
		(id, model, format, root_dir, sub_dir, valid_time, domain, strategy, search_path, files, error_kind, error_message, duration_ms, created_at, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Request.Model,
		rec.Request.Format,
		rec.Request.RootDir,
		rec.Request.SubDirHint,
		rec.Request.ValidTime,
		rec.Request.Domain,
		string(rec.Strategy),
		rec.SearchPath,
		string(files),
		rec.ErrorKind,
		rec.ErrorMessage,
		rec.Duration.Milliseconds(),
		rec.CreatedAt,
		rec.Source,
	)
	if err != nil {
		return fmt.Errorf("insert resolution: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, model, format, root_dir, sub_dir, valid_time, domain, strategy, search_path, files, error_kind, error_message, duration_ms, created_at, source FROM resolutions`

// List returns the most recent resolutions first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]*Resolution, error) {
	query := selectColumns + ` ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query resolutions: %w", err)
	}
	defer rows.Close()

	var out []*Resolution
	for rows.Next() {
		rec, err := scanResolution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resolutions: %w", err)
	}
	return out, nil
}

// Get returns one resolution by id
func (s *Store) Get(ctx context.Context, id string) (*Resolution, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanResolution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResolution(row scanner) (*Resolution, error) {
	rec := &Resolution{}
	var subDir, validTime, domain, strategy, searchPath, files, errorKind, errorMessage sql.NullString
	var durationMs sql.NullInt64

	err := row.Scan(
		&rec.ID,
		&rec.Request.Model,
		&rec.Request.Format,
		&rec.Request.RootDir,
		&subDir,
		&validTime,
		&domain,
		&strategy,
		&searchPath,
		&files,
		&errorKind,
		&errorMessage,
		&durationMs,
		&rec.CreatedAt,
		&rec.Source,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan resolution row: %w", err)
	}

	rec.Request.SubDirHint = subDir.String
	rec.Request.ValidTime = validTime.String
	rec.Request.Domain = domain.String
	rec.Strategy = models.Strategy(strategy.String)
	rec.SearchPath = searchPath.String
	rec.ErrorKind = errorKind.String
	rec.ErrorMessage = errorMessage.String
	rec.Duration = time.Duration(durationMs.Int64) * time.Millisecond

	if files.Valid && files.String != "" {
		if err := json.Unmarshal([]byte(files.String), &rec.Files); err != nil {
			return nil, fmt.Errorf("unmarshal files: %w", err)
		}
	}
	return rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
