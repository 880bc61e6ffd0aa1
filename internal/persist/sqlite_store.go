package persist

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLiteStore keeps overlays in a single SQLite table. Выдаваемые id:
// десятичные rowid.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLiteStore opens or creates the database at path and applies migrations.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("ensure store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLiteStore{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) applyMigrations(ctx context.Context) error {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	for _, name := range names {
		version := strings.TrimSuffix(name, ".sql")
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("record migration %s: %w", version, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadOverlays(ctx context.Context, mediaID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, start_sec, end_sec, config_json FROM overlays WHERE media_id = ? ORDER BY id`,
		mediaID,
	)
	if err != nil {
		return nil, fmt.Errorf("query overlays: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var (
			id      int64
			rec     Record
			cfgJSON string
		)
		if err := rows.Scan(&id, &rec.Type, &rec.StartSec, &rec.EndSec, &cfgJSON); err != nil {
			return nil, fmt.Errorf("scan overlay: %w", err)
		}
		if err := json.Unmarshal([]byte(cfgJSON), &rec.Config); err != nil {
			return nil, fmt.Errorf("decode overlay %d config: %w", id, err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overlays: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return recs, nil
}

// SaveOverlays вставляет recs одной транзакцией, при ошибке ничего не сохраняется.
func (s *SQLiteStore) SaveOverlays(ctx context.Context, mediaID string, recs []Record) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		cfgJSON, err := json.Marshal(rec.Config)
		if err != nil {
			return nil, fmt.Errorf("marshal config: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO overlays (media_id, type, start_sec, end_sec, config_json, created_at)
            VALUES (?, ?, ?, ?, ?, ?)`,
			mediaID, rec.Type, rec.StartSec, rec.EndSec, string(cfgJSON), timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("insert overlay: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save: %w", err)
	}
	return ids, nil
}

func (s *SQLiteStore) MediaIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT media_id FROM overlays ORDER BY media_id`)
	if err != nil {
		return nil, fmt.Errorf("query media ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
