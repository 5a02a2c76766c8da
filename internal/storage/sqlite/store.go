// Package sqlite provides a SQLite-backed core.Store for the articles server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite"

	"github.com/aretw0/folio/internal/storage/sqlite/migrations"
	"github.com/aretw0/folio/pkg/core"
)

const migrationTable = "schema_migrations"

// Store persists articles in a SQLite database.
type Store struct {
	path  string
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{path: cleanPath, sqlDB: sqlDB}
	if err := store.applyMigrations(migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// applyMigrations executes each embedded *.sql file at most once, in name order.
func (s *Store) applyMigrations(migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (name TEXT PRIMARY KEY, applied_at INTEGER NOT NULL)`, migrationTable)
	if _, err := s.sqlDB.Exec(createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var applied int
		if err := s.sqlDB.QueryRow(`SELECT COUNT(*) FROM `+migrationTable+` WHERE name = ?`, file).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied > 0 {
			continue
		}
		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := s.sqlDB.Exec(string(content)); err != nil {
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := s.sqlDB.Exec(`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`, file, time.Now().UTC().UnixMilli()); err != nil {
			return fmt.Errorf("record migration %s: %w", file, err)
		}
	}
	return nil
}

// List implements core.Store.
func (s *Store) List(ctx context.Context) ([]core.Metadata, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT article_id, author, author_url, body, category, published_on, title
FROM articles ORDER BY article_id`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var out []core.Metadata
	for rows.Next() {
		var (
			id                                       int64
			author, authorURL, body, category, title string
			published                                sql.NullString
		)
		if err := rows.Scan(&id, &author, &authorURL, &body, &category, &published, &title); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		row := core.Metadata{
			core.KeyID:          id,
			core.KeyAuthor:      author,
			core.KeyAuthorURL:   authorURL,
			core.KeyBody:        body,
			core.KeyCategory:    category,
			core.KeyPublishedOn: nil,
			core.KeyTitle:       title,
		}
		if published.Valid {
			row[core.KeyPublishedOn] = published.String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return out, nil
}

// Create implements core.Store.
func (s *Store) Create(ctx context.Context, fields core.Metadata) (core.Ack, error) {
	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO articles (author, author_url, body, category, published_on, title)
VALUES (?, ?, ?, ?, ?, ?)`,
		text(fields, core.KeyAuthor),
		text(fields, core.KeyAuthorURL),
		text(fields, core.KeyBody),
		text(fields, core.KeyCategory),
		publishedOn(fields),
		text(fields, core.KeyTitle),
	)
	if err != nil {
		return core.Ack{}, fmt.Errorf("insert article: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Ack{}, fmt.Errorf("insert article: %w", err)
	}
	return core.Ack{ID: strconv.FormatInt(id, 10), Message: "insert complete"}, nil
}

// Update implements core.Store.
func (s *Store) Update(ctx context.Context, id string, fields core.Metadata) (core.Ack, error) {
	key, err := parseID(id)
	if err != nil {
		return core.Ack{}, err
	}
	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE articles SET author = ?, author_url = ?, body = ?, category = ?, published_on = ?, title = ?
WHERE article_id = ?`,
		text(fields, core.KeyAuthor),
		text(fields, core.KeyAuthorURL),
		text(fields, core.KeyBody),
		text(fields, core.KeyCategory),
		publishedOn(fields),
		text(fields, core.KeyTitle),
		key,
	)
	if err != nil {
		return core.Ack{}, fmt.Errorf("update article %s: %w", id, err)
	}
	if err := requireAffected(res, id); err != nil {
		return core.Ack{}, err
	}
	return core.Ack{ID: id, Message: "update complete"}, nil
}

// Delete implements core.Store.
func (s *Store) Delete(ctx context.Context, id string) (core.Ack, error) {
	key, err := parseID(id)
	if err != nil {
		return core.Ack{}, err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM articles WHERE article_id = ?`, key)
	if err != nil {
		return core.Ack{}, fmt.Errorf("delete article %s: %w", id, err)
	}
	if err := requireAffected(res, id); err != nil {
		return core.Ack{}, err
	}
	return core.Ack{ID: id, Message: "delete complete"}, nil
}

// Truncate implements core.Store.
func (s *Store) Truncate(ctx context.Context) (core.Ack, error) {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM articles`); err != nil {
		return core.Ack{}, fmt.Errorf("truncate articles: %w", err)
	}
	return core.Ack{Message: "delete complete"}, nil
}

func parseID(id string) (int64, error) {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("article %q: %w", id, core.ErrNotFound)
	}
	return key, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("article %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("article %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func text(fields core.Metadata, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func publishedOn(fields core.Metadata) sql.NullString {
	s := text(fields, core.KeyPublishedOn)
	return sql.NullString{String: s, Valid: s != ""}
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path string `json:"path"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{Path: s.path}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite"
}

var _ core.Store = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
