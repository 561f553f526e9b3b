package settings

import (
	"HelpdeskAdmin/internal/assets"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotInitialized is returned when the store is used before Init.
var ErrNotInitialized = errors.New("settings store not initialized")

// Language is a selectable interface language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// User is the subset of a helpdesk user the settings page lists.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Store wraps the helpdesk's SQLite database for the settings, languages and
// users tables. It uses modernc.org/sqlite for CGO-less builds.
type Store struct {
	dbPath string
	db     *sql.DB
}

// NewStore creates a new Store pointing to dbPath. Call Init() before using it.
func NewStore(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

// Init opens the SQLite database, configures pragmas, and ensures the schema exists.
func (s *Store) Init() error {
	if s.db != nil {
		return nil
	}
	if s.dbPath == "" {
		return fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0o755); err != nil {
		return fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
		`PRAGMA synchronous=NORMAL;`,
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return fmt.Errorf("%s: %w", p, err)
		}
	}

	schema, err := assets.Schema()
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("load schema: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return fmt.Errorf("ensure schema: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Find returns the setting with slug, or nil when there is none.
func (s *Store) Find(ctx context.Context, slug string) (*Entry, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, slug, name, type, value FROM settings WHERE slug=?`, slug)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find setting %s: %w", slug, err)
	}
	return e, nil
}

// Create inserts a new setting row.
func (s *Store) Create(ctx context.Context, slug, name, typ, value string) (*Entry, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (slug, name, type, value) VALUES (?, ?, ?, ?)`,
		slug, name, typ, value,
	)
	if err != nil {
		return nil, fmt.Errorf("create setting %s: %w", slug, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create setting %s: %w", slug, err)
	}
	return &Entry{ID: id, Slug: slug, Name: name, Type: typ, Value: value}, nil
}

// Save writes the name, type and value of an existing row.
func (s *Store) Save(ctx context.Context, e *Entry) error {
	if s.db == nil {
		return ErrNotInitialized
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE settings SET name=?, type=?, value=? WHERE id=?`,
		e.Name, e.Type, e.Value, e.ID,
	)
	if err != nil {
		return fmt.Errorf("save setting %s: %w", e.Slug, err)
	}
	return nil
}

// Put stores value under slug, updating the existing row or creating one.
func (s *Store) Put(ctx context.Context, slug string, value any) (*Entry, error) {
	typ, text, err := EncodeValue(slug, value)
	if err != nil {
		return nil, err
	}

	existing, err := s.Find(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return s.Create(ctx, slug, NameFromSlug(slug), typ, text)
	}

	existing.Value = text
	if err := s.Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// List returns every setting ordered by id.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, slug, name, type, value FROM settings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list settings: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(r scanner) (*Entry, error) {
	var e Entry
	var value sql.NullString
	if err := r.Scan(&e.ID, &e.Slug, &e.Name, &e.Type, &value); err != nil {
		return nil, err
	}
	e.Value = value.String
	return &e, nil
}

// Languages returns the available languages ordered by name.
func (s *Store) Languages(ctx context.Context) ([]Language, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}

	rows, err := s.db.QueryContext(ctx, `SELECT code, name FROM languages ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	var out []Language
	for rows.Next() {
		var l Language
		if err := rows.Scan(&l.Code, &l.Name); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Users returns id and name of every user ordered by name.
func (s *Store) Users(ctx context.Context) ([]User, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SetLocaleForUsers switches every user that has a locale to locale.
// Users without a locale keep following the default.
func (s *Store) SetLocaleForUsers(ctx context.Context, locale string) (int64, error) {
	if s.db == nil {
		return 0, ErrNotInitialized
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET locale=? WHERE locale IS NOT NULL`, locale)
	if err != nil {
		return 0, fmt.Errorf("update user locales: %w", err)
	}
	return res.RowsAffected()
}
