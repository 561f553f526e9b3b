package settings

import (
	"context"
	"database/sql"
	"fmt"
)

// The helpdesk owns its users and languages; these helpers seed them for
// fresh installs and fixtures.

// UpsertLanguage inserts or renames a language.
func (s *Store) UpsertLanguage(ctx context.Context, code, name string) error {
	if s.db == nil {
		return ErrNotInitialized
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO languages (code, name) VALUES (?, ?)
         ON CONFLICT(code) DO UPDATE SET name=excluded.name`,
		code, name,
	)
	return err
}

// CreateUser inserts a user. A nil locale is stored as NULL.
func (s *Store) CreateUser(ctx context.Context, name string, locale *string) (int64, error) {
	if s.db == nil {
		return 0, ErrNotInitialized
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO users (name, locale) VALUES (?, ?)`, name, locale)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return res.LastInsertId()
}

// UserLocale returns the locale of a user; ok is false when it is NULL.
func (s *Store) UserLocale(ctx context.Context, id int64) (string, bool, error) {
	if s.db == nil {
		return "", false, ErrNotInitialized
	}
	var locale sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT locale FROM users WHERE id=?`, id).Scan(&locale); err != nil {
		return "", false, err
	}
	return locale.String, locale.Valid, nil
}
