package account

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "swingadmin/internal/domain/account"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, profile_id, email, password_hash, reset_token, reset_expires, created_at
		 FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

// GetByEmail retrieves an Account by email, case-insensitively.
// PRE: email is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, profile_id, email, password_hash, reset_token, reset_expires, created_at
		 FROM accounts WHERE LOWER(email) = ?`, strings.ToLower(email))
	return scanAccount(row)
}

// GetByProfileID retrieves the Account linked to a profile row.
// PRE: profileID is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByProfileID(ctx context.Context, profileID string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, profile_id, email, password_hash, reset_token, reset_expires, created_at
		 FROM accounts WHERE profile_id = ?`, profileID)
	return scanAccount(row)
}

// Save persists an Account (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, profile_id, email, password_hash, reset_token, reset_expires, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   profile_id=excluded.profile_id, email=excluded.email,
		   password_hash=excluded.password_hash, reset_token=excluded.reset_token,
		   reset_expires=excluded.reset_expires`,
		a.ID, a.ProfileID, a.Email, a.PasswordHash,
		nullStr(a.ResetToken), nullTime(a.ResetExpires), a.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes an Account.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	return err
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var a domain.Account
	var resetToken, resetExpires sql.NullString
	var createdAt string
	err := row.Scan(&a.ID, &a.ProfileID, &a.Email, &a.PasswordHash, &resetToken, &resetExpires, &createdAt)
	if err == sql.ErrNoRows {
		return domain.Account{}, ErrNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	if resetToken.Valid {
		a.ResetToken = resetToken.String
	}
	if resetExpires.Valid {
		a.ResetExpires, _ = time.Parse(timeLayout, resetExpires.String)
	}
	a.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return a, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
