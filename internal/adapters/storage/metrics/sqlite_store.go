package metrics

import (
	"context"
	"database/sql"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// CountProfiles returns the total number of signed-up profiles.
func (s *SQLiteStore) CountProfiles(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM profiles`)
}

// CountAnalyses returns the total number of recorded swing analyses.
func (s *SQLiteStore) CountAnalyses(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM swing_analyses`)
}

// CountMarketingConsent returns the number of profiles that opted in to
// marketing messages.
func (s *SQLiteStore) CountMarketingConsent(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM profiles WHERE marketing_consent = 1`)
}

func (s *SQLiteStore) count(ctx context.Context, query string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, query).Scan(&n)
	return n, err
}
