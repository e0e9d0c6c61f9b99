package profile

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"swingadmin/internal/domain/record"
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

// GetByID retrieves a profile row as a dynamic record.
// PRE: id is non-empty
// POST: Returns the record, or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*record.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT * FROM profiles WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return recs[0], nil
}

// List retrieves profile rows, optionally filtered by a case-insensitive
// substring match on email or full_name, newest first.
// PRE: limit > 0
// POST: Returns at most limit records
func (s *SQLiteStore) List(ctx context.Context, search string, limit int) ([]*record.Record, error) {
	query := `SELECT * FROM profiles`
	args := []any{}
	if search != "" {
		query += ` WHERE email LIKE ? OR full_name LIKE ?`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// UpdatePartial applies a sanitized partial update to one profile row in
// a single statement and returns the updated record. Update keys are
// matched against the table's actual columns; unknown keys are dropped,
// and system columns are never writable regardless of input. A payload
// with no applicable columns leaves the row untouched.
// PRE: id is non-empty; updates has been through record.SanitizeUpdate
// POST: updated_at is bumped; returns the post-update record or ErrNotFound
func (s *SQLiteStore) UpdatePartial(ctx context.Context, id string, updates map[string]any) (*record.Record, error) {
	columns, err := s.tableColumns(ctx)
	if err != nil {
		return nil, err
	}

	var assignments []string
	var args []any
	// Iterate table columns rather than the map for deterministic SQL.
	for _, col := range columns {
		if record.SystemColumns[col] {
			continue
		}
		value, ok := updates[col]
		if !ok {
			continue
		}
		assignments = append(assignments, fmt.Sprintf("%q = ?", col))
		args = append(args, toSQL(value))
	}

	if len(assignments) > 0 {
		assignments = append(assignments, `"updated_at" = ?`)
		args = append(args, time.Now().Format(timeLayout))
		args = append(args, id)

		query := `UPDATE profiles SET ` + strings.Join(assignments, ", ") + ` WHERE id = ?`
		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, ErrNotFound
		}
	}

	return s.GetByID(ctx, id)
}

// Insert persists a new profile row from a record.
// PRE: rec has an id column
// POST: Row is inserted; created_at/updated_at are set if absent
func (s *SQLiteStore) Insert(ctx context.Context, rec *record.Record) error {
	if rec.ID() == "" {
		return fmt.Errorf("profile record has no id")
	}
	now := time.Now().Format(timeLayout)

	columns, err := s.tableColumns(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}

	var names []string
	var marks []string
	var args []any
	for _, key := range rec.Keys() {
		if !known[key] {
			continue
		}
		value, _ := rec.Get(key)
		names = append(names, fmt.Sprintf("%q", key))
		marks = append(marks, "?")
		args = append(args, toSQL(value))
	}
	if _, ok := rec.Get("created_at"); !ok {
		names = append(names, `"created_at"`)
		marks = append(marks, "?")
		args = append(args, now)
	}
	if _, ok := rec.Get("updated_at"); !ok {
		names = append(names, `"updated_at"`)
		marks = append(marks, "?")
		args = append(args, now)
	}

	query := `INSERT INTO profiles (` + strings.Join(names, ", ") + `) VALUES (` + strings.Join(marks, ", ") + `)`
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// Delete removes a profile row.
// PRE: id is non-empty
// POST: Row with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	return err
}

// tableColumns returns the profiles table's column names in table order.
func (s *SQLiteStore) tableColumns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info(profiles)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// scanRecords reads every row into an ordered record, preserving the
// query's column order. Declared BOOLEAN columns surface as Go bools so
// the editor infers checkbox fields for them.
func scanRecords(rows *sql.Rows) ([]*record.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	var records []*record.Record
	for rows.Next() {
		targets := make([]any, len(columns))
		for i := range targets {
			targets[i] = new(any)
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		rec := record.New()
		for i, col := range columns {
			value := *(targets[i].(*any))
			rec.Set(col, fromSQL(value, types[i].DatabaseTypeName()))
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// fromSQL converts a scanned SQL value into a record scalar.
func fromSQL(value any, declaredType string) any {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return string(v)
	case int64:
		if strings.EqualFold(declaredType, "BOOLEAN") {
			return v != 0
		}
		return v
	default:
		return value
	}
}

// toSQL converts a record scalar into a driver-friendly value.
func toSQL(value any) any {
	switch v := value.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return value
	}
}
