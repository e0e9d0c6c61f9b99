package message

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "swingadmin/internal/domain/message"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

const messageColumns = `id, title, content, content_type, image_url, type, priority,
	 target_user_ids, requires_marketing_consent, start_date, end_date,
	 is_active, action_url, action_label, created_at, updated_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an InAppMessage by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.InAppMessage, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM in_app_messages WHERE id = ?`, id)
	m, err := scanMessage(row.Scan)
	if err == sql.ErrNoRows {
		return domain.InAppMessage{}, ErrNotFound
	}
	return m, err
}

// ListAll retrieves every message, most recently created first.
// POST: Returns all messages ordered by created_at descending
func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.InAppMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM in_app_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.InAppMessage
	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Insert persists a new InAppMessage.
// PRE: entity has been validated
// POST: Row is inserted
func (s *SQLiteStore) Insert(ctx context.Context, m domain.InAppMessage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO in_app_messages (`+messageColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.Content, m.ContentType, nullStr(m.ImageURL), m.Type, m.Priority,
		encodeTargets(m.TargetUserIDs), m.RequiresMarketingConsent,
		nullTime(m.StartDate), nullTime(m.EndDate),
		m.IsActive, nullStr(m.ActionURL), nullStr(m.ActionLabel),
		m.CreatedAt.Format(timeLayout), m.UpdatedAt.Format(timeLayout))
	return err
}

// Update replaces the stored state for a message.
// PRE: entity has been validated; m.ID exists
// POST: Row is updated; ErrNotFound if no row matched
func (s *SQLiteStore) Update(ctx context.Context, m domain.InAppMessage) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE in_app_messages SET
		   title = ?, content = ?, content_type = ?, image_url = ?, type = ?,
		   priority = ?, target_user_ids = ?, requires_marketing_consent = ?,
		   start_date = ?, end_date = ?, is_active = ?, action_url = ?,
		   action_label = ?, updated_at = ?
		 WHERE id = ?`,
		m.Title, m.Content, m.ContentType, nullStr(m.ImageURL), m.Type,
		m.Priority, encodeTargets(m.TargetUserIDs), m.RequiresMarketingConsent,
		nullTime(m.StartDate), nullTime(m.EndDate), m.IsActive, nullStr(m.ActionURL),
		nullStr(m.ActionLabel), time.Now().Format(timeLayout), m.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive flips the is_active flag for one message.
// PRE: id is non-empty
// POST: Flag and updated_at are persisted; ErrNotFound if no row matched
func (s *SQLiteStore) SetActive(ctx context.Context, id string, active bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE in_app_messages SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().Format(timeLayout), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a message.
// PRE: id is non-empty
// POST: Row with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM in_app_messages WHERE id = ?`, id)
	return err
}

// scanMessage reads one row via the given scan function.
func scanMessage(scan func(...any) error) (domain.InAppMessage, error) {
	var m domain.InAppMessage
	var imageURL, targets, startDate, endDate, actionURL, actionLabel sql.NullString
	var createdAt, updatedAt string
	err := scan(&m.ID, &m.Title, &m.Content, &m.ContentType, &imageURL, &m.Type,
		&m.Priority, &targets, &m.RequiresMarketingConsent, &startDate, &endDate,
		&m.IsActive, &actionURL, &actionLabel, &createdAt, &updatedAt)
	if err != nil {
		return domain.InAppMessage{}, err
	}
	m.ImageURL = imageURL.String
	m.ActionURL = actionURL.String
	m.ActionLabel = actionLabel.String
	if targets.Valid && targets.String != "" {
		if err := json.Unmarshal([]byte(targets.String), &m.TargetUserIDs); err != nil {
			m.TargetUserIDs = nil
		}
	}
	if startDate.Valid {
		m.StartDate, _ = time.Parse(timeLayout, startDate.String)
	}
	if endDate.Valid {
		m.EndDate, _ = time.Parse(timeLayout, endDate.String)
	}
	m.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	m.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return m, nil
}

// encodeTargets stores the target list as a JSON array, or NULL when the
// message is untargeted.
func encodeTargets(ids []string) any {
	if len(ids) == 0 {
		return nil
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil
	}
	return string(raw)
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
