package message

import (
	"errors"
	"time"
)

// Content type constants
const (
	ContentText     = "text"
	ContentHTML     = "html"
	ContentMarkdown = "markdown"
)

// Display type constants
const (
	TypeBanner  = "banner"
	TypeOverlay = "overlay"
)

// Domain errors
var (
	ErrEmptyTitle         = errors.New("title is required")
	ErrEmptyContent       = errors.New("message content cannot be empty")
	ErrInvalidContentType = errors.New("content_type must be one of: text, html, markdown")
	ErrInvalidType        = errors.New("type must be one of: banner, overlay")
	ErrNegativePriority   = errors.New("priority cannot be negative")
	ErrDateRange          = errors.New("start_date must not be after end_date")
)

// InAppMessage represents one marketing message shown inside the mobile
// app, either as a banner or a full-screen overlay.
type InAppMessage struct {
	ID                       string
	Title                    string
	Content                  string
	ContentType              string // text, html, markdown
	ImageURL                 string
	Type                     string // banner, overlay
	Priority                 int
	TargetUserIDs            []string // nil means every user
	RequiresMarketingConsent bool
	StartDate                time.Time
	EndDate                  time.Time
	IsActive                 bool
	ActionURL                string
	ActionLabel              string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// Validate checks if the InAppMessage has valid data.
// PRE: InAppMessage struct is populated
// POST: Returns nil if valid, error otherwise
func (m *InAppMessage) Validate() error {
	if m.Title == "" {
		return ErrEmptyTitle
	}
	if m.Content == "" {
		return ErrEmptyContent
	}
	switch m.ContentType {
	case ContentText, ContentHTML, ContentMarkdown:
	default:
		return ErrInvalidContentType
	}
	switch m.Type {
	case TypeBanner, TypeOverlay:
	default:
		return ErrInvalidType
	}
	if m.Priority < 0 {
		return ErrNegativePriority
	}
	if !m.StartDate.IsZero() && !m.EndDate.IsZero() && m.StartDate.After(m.EndDate) {
		return ErrDateRange
	}
	return nil
}

// IsTargeted returns true if the message is restricted to specific users.
// INVARIANT: InAppMessage fields are not mutated
func (m *InAppMessage) IsTargeted() bool {
	return len(m.TargetUserIDs) > 0
}

// IsUpcoming returns true if the message's start date is in the future.
// INVARIANT: InAppMessage fields are not mutated
func (m *InAppMessage) IsUpcoming(now time.Time) bool {
	if m.StartDate.IsZero() {
		return false
	}
	return m.StartDate.After(now)
}
