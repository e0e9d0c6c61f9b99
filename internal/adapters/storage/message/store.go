package message

import (
	"context"
	"errors"

	domain "swingadmin/internal/domain/message"
)

// ErrNotFound is returned when no message row exists for an id.
var ErrNotFound = errors.New("message not found")

// Store persists InAppMessage state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.InAppMessage, error)
	ListAll(ctx context.Context) ([]domain.InAppMessage, error)
	Insert(ctx context.Context, m domain.InAppMessage) error
	Update(ctx context.Context, m domain.InAppMessage) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}
