package account

import (
	"context"
	"errors"

	domain "swingadmin/internal/domain/account"
)

// ErrNotFound is returned when no account row matches the lookup.
var ErrNotFound = errors.New("account not found")

// Store persists Account state for the auth service.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByProfileID(ctx context.Context, profileID string) (domain.Account, error)
	Save(ctx context.Context, a domain.Account) error
	Delete(ctx context.Context, id string) error
}
