package profile

import (
	"context"
	"errors"

	"swingadmin/internal/domain/record"
)

// ErrNotFound is returned when no profile row exists for an id.
var ErrNotFound = errors.New("profile not found")

// Store persists profile rows. Profiles are schema-less from the
// editor's point of view: rows are read and written as dynamic records
// rather than a compile-time struct.
type Store interface {
	GetByID(ctx context.Context, id string) (*record.Record, error)
	List(ctx context.Context, search string, limit int) ([]*record.Record, error)
	UpdatePartial(ctx context.Context, id string, updates map[string]any) (*record.Record, error)
	Insert(ctx context.Context, rec *record.Record) error
	Delete(ctx context.Context, id string) error
}
