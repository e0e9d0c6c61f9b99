package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"swingadmin/internal/domain/account"
	"swingadmin/internal/domain/record"
)

// AccountStoreForSeed defines the store interface needed by SeedAdmin.
type AccountStoreForSeed interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ProfileStoreForSeed defines the profile store interface needed by SeedAdmin.
type ProfileStoreForSeed interface {
	Insert(ctx context.Context, rec *record.Record) error
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AccountStore AccountStoreForSeed
	ProfileStore ProfileStoreForSeed
}

// ExecuteSeedAdmin creates the admin account and its profile row if the
// account does not exist yet. Safe to run on every startup.
// PRE: email is the configured admin address; password >= 12 chars
// POST: An account with a linked profile exists for email
func ExecuteSeedAdmin(ctx context.Context, deps SeedAdminDeps, adminEmail, password string) error {
	if _, err := deps.AccountStore.GetByEmail(ctx, adminEmail); err == nil {
		return nil // already seeded
	}

	now := time.Now()
	profileID := uuid.New().String()

	rec := record.New()
	rec.Set("id", profileID)
	rec.Set("email", adminEmail)
	rec.Set("full_name", "Administrator")
	rec.Set("created_at", now.UTC().Format(time.RFC3339))
	rec.Set("updated_at", now.UTC().Format(time.RFC3339))
	if err := deps.ProfileStore.Insert(ctx, rec); err != nil {
		return err
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		ProfileID: profileID,
		Email:     adminEmail,
		CreatedAt: now,
	}
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := acct.SetPassword(password); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", adminEmail)
	return nil
}
