package orchestrators

import (
	"context"
	"testing"

	"swingadmin/internal/domain/record"
)

// mockProfileInserter collects inserted profile records.
type mockProfileInserter struct {
	inserted []*record.Record
}

func (m *mockProfileInserter) Insert(_ context.Context, rec *record.Record) error {
	m.inserted = append(m.inserted, rec)
	return nil
}

func TestExecuteSeedAdmin_CreatesAccountAndProfile(t *testing.T) {
	accounts := newMockAccountStore()
	profiles := &mockProfileInserter{}

	err := ExecuteSeedAdmin(context.Background(), SeedAdminDeps{
		AccountStore: accounts,
		ProfileStore: profiles,
	}, "admin@myswing.app", "strong-enough-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(profiles.inserted) != 1 {
		t.Fatalf("expected 1 profile inserted, got %d", len(profiles.inserted))
	}
	prof := profiles.inserted[0]
	if got, _ := prof.Get("email"); got != "admin@myswing.app" {
		t.Errorf("expected profile email admin@myswing.app, got %v", got)
	}

	acct, err := accounts.GetByEmail(context.Background(), "admin@myswing.app")
	if err != nil {
		t.Fatalf("expected seeded account: %v", err)
	}
	if acct.ProfileID != prof.ID() {
		t.Errorf("expected account linked to profile %s, got %s", prof.ID(), acct.ProfileID)
	}
	if err := acct.CheckPassword("strong-enough-password"); err != nil {
		t.Errorf("expected password to verify: %v", err)
	}
}

func TestExecuteSeedAdmin_Idempotent(t *testing.T) {
	accounts := newMockAccountStore()
	profiles := &mockProfileInserter{}
	seedAccount(t, accounts, "acct-1", "prof-1", "admin@myswing.app", "strong-enough-password")

	err := ExecuteSeedAdmin(context.Background(), SeedAdminDeps{
		AccountStore: accounts,
		ProfileStore: profiles,
	}, "admin@myswing.app", "strong-enough-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles.inserted) != 0 {
		t.Error("expected no profile insert when account already exists")
	}
	if len(accounts.accounts) != 1 {
		t.Errorf("expected 1 account, got %d", len(accounts.accounts))
	}
}
