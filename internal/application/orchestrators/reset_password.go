package orchestrators

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"swingadmin/internal/adapters/email"
	"swingadmin/internal/domain/account"
)

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = time.Hour

// AccountStoreForReset defines the store interface needed by ResetPassword.
type AccountStoreForReset interface {
	GetByProfileID(ctx context.Context, profileID string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ResetPasswordInput carries input for the reset orchestrator.
type ResetPasswordInput struct {
	ProfileID string
	SiteURL   string // base URL for the reset link
	From      string
	ReplyTo   string
}

// ResetPasswordResult carries the outcome of a reset request.
type ResetPasswordResult struct {
	Email     string
	ExpiresAt time.Time
}

// ResetPasswordDeps holds dependencies for ResetPassword.
type ResetPasswordDeps struct {
	AccountStore AccountStoreForReset
	Sender       email.Sender
}

var ErrAccountNotFound = errors.New("no account exists for this user")

// ExecuteResetPassword issues a reset token for the account behind a profile
// and emails the reset link to the account holder.
// PRE: ProfileID is non-empty
// POST: Reset token persisted before the email is sent
func ExecuteResetPassword(ctx context.Context, input ResetPasswordInput, deps ResetPasswordDeps) (ResetPasswordResult, error) {
	acct, err := deps.AccountStore.GetByProfileID(ctx, input.ProfileID)
	if err != nil {
		return ResetPasswordResult{}, ErrAccountNotFound
	}
	if acct.Email == "" {
		return ResetPasswordResult{}, account.ErrNoEmail
	}

	token, err := generateResetToken()
	if err != nil {
		return ResetPasswordResult{}, err
	}
	expires := time.Now().Add(ResetTokenTTL)
	acct.BeginReset(token, expires)

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return ResetPasswordResult{}, err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", input.SiteURL, token)
	req := email.SendRequest{
		From:    input.From,
		To:      []string{acct.Email},
		ReplyTo: input.ReplyTo,
		Subject: "Reset your My Swing password",
		HTML: fmt.Sprintf(
			"<p>A password reset was requested for your account.</p>"+
				"<p><a href=%q>Reset your password</a></p>"+
				"<p>This link expires in one hour. If you did not request it, ignore this email.</p>",
			link),
	}
	if _, err := deps.Sender.Send(ctx, req); err != nil {
		slog.Error("reset_email_failed", "profile_id", input.ProfileID, "error", err.Error())
		return ResetPasswordResult{}, err
	}

	slog.Info("auth_event", "event", "reset_issued", "email", acct.Email)
	return ResetPasswordResult{Email: acct.Email, ExpiresAt: expires}, nil
}

// generateResetToken returns 32 bytes of entropy as hex.
func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
