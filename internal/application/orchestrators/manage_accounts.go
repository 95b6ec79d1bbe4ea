package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"fjorlistinn/internal/domain/account"
)

// AccountAdminStore defines the store interface for account administration.
type AccountAdminStore interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Delete(ctx context.Context, username string) error
	List(ctx context.Context) ([]account.Account, error)
}

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrReservedAccount = errors.New("the admin account cannot be deleted")
)

// ExecuteDeleteAccount removes a staff or supervisor account. The reserved
// admin account is protected: without it nobody could administer the system.
// PRE: username is non-empty
// POST: The account is gone and its tokens stop mattering once they expire
func ExecuteDeleteAccount(ctx context.Context, username string, deps AccountAdminStore) error {
	if username == "admin" {
		return ErrReservedAccount
	}
	if _, err := deps.GetByUsername(ctx, username); err != nil {
		return ErrAccountNotFound
	}
	if err := deps.Delete(ctx, username); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "account_deleted", "username", username)
	return nil
}

// ExecuteResetPassword sets a new password for an account and clears any
// lockout, so a locked-out staff member can be let back in.
// PRE: username names an existing account; password >= 8 characters
// POST: New bcrypt hash stored, failed-login counter reset
func ExecuteResetPassword(ctx context.Context, username, password string, deps AccountAdminStore) error {
	acct, err := deps.GetByUsername(ctx, username)
	if err != nil {
		return ErrAccountNotFound
	}
	if err := acct.SetPassword(password); err != nil {
		return err
	}
	acct.ResetFailedLogins()
	if err := deps.Save(ctx, acct); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "password_reset", "username", username)
	return nil
}

// AccountSummary is one row of the admin user list. Password hashes and
// lockout state never leave the application layer.
type AccountSummary struct {
	Username    string
	DisplayName string
	Role        string
	CenterID    string
}

// QueryAccounts lists all accounts for the admin user-management view.
func QueryAccounts(ctx context.Context, deps AccountAdminStore) ([]AccountSummary, error) {
	accounts, err := deps.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, AccountSummary{
			Username:    a.Username,
			DisplayName: a.DisplayName,
			Role:        a.Role,
			CenterID:    a.CenterID,
		})
	}
	return summaries, nil
}
