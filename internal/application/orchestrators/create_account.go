package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fjorlistinn/internal/domain/account"
)

// AccountWriteStore defines the store interface for account creation.
type AccountWriteStore interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// CreateAccountInput carries input for account creation.
type CreateAccountInput struct {
	Username    string
	DisplayName string
	Password    string
	Role        string
	CenterID    string // required for staff and supervisor
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountWriteStore
	Now          func() time.Time
	GenerateID   func() string
}

var ErrUsernameTaken = errors.New("username is already taken")

// ExecuteCreateAccount creates a staff, supervisor, or admin account.
// PRE: Username unused; Password >= 8 characters; Role valid
// POST: Account stored with a bcrypt password hash
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (string, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	generateID := func() string { return uuid.New().String() }
	if deps.GenerateID != nil {
		generateID = deps.GenerateID
	}

	if _, err := deps.AccountStore.GetByUsername(ctx, input.Username); err == nil {
		return "", ErrUsernameTaken
	}

	acct := account.Account{
		ID:          generateID(),
		Username:    input.Username,
		DisplayName: input.DisplayName,
		Role:        input.Role,
		CenterID:    input.CenterID,
		CreatedAt:   now(),
	}
	if err := acct.Validate(); err != nil {
		return "", err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "account_created", "username", input.Username, "role", input.Role, "center_id", input.CenterID)
	return acct.ID, nil
}
