package orchestrators

import (
	"context"
	"errors"
	"testing"

	"fjorlistinn/internal/domain/account"
)

// mockAccountStore implements AccountStoreForLogin and AccountWriteStore.
type mockAccountStore struct {
	accounts map[string]account.Account // keyed by username
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (account.Account, error) {
	a, ok := m.accounts[username]
	if !ok {
		return account.Account{}, errors.New("not found")
	}
	return a, nil
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.Username] = a
	return nil
}

func seedAccount(t *testing.T, store *mockAccountStore, username, password, role, centerID string) {
	t.Helper()
	a := account.Account{
		ID:       "acct-" + username,
		Username: username,
		Role:     role,
		CenterID: centerID,
	}
	if err := a.SetPassword(password); err != nil {
		t.Fatalf("failed to set password: %v", err)
	}
	store.accounts[username] = a
}

// TestExecuteLogin_Success tests valid credentials.
func TestExecuteLogin_Success(t *testing.T) {
	store := newMockAccountStore()
	seedAccount(t, store, "hafno", "leyniord123", account.RoleStaff, "HAFNOFELO")

	result, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "hafno", Password: "leyniord123",
	}, LoginDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Role != account.RoleStaff {
		t.Errorf("expected staff role, got %s", result.Role)
	}
	if result.CenterID != "HAFNOFELO" {
		t.Errorf("expected center HAFNOFELO, got %s", result.CenterID)
	}
}

// TestExecuteLogin_WrongPassword tests that bad credentials are rejected
// and counted.
func TestExecuteLogin_WrongPassword(t *testing.T) {
	store := newMockAccountStore()
	seedAccount(t, store, "hafno", "leyniord123", account.RoleStaff, "HAFNOFELO")

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "hafno", Password: "wrong",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if store.accounts["hafno"].FailedLogins != 1 {
		t.Errorf("expected failed login recorded, got %d", store.accounts["hafno"].FailedLogins)
	}
}

// TestExecuteLogin_UnknownUser tests the same error for unknown users so
// usernames cannot be probed.
func TestExecuteLogin_UnknownUser(t *testing.T) {
	store := newMockAccountStore()

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "ghost", Password: "whatever",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// TestExecuteLogin_LockoutAfterMaxFailures tests the lockout threshold.
func TestExecuteLogin_LockoutAfterMaxFailures(t *testing.T) {
	store := newMockAccountStore()
	seedAccount(t, store, "hafno", "leyniord123", account.RoleStaff, "HAFNOFELO")
	deps := LoginDeps{AccountStore: store}

	for i := 0; i < account.MaxFailedLogins; i++ {
		_, err := ExecuteLogin(context.Background(), LoginInput{Username: "hafno", Password: "wrong"}, deps)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// Even the right password is refused while locked
	_, err := ExecuteLogin(context.Background(), LoginInput{Username: "hafno", Password: "leyniord123"}, deps)
	if !errors.Is(err, ErrAccountLocked) {
		t.Errorf("expected ErrAccountLocked, got %v", err)
	}
}

// TestExecuteLogin_SuccessResetsFailures tests counter reset on success.
func TestExecuteLogin_SuccessResetsFailures(t *testing.T) {
	store := newMockAccountStore()
	seedAccount(t, store, "hafno", "leyniord123", account.RoleStaff, "HAFNOFELO")
	deps := LoginDeps{AccountStore: store}

	_, _ = ExecuteLogin(context.Background(), LoginInput{Username: "hafno", Password: "wrong"}, deps)
	if _, err := ExecuteLogin(context.Background(), LoginInput{Username: "hafno", Password: "leyniord123"}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.accounts["hafno"].FailedLogins != 0 {
		t.Errorf("expected failed logins reset, got %d", store.accounts["hafno"].FailedLogins)
	}
}

// TestExecuteAdminLogin tests the reserved admin account path.
func TestExecuteAdminLogin(t *testing.T) {
	store := newMockAccountStore()
	seedAccount(t, store, "admin", "stjornandi1", account.RoleAdmin, "")

	result, err := ExecuteAdminLogin(context.Background(), "stjornandi1", LoginDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Role != account.RoleAdmin {
		t.Errorf("expected admin role, got %s", result.Role)
	}

	if _, err := ExecuteAdminLogin(context.Background(), "wrong", LoginDeps{AccountStore: store}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// TestExecuteCreateAccount tests account creation and duplicate usernames.
func TestExecuteCreateAccount(t *testing.T) {
	store := newMockAccountStore()
	deps := CreateAccountDeps{AccountStore: store, Now: fixedNow, GenerateID: fixedID}

	id, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Username: "stapa", DisplayName: "Fjör Stapa", Password: "leyniord123",
		Role: account.RoleStaff, CenterID: "STAPAFELO",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "test-id-001" {
		t.Errorf("expected generated ID, got %s", id)
	}
	if store.accounts["stapa"].PasswordHash == "" {
		t.Error("expected password hash stored")
	}

	_, err = ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Username: "stapa", Password: "leyniord123", Role: account.RoleStaff, CenterID: "STAPAFELO",
	}, deps)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	_, err = ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Username: "short", Password: "abc", Role: account.RoleStaff, CenterID: "STAPAFELO",
	}, deps)
	if !errors.Is(err, account.ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

// TestExecuteCreateAccount_StaffNeedsCenter tests the center requirement.
func TestExecuteCreateAccount_StaffNeedsCenter(t *testing.T) {
	store := newMockAccountStore()
	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Username: "nobody", Password: "leyniord123", Role: account.RoleStaff,
	}, CreateAccountDeps{AccountStore: store, Now: fixedNow, GenerateID: fixedID})
	if !errors.Is(err, account.ErrMissingCenter) {
		t.Errorf("expected ErrMissingCenter, got %v", err)
	}
}
