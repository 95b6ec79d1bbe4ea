package account_test

import (
	"testing"
	"time"

	"fjorlistinn/internal/domain/account"
)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		acct    account.Account
		wantErr bool
	}{
		{
			name:    "valid staff account",
			acct:    account.Account{ID: "1", Username: "AKURFELO", DisplayName: "Fjör Akur", Role: account.RoleStaff, CenterID: "AKURFELO"},
			wantErr: false,
		},
		{
			name:    "valid supervisor",
			acct:    account.Account{ID: "2", Username: "gudrun", Role: account.RoleSupervisor, CenterID: "STAPAFELO"},
			wantErr: false,
		},
		{
			name:    "valid admin without center",
			acct:    account.Account{ID: "3", Username: "admin", Role: account.RoleAdmin},
			wantErr: false,
		},
		{
			name:    "empty username",
			acct:    account.Account{ID: "4", Role: account.RoleStaff, CenterID: "AKURFELO"},
			wantErr: true,
		},
		{
			name:    "invalid role",
			acct:    account.Account{ID: "5", Username: "x", Role: "owner"},
			wantErr: true,
		},
		{
			name:    "staff without center",
			acct:    account.Account{ID: "6", Username: "x", Role: account.RoleStaff},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.acct.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_PasswordRoundTrip tests hashing and verification.
func TestAccount_PasswordRoundTrip(t *testing.T) {
	var a account.Account
	if err := a.SetPassword("short"); err != account.ErrPasswordTooShort {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := a.SetPassword(""); err != account.ErrEmptyPassword {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
	if err := a.SetPassword("fjor-akur-2026"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if err := a.CheckPassword("fjor-akur-2026"); err != nil {
		t.Errorf("expected correct password to verify, got %v", err)
	}
	if err := a.CheckPassword("wrong"); err != account.ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

// TestAccount_Lockout tests the failed-login lockout policy.
func TestAccount_Lockout(t *testing.T) {
	var a account.Account
	for i := 0; i < account.MaxFailedLogins-1; i++ {
		a.RecordFailedLogin()
	}
	if a.IsLocked() {
		t.Error("account locked before reaching the limit")
	}
	a.RecordFailedLogin()
	if !a.IsLocked() {
		t.Error("account not locked after reaching the limit")
	}
	a.ResetFailedLogins()
	if a.IsLocked() || a.FailedLogins != 0 {
		t.Error("reset did not clear the lock")
	}

	// An expired lock no longer blocks
	a.FailedLogins = account.MaxFailedLogins
	a.LockedUntil = time.Now().Add(-time.Minute)
	if a.IsLocked() {
		t.Error("expired lock should not block")
	}
}

// TestAccount_HasRole tests the capability check.
func TestAccount_HasRole(t *testing.T) {
	admin := account.Account{Role: account.RoleAdmin}
	supervisor := account.Account{Role: account.RoleSupervisor, CenterID: "AKURFELO"}
	staff := account.Account{Role: account.RoleStaff, CenterID: "AKURFELO"}

	tests := []struct {
		name     string
		acct     account.Account
		role     string
		centerID string
		want     bool
	}{
		{"admin matches any center", admin, account.RoleStaff, "STAPAFELO", true},
		{"supervisor covers staff at own center", supervisor, account.RoleStaff, "AKURFELO", true},
		{"supervisor blocked at other center", supervisor, account.RoleStaff, "STAPAFELO", false},
		{"staff matches own center", staff, account.RoleStaff, "AKURFELO", true},
		{"staff is not supervisor", staff, account.RoleSupervisor, "AKURFELO", false},
		{"staff blocked at other center", staff, account.RoleStaff, "STAPAFELO", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.acct.HasRole(tt.role, tt.centerID); got != tt.want {
				t.Errorf("HasRole(%s, %s) = %v, want %v", tt.role, tt.centerID, got, tt.want)
			}
		})
	}
}
