package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainAccount "fjorlistinn/internal/domain/account"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const identityContextKey contextKey = "identity"

// TokenTTL is how long issued tokens stay valid.
const TokenTTL = 24 * time.Hour

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	AccountID   string
	Username    string
	DisplayName string
	Role        string
	CenterID    string // empty for admin
}

// CanActFor reports whether the identity may act for a center. Admins may
// act anywhere; staff and supervisors only at their own center.
// INVARIANT: Identity fields are not mutated
func (id Identity) CanActFor(centerID string) bool {
	if id.Role == domainAccount.RoleAdmin {
		return true
	}
	return centerID != "" && id.CenterID == centerID
}

// tokenClaims is the JWT claim set carried by issued tokens.
type tokenClaims struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role"`
	CenterID    string `json:"center_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies bearer tokens with an HS256 key.
type TokenIssuer struct {
	key []byte
	now func() time.Time
}

// NewTokenIssuer creates a TokenIssuer with the given signing key.
// PRE: key is a secret of at least 32 bytes
// POST: Returns a ready-to-use issuer
func NewTokenIssuer(key []byte) *TokenIssuer {
	return &TokenIssuer{key: key, now: time.Now}
}

// Issue signs a token for the identity, valid for TokenTTL.
// PRE: id has a non-empty AccountID and Role
// POST: Returns a compact signed JWT
func (ti *TokenIssuer) Issue(id Identity) (string, error) {
	now := ti.now()
	claims := tokenClaims{
		Username:    id.Username,
		DisplayName: id.DisplayName,
		Role:        id.Role,
		CenterID:    id.CenterID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.key)
}

var ErrInvalidToken = errors.New("invalid or expired token")

// Verify parses a compact token and returns the identity it carries.
// PRE: token is a compact JWT string
// POST: Returns the identity, or ErrInvalidToken for bad signatures,
// wrong algorithms, or expired tokens
func (ti *TokenIssuer) Verify(token string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return ti.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(ti.now))
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		AccountID:   claims.Subject,
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
		Role:        claims.Role,
		CenterID:    claims.CenterID,
	}, nil
}

// Auth returns middleware that extracts the bearer token and sets the
// identity in context. It does NOT block unauthenticated requests — use
// RequireAuth or RequireRole for that.
func Auth(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
				if id, err := issuer.Verify(token); err == nil {
					ctx := context.WithValue(r.Context(), identityContextKey, id)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that blocks unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentityFromContext(r.Context()); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that blocks callers without one of the
// specified roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := GetIdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !roleSet[id.Role] {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetIdentityFromContext extracts the identity from the request context.
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}

// IsRole checks if the current identity has one of the given roles.
func IsRole(ctx context.Context, roles ...string) bool {
	id, ok := GetIdentityFromContext(ctx)
	if !ok {
		return false
	}
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin checks if the current identity is an admin.
func IsAdmin(ctx context.Context) bool {
	return IsRole(ctx, domainAccount.RoleAdmin)
}

// IsStaffOrAdmin checks if the current identity is staff, supervisor, or admin.
func IsStaffOrAdmin(ctx context.Context) bool {
	return IsRole(ctx, domainAccount.RoleAdmin, domainAccount.RoleSupervisor, domainAccount.RoleStaff)
}

// ContextWithIdentity returns a context with the given identity set.
// Intended for use in tests.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}
