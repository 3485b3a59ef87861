// Package auth handles authentication and admin authorization against the
// external auth provider.
//
// The service is framework-agnostic: HTTP handlers and the edge gate call
// it, and all provider specifics live behind the Provider interface.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"
)

// Admin roles recognized by the authorization gate.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

var (
	// ErrInvalidCredentials is returned for any failed login. The same
	// error covers unknown accounts and wrong passwords so responses
	// cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidSession marks a missing, expired, or tampered session
	// token.
	ErrInvalidSession = errors.New("invalid session")

	// ErrInsufficientRole marks an authenticated user without an admin
	// role.
	ErrInsufficientRole = errors.New("insufficient role")

	// ErrProfileNotFound is returned by ProfileStore implementations when
	// a user has no admin profile row.
	ErrProfileNotFound = errors.New("admin profile not found")
)

// Session is an authenticated, role-checked admin session.
type Session struct {
	UserID      string
	Email       string
	Role        string
	AccessToken string
}

// ProviderUser is the provider's view of an account.
type ProviderUser struct {
	ID    string
	Email string
}

// ProviderSession is the result of a successful password grant.
type ProviderSession struct {
	AccessToken string
	User        ProviderUser
}

// Provider defines the operations needed from the external auth service.
// Implementations must return ErrInvalidCredentials when the provider
// rejects a password grant, so the service can keep login errors uniform.
type Provider interface {
	// SignInWithPassword performs the password grant.
	SignInWithPassword(ctx context.Context, email, password string) (*ProviderSession, error)

	// GetUser resolves an access token to its account.
	GetUser(ctx context.Context, accessToken string) (*ProviderUser, error)

	// SignOut revokes the session behind the access token.
	SignOut(ctx context.Context, accessToken string) error
}

// ProfileStore looks up admin roles. Backed by the admin_profiles table.
type ProfileStore interface {
	// RoleByUserID returns the admin role for a user, or
	// ErrProfileNotFound.
	RoleByUserID(ctx context.Context, userID string) (string, error)
}

// Service implements login, session verification, and the admin role check.
type Service struct {
	provider  Provider
	profiles  ProfileStore
	jwtSecret []byte
	logger    *slog.Logger
}

// NewService creates an auth service. jwtSecret is the provider's token
// signing secret, used to verify session tokens locally without a provider
// round trip.
func NewService(provider Provider, profiles ProfileStore, jwtSecret []byte, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider:  provider,
		profiles:  profiles,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Login authenticates credentials and enforces the admin role.
//
// A rejected grant yields ErrInvalidCredentials. An authenticated user
// without an admin profile gets their fresh session terminated and
// ErrInsufficientRole back; a valid password alone must not leave a usable
// session behind.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	ps, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth provider sign-in: %w", err)
	}

	role, err := s.adminRole(ctx, ps.User.ID)
	if err != nil {
		if signOutErr := s.provider.SignOut(ctx, ps.AccessToken); signOutErr != nil {
			s.logger.Warn("failed to terminate non-admin session",
				slog.Any("error", signOutErr))
		}
		return nil, err
	}

	return &Session{
		UserID:      ps.User.ID,
		Email:       ps.User.Email,
		Role:        role,
		AccessToken: ps.AccessToken,
	}, nil
}

// Authorize verifies a session token locally and looks up the admin role.
//
// Token verification never touches the provider; the JWT signature and
// expiry are checked against the shared secret. Only the role lookup hits
// the profile store.
func (s *Service) Authorize(ctx context.Context, token string) (*Session, error) {
	claims, err := s.verifyToken(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	role, err := s.adminRole(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	return &Session{
		UserID:      claims.Subject,
		Email:       claims.Email,
		Role:        role,
		AccessToken: token,
	}, nil
}

// SignOut revokes the provider session behind the token.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if err := s.provider.SignOut(ctx, token); err != nil {
		return fmt.Errorf("auth provider sign-out: %w", err)
	}
	return nil
}

// adminRole returns the user's role when it is privileged. A missing
// profile or non-admin role maps to ErrInsufficientRole; store failures
// pass through wrapped so callers can distinguish outage from denial.
func (s *Service) adminRole(ctx context.Context, userID string) (string, error) {
	role, err := s.profiles.RoleByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return "", ErrInsufficientRole
		}
		return "", fmt.Errorf("admin role lookup: %w", err)
	}
	if role != RoleAdmin && role != RoleSuperAdmin {
		return "", ErrInsufficientRole
	}
	return role, nil
}

// sessionClaims are the JWT claims carried by provider-issued access
// tokens.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Service) verifyToken(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

type contextKey string

const sessionContextKey contextKey = "admin_session"

// WithSession stores an authorized session in the context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionFromContext retrieves the authorized session, or nil.
func SessionFromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionContextKey).(*Session); ok {
		return s
	}
	return nil
}
