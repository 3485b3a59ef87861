package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-signing-secret")

// fakeProvider scripts provider responses and records sign-outs.
type fakeProvider struct {
	session    *ProviderSession
	signInErr  error
	getUser    *ProviderUser
	getUserErr error
	signOutErr error

	signedOut []string
}

func (f *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (*ProviderSession, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session, nil
}

func (f *fakeProvider) GetUser(ctx context.Context, accessToken string) (*ProviderUser, error) {
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	return f.getUser, nil
}

func (f *fakeProvider) SignOut(ctx context.Context, accessToken string) error {
	f.signedOut = append(f.signedOut, accessToken)
	return f.signOutErr
}

// fakeProfiles maps user IDs to roles.
type fakeProfiles struct {
	roles map[string]string
	err   error
}

func (f *fakeProfiles) RoleByUserID(ctx context.Context, userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[userID]
	if !ok {
		return "", ErrProfileNotFound
	}
	return role, nil
}

func signToken(t *testing.T, subject, email string, expiresIn time.Duration) string {
	t.Helper()
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestService_Login_Success(t *testing.T) {
	provider := &fakeProvider{
		session: &ProviderSession{
			AccessToken: "tok-1",
			User:        ProviderUser{ID: "u-1", Email: "dean@example.edu"},
		},
	}
	profiles := &fakeProfiles{roles: map[string]string{"u-1": RoleAdmin}}
	svc := NewService(provider, profiles, testSecret, nil)

	session, err := svc.Login(context.Background(), "dean@example.edu", "correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.UserID != "u-1" || session.Role != RoleAdmin || session.AccessToken != "tok-1" {
		t.Errorf("session = %+v", session)
	}
	if len(provider.signedOut) != 0 {
		t.Error("successful login must not terminate the session")
	}
}

func TestService_Login_BadCredentials(t *testing.T) {
	provider := &fakeProvider{signInErr: ErrInvalidCredentials}
	svc := NewService(provider, &fakeProfiles{}, testSecret, nil)

	_, err := svc.Login(context.Background(), "nobody@example.edu", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestService_Login_NonAdminSessionTerminated(t *testing.T) {
	provider := &fakeProvider{
		session: &ProviderSession{
			AccessToken: "tok-2",
			User:        ProviderUser{ID: "u-2", Email: "student@example.edu"},
		},
	}
	// Authenticated account with no admin profile.
	profiles := &fakeProfiles{roles: map[string]string{}}
	svc := NewService(provider, profiles, testSecret, nil)

	_, err := svc.Login(context.Background(), "student@example.edu", "correct")
	if !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("error = %v, want ErrInsufficientRole", err)
	}
	if len(provider.signedOut) != 1 || provider.signedOut[0] != "tok-2" {
		t.Errorf("signedOut = %v, want the fresh session terminated", provider.signedOut)
	}
}

func TestService_Login_NonPrivilegedRole(t *testing.T) {
	provider := &fakeProvider{
		session: &ProviderSession{AccessToken: "tok-3", User: ProviderUser{ID: "u-3"}},
	}
	profiles := &fakeProfiles{roles: map[string]string{"u-3": "viewer"}}
	svc := NewService(provider, profiles, testSecret, nil)

	_, err := svc.Login(context.Background(), "viewer@example.edu", "correct")
	if !errors.Is(err, ErrInsufficientRole) {
		t.Errorf("error = %v, want ErrInsufficientRole", err)
	}
	if len(provider.signedOut) != 1 {
		t.Error("non-privileged session should be terminated")
	}
}

func TestService_Login_ProviderOutage(t *testing.T) {
	provider := &fakeProvider{signInErr: errors.New("connection refused")}
	svc := NewService(provider, &fakeProfiles{}, testSecret, nil)

	_, err := svc.Login(context.Background(), "dean@example.edu", "correct")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want a wrapped provider error", err)
	}
}

func TestService_Authorize(t *testing.T) {
	profiles := &fakeProfiles{roles: map[string]string{
		"u-admin": RoleAdmin,
		"u-super": RoleSuperAdmin,
		"u-plain": "viewer",
	}}
	svc := NewService(&fakeProvider{}, profiles, testSecret, nil)
	ctx := context.Background()

	t.Run("valid admin token", func(t *testing.T) {
		token := signToken(t, "u-admin", "dean@example.edu", time.Hour)
		session, err := svc.Authorize(ctx, token)
		if err != nil {
			t.Fatalf("Authorize() error = %v", err)
		}
		if session.UserID != "u-admin" || session.Role != RoleAdmin || session.Email != "dean@example.edu" {
			t.Errorf("session = %+v", session)
		}
	})

	t.Run("super admin passes", func(t *testing.T) {
		token := signToken(t, "u-super", "", time.Hour)
		session, err := svc.Authorize(ctx, token)
		if err != nil {
			t.Fatalf("Authorize() error = %v", err)
		}
		if session.Role != RoleSuperAdmin {
			t.Errorf("role = %q", session.Role)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, "u-admin", "", -time.Minute)
		if _, err := svc.Authorize(ctx, token); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("error = %v, want ErrInvalidSession", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := svc.Authorize(ctx, "not-a-jwt"); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("error = %v, want ErrInvalidSession", err)
		}
	})

	t.Run("wrong signing key", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "u-admin", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Authorize(ctx, token); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("error = %v, want ErrInvalidSession", err)
		}
	})

	t.Run("valid token but non-admin", func(t *testing.T) {
		token := signToken(t, "u-plain", "", time.Hour)
		if _, err := svc.Authorize(ctx, token); !errors.Is(err, ErrInsufficientRole) {
			t.Errorf("error = %v, want ErrInsufficientRole", err)
		}
	})

	t.Run("profile store outage passes through", func(t *testing.T) {
		broken := NewService(&fakeProvider{}, &fakeProfiles{err: errors.New("db down")}, testSecret, nil)
		token := signToken(t, "u-admin", "", time.Hour)
		_, err := broken.Authorize(ctx, token)
		if err == nil || errors.Is(err, ErrInvalidSession) || errors.Is(err, ErrInsufficientRole) {
			t.Errorf("error = %v, want wrapped store error", err)
		}
	})
}

func TestService_SignOut(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, &fakeProfiles{}, testSecret, nil)

	if err := svc.SignOut(context.Background(), "tok-9"); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if len(provider.signedOut) != 1 || provider.signedOut[0] != "tok-9" {
		t.Errorf("signedOut = %v", provider.signedOut)
	}
}

func TestSessionContext(t *testing.T) {
	s := &Session{UserID: "u-1", Role: RoleAdmin}
	ctx := WithSession(context.Background(), s)
	if got := SessionFromContext(ctx); got != s {
		t.Error("SessionFromContext() did not return the stored session")
	}
	if got := SessionFromContext(context.Background()); got != nil {
		t.Errorf("SessionFromContext() empty = %v, want nil", got)
	}
}
