package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"deptsite/internal/handler/http/middleware"
	"deptsite/internal/service/auth"
)

type fakeProvider struct {
	session    *auth.ProviderSession
	signInErr  error
	signedOut  []string
	signOutErr error
}

func (p *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (*auth.ProviderSession, error) {
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	return p.session, nil
}

func (p *fakeProvider) GetUser(ctx context.Context, accessToken string) (*auth.ProviderUser, error) {
	return nil, errors.New("not used")
}

func (p *fakeProvider) SignOut(ctx context.Context, accessToken string) error {
	p.signedOut = append(p.signedOut, accessToken)
	return p.signOutErr
}

type fakeProfiles struct {
	role string
	err  error
}

func (p *fakeProfiles) RoleByUserID(ctx context.Context, userID string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.role, nil
}

func adminService(provider auth.Provider, profiles auth.ProfileStore) *auth.Service {
	return auth.NewService(provider, profiles, []byte("test-secret"), nil)
}

func postLogin(t *testing.T, h LoginHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLogin_Success(t *testing.T) {
	provider := &fakeProvider{session: &auth.ProviderSession{
		AccessToken: "tok-123",
		User:        auth.ProviderUser{ID: "u-1", Email: "admin@dept.edu"},
	}}
	h := LoginHandler{Svc: adminService(provider, &fakeProfiles{role: auth.RoleAdmin})}

	rec := postLogin(t, h, `{"email":"admin@dept.edu","password":"hunter2"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success bool `json:"success"`
		User    struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success || body.User.ID != "u-1" || body.User.Role != auth.RoleAdmin {
		t.Errorf("body = %+v", body)
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie not set")
	}
	if sessionCookie.Value != "tok-123" {
		t.Errorf("cookie value = %q", sessionCookie.Value)
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie is not httpOnly")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	provider := &fakeProvider{signInErr: auth.ErrInvalidCredentials}
	h := LoginHandler{Svc: adminService(provider, &fakeProfiles{role: auth.RoleAdmin})}

	rec := postLogin(t, h, `{"email":"admin@dept.edu","password":"wrong"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Invalid email or password" {
		t.Errorf("error = %q", body["error"])
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("cookie set on failed login")
	}
}

func TestLogin_NonAdminTerminatesSession(t *testing.T) {
	provider := &fakeProvider{session: &auth.ProviderSession{
		AccessToken: "tok-student",
		User:        auth.ProviderUser{ID: "u-2", Email: "student@dept.edu"},
	}}
	h := LoginHandler{Svc: adminService(provider, &fakeProfiles{err: auth.ErrProfileNotFound})}

	rec := postLogin(t, h, `{"email":"student@dept.edu","password":"hunter2"}`)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if len(provider.signedOut) != 1 || provider.signedOut[0] != "tok-student" {
		t.Errorf("signedOut = %v, want the fresh session terminated", provider.signedOut)
	}
}

func TestLogin_BadRequests(t *testing.T) {
	h := LoginHandler{Svc: adminService(&fakeProvider{}, &fakeProfiles{})}

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"email":`},
		{"missing password", `{"email":"admin@dept.edu"}`},
		{"missing email", `{"password":"hunter2"}`},
		{"blank email", `{"email":"   ","password":"hunter2"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postLogin(t, h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestLogin_ProviderOutage(t *testing.T) {
	provider := &fakeProvider{signInErr: errors.New("connection refused")}
	h := LoginHandler{Svc: adminService(provider, &fakeProfiles{role: auth.RoleAdmin})}

	rec := postLogin(t, h, `{"email":"admin@dept.edu","password":"hunter2"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Error("provider error leaked to response")
	}
}

func TestLogout(t *testing.T) {
	provider := &fakeProvider{}
	h := LogoutHandler{Svc: adminService(provider, &fakeProfiles{role: auth.RoleAdmin})}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok-123"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if len(provider.signedOut) != 1 || provider.signedOut[0] != "tok-123" {
		t.Errorf("signedOut = %v", provider.signedOut)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.SessionCookieName {
		t.Fatalf("cookies = %v", cookies)
	}
	if cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Errorf("session cookie not cleared: %+v", cookies[0])
	}
}

func TestLogout_ProviderFailureStillSucceeds(t *testing.T) {
	provider := &fakeProvider{signOutErr: errors.New("provider down")}
	h := LogoutHandler{Svc: adminService(provider, &fakeProfiles{role: auth.RoleAdmin})}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok-123"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 even when the provider is down", rec.Code)
	}
}

func TestLogout_NoCookie(t *testing.T) {
	provider := &fakeProvider{}
	h := LogoutHandler{Svc: adminService(provider, &fakeProfiles{})}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if len(provider.signedOut) != 0 {
		t.Error("sign-out called without a session")
	}
}
