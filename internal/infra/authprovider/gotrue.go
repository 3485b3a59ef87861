// Package authprovider implements the auth.Provider interface against a
// GoTrue-style managed authentication API.
//
// All provider traffic runs through a circuit breaker. When the provider is
// down the breaker trips after repeated failures and callers get an error
// immediately instead of waiting on timeouts; the edge gate treats that as
// an outage and fails open to page-level checks.
package authprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"deptsite/internal/resilience/circuitbreaker"
	"deptsite/internal/service/auth"
)

// Config contains the connection settings for the auth provider.
type Config struct {
	// BaseURL is the provider's API root, without a trailing slash.
	BaseURL string

	// APIKey authenticates this backend to the provider.
	APIKey string

	// Timeout bounds each provider HTTP call.
	Timeout time.Duration
}

// DefaultTimeout is applied when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Client talks to the auth provider over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates an auth provider client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    circuitbreaker.New(circuitbreaker.AuthProviderConfig()),
		logger:     logger,
	}
}

// tokenResponse is the provider's password grant response.
type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

// userResponse is the provider's account representation.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SignInWithPassword performs the password grant. A rejected grant maps to
// auth.ErrInvalidCredentials regardless of whether the account exists.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*auth.ProviderSession, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal sign-in request: %w", err)
	}

	result, err := c.execute(func() (interface{}, error) {
		resp, err := c.do(ctx, http.MethodPost, "/token?grant_type=password", bytes.NewReader(body), "")
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusOK:
			var tr tokenResponse
			if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
				return nil, fmt.Errorf("decode token response: %w", err)
			}
			if tr.AccessToken == "" {
				return nil, errors.New("token response missing access_token")
			}
			return &tr, nil
		case resp.StatusCode == http.StatusBadRequest,
			resp.StatusCode == http.StatusUnauthorized,
			resp.StatusCode == http.StatusUnprocessableEntity:
			// Rejected credentials are a normal outcome, not a provider
			// failure, so they must not count toward tripping the breaker.
			return nil, errRejectedGrant
		default:
			return nil, c.statusError(resp)
		}
	})
	if err != nil {
		if errors.Is(err, errRejectedGrant) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}

	tr := result.(*tokenResponse)
	return &auth.ProviderSession{
		AccessToken: tr.AccessToken,
		User: auth.ProviderUser{
			ID:    tr.User.ID,
			Email: tr.User.Email,
		},
	}, nil
}

// GetUser resolves an access token to its account.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*auth.ProviderUser, error) {
	result, err := c.execute(func() (interface{}, error) {
		resp, err := c.do(ctx, http.MethodGet, "/user", nil, accessToken)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusOK:
			var ur userResponse
			if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
				return nil, fmt.Errorf("decode user response: %w", err)
			}
			return &ur, nil
		case resp.StatusCode == http.StatusUnauthorized,
			resp.StatusCode == http.StatusForbidden:
			return nil, errRejectedToken
		default:
			return nil, c.statusError(resp)
		}
	})
	if err != nil {
		if errors.Is(err, errRejectedToken) {
			return nil, auth.ErrInvalidSession
		}
		return nil, err
	}

	ur := result.(*userResponse)
	return &auth.ProviderUser{ID: ur.ID, Email: ur.Email}, nil
}

// SignOut revokes the session behind the access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.execute(func() (interface{}, error) {
		resp, err := c.do(ctx, http.MethodPost, "/logout", nil, accessToken)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		// GoTrue answers 204; a 401 means the token was already dead,
		// which is the state sign-out wants anyway.
		if resp.StatusCode == http.StatusNoContent ||
			resp.StatusCode == http.StatusOK ||
			resp.StatusCode == http.StatusUnauthorized {
			return nil, nil
		}
		return nil, c.statusError(resp)
	})
	return err
}

var (
	errRejectedGrant = errors.New("provider rejected credentials")
	errRejectedToken = errors.New("provider rejected token")
)

// execute runs fn through the circuit breaker. Expected rejections
// (bad credentials, dead tokens) pass through without counting as
// failures; everything else feeds the breaker's failure ratio.
func (c *Client) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		res, err := fn()
		if errors.Is(err, errRejectedGrant) || errors.Is(err, errRejectedToken) {
			return rejection{err}, nil
		}
		return res, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			c.logger.Warn("auth provider circuit breaker open, request rejected",
				slog.String("circuit", c.breaker.Name()))
			return nil, fmt.Errorf("auth provider unavailable: %w", err)
		}
		return nil, err
	}
	if rej, ok := result.(rejection); ok {
		return nil, rej.err
	}
	return result, nil
}

// rejection smuggles an expected denial through the breaker as a success.
type rejection struct{ err error }

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, accessToken string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create provider request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth provider request: %w", err)
	}
	return resp, nil
}

// statusError reads a bounded amount of the body for the error message.
func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("auth provider returned status %d: %s", resp.StatusCode, string(body))
}
