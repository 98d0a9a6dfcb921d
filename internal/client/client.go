// internal/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"

	"adminboard-service/internal/domain/user"

	"golang.org/x/sync/singleflight"
)

// APIError is a non-success response envelope surfaced to the caller.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the adminboard API. The cookie jar carries the refresh
// token automatically; the access token rides the Authorization header.
// On a 401 the client refreshes once (coalescing concurrent refreshes
// into a single request) and retries the original call once; a second
// 401 propagates.
type Client struct {
	baseURL string
	httpc   *http.Client
	session *SessionStore
	refresh singleflight.Group
}

func New(baseURL string, session *SessionStore) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Jar: jar},
		session: session,
	}, nil
}

// Session exposes the client's session store.
func (c *Client) Session() *SessionStore { return c.session }

// Register creates an account and establishes a session.
func (c *Client) Register(ctx context.Context, req user.RegisterRequest) (*user.User, error) {
	return c.authCall(ctx, "/api/auth/register", req)
}

// Login authenticates and establishes a session.
func (c *Client) Login(ctx context.Context, email, password string) (*user.User, error) {
	return c.authCall(ctx, "/api/auth/login", user.LoginRequest{Email: email, Password: password})
}

// Me fetches the caller's own record.
func (c *Client) Me(ctx context.Context) (*user.User, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/users/me", nil, false)
	if err != nil {
		return nil, err
	}
	var u user.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &u, nil
}

// Logout drops the server cookie and wipes the local session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, false)
	if clearErr := c.session.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (c *Client) authCall(ctx context.Context, path string, payload any) (*user.User, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	data, err := c.do(ctx, http.MethodPost, path, body, false)
	if err != nil {
		return nil, err
	}
	return c.storeAuthResponse(data)
}

func (c *Client) storeAuthResponse(data json.RawMessage) (*user.User, error) {
	var resp user.AuthResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if err := c.session.SetUser(resp.User); err != nil {
		return nil, err
	}
	c.session.SetAccessToken(resp.AccessToken)
	return resp.User, nil
}

// do performs one API call. body must be replayable (a byte slice), so
// the single retry after a refresh can resend it.
func (c *Client) do(ctx context.Context, method, path string, body []byte, retried bool) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.session.AccessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < http.StatusBadRequest {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		// Non-envelope error body (proxy page, router 404): keep the
		// status and fall through to the shared error path.
		env = envelope{}
	}

	if env.Success {
		return env.Data, nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	if env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	// One silent refresh-and-retry per request, never more.
	if resp.StatusCode == http.StatusUnauthorized && !retried {
		if refreshErr := c.refreshSession(ctx); refreshErr != nil {
			// Refresh failed: the session is gone, the caller gets the
			// original error and should route back to login.
			_ = c.session.Clear()
			return nil, apiErr
		}
		return c.do(ctx, method, path, body, true)
	}

	return nil, apiErr
}

// refreshSession exchanges the refresh cookie for a new access token.
// Concurrent callers share one in-flight refresh.
func (c *Client) refreshSession(ctx context.Context) error {
	_, err, _ := c.refresh.Do("refresh", func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/refresh", nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, err
		}
		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("failed to decode refresh response: %w", err)
		}
		if !env.Success {
			apiErr := &APIError{Status: resp.StatusCode}
			if env.Error != nil {
				apiErr.Code = env.Error.Code
				apiErr.Message = env.Error.Message
			}
			return nil, apiErr
		}

		if _, err := c.storeAuthResponse(env.Data); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}
