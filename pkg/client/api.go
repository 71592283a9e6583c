package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"incubator/pkg/apperr"
	"incubator/pkg/auth"
	"incubator/pkg/registration"
	"incubator/pkg/startups"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []apperr.Detail
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     []apperr.Detail `json:"errors"`
}

// APIClient talks to the /api surface. The bearer token is read from storage
// on every request; an expired token is reported, never refreshed.
type APIClient struct {
	baseURL string
	storage TokenStorage
	http    *http.Client
}

func NewAPIClient(baseURL string, storage TokenStorage) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		storage: storage,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *APIClient) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *APIClient) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *APIClient) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *APIClient) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.storage != nil {
		tok, err := c.storage.Load()
		if err != nil && !errors.Is(err, ErrNoToken) {
			return err
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if decodeErr != nil && errors.Is(decodeErr, io.EOF) {
		decodeErr = nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg, Errors: env.Errors}
	}

	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *APIClient) LoginFounder(ctx context.Context, email, password string) (auth.LoginResult, error) {
	var res auth.LoginResult
	err := c.Post(ctx, "/auth/login-founder", credentials{Email: email, Password: password}, &res)
	return res, err
}

func (c *APIClient) LoginAdmin(ctx context.Context, email, password string) (auth.LoginResult, error) {
	var res auth.LoginResult
	err := c.Post(ctx, "/auth/login-admin", credentials{Email: email, Password: password}, &res)
	return res, err
}

// Logout revokes the current access token server side.
func (c *APIClient) Logout(ctx context.Context) error {
	return c.Post(ctx, "/auth/logout", nil, nil)
}

func (c *APIClient) Register(ctx context.Context, p registration.Payload) (registration.Result, error) {
	var res registration.Result
	err := c.Post(ctx, "/register", p, &res)
	return res, err
}

func (c *APIClient) CurrentStartup(ctx context.Context) (startups.StartupProfile, error) {
	var p startups.StartupProfile
	err := c.Get(ctx, "/startups/current", &p)
	return p, err
}
