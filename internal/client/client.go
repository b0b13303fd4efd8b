// Package client is the typed HTTP client the CLI commands use to talk
// to a Quizler backend. Every call surfaces a single error suitable for
// direct display; callers never inspect HTTP details.
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
	"sync"
	"time"

	"github.com/quizler/quizler/internal/quizgen"
	"github.com/quizler/quizler/internal/store"
)

// ErrNotSignedIn is returned when a call requiring auth runs without a
// stored access token.
var ErrNotSignedIn = errors.New("not signed in")

const maxResponseBytes = 1 << 20

// Client talks to one Quizler backend.
type Client struct {
	baseURL string
	http    *http.Client

	mu     sync.Mutex
	tokens *Tokens
}

// Tokens mirrors the auth token pair returned by the backend.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// User is the public identity the backend returns on register/login.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

// New creates a client for the given base URL, for example
// "http://localhost:8787".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// SetTokens installs a previously obtained token pair.
func (c *Client) SetTokens(t *Tokens) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = t
}

// SignedIn reports whether the client holds an access token.
func (c *Client) SignedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens != nil && c.tokens.AccessToken != ""
}

func (c *Client) accessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.AccessToken
}

// RequestQuiz asks the backend to generate a quiz for a page. The
// returned payload is structurally validated before being handed back.
func (c *Client) RequestQuiz(ctx context.Context, req quizgen.Request) (*quizgen.Payload, error) {
	var payload quizgen.Payload
	if err := c.post(ctx, "/api/quiz", req, &payload, false); err != nil {
		return nil, err
	}
	if !quizgen.Valid(&payload) {
		return nil, errors.New("backend returned a malformed quiz")
	}
	return &payload, nil
}

// Register creates an account and signs the client in.
func (c *Client) Register(ctx context.Context, email, username, password string) (*User, error) {
	body := map[string]string{"email": email, "username": username, "password": password}
	var resp struct {
		User   User    `json:"user"`
		Tokens *Tokens `json:"tokens"`
	}
	if err := c.post(ctx, "/api/auth/register", body, &resp, false); err != nil {
		return nil, err
	}
	c.SetTokens(resp.Tokens)
	return &resp.User, nil
}

// SignIn authenticates and stores the returned token pair.
func (c *Client) SignIn(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		User   User    `json:"user"`
		Tokens *Tokens `json:"tokens"`
	}
	if err := c.post(ctx, "/api/auth/login", body, &resp, false); err != nil {
		return nil, err
	}
	c.SetTokens(resp.Tokens)
	return &resp.User, nil
}

// SaveResult persists one completed quiz for the signed-in user.
func (c *Client) SaveResult(ctx context.Context, score, total, percentage int, pageURL, pageTitle string) error {
	if !c.SignedIn() {
		return ErrNotSignedIn
	}
	body := map[string]any{
		"score":      score,
		"total":      total,
		"percentage": percentage,
		"pageUrl":    pageURL,
		"pageTitle":  pageTitle,
	}
	var resp struct {
		Saved bool `json:"saved"`
	}
	return c.post(ctx, "/api/results", body, &resp, true)
}

// Leaderboard returns the top users ranked by cumulative score.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]store.LeaderboardEntry, error) {
	path := "/api/leaderboard"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var resp struct {
		Entries []store.LeaderboardEntry `json:"entries"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any, authed bool) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out, authed)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out, false)
}

func (c *Client) do(req *http.Request, out any, authed bool) error {
	if authed {
		token := c.accessToken()
		if token == "" {
			return ErrNotSignedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New(apiError(raw, resp.StatusCode))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("malformed response: %w", err)
		}
	}
	return nil
}

// apiError pulls the backend's {"error": "..."} message out of an
// error response, falling back to the status code.
func apiError(raw []byte, status int) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return fmt.Sprintf("backend returned status %d", status)
}
