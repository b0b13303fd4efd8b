package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quizler/quizler/internal/auth"
	"github.com/quizler/quizler/internal/config"
	"github.com/quizler/quizler/internal/extract"
	"github.com/quizler/quizler/internal/logger"
	"github.com/quizler/quizler/internal/quizgen"
	"github.com/quizler/quizler/internal/store"
)

// stubGenerator returns a fixed payload and records the last request.
type stubGenerator struct {
	mu      sync.Mutex
	lastReq quizgen.Request
	payload *quizgen.Payload
	err     error
}

func (g *stubGenerator) Generate(_ context.Context, req quizgen.Request) (*quizgen.Payload, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	return g.payload, nil
}

func (g *stubGenerator) last() quizgen.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastReq
}

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*store.User
}

func (m *memUsers) Create(_ context.Context, u *store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) ByEmail(_ context.Context, email string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) ByID(_ context.Context, id uuid.UUID) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

type memTokens struct {
	mu     sync.Mutex
	tokens map[string]*store.UserToken
}

func (m *memTokens) Create(_ context.Context, t *store.UserToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[t.RefreshToken] = t
	return nil
}

func (m *memTokens) ByRefreshToken(_ context.Context, rt string) (*store.UserToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[rt], nil
}

func (m *memTokens) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, t := range m.tokens {
		if t.UserID == userID {
			delete(m.tokens, k)
		}
	}
	return nil
}

type memResults struct {
	mu      sync.Mutex
	rows    []store.QuizResult
	entries []store.LeaderboardEntry
}

func (m *memResults) Create(_ context.Context, r *store.QuizResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.rows = append(m.rows, *r)
	return nil
}

func (m *memResults) ByUser(_ context.Context, userID uuid.UUID, limit int) ([]store.QuizResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.QuizResult
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memResults) Leaderboard(_ context.Context, limit int) ([]store.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit < len(m.entries) {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

func testQuizPayload() *quizgen.Payload {
	return &quizgen.Payload{
		SourceURL: "https://example.com/a",
		Questions: []quizgen.Item{
			{Question: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 2},
		},
	}
}

type testEnv struct {
	srv     *Server
	gen     *stubGenerator
	results *memResults
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gen := &stubGenerator{payload: testQuizPayload()}
	results := &memResults{}
	authSvc := auth.NewService(
		&memUsers{users: make(map[uuid.UUID]*store.User)},
		&memTokens{tokens: make(map[string]*store.UserToken)},
		logger.Nop(), "test-secret", time.Hour, 24*time.Hour,
	)
	srv := New(Options{
		Config:    config.Config{Addr: ":0", Mode: "dev"},
		Log:       logger.Nop(),
		Generator: gen,
		Fetcher:   extract.NewFetcher(5 * time.Second),
		Auth:      authSvc,
		Results:   results,
	})
	return &testEnv{srv: srv, gen: gen, results: results}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.srv.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// registerAndLogin returns an access token for a fresh user.
func (e *testEnv) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "password1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	decode(t, w, &resp)
	if resp.Tokens.AccessToken == "" {
		t.Fatal("register returned no access token")
	}
	return resp.Tokens.AccessToken
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGenerateQuiz_WithText(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/quiz", "", map[string]any{
		"url":   "https://example.com/a",
		"title": "A",
		"text":  "Some   page    text here.",
		"count": 3,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Questions []quizgen.Item `json:"questions"`
		SourceURL string         `json:"sourceUrl"`
	}
	decode(t, w, &resp)
	if len(resp.Questions) != 1 || resp.SourceURL != "https://example.com/a" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}

	// Text is whitespace-normalized before generation.
	if got := e.gen.last().Text; got != "Some page text here." {
		t.Fatalf("generator got text %q", got)
	}
	if e.gen.last().Count != 3 {
		t.Fatalf("generator got count %d", e.gen.last().Count)
	}
}

func TestGenerateQuiz_MissingURLAndText(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/quiz", "", map[string]any{"count": 5})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGenerateQuiz_FetchesWhenTextAbsent(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Fetched Page</title></head><body><p>Remote content body.</p></body></html>`)
	}))
	defer page.Close()

	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/quiz", "", map[string]any{"url": page.URL})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := e.gen.last().Text; !strings.Contains(got, "Remote content body.") {
		t.Fatalf("generator got text %q, want fetched content", got)
	}
	if e.gen.last().Title != "Fetched Page" {
		t.Fatalf("generator got title %q", e.gen.last().Title)
	}
}

func TestGenerateQuiz_EmptyPage(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><script>x()</script></body></html>`)
	}))
	defer page.Close()

	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/quiz", "", map[string]any{"url": page.URL})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for empty page", w.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, w, &resp)
	if resp.Error == "" {
		t.Fatal("400 response carries no error message")
	}
}

func TestGenerateQuiz_GeneratorFailure(t *testing.T) {
	e := newTestEnv(t)
	e.gen.err = fmt.Errorf("model melted")

	w := e.do(t, http.MethodPost, "/api/quiz", "", map[string]any{
		"url": "https://example.com", "text": "content",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAuthFlow_RegisterLoginRefresh(t *testing.T) {
	e := newTestEnv(t)

	token := e.registerAndLogin(t, "reader@example.com")
	if token == "" {
		t.Fatal("no token")
	}

	w := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "reader@example.com", "password": "password1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	var loginResp struct {
		Tokens struct {
			RefreshToken string `json:"refreshToken"`
		} `json:"tokens"`
	}
	decode(t, w, &loginResp)

	w = e.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refreshToken": loginResp.Tokens.RefreshToken,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d: %s", w.Code, w.Body.String())
	}
}

func TestLogin_BadCredentialsSurfaceInline(t *testing.T) {
	e := newTestEnv(t)
	e.registerAndLogin(t, "reader@example.com")

	w := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "reader@example.com", "password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, w, &resp)
	if resp.Error == "" {
		t.Fatal("auth error not surfaced in body")
	}
}

func TestSaveResult_RequiresAuth(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/results", "", map[string]any{
		"score": 3, "total": 5, "percentage": 60,
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestSaveResult_PersistsRow(t *testing.T) {
	e := newTestEnv(t)
	token := e.registerAndLogin(t, "reader@example.com")

	w := e.do(t, http.MethodPost, "/api/results", token, map[string]any{
		"score": 3, "total": 5, "percentage": 60,
		"pageUrl": "https://example.com/a", "pageTitle": "A",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if len(e.results.rows) != 1 {
		t.Fatalf("stored %d rows, want 1", len(e.results.rows))
	}
	row := e.results.rows[0]
	if row.Score != 3 || row.Total != 5 || row.Percentage != 60 {
		t.Fatalf("stored row = %+v", row)
	}
}

func TestSaveResult_RejectsImpossibleScore(t *testing.T) {
	e := newTestEnv(t)
	token := e.registerAndLogin(t, "reader@example.com")

	w := e.do(t, http.MethodPost, "/api/results", token, map[string]any{
		"score": 9, "total": 5, "percentage": 180,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestListResults_ScopedToUser(t *testing.T) {
	e := newTestEnv(t)
	tokenA := e.registerAndLogin(t, "a@example.com")
	tokenB := e.registerAndLogin(t, "b@example.com")

	e.do(t, http.MethodPost, "/api/results", tokenA, map[string]any{
		"score": 5, "total": 5, "percentage": 100,
	})

	w := e.do(t, http.MethodGet, "/api/results", tokenB, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Results []store.QuizResult `json:"results"`
	}
	decode(t, w, &resp)
	if len(resp.Results) != 0 {
		t.Fatalf("user B sees %d of user A's results", len(resp.Results))
	}
}

func TestLeaderboard(t *testing.T) {
	e := newTestEnv(t)
	e.results.entries = []store.LeaderboardEntry{
		{Username: "alice", TotalScore: 42, TotalQuizzes: 10},
		{Username: "bob", TotalScore: 30, TotalQuizzes: 8},
	}

	w := e.do(t, http.MethodGet, "/api/leaderboard?limit=1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Entries []store.LeaderboardEntry `json:"entries"`
	}
	decode(t, w, &resp)
	if len(resp.Entries) != 1 || resp.Entries[0].Username != "alice" {
		t.Fatalf("entries = %+v", resp.Entries)
	}
}

func TestCORSHeadersPresent(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "chrome-extension://abcdef")
	w := httptest.NewRecorder()
	e.srv.Engine().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
