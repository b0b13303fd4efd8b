package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quizler/quizler/internal/logger"
	"github.com/quizler/quizler/internal/store"
)

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*store.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]*store.User)}
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

func newMemTokens() *memTokens {
	return &memTokens{tokens: make(map[string]*store.UserToken)}
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

func newTestService() *Service {
	return NewService(newMemUsers(), newMemTokens(), logger.Nop(),
		"test-secret", time.Hour, 24*time.Hour)
}

func TestRegister_CreatesUser(t *testing.T) {
	s := newTestService()

	user, err := s.Register(context.Background(), "Reader@Example.COM", "", "hunter2secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "reader@example.com" {
		t.Fatalf("email = %q, want lowercased", user.Email)
	}
	if user.Username != "reader" {
		t.Fatalf("username = %q, want local part default", user.Username)
	}
	if user.PasswordHash == "hunter2secret" || user.PasswordHash == "" {
		t.Fatal("password stored without hashing")
	}
	if !strings.Contains(user.AvatarURL, "gravatar.com") {
		t.Fatalf("avatar URL = %q", user.AvatarURL)
	}
}

func TestRegister_RejectsWeakPassword(t *testing.T) {
	s := newTestService()
	_, err := s.Register(context.Background(), "a@b.com", "", "short")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("err = %v, want ErrWeakPassword", err)
	}
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	s := newTestService()
	if _, err := s.Register(context.Background(), "a@b.com", "", "password1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := s.Register(context.Background(), "A@B.com", "", "password2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	s := newTestService()
	user, err := s.Register(context.Background(), "a@b.com", "alice", "password1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	tokens, got, err := s.Login(context.Background(), "a@b.com", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatal("login returned a different user")
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("empty token pair")
	}

	id, err := s.ParseToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if id != user.ID {
		t.Fatalf("token subject = %s, want %s", id, user.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestService()
	if _, err := s.Register(context.Background(), "a@b.com", "", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, _, err := s.Login(context.Background(), "a@b.com", "nope-nope")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	s := newTestService()
	_, _, err := s.Login(context.Background(), "ghost@b.com", "whatever1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefresh_RotatesTokens(t *testing.T) {
	s := newTestService()
	if _, err := s.Register(context.Background(), "a@b.com", "", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	tokens, _, err := s.Login(context.Background(), "a@b.com", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fresh, err := s.Refresh(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if fresh.RefreshToken == tokens.RefreshToken {
		t.Fatal("refresh token not rotated")
	}

	// The old refresh token must be dead after rotation.
	if _, err := s.Refresh(context.Background(), tokens.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken for rotated token", err)
	}
}

func TestRefresh_UnknownToken(t *testing.T) {
	s := newTestService()
	_, err := s.Refresh(context.Background(), "never-issued")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	s := newTestService()
	if _, err := s.ParseToken("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	s := newTestService()
	if _, err := s.Register(context.Background(), "a@b.com", "", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	tokens, _, err := s.Login(context.Background(), "a@b.com", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	other := NewService(newMemUsers(), newMemTokens(), logger.Nop(),
		"different-secret", time.Hour, 24*time.Hour)
	if _, err := other.ParseToken(tokens.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken across secrets", err)
	}
}
