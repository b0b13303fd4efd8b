// Package auth issues and verifies sessions against the user store.
package auth

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizler/quizler/internal/logger"
	"github.com/quizler/quizler/internal/store"
)

// Credential and token errors reported to callers. These surface
// inline on auth forms, unlike persistence errors which are swallowed.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidToken       = errors.New("missing or invalid token")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// Tokens is one issued session pair.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"` // seconds
}

// Service manages registration, login, and token verification.
type Service struct {
	users  store.UserRepo
	tokens store.TokenRepo
	log    *logger.Logger

	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService creates an auth service.
func NewService(users store.UserRepo, tokens store.TokenRepo, log *logger.Logger, secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		log:        log.With("service", "auth"),
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates a new user with a bcrypt password hash and a
// deterministic avatar derived from the email.
func (s *Service) Register(ctx context.Context, email, username, password string) (*store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address")
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if username == "" {
		username = email[:strings.Index(email, "@")]
	}

	existing, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &store.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		AvatarURL:    avatarURL(email),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("registered user", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*Tokens, *store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	row, err := s.tokens.ByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if row == nil || row.ExpiresAt.Before(time.Now()) {
		return nil, ErrInvalidToken
	}

	user, err := s.users.ByID(ctx, row.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	// Rotate: old refresh tokens for this user stop working.
	if err := s.tokens.DeleteByUser(ctx, user.ID); err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

// ParseToken verifies an access token and returns the user ID claim.
func (s *Service) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// AccessTTL returns the configured access token lifetime.
func (s *Service) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *Service) issue(ctx context.Context, user *store.User) (*Tokens, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	access, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := uuid.New().String()
	if err := s.tokens.Create(ctx, &store.UserToken{
		UserID:       user.ID,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.refreshTTL),
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}, nil
}

func avatarURL(email string) string {
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon", md5.Sum([]byte(email)))
}
