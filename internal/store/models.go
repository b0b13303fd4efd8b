package store

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated identity.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Username     string
	AvatarURL    string
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

// UserToken holds an issued refresh token for a user session.
type UserToken struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null"`
	RefreshToken string    `gorm:"uniqueIndex;not null"`
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// QuizResult is one row per completed quiz.
type QuizResult struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Score      int       `gorm:"not null"`
	Total      int       `gorm:"not null"`
	Percentage int       `gorm:"not null"`
	PageURL    string
	PageTitle  string
	CreatedAt  time.Time
}

// LLMRequestEvent records a single LLM API call.
type LLMRequestEvent struct {
	ID           uint `gorm:"primaryKey"`
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LeaderboardEntry is the read-only per-user aggregate, ranked by
// cumulative score. Computed by the store, never written.
type LeaderboardEntry struct {
	UserID        uuid.UUID `json:"userId"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	AvatarURL     string    `json:"avatarUrl"`
	TotalQuizzes  int       `json:"totalQuizzes"`
	TotalScore    int       `json:"totalScore"`
	AvgPercentage float64   `json:"avgPercentage"`
}
