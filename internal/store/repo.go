package store

import (
	"context"

	"github.com/google/uuid"
)

// UserRepo manages user rows.
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	ByEmail(ctx context.Context, email string) (*User, error)
	ByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// TokenRepo manages refresh token rows.
type TokenRepo interface {
	Create(ctx context.Context, token *UserToken) error
	ByRefreshToken(ctx context.Context, refreshToken string) (*UserToken, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// ResultRepo manages completed quiz rows and the leaderboard aggregate.
type ResultRepo interface {
	Create(ctx context.Context, result *QuizResult) error
	ByUser(ctx context.Context, userID uuid.UUID, limit int) ([]QuizResult, error)

	// Leaderboard returns up to limit users ranked by cumulative score,
	// joined against identity records.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// LLMEventData captures the data for a single LLM request event.
type LLMEventData struct {
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

// LLMUsage aggregates token consumption for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMEventRepo provides append and query access to LLM request events.
type LLMEventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMEventData) error

	// QueryLLMEvents returns the most recent events, newest first.
	QueryLLMEvents(ctx context.Context, limit int) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
