package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type resultRepo struct {
	db *gorm.DB
}

func (r *resultRepo) Create(ctx context.Context, result *QuizResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("create quiz result: %w", err)
	}
	return nil
}

func (r *resultRepo) ByUser(ctx context.Context, userID uuid.UUID, limit int) ([]QuizResult, error) {
	var results []QuizResult
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	return results, nil
}

// leaderboardRow is the raw scan target for the aggregate query.
type leaderboardRow struct {
	UserID        uuid.UUID
	Email         string
	Username      string
	AvatarURL     string
	TotalQuizzes  int
	TotalScore    int
	AvgPercentage float64
}

func (r *resultRepo) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []leaderboardRow
	err := r.db.WithContext(ctx).
		Model(&QuizResult{}).
		Select("users.id AS user_id, users.email, users.username, users.avatar_url, " +
			"COUNT(quiz_results.id) AS total_quizzes, " +
			"SUM(quiz_results.score) AS total_score, " +
			"AVG(quiz_results.percentage) AS avg_percentage").
		Joins("JOIN users ON users.id = quiz_results.user_id").
		Group("users.id, users.email, users.username, users.avatar_url").
		Order("total_score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}

	entries := make([]LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = LeaderboardEntry{
			UserID:        row.UserID,
			Email:         row.Email,
			Username:      row.Username,
			AvatarURL:     row.AvatarURL,
			TotalQuizzes:  row.TotalQuizzes,
			TotalScore:    row.TotalScore,
			AvgPercentage: row.AvgPercentage,
		}
	}
	return entries, nil
}
