package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type llmEventRepo struct {
	db *gorm.DB
}

func (r *llmEventRepo) AppendLLMRequest(ctx context.Context, data LLMEventData) error {
	event := LLMRequestEvent{
		Timestamp:    time.Now().UTC(),
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		ErrorMessage: data.ErrorMessage,
		RequestBody:  data.RequestBody,
		ResponseBody: data.ResponseBody,
	}
	if err := r.db.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("append llm event: %w", err)
	}
	return nil
}

func (r *llmEventRepo) QueryLLMEvents(ctx context.Context, limit int) ([]LLMRequestEvent, error) {
	var events []LLMRequestEvent
	q := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("query llm events: %w", err)
	}
	return events, nil
}

func (r *llmEventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	var event LLMRequestEvent
	err := r.db.WithContext(ctx).First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get llm event: %w", err)
	}
	return &event, nil
}

func (r *llmEventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	var usage []LLMUsage
	err := r.db.WithContext(ctx).
		Model(&LLMRequestEvent{}).
		Select("purpose, COUNT(*) AS calls, SUM(input_tokens) AS input_tokens, " +
			"SUM(output_tokens) AS output_tokens, AVG(latency_ms) AS avg_latency_ms").
		Group("purpose").
		Order("calls DESC").
		Scan(&usage).Error
	if err != nil {
		return nil, fmt.Errorf("usage by purpose: %w", err)
	}
	return usage, nil
}

func (r *llmEventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	var usage []LLMUsage
	err := r.db.WithContext(ctx).
		Model(&LLMRequestEvent{}).
		Select("model, COUNT(*) AS calls, SUM(input_tokens) AS input_tokens, " +
			"SUM(output_tokens) AS output_tokens, AVG(latency_ms) AS avg_latency_ms").
		Group("model").
		Order("calls DESC").
		Scan(&usage).Error
	if err != nil {
		return nil, fmt.Errorf("usage by model: %w", err)
	}
	return usage, nil
}
