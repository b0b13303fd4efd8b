package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quizler/quizler/internal/llm"
)

// ErrEmptyText indicates the request carried no usable page text.
var ErrEmptyText = errors.New("request has no page text")

// Generator produces a quiz payload for a page.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Payload, error)
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// payloadOutput is the raw LLM response before validation.
type payloadOutput struct {
	Questions []itemOutput `json:"questions"`
}

type itemOutput struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// Generate produces a quiz for the given request. The request text must
// already be collected and normalized; Count is clamped here.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (*Payload, error) {
	if req.Text == "" {
		return nil, ErrEmptyText
	}

	ctx = llm.WithPurpose(ctx, "quiz-gen")
	count := ClampCount(req.Count)

	llmReq := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, count)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, llmReq)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw payloadOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	payload := &Payload{
		Questions: make([]Item, len(raw.Questions)),
		SourceURL: req.URL,
	}
	for i, q := range raw.Questions {
		payload.Questions[i] = Item{
			Question:     q.Question,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
		}
	}

	if violations := Validate(payload); len(violations) > 0 {
		return nil, &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     fmt.Errorf("generated quiz rejected: %s", violations[0].Error()),
		}
	}

	return payload, nil
}
