package quizgen

import "github.com/quizler/quizler/internal/llm"

// QuizSchema defines the JSON schema for LLM quiz generation responses.
var QuizSchema = &llm.Schema{
	Name:        "page-quiz",
	Description: "A multiple-choice comprehension quiz about one web page",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"minItems":    1,
				"description": "The quiz questions, in the order they should be asked",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question prompt, answerable from the page content alone",
						},
						"options": map[string]any{
							"type":        "array",
							"minItems":    4,
							"maxItems":    4,
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 answer options, exactly one of which is correct",
						},
						"correct_index": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     3,
							"description": "Zero-based index of the correct option",
						},
					},
					"required":             []any{"question", "options", "correct_index"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
