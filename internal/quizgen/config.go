package quizgen

// Config holds quiz generation tuning knobs.
type Config struct {
	// MaxTokens is the response budget for one quiz.
	MaxTokens int

	// Temperature for generation. Quizzes benefit from mild variety.
	Temperature float64
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.4,
	}
}
