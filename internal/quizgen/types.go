package quizgen

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Count limits for one generated quiz.
const (
	MinQuestions     = 1
	MaxQuestions     = 10
	DefaultQuestions = 5
)

// Item is a single multiple-choice question.
type Item struct {
	// Question is the prompt shown to the reader.
	Question string `json:"question"`

	// Options holds exactly 4 answer choices.
	Options []string `json:"options"`

	// CorrectIndex is the index of the right option, in [0,3].
	CorrectIndex int `json:"correctIndex"`
}

// Payload is the generated set of questions for one page.
type Payload struct {
	Questions []Item `json:"questions"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

// Request describes one quiz to generate.
type Request struct {
	// URL of the page the quiz is about.
	URL string `json:"url"`

	// Title of the page, if known.
	Title string `json:"title,omitempty"`

	// Text is the collected page text (≤ extract.MaxTextLen characters).
	// When empty, the server fetches and extracts from URL.
	Text string `json:"text,omitempty"`

	// Count is the desired question count. Clamped to [1,10];
	// zero or invalid values fall back to 5.
	Count int `json:"count,omitempty"`
}

// ClampCount normalizes a requested question count: values below 1
// (including zero, the "absent" encoding) yield the default, values
// above the maximum are capped.
func ClampCount(n int) int {
	if n < MinQuestions {
		return DefaultQuestions
	}
	if n > MaxQuestions {
		return MaxQuestions
	}
	return n
}
