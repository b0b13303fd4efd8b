package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a quiz writer creating a short comprehension quiz about a web page the reader has just finished.

Rules:
- Every question must be answerable from the provided page content alone. Never rely on outside knowledge.
- Write clear, self-contained questions about the substance of the page, not about its layout or navigation.
- Provide exactly 4 options per question where exactly one is correct. Distractors should be plausible misreadings of the page, not random values.
- Vary which option position holds the correct answer.
- Use plain text for questions and options. No markdown, no numbering inside the option text.
- Generate exactly the requested number of questions.`

// buildUserMessage constructs the user message embedding the desired
// question count, page title, and content.
func buildUserMessage(req Request, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Number of questions: %d\n", count)
	if req.Title != "" {
		fmt.Fprintf(&b, "Page title: %s\n", req.Title)
	}
	if req.URL != "" {
		fmt.Fprintf(&b, "Page URL: %s\n", req.URL)
	}

	b.WriteString("\nPage content:\n")
	b.WriteString(req.Text)

	return b.String()
}
