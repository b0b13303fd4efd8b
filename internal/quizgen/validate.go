package quizgen

import "fmt"

// Violation describes one way a payload fails the quiz invariant.
type Violation struct {
	// Index is the offending question's position, or -1 for
	// payload-level violations.
	Index   int
	Message string
}

func (v Violation) Error() string {
	if v.Index < 0 {
		return v.Message
	}
	return fmt.Sprintf("question %d: %s", v.Index, v.Message)
}

// Validate checks the quiz invariant: at least one question, and every
// question has non-empty text, exactly 4 options, and a correct index
// in [0,3]. Returns an empty slice when the payload passes.
//
// The same predicate accepts generation output and sanity-checks
// persisted payloads.
func Validate(p *Payload) []Violation {
	var violations []Violation

	if p == nil || len(p.Questions) == 0 {
		return append(violations, Violation{Index: -1, Message: "payload has no questions"})
	}

	for i, q := range p.Questions {
		if q.Question == "" {
			violations = append(violations, Violation{Index: i, Message: "empty question text"})
		}
		if len(q.Options) != OptionCount {
			violations = append(violations, Violation{
				Index:   i,
				Message: fmt.Sprintf("expected %d options, got %d", OptionCount, len(q.Options)),
			})
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
			violations = append(violations, Violation{
				Index:   i,
				Message: fmt.Sprintf("correct index %d out of range", q.CorrectIndex),
			})
		}
		for j, opt := range q.Options {
			if opt == "" {
				violations = append(violations, Violation{
					Index:   i,
					Message: fmt.Sprintf("option %d is empty", j),
				})
			}
		}
	}

	return violations
}

// Valid reports whether the payload satisfies the quiz invariant.
// A payload failing it is treated as not ready for display.
func Valid(p *Payload) bool {
	return len(Validate(p)) == 0
}
