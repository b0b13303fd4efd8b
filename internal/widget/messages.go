package widget

import (
	"github.com/quizler/quizler/internal/quiz"
)

// statusMsg is sent whenever the underlying session changes state.
type statusMsg quiz.Status
