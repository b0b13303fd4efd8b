package widget

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/quizler/quizler/internal/quiz"
)

var optionLabels = []string{"A", "B", "C", "D"}

func (m *Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	var body string
	switch m.session.Status() {
	case quiz.StatusLoading:
		body = m.renderLoading()
	case quiz.StatusError:
		body = m.renderError()
	case quiz.StatusReady:
		body = m.renderQuestion()
	case quiz.StatusComplete:
		body = m.renderSummary()
	default:
		body = styleDim.Render("Opening quiz...")
	}

	v.SetContent(styleCard.Render(body))
	return v
}

func (m *Model) renderLoading() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString(fmt.Sprintf("%s Writing your quiz...\n\n", m.spin.View()))
	b.WriteString(styleHint.Render("q to close"))
	return b.String()
}

func (m *Model) renderError() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString(styleIncorrect.Render("Couldn't load a quiz"))
	b.WriteString("\n")
	if msg := m.session.Err(); msg != "" {
		b.WriteString(styleDim.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleHint.Render("r to retry · q to close"))
	return b.String()
}

func (m *Model) renderQuestion() string {
	q, _ := m.session.Current()
	if q == nil {
		return styleDim.Render("Loading question...")
	}
	index, total, correct := m.session.Progress()
	selection := m.session.Selection()
	revealed := m.session.Revealed()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString(styleDim.Render(fmt.Sprintf("Question %d of %d · %d correct", index+1, total, correct)))
	b.WriteString("\n\n")
	b.WriteString(styleQuestion.Render(q.Question))
	b.WriteString("\n\n")

	for i, opt := range q.Options {
		prefix := "  "
		if i == m.cursor && !revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, optionLabels[i], opt)

		switch {
		case revealed && i == q.CorrectIndex:
			b.WriteString(styleCorrect.Render(line))
		case revealed && i == selection:
			b.WriteString(styleIncorrect.Render(line))
		case revealed:
			b.WriteString(styleDim.Render(line))
		case i == m.cursor:
			b.WriteString(styleSelected.Render(line))
		default:
			b.WriteString(styleUnselected.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if revealed {
		if selection == q.CorrectIndex {
			b.WriteString(styleCorrect.Render("Correct!"))
		} else {
			b.WriteString(styleIncorrect.Render("Not quite."))
		}
		b.WriteString("\n")
		b.WriteString(styleHint.Render("enter for next question · q to close"))
	} else {
		b.WriteString(styleHint.Render("↑/↓ to choose · enter to answer · q to close"))
	}
	return b.String()
}

func (m *Model) renderSummary() string {
	_, total, correct := m.session.Progress()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString(styleQuestion.Render("Quiz complete!"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("You got %s of %d right (%d%%).\n\n",
		styleCorrect.Render(fmt.Sprintf("%d", correct)),
		total,
		quiz.Percent(correct, total),
	))
	b.WriteString(styleHint.Render("r to play again · q to close"))
	return b.String()
}

func (m *Model) renderHeader() string {
	title := "Quizler"
	if m.pageTitle != "" {
		title = "Quizler · " + m.pageTitle
	}
	return styleTitle.Render(title) + "\n\n"
}
