// Package widget renders one quiz session as a terminal overlay:
// loading, question progression, summary, and error views.
package widget

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizler/quizler/internal/quiz"
	"github.com/quizler/quizler/internal/quizgen"
)

// Model is the bubbletea model driving a quiz session.
type Model struct {
	session   *quiz.Session
	ctx       context.Context
	pageTitle string

	spin     spinner.Model
	statusCh chan quiz.Status
	unsub    func()

	cursor int
	width  int
	height int
}

// New creates a widget for the given session. Open is triggered from
// Init, matching a widget that requests its quiz when first shown.
func New(ctx context.Context, session *quiz.Session, pageTitle string) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colPrimary)

	m := &Model{
		session:   session,
		ctx:       ctx,
		pageTitle: pageTitle,
		spin:      sp,
		statusCh:  make(chan quiz.Status, 8),
	}
	m.unsub = session.Subscribe(func(st quiz.Status) {
		select {
		case m.statusCh <- st:
		default:
		}
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	m.session.Open(m.ctx)
	return tea.Batch(m.spin.Tick, m.waitForStatus())
}

// waitForStatus blocks on the session's status channel and feeds the
// change back into the update loop.
func (m *Model) waitForStatus() tea.Cmd {
	return func() tea.Msg {
		return statusMsg(<-m.statusCh)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statusMsg:
		if quiz.Status(msg) == quiz.StatusReady {
			m.cursor = 0
		}
		return m, m.waitForStatus()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "esc", "ctrl+c":
		m.close()
		return m, tea.Quit
	}

	switch m.session.Status() {
	case quiz.StatusError:
		if key == "r" {
			m.session.Retry(m.ctx)
		}
	case quiz.StatusComplete:
		if key == "r" {
			m.cursor = 0
			m.session.Reopen(m.ctx)
		}
	case quiz.StatusReady:
		return m.handleQuestionKey(key)
	}
	return m, nil
}

func (m *Model) handleQuestionKey(key string) (tea.Model, tea.Cmd) {
	if m.session.Revealed() {
		if key == "enter" || key == "n" {
			m.session.Next()
			m.cursor = 0
		}
		return m, nil
	}

	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < quizgen.OptionCount-1 {
			m.cursor++
		}
	case "enter":
		if m.session.Select(m.cursor) {
			m.session.Submit()
		}
	}
	return m, nil
}

func (m *Model) close() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
	m.session.Close()
}

// Run drives the widget to completion on the current terminal.
func Run(ctx context.Context, session *quiz.Session, pageTitle string) error {
	p := tea.NewProgram(New(ctx, session, pageTitle))
	_, err := p.Run()
	return err
}
