package widget

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	colPrimary = lipgloss.Color("#8B5CF6")
	colSuccess = lipgloss.Color("#22C55E")
	colError   = lipgloss.Color("#F43F5E")
	colText    = lipgloss.Color("#F8FAFC")
	colTextDim = lipgloss.Color("#94A3B8")
	colBorder  = lipgloss.Color("#334155")
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colPrimary)

	styleQuestion = lipgloss.NewStyle().
			Foreground(colText).
			Bold(true)

	styleHint = lipgloss.NewStyle().
			Foreground(colTextDim).
			Italic(true)

	styleSelected = lipgloss.NewStyle().
			Foreground(colPrimary).
			Bold(true)

	styleUnselected = lipgloss.NewStyle().
			Foreground(colText)

	styleCorrect = lipgloss.NewStyle().
			Foreground(colSuccess).
			Bold(true)

	styleIncorrect = lipgloss.NewStyle().
			Foreground(colError).
			Bold(true)

	styleDim = lipgloss.NewStyle().
			Foreground(colTextDim)

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colBorder).
			Padding(1, 2)
)
