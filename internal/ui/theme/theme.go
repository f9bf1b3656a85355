// Package theme holds the colors and shared styles of the review UI.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette. Muted so long review sessions stay easy on the eyes.
var (
	Primary   = lipgloss.Color("#7C9CBF")
	Secondary = lipgloss.Color("#5FB3A1")
	Accent    = lipgloss.Color("#D9A45B")
	Success   = lipgloss.Color("#7BC47F")
	Error     = lipgloss.Color("#E07A7A")
	Text      = lipgloss.Color("#E6E8EB")
	TextDim   = lipgloss.Color("#8A94A3")
	BgCard    = lipgloss.Color("#1F252D")
	Border    = lipgloss.Color("#38414D")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Card frames the front and back of the item under review.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 4)

// Stack badges.
var (
	StackNew = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	StackReview = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)
