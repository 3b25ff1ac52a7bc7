package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the TUI.
var (
	// Conversation styles.
	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	messageBlockStyle   = lipgloss.NewStyle().PaddingLeft(2)
	noticeStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// Spinner / animation styles.
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta

	// Parameter panel styles.
	panelBorder        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
	panelFocusedBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("2"))
	panelTitleStyle    = lipgloss.NewStyle().Bold(true)
	paramNameStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	paramSelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	barFillStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	barEmptyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// Debug pane styles.
	debugBorder       = lipgloss.NewStyle().BorderTop(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8"))
	debugTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	debugKeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	debugSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// Alert styles.
	alertBorder     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("3")).Padding(0, 1)
	alertErrBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("1")).Padding(0, 1)
	alertTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))

	// Dataset picker styles.
	pickerBorder    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("4"))
	pickerHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	pickerCurStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	pickerDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// General utility styles.
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray/dim
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
)
