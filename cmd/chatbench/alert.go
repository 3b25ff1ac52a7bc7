package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// alertModel is a modal box. While it is open every key other than Enter or
// Esc is swallowed.
type alertModel struct {
	title string
	text  string
	isErr bool
}

func newAlert(title, text string) *alertModel {
	return &alertModel{title: title, text: text}
}

func newErrorAlert(text string) *alertModel {
	return &alertModel{title: "Error", text: text, isErr: true}
}

// handleKey reports whether the key dismisses the alert.
func (a *alertModel) handleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		return true
	}
	return false
}

func (a alertModel) View(width int) string {
	border := alertBorder
	if a.isErr {
		border = alertErrBorder
	}

	inner := max(min(width-4, 60), 20)
	body := lipgloss.JoinVertical(lipgloss.Left,
		alertTitleStyle.Render(a.title),
		a.text,
		"",
		dimStyle.Render("enter to dismiss"),
	)

	return border.Width(inner).Render(body)
}
