package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/germanamz/chatbench/pkg/chats/message"
	"github.com/germanamz/chatbench/pkg/chats/role"
)

// chatEntry is one block of the conversation pane: either a stored message
// or a UI-only notice such as help text or a dataset note.
type chatEntry struct {
	msg    *message.Message
	notice string
}

// chatViewModel renders the conversation in a scrollable viewport.
type chatViewModel struct {
	viewport      viewport.Model
	spinner       spinner.Model
	entries       []chatEntry
	processing    bool
	processingMsg string
	width         int
	height        int
}

func newChatView() chatViewModel {
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = spinnerStyle

	return chatViewModel{
		viewport: viewport.New(0, 0),
		spinner:  sp,
	}
}

func (m chatViewModel) Update(msg tea.Msg) (chatViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.processing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
}

func (m chatViewModel) View() string {
	return m.viewport.View()
}

// addMessage appends a stored message and scrolls to it.
func (m *chatViewModel) addMessage(msg message.Message) {
	m.entries = append(m.entries, chatEntry{msg: &msg})
	m.refresh()
}

// addNotice appends a UI-only block.
func (m *chatViewModel) addNotice(text string) {
	m.entries = append(m.entries, chatEntry{notice: text})
	m.refresh()
}

// clearNotices drops every UI-only block. Messages stay.
func (m *chatViewModel) clearNotices() {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.msg != nil {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	m.refresh()
}

// messageCount returns the number of stored messages shown.
func (m chatViewModel) messageCount() int {
	n := 0
	for _, e := range m.entries {
		if e.msg != nil {
			n++
		}
	}
	return n
}

// setProcessing toggles the thinking placeholder. It returns the spinner's
// first tick when processing starts.
func (m *chatViewModel) setProcessing(on bool) tea.Cmd {
	m.processing = on
	var cmd tea.Cmd
	if on {
		m.processingMsg = randomThinkingMessage()
		cmd = m.spinner.Tick
	}
	m.refresh()
	return cmd
}

func (m *chatViewModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.refresh()
}

// refresh re-renders the content and keeps the newest block in view.
func (m *chatViewModel) refresh() {
	m.viewport.SetContent(m.render())
	m.viewport.GotoBottom()
}

func (m chatViewModel) render() string {
	blocks := make([]string, 0, len(m.entries)+1)

	for _, e := range m.entries {
		if e.msg == nil {
			blocks = append(blocks, e.notice)
			continue
		}
		blocks = append(blocks, m.renderMessage(*e.msg))
	}

	if m.processing {
		blocks = append(blocks, messageBlockStyle.Render(
			m.spinner.View()+" "+spinnerStyle.Render(m.processingMsg),
		))
	}

	return strings.Join(blocks, "\n\n")
}

func (m chatViewModel) renderMessage(msg message.Message) string {
	var label string
	var body string

	switch msg.Role {
	case role.User:
		label = userLabelStyle.Render("You")
		body = msg.Content
	default:
		label = assistantLabelStyle.Render("Assistant")
		body = renderMarkdown(msg.Content)
	}

	header := label + " " + dimStyle.Render(msg.Clock())

	width := max(m.width-2, 10)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		messageBlockStyle.Width(width).Render(body),
	)
}
