package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/germanamz/chatbench/pkg/params"
	"github.com/germanamz/chatbench/pkg/session"
)

// appState represents the application state machine.
type appState int

const (
	stateIdle appState = iota
	stateProcessing
)

// focusArea is the component that receives keys while idle.
type focusArea int

const (
	focusInput focusArea = iota
	focusParams
)

// appModel is the root bubbletea model.
type appModel struct {
	ctx           context.Context
	sess          *session.Session
	chatView      chatViewModel
	debugView     debugViewModel
	paramsView    paramsViewModel
	inputBox      inputModel
	statusBar     statusBarModel
	picker        datasetPickerModel
	alert         *alertModel
	state         appState
	focus         focusArea
	showParams    bool
	showDebug     bool
	dataset       string
	initialParams params.Parameters
	seen          int
	width         int
	height        int
	sendStart     time.Time
}

func newAppModel(ctx context.Context, sess *session.Session, baseURL string) appModel {
	m := appModel{
		ctx:           ctx,
		sess:          sess,
		chatView:      newChatView(),
		debugView:     newDebugView(),
		paramsView:    newParamsView(sess.Parameters()),
		inputBox:      newInput(),
		statusBar:     newStatusBar(baseURL),
		picker:        newDatasetPicker(),
		state:         stateIdle,
		showParams:    true,
		initialParams: sess.Parameters(),
	}

	// Messages stored before the bridge starts, such as the greeting.
	for _, msg := range sess.Chat().Messages() {
		m.chatView.addMessage(msg)
		m.seen++
	}

	return m
}

func (m appModel) Init() tea.Cmd {
	// Delay focusing the input so that stale terminal escape-sequence
	// responses (e.g. OSC 11 background-color) are drained first.
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		return initDrainMsg{}
	})
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		initMarkdownRenderer(m.chatWidth() - 4)
		m.inputBox.setWidth(m.width)
		m.picker.width = m.width
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd

	case initDrainMsg:
		if m.state == stateIdle && m.focus == focusInput {
			return m, m.inputBox.enable()
		}
		return m, nil

	case inputSubmitMsg:
		cmd := m.handleSubmit(msg.text)
		return m, cmd

	case chatMessageMsg:
		m.chatView.addMessage(msg.msg)
		m.seen++
		return m, nil

	case traceMsg:
		m.refreshTraces()
		return m, nil

	case paramsChangedMsg:
		m.paramsView.params = msg.params
		return m, nil

	case sendCompleteMsg:
		m.state = stateIdle
		m.statusBar.busy = false
		m.statusBar.duration = msg.duration
		m.statusBar.failed = msg.err != nil && m.ctx.Err() == nil
		m.chatView.setProcessing(false)
		m.refreshTraces()
		m.recalcLayout()
		if m.focus == focusInput {
			return m, m.inputBox.enable()
		}
		return m, nil

	case uploadCompleteMsg:
		switch {
		case errors.Is(msg.err, session.ErrNoFile):
			m.alert = newErrorAlert("Please select a file first.")
		case msg.err != nil:
			m.alert = newErrorAlert("Upload failed: " + msg.err.Error())
		default:
			m.alert = newAlert("Fine-tuning", "File uploaded successfully!\n"+msg.resp.Message)
		}
		return m, nil

	case syncCompleteMsg:
		if msg.err != nil {
			m.alert = newErrorAlert("Parameter sync failed: " + msg.err.Error())
		} else {
			m.alert = newAlert("Parameters", msg.resp.Message)
		}
		return m, nil

	case healthCompleteMsg:
		if msg.err != nil {
			m.alert = newErrorAlert("Health check failed: " + msg.err.Error())
		} else {
			m.alert = newAlert("Backend", formatHealth(msg.resp))
		}
		return m, nil

	case datasetEntriesMsg:
		m.picker.setEntries(msg.entries)
		m.recalcLayout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}

	if m.state == stateIdle && m.focus == focusInput {
		var cmd tea.Cmd
		m.inputBox, cmd = m.inputBox.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.alert != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.alert.View(m.width))
	}

	body := m.chatView.View()
	if m.showParams {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.paramsView.View(), body)
	}

	sections := []string{body}
	if m.showDebug {
		sections = append(sections, m.debugView.View())
	}
	if m.picker.active {
		sections = append(sections, m.picker.View())
	}
	sections = append(sections, m.inputBox.View(), m.statusBar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *appModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	if m.alert != nil {
		if m.alert.handleKey(msg) {
			m.alert = nil
		}
		return nil
	}

	if m.picker.active {
		done, sel := m.picker.handleKey(msg)
		if done && sel != "" {
			m.selectDataset(sel)
		}
		m.recalcLayout()
		return nil
	}

	switch msg.Type {
	case tea.KeyF2:
		if m.focus == focusParams {
			return m.focusInputBox()
		}
		m.focusParamsPanel()
		return nil
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return cmd
	}

	if m.focus == focusParams {
		return m.handleParamsKey(msg)
	}

	if m.state == stateIdle {
		var cmd tea.Cmd
		m.inputBox, cmd = m.inputBox.Update(msg)
		return cmd
	}

	return nil
}

func (m *appModel) handleParamsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyUp:
		m.paramsView.up()
	case tea.KeyDown:
		m.paramsView.down()
	case tea.KeyLeft:
		m.stepParam(-1)
	case tea.KeyRight:
		m.stepParam(1)
	case tea.KeyEsc:
		return m.focusInputBox()
	}
	return nil
}

func (m *appModel) stepParam(delta int) {
	f := m.paramsView.field()
	m.paramsView.params = m.sess.UpdateParameters(func(p params.Parameters) params.Parameters {
		return p.Step(f, delta)
	})
}

func (m *appModel) focusParamsPanel() {
	if !m.showParams {
		m.showParams = true
		m.recalcLayout()
	}
	m.focus = focusParams
	m.paramsView.focused = true
	m.inputBox.disable()
}

func (m *appModel) focusInputBox() tea.Cmd {
	m.focus = focusInput
	m.paramsView.focused = false
	if m.state == stateIdle {
		return m.inputBox.enable()
	}
	return nil
}

func (m *appModel) handleSubmit(text string) tea.Cmd {
	if cmd, ok := parseCommand(text); ok {
		return m.runCommand(cmd)
	}

	m.state = stateProcessing
	m.statusBar.busy = true
	m.inputBox.disable()
	spin := m.chatView.setProcessing(true)
	m.sendStart = time.Now()

	return tea.Batch(m.sendCmd(text), spin)
}

// sendCmd dispatches text through the session off the update loop.
func (m *appModel) sendCmd(text string) tea.Cmd {
	sess := m.sess
	ctx := m.ctx
	start := m.sendStart
	return func() tea.Msg {
		_, err := sess.Send(ctx, text)
		return sendCompleteMsg{err: err, duration: time.Since(start)}
	}
}

func (m *appModel) runCommand(c command) tea.Cmd {
	switch c.name {
	case "/help":
		m.chatView.addNotice(helpText())

	case "/quit", "/exit":
		return tea.Quit

	case "/params":
		m.showParams = !m.showParams
		if !m.showParams && m.focus == focusParams {
			m.focus = focusInput
			m.paramsView.focused = false
		}
		m.recalcLayout()

	case "/debug":
		m.showDebug = !m.showDebug
		m.refreshTraces()
		m.recalcLayout()

	case "/set":
		if len(c.args) < 2 {
			m.alert = newErrorAlert("Usage: /set <name> <value>")
			return nil
		}
		name, value := c.args[0], c.args[1]
		if _, err := m.sess.Parameters().Set(name, value); err != nil {
			m.alert = newErrorAlert(err.Error())
			return nil
		}
		m.paramsView.params = m.sess.UpdateParameters(func(p params.Parameters) params.Parameters {
			next, err := p.Set(name, value)
			if err != nil {
				return p
			}
			return next
		})

	case "/reset":
		m.paramsView.params = m.sess.SetParameters(m.initialParams)
		m.chatView.addNotice(noticeStyle.Render("Parameters restored."))

	case "/file":
		if len(c.args) == 0 {
			cmd := m.picker.activate()
			m.recalcLayout()
			return cmd
		}
		path := c.rest()
		info, err := os.Stat(path)
		if err != nil {
			m.alert = newErrorAlert(fmt.Sprintf("Cannot use %s: %v", path, err))
			return nil
		}
		if info.IsDir() {
			m.alert = newErrorAlert(path + " is a directory")
			return nil
		}
		m.selectDataset(path)

	case "/finetune":
		sess, ctx, file := m.sess, m.ctx, m.dataset
		return func() tea.Msg {
			resp, err := sess.Upload(ctx, file)
			return uploadCompleteMsg{file: file, resp: resp, err: err}
		}

	case "/sync":
		sess, ctx := m.sess, m.ctx
		return func() tea.Msg {
			resp, err := sess.SyncParameters(ctx)
			return syncCompleteMsg{resp: resp, err: err}
		}

	case "/health":
		sess, ctx := m.sess, m.ctx
		return func() tea.Msg {
			resp, err := sess.Health(ctx)
			return healthCompleteMsg{resp: resp, err: err}
		}

	case "/clear":
		m.chatView.clearNotices()

	default:
		m.alert = newErrorAlert(fmt.Sprintf("Unknown command %s. Type /help for a list.", c.name))
	}

	return nil
}

func (m *appModel) selectDataset(path string) {
	m.dataset = path
	m.statusBar.dataset = path
	m.chatView.addNotice(noticeStyle.Render("Selected dataset: " + path))
}

// refreshTraces re-reads the debug log from the session.
func (m *appModel) refreshTraces() {
	traces := m.sess.Traces().All()
	m.debugView.setTraces(traces)
	m.statusBar.traces = len(traces)
	if len(traces) > 0 && traces[0].Latency != nil {
		m.statusBar.latency = *traces[0].Latency
	}
}

func (m appModel) chatWidth() int {
	if m.showParams {
		return max(m.width-paramsPanelWidth, 10)
	}
	return m.width
}

func (m *appModel) recalcLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	statusHeight := 1
	inputHeight := lipgloss.Height(m.inputBox.View())

	pickerHeight := 0
	if m.picker.active {
		pickerHeight = lipgloss.Height(m.picker.View())
	}

	debugHeight := 0
	if m.showDebug {
		debugHeight = max(m.height/3, 4)
		m.debugView.setSize(m.width, debugHeight)
	}

	mainHeight := max(m.height-inputHeight-statusHeight-pickerHeight-debugHeight, 1)
	m.chatView.setSize(m.chatWidth(), mainHeight)
	m.paramsView.height = mainHeight
}
