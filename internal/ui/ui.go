package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ken-ho/squatx/internal/analysis"
	"github.com/ken-ho/squatx/internal/formatter"
	"github.com/ken-ho/squatx/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HistoryView ViewState = iota
	DetailView
	PathInputView
	AnalyzeView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *analysis.Engine
	history      *analysis.HistoryStore
	limit        int
	fps          int
	width        int
	height       int
	sessionList  list.Model
	sessions     []models.SessionSummary
	detail       *models.SessionDetail
	pathInput    textinput.Model
	spinner      spinner.Model
	progressChan chan analysis.ProgressUpdate
	progress     analysis.ProgressUpdate
	outcome      *analysis.Outcome
	refreshing   bool
	err          error
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	analyze key.Binding
	refresh key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "view session"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		analyze: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "analyze video"),
		),
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.analyze, k.refresh, k.quit},
	}
}

// sessionItem wraps [models.SessionSummary] to implement list.Item.
type sessionItem struct {
	session models.SessionSummary
}

func (i sessionItem) FilterValue() string { return i.session.AIFeedback }
func (i sessionItem) Title() string {
	return fmt.Sprintf("#%d — %s", i.session.ID, i.session.CreatedAt.Format("Jan 2, 2006"))
}
func (i sessionItem) Description() string {
	desc := fmt.Sprintf("%d reps • min angle %s",
		i.session.TotalReps,
		formatter.Optional(i.session.MinKneeAngle, analysis.FormatAngle))
	if fb := i.session.Feedback(60); fb != "" {
		desc = fmt.Sprintf("%s • %s", desc, fb)
	}
	return desc
}

type sessionsFetchedMsg struct {
	sessions []models.SessionSummary
	err      error
}

type detailFetchedMsg struct {
	detail *models.SessionDetail
	err    error
}

type progressUpdateMsg analysis.ProgressUpdate

type analyzeCompleteMsg struct {
	outcome *analysis.Outcome
	err     error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *analysis.Engine, history *analysis.HistoryStore, limit, fps int) *Model {
	input := textinput.New()
	input.Placeholder = "path/to/video.mp4"
	input.CharLimit = 256

	return &Model{
		ctx:       ctx,
		view:      HistoryView,
		engine:    engine,
		history:   history,
		limit:     limit,
		fps:       fps,
		pathInput: input,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by fetching the session history.
func (m *Model) Init() tea.Cmd {
	m.refreshing = true
	return tea.Batch(m.spinner.Tick, m.fetchSessions())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.sessionList.Width() == 0 {
			m.sessionList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case HistoryView:
			return m.handleHistoryKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case PathInputView:
			return m.handlePathInputKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionsFetchedMsg:
		m.refreshing = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.sessions = msg.sessions
		items := make([]list.Item, len(msg.sessions))
		for i, session := range msg.sessions {
			items[i] = sessionItem{session: session}
		}
		m.sessionList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.sessionList.Title = "Workout Sessions"
		m.sessionList.SetSize(m.width-4, m.height-8)
		return m, nil

	case detailFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = HistoryView
			return m, nil
		}
		m.detail = msg.detail
		m.view = DetailView
		return m, nil

	case progressUpdateMsg:
		m.progress = analysis.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case analyzeCompleteMsg:
		m.outcome = msg.outcome
		m.err = msg.err
		m.view = ResultView
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil
	}

	if m.view == HistoryView {
		var cmd tea.Cmd
		m.sessionList, cmd = m.sessionList.Update(msg)
		return m, cmd
	}
	if m.view == PathInputView {
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case HistoryView:
		return m.renderHistory()
	case DetailView:
		return m.renderDetail()
	case PathInputView:
		return m.renderPathInput()
	case AnalyzeView:
		return m.renderAnalyze()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.refreshing = true
		return m, tea.Batch(m.spinner.Tick, m.fetchSessions())
	case "a":
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		m.view = PathInputView
		return m, textinput.Blink
	case "enter":
		selected := m.sessionList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(sessionItem); ok {
				return m, m.fetchDetail(item.session.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.sessionList, cmd = m.sessionList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.detail = nil
		m.view = HistoryView
		return m, nil
	}
	return m, nil
}

func (m *Model) handlePathInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.pathInput.Blur()
		m.view = HistoryView
		return m, nil
	case "enter":
		path := m.pathInput.Value()
		if path == "" {
			return m, nil
		}
		m.pathInput.Blur()
		m.view = AnalyzeView
		m.progress = analysis.ProgressUpdate{}
		return m, tea.Batch(m.spinner.Tick, m.startAnalyze(path))
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "enter":
		m.outcome = nil
		m.err = nil
		m.view = HistoryView
		m.refreshing = true
		return m, tea.Batch(m.spinner.Tick, m.fetchSessions())
	}
	return m, nil
}

func (m *Model) fetchSessions() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.history.Refresh(m.ctx, m.limit)
		return sessionsFetchedMsg{sessions: sessions, err: err}
	}
}

func (m *Model) fetchDetail(sessionID int64) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.history.Detail(m.ctx, sessionID)
		return detailFetchedMsg{detail: detail, err: err}
	}
}

func (m *Model) startAnalyze(path string) tea.Cmd {
	m.progressChan = make(chan analysis.ProgressUpdate, 50)

	go func() {
		outcome, err := m.engine.Submit(m.ctx, m.progressChan, path, m.fps)
		m.outcome = outcome
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return analyzeCompleteMsg{outcome: m.outcome, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return analyzeCompleteMsg{outcome: m.outcome, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderHistory() string {
	if m.refreshing {
		title := styles.title.Render("Workout Sessions")
		return fmt.Sprintf("%s\n%s Refreshing session history...", title, m.spinner.View())
	}

	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	if len(m.sessions) == 0 {
		title := styles.title.Render("Workout Sessions")
		empty := styles.help.Render(formatter.NoSessionsPlaceholder)
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.analyze, m.keys.refresh, m.keys.quit})
		return fmt.Sprintf("%s\n%s\n\n%s", title, empty, helpView)
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.analyze, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.sessionList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.detail == nil {
		return styles.err.Render("No session selected\n\nPress esc to go back")
	}

	title := styles.title.Render(fmt.Sprintf("Session #%d", m.detail.ID))
	body := string(formatter.DetailToText(m.detail))

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, body, helpView)
}

func (m *Model) renderPathInput() string {
	title := styles.title.Render("Analyze a Video")
	hint := styles.help.Render("MP4, AVI, MOV or MKV")

	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, m.pathInput.View(), hint, helpView)
}

func (m *Model) renderAnalyze() string {
	title := styles.title.Render("Analyzing Video")

	message := m.progress.Message
	if message == "" {
		message = "Starting..."
	}

	return fmt.Sprintf("%s\n%s %s", title, m.spinner.View(), message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Analysis failed: %v\n\nPress esc to go back, q to quit", m.err))
	}

	if m.outcome == nil {
		return styles.err.Render("No result available\n\nPress esc to go back, q to quit")
	}

	title := styles.ok.Render("✓ Analysis Complete")
	body := string(formatter.SummaryToText(m.outcome.Summary))

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s\n%s", title, body, helpView)
}
