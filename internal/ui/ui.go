package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/moodtunes/internal/generator"
	"github.com/desertthunder/moodtunes/internal/moods"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MoodView ViewState = iota
	IntentView
	GeneratingView
	PreviewView
	ConfirmView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *generator.Engine
	limit        int
	public       bool
	width        int
	height       int
	moodList     list.Model
	intentList   list.Model
	trackList    list.Model
	mood         string
	intent       string
	preview      *generator.Result
	created      *generator.Result
	progressChan chan generator.ProgressUpdate
	progress     generator.ProgressUpdate
	creating     bool
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *generator.Engine, limit int, public bool) *Model {
	moodItems := make([]list.Item, len(moods.UIMoods))
	for i, mood := range moods.UIMoods {
		moodItems[i] = moodItem{mood: mood}
	}
	moodList := list.New(moodItems, list.NewDefaultDelegate(), 0, 0)
	moodList.Title = "How are you feeling?"

	intentItems := make([]list.Item, len(moods.UIIntents))
	for i, intent := range moods.UIIntents {
		intentItems[i] = intentItem{intent: intent}
	}
	intentList := list.New(intentItems, list.NewDefaultDelegate(), 0, 0)
	intentList.Title = "What do you want to do with it?"

	return &Model{
		ctx:        ctx,
		view:       MoodView,
		engine:     engine,
		limit:      limit,
		public:     public,
		moodList:   moodList,
		intentList: intentList,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.moodList.SetSize(msg.Width-4, msg.Height-8)
		m.intentList.SetSize(msg.Width-4, msg.Height-8)
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MoodView:
			return m.handleMoodKeys(msg)
		case IntentView:
			return m.handleIntentKeys(msg)
		case PreviewView:
			return m.handlePreviewKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case previewReadyMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ResultView
			return m, nil
		}
		m.preview = msg.result
		items := make([]list.Item, len(msg.result.Tracks))
		for i, track := range msg.result.Tracks {
			items[i] = trackItem{track: track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = msg.result.Name
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = PreviewView
		return m, nil

	case progressUpdateMsg:
		m.progress = generator.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case createCompleteMsg:
		m.created = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case MoodView:
		return m.renderList(m.moodList)
	case IntentView:
		return m.renderList(m.intentList)
	case GeneratingView:
		return m.renderGenerating()
	case PreviewView:
		return m.renderPreview()
	case ConfirmView:
		return m.renderConfirm()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleMoodKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if selected, ok := m.moodList.SelectedItem().(moodItem); ok {
			m.mood = selected.mood
			m.view = IntentView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.moodList, cmd = m.moodList.Update(msg)
	return m, cmd
}

func (m *Model) handleIntentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MoodView
		return m, nil
	case "enter":
		if selected, ok := m.intentList.SelectedItem().(intentItem); ok {
			m.intent = selected.intent
			m.view = GeneratingView
			m.creating = false
			return m, m.startPreview()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.intentList, cmd = m.intentList.Update(msg)
	return m, cmd
}

func (m *Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MoodView
		return m, nil
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = PreviewView
		return m, nil
	case "y":
		m.view = GeneratingView
		m.creating = true
		return m, m.startCreate()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = MoodView
		m.preview = nil
		m.created = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MoodView:
		m.moodList, cmd = m.moodList.Update(msg)
	case IntentView:
		m.intentList, cmd = m.intentList.Update(msg)
	case PreviewView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) startPreview() tea.Cmd {
	m.progressChan = make(chan generator.ProgressUpdate, 16)
	params := generator.Params{Mood: m.mood, Intent: m.intent, Limit: m.limit, Shuffle: true}

	done := make(chan previewReadyMsg, 1)
	go func() {
		result, err := m.engine.Generate(m.ctx, m.progressChan, params)
		done <- previewReadyMsg{result: result, err: err}
		close(m.progressChan)
	}()

	return tea.Batch(m.waitForProgress(), func() tea.Msg { return <-done })
}

func (m *Model) startCreate() tea.Cmd {
	m.progressChan = make(chan generator.ProgressUpdate, 16)
	params := generator.Params{
		Mood:    m.mood,
		Intent:  m.intent,
		Limit:   m.limit,
		Public:  m.public,
		Create:  true,
		Shuffle: true,
	}

	done := make(chan createCompleteMsg, 1)
	go func() {
		result, err := m.engine.Generate(m.ctx, m.progressChan, params)
		done <- createCompleteMsg{result: result, err: err}
		close(m.progressChan)
	}()

	return tea.Batch(m.waitForProgress(), func() tea.Msg { return <-done })
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		update, ok := <-progress
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderList(l list.Model) string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", l.View(), helpView)
}

func (m *Model) renderGenerating() string {
	verb := "Generating preview"
	if m.creating {
		verb = "Creating playlist"
	}
	title := styles.title.Render(fmt.Sprintf("%s for %s / %s", verb, m.mood, m.intent))

	var phase string
	switch m.progress.Phase {
	case generator.FetchSeeds:
		phase = "Gathering seeds from your listening history..."
	case generator.FetchRecommendations:
		phase = "Fetching recommendations..."
	case generator.CreatePlaylist:
		phase = "Creating playlist on Spotify..."
	case generator.AddTracks:
		phase = fmt.Sprintf("Adding %d tracks...", m.progress.Total)
	default:
		phase = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s", title, phase)
}

func (m *Model) renderPreview() string {
	createKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "create on Spotify"),
	)
	helpView := m.help.ShortHelpView([]key.Binding{createKey, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Create '%s' on Spotify?", m.preview.Name))
	info := fmt.Sprintf("\nTracks: %d\nPublic: %v\n", len(m.preview.Tracks), m.public)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Generation failed: %v", m.err)), helpView)
	}

	if m.created == nil || m.created.Playlist == nil {
		return fmt.Sprintf("%s\n\n%s", styles.warn.Render("No playlist was created"), helpView)
	}

	title := styles.ok.Render("✓ Playlist Created!")
	info := fmt.Sprintf(
		"\nName: %s\nTracks added: %d\nOpen: %s",
		m.created.Playlist.Name,
		m.created.Added,
		m.created.Playlist.ExternalURL.Spotify,
	)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
