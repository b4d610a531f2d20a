// Package tui is the terminal front end of the chat client. It forwards key
// events to a coordinator and renders the conversation, the input line, the
// send control and a loading indicator while a request is in flight.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/longkey1/chatbox/internal/chatbox/coordinator"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// header, input line, loading line, help line; the error banner
	// adds its own height on top
	chromeHeight = 4
)

// Anchor names a queryable region of the rendered screen.
type Anchor string

const (
	AnchorContainer Anchor = "chatbox-container"
	AnchorInput     Anchor = "message-input"
	AnchorSend      Anchor = "send-button"
	AnchorLoading   Anchor = "progressbar"
)

// resultMsg carries the outcome of a request back into the update loop.
type resultMsg struct {
	result coordinator.Result
}

// Option configures a Model
type Option func(*Model)

// WithMarkdown renders bot replies as markdown when enabled.
func WithMarkdown(enabled bool) Option {
	return func(m *Model) {
		m.markdown = enabled
	}
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	coord    *coordinator.Coordinator
	input    textinput.Model
	spin     spinner.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer
	markdown bool
	width    int
	height   int
	quitting bool
}

// New returns a Model driving coord.
func New(coord *coordinator.Coordinator, opts ...Option) Model {
	in := textinput.New()
	in.Placeholder = "Type a message"
	in.Prompt = "> "
	in.CharLimit = 0
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	m := Model{
		coord:    coord,
		input:    in,
		spin:     s,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.coord.Close()
			return m, tea.Quit
		case "enter", "ctrl+s":
			return m.submit()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.coord.SetInput(m.input.Value())
		return m, cmd

	case resultMsg:
		if m.coord.Resolve(msg.result) {
			m.refresh()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.coord.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// submit hands the buffered input to the coordinator. The outbound call runs
// as a command so the update loop is never blocked.
func (m Model) submit() (tea.Model, tea.Cmd) {
	req, ok := m.coord.Submit()
	if !ok {
		return m, nil
	}
	m.input.SetValue(m.coord.Input())
	m.refresh()
	return m, tea.Batch(runRequest(req), m.spin.Tick)
}

func runRequest(req *coordinator.Request) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{result: req.Run()}
	}
}

// Coordinator returns the coordinator behind the model
func (m Model) Coordinator() *coordinator.Coordinator {
	return m.coord
}

func (m *Model) resize(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	m.width, m.height = width, height

	m.input.Width = max(width-lenSend()-len(m.input.Prompt)-2, 10)
	m.viewport.Width = width

	if m.markdown {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(max(width-4, 20)),
		)
		if err == nil {
			m.renderer = r
		}
	}
	m.refresh()
}

// refresh lays out the viewport for the current chrome and re-renders the
// conversation into it.
func (m *Model) refresh() {
	m.viewport.Height = max(m.height-chromeHeight-m.bannerHeight(), 1)
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m Model) renderMarkdown(text string) string {
	if m.renderer == nil || text == "" {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}
