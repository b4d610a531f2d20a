package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/chatbox/internal/chatbox"
	"github.com/longkey1/chatbox/internal/chatbox/coordinator"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type countingAnswerer struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	err     error
}

func (a *countingAnswerer) Answer(_ context.Context, prompt string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.prompts = append(a.prompts, prompt)
	if a.err != nil {
		return "", a.err
	}
	return "Hi there", nil
}

func (a *countingAnswerer) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func newTestModel(t *testing.T, a chatbox.Answerer) Model {
	t.Helper()
	coord := coordinator.New(a, coordinator.WithLogger(zerolog.Nop()))
	t.Cleanup(coord.Close)
	return New(coord)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// results runs cmd and every command batched inside it, returning the
// request results they produce.
func results(cmd tea.Cmd) []resultMsg {
	if cmd == nil {
		return nil
	}
	var out []resultMsg
	switch msg := cmd().(type) {
	case resultMsg:
		out = append(out, msg)
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, results(c)...)
		}
	}
	return out
}

func TestTypingUpdatesCoordinatorInput(t *testing.T) {
	m := newTestModel(t, &countingAnswerer{})
	m = typeText(t, m, "hello")

	assert.Equal(t, "hello", m.Coordinator().Input())
	region, ok := m.Region(AnchorInput)
	require.True(t, ok)
	assert.Contains(t, region, "hello")
}

func TestEnterSendsMessage(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := &countingAnswerer{}
	m := newTestModel(t, a)
	m = typeText(t, m, "Hello")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.Coordinator().Busy())
	assert.Equal(t, "", m.Coordinator().Input())

	loading, ok := m.Region(AnchorLoading)
	assert.True(t, ok)
	assert.NotEmpty(t, loading)

	res := results(cmd)
	require.Len(t, res, 1)
	m, _ = update(t, m, res[0])

	assert.False(t, m.Coordinator().Busy())
	assert.Equal(t, 1, a.Calls())
	assert.Equal(t, 2, m.Coordinator().Conversation().Len())
	_, ok = m.Region(AnchorLoading)
	assert.False(t, ok)
	assert.Contains(t, m.View(), "Hi there")
}

func TestCtrlSSendsMessage(t *testing.T) {
	a := &countingAnswerer{}
	m := newTestModel(t, a)
	m = typeText(t, m, "Hello")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	for _, r := range results(cmd) {
		m, _ = update(t, m, r)
	}
	assert.Equal(t, 1, a.Calls())
	assert.Equal(t, []string{"Hello"}, a.prompts)
}

func TestEnterIgnoresBlankInput(t *testing.T) {
	a := &countingAnswerer{}
	m := newTestModel(t, a)
	m = typeText(t, m, "   ")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.Coordinator().Busy())
	assert.Equal(t, 0, m.Coordinator().Conversation().Len())
	assert.Equal(t, 0, a.Calls())
}

func TestEnterSuppressedWhileSending(t *testing.T) {
	a := &countingAnswerer{}
	m := newTestModel(t, a)
	m = typeText(t, m, "first")

	m, first := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, first)

	// input stays editable while busy
	m = typeText(t, m, "second")
	assert.Equal(t, "second", m.Coordinator().Input())

	m, second := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, second)
	assert.Equal(t, 1, m.Coordinator().Conversation().Len())

	for _, r := range results(first) {
		m, _ = update(t, m, r)
	}
	assert.Equal(t, 1, a.Calls())
	assert.Equal(t, 2, m.Coordinator().Conversation().Len())
	assert.Equal(t, "second", m.Coordinator().Input())
}

func TestFailureShowsErrorBanner(t *testing.T) {
	a := &countingAnswerer{err: errors.New("connection refused")}
	m := newTestModel(t, a)
	m = typeText(t, m, "Hello")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	for _, r := range results(cmd) {
		m, _ = update(t, m, r)
	}

	assert.Equal(t, coordinator.ErrorText, m.Coordinator().LastError())
	view := m.View()
	assert.Contains(t, view, coordinator.ErrorText)
	assert.Contains(t, view, coordinator.ErrorReply)
}

func TestViewFitsWindow(t *testing.T) {
	a := &countingAnswerer{err: errors.New("connection refused")}
	m := newTestModel(t, a)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Equal(t, 24, lipgloss.Height(m.View()))

	m = typeText(t, m, "Hello")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	for _, r := range results(cmd) {
		m, _ = update(t, m, r)
	}
	require.NotEmpty(t, m.Coordinator().LastError())
	assert.Equal(t, 24, lipgloss.Height(m.View()), "banner takes space from the messages")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 30, lipgloss.Height(m.View()))
}

func TestRegions(t *testing.T) {
	m := newTestModel(t, &countingAnswerer{})

	for _, anchor := range []Anchor{AnchorContainer, AnchorInput, AnchorSend} {
		region, ok := m.Region(anchor)
		assert.True(t, ok, anchor)
		assert.NotEmpty(t, region, anchor)
	}

	_, ok := m.Region(AnchorLoading)
	assert.False(t, ok)

	_, ok = m.Region(Anchor("unknown"))
	assert.False(t, ok)
}

func TestMessageAlignment(t *testing.T) {
	m := newTestModel(t, &countingAnswerer{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})

	user := m.renderMessage(chatbox.NewUserMessage("hi"))
	bot := m.renderMessage(chatbox.NewBotMessage("hello"))

	assert.True(t, strings.HasPrefix(user, " "), "user message should be right aligned")
	assert.False(t, strings.HasPrefix(bot, " "), "bot message should be left aligned")
}

func TestQuitClosesCoordinator(t *testing.T) {
	a := &countingAnswerer{}
	m := newTestModel(t, a)
	m = typeText(t, m, "Hello")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, quit := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())

	for _, r := range results(cmd) {
		m, _ = update(t, m, r)
	}
	// late result after close is dropped
	assert.True(t, m.Coordinator().Busy())
	assert.Equal(t, 1, m.Coordinator().Conversation().Len())
	assert.Equal(t, "", m.View())
}

func TestMarkdownRendering(t *testing.T) {
	coord := coordinator.New(&countingAnswerer{}, coordinator.WithLogger(zerolog.Nop()))
	t.Cleanup(coord.Close)
	m := New(coord, WithMarkdown(true))

	out := m.renderMarkdown("**bold** text")
	assert.Contains(t, out, "bold")
	assert.NotContains(t, out, "**")
}
