package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/chatbox/internal/chatbox"
)

const sendLabel = "[ Send ]"

func lenSend() int {
	return lipgloss.Width(sendLabel)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderContainer()
}

// Region returns the rendered text of the region named by anchor. The
// loading region only exists while a request is in flight.
func (m Model) Region(anchor Anchor) (string, bool) {
	switch anchor {
	case AnchorContainer:
		return m.renderContainer(), true
	case AnchorInput:
		return m.renderInput(), true
	case AnchorSend:
		return m.renderSend(), true
	case AnchorLoading:
		if !m.coord.Busy() {
			return "", false
		}
		return m.renderLoading(), true
	}
	return "", false
}

func (m Model) renderContainer() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString(" ")
	b.WriteString(m.renderSend())
	b.WriteString("\n")
	if loading, ok := m.Region(AnchorLoading); ok {
		b.WriteString(loading)
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter/ctrl+s send • pgup/pgdown scroll • esc quit"))

	return b.String()
}

func (m Model) renderBanner() string {
	msg := m.coord.LastError()
	if msg == "" {
		return ""
	}
	return errorBannerStyle.Render(msg)
}

func (m Model) bannerHeight() int {
	if banner := m.renderBanner(); banner != "" {
		return lipgloss.Height(banner)
	}
	return 0
}

func (m Model) renderHeader() string {
	conv := m.coord.Conversation()
	return headerStyle.Render("chatbox") + " " +
		sessionStyle.Render(fmt.Sprintf("session %s • %d messages", conv.ShortID(), conv.Len()))
}

func (m Model) renderInput() string {
	if m.coord.Disabled() {
		return disabledStyle.Render(m.input.View())
	}
	return m.input.View()
}

func (m Model) renderSend() string {
	if m.coord.Disabled() || !m.coord.CanSubmit() {
		return disabledStyle.Render(sendLabel)
	}
	return sendStyle.Render(sendLabel)
}

func (m Model) renderLoading() string {
	return m.spin.View() + loadingStyle.Render(" waiting for reply...")
}

func (m Model) renderMessages() string {
	conv := m.coord.Conversation()
	if conv.Len() == 0 {
		return helpStyle.Render("No messages yet.")
	}

	var lines []string
	for _, msg := range conv.Render() {
		lines = append(lines, m.renderMessage(msg))
	}
	return strings.Join(lines, "\n\n")
}

// renderMessage puts user messages on the right and bot messages on the left.
func (m Model) renderMessage(msg chatbox.Message) string {
	if msg.IsUser() {
		style := userStyle
		if limit := m.width * 3 / 4; lipgloss.Width(msg.Text) > limit {
			style = style.Width(limit)
		}
		bubble := style.Render(msg.Text)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, bubble)
	}
	return botStyle.Render(m.renderMarkdown(msg.Text))
}
