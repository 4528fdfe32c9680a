// Package ui keeps short-lived notifications shown under the current view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const notificationDuration = 3 * time.Second

var faint = lipgloss.NewStyle().Faint(true)

// Model holds the notification on screen, if any.
type Model struct {
	notification string
}

// NotificationMsg shows its text under the view.
type NotificationMsg string

// ClearNotificationMsg removes the notification.
type ClearNotificationMsg struct {
	text string
}

// Notify returns a command that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg(text)
	}
}

func clearAfter(text string) tea.Cmd {
	return tea.Tick(notificationDuration, func(time.Time) tea.Msg {
		return ClearNotificationMsg{text: text}
	})
}

// Update shows notifications and clears them after a while. A newer notification is
// not cleared by the timer of an older one.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.notification = string(msg)
		return clearAfter(m.notification)
	case ClearNotificationMsg:
		if msg.text == m.notification {
			m.notification = ""
		}
	}
	return nil
}

// Notification returns the text on screen.
func (m *Model) Notification() string {
	return m.notification
}

// View appends the notification to the last line of mainContent.
func (m *Model) View(mainContent string) string {
	if m.notification == "" {
		return mainContent
	}

	lines := strings.Split(mainContent, "\n")
	lines[len(lines)-1] += "  " + faint.Render(m.notification)
	return strings.Join(lines, "\n")
}
