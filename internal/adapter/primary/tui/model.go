package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"drink-reminder/internal/domain"
	"drink-reminder/internal/usecase"
)

var (
	titleStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00796b"))
	buttonStyle         = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#00796b"))
	disabledButtonStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#eceff1")).Background(lipgloss.Color("#b0bec5"))
	alertStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#d32f2f")).Padding(0, 1)
	helpStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")).Italic(true)
)

const refreshInterval = time.Second

type refreshMsg time.Time

type remindDoneMsg struct{ err error }

// Model is the bubbletea model for the terminal UI.
type Model struct {
	ctx   context.Context
	uc    usecase.ReminderUseCase
	input textinput.Model
	view  domain.StatusView
	// alerts are shown one at a time, oldest first.
	alerts []alertMsg
}

// New builds the model from the controller's current state.
func New(ctx context.Context, uc usecase.ReminderUseCase) Model {
	ti := textinput.New()
	ti.Placeholder = "30"
	ti.CharLimit = 4
	ti.Width = 6
	ti.Prompt = ""
	ti.Focus()

	m := Model{ctx: ctx, uc: uc, input: ti}
	m.refresh()
	if m.view.IntervalMinutes > 0 {
		m.input.SetValue(strconv.Itoa(m.view.IntervalMinutes))
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, refresh())
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m *Model) refresh() {
	m.view = m.uc.Snapshot()
	if m.view.InputEnabled {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.refresh()
		return m, refresh()

	case remindDoneMsg:
		m.refresh()
		return m, nil

	case alertMsg:
		m.alerts = append(m.alerts, msg)
		return m, nil

	case tea.KeyMsg:
		if len(m.alerts) > 0 {
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
				close(m.alerts[0].ack)
				m.alerts = m.alerts[1:]
			case tea.KeyCtrlC:
				for _, a := range m.alerts {
					close(a.ack)
				}
				m.alerts = nil
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.view.StartEnabled {
				_ = m.uc.StartInput(m.ctx, m.input.Value())
			}
			m.refresh()
			return m, nil
		case tea.KeyCtrlX:
			if m.view.StopEnabled {
				_ = m.uc.Stop(m.ctx)
			}
			m.refresh()
			return m, nil
		case tea.KeyCtrlR:
			ctx, uc := m.ctx, m.uc
			return m, func() tea.Msg {
				return remindDoneMsg{err: uc.RemindNow(ctx)}
			}
		case tea.KeySpace:
			return m, nil
		case tea.KeyRunes:
			if !digitsOnly(msg.Runes) {
				return m, nil
			}
		}

		if !m.view.InputEnabled {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func digitsOnly(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("💧 Drink Reminder"))
	b.WriteString("\n\n")
	b.WriteString("Remind me every ")
	b.WriteString(m.input.View())
	b.WriteString(" minutes\n\n")

	b.WriteString(button("Start", m.view.StartEnabled))
	b.WriteString("  ")
	b.WriteString(button("Stop", m.view.StopEnabled))
	b.WriteString("\n\n")

	if m.view.Status.Message != "" {
		status := lipgloss.NewStyle().Foreground(lipgloss.Color(m.view.Status.Tone.Color()))
		b.WriteString(status.Render(m.view.Status.Message))
		b.WriteString("\n")
	}
	if !m.view.LastReminder.IsZero() {
		b.WriteString(helpStyle.Render("last reminder " + m.view.LastReminder.Format("15:04:05")))
		b.WriteString("\n")
	}
	if len(m.alerts) > 0 {
		text := m.alerts[0].text + "\n\npress enter to dismiss"
		if n := len(m.alerts) - 1; n > 0 {
			text += fmt.Sprintf(" (%d more)", n)
		}
		b.WriteString("\n")
		b.WriteString(alertStyle.Render(text))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter start • ctrl+x stop • ctrl+r remind now • esc quit"))
	b.WriteString("\n")
	return b.String()
}

func button(label string, enabled bool) string {
	if enabled {
		return buttonStyle.Render(label)
	}
	return disabledButtonStyle.Render(label)
}
