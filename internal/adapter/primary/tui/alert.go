package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"drink-reminder/internal/domain"
)

type alertMsg struct {
	text string
	ack  chan struct{}
}

// Alerter implements domain.Alerter as a modal box inside the terminal UI.
// Alert blocks until the box is dismissed.
type Alerter struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewAlerter returns an alerter that must be attached to a program before use.
func NewAlerter() *Alerter {
	return &Alerter{}
}

// Attach routes alerts to p.
func (a *Alerter) Attach(p *tea.Program) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.send = p.Send
}

func (a *Alerter) Alert(ctx context.Context, message string) error {
	a.mu.Lock()
	send := a.send
	a.mu.Unlock()
	if send == nil {
		return errors.New("terminal UI is not running")
	}

	ack := make(chan struct{})
	send(alertMsg{text: message, ack: ack})
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ domain.Alerter = (*Alerter)(nil)
