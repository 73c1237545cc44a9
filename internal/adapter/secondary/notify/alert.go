package notify

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"drink-reminder/internal/domain"
)

// TerminalAlerter implements domain.Alerter by ringing the terminal bell and
// printing the message. With an input reader attached it blocks until the
// user presses Enter, like a modal alert.
type TerminalAlerter struct {
	mu    sync.Mutex
	out   io.Writer
	in    *bufio.Reader
	once  sync.Once
	lines chan error
}

// NewTerminalAlerter writes to out; in may be nil for non-blocking alerts.
func NewTerminalAlerter(out io.Writer, in io.Reader) *TerminalAlerter {
	a := &TerminalAlerter{out: out}
	if in != nil {
		a.in = bufio.NewReader(in)
		a.lines = make(chan error)
	}
	return a
}

// readLines is the only reader of in. Each line, or the final error, is
// handed to whichever Alert is waiting.
func (a *TerminalAlerter) readLines() {
	for {
		_, err := a.in.ReadString('\n')
		a.lines <- err
		if err != nil {
			close(a.lines)
			return
		}
	}
}

// Alert shows message and waits for acknowledgement when interactive.
func (a *TerminalAlerter) Alert(ctx context.Context, message string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := fmt.Fprintf(a.out, "\a%s\n", message); err != nil {
		return fmt.Errorf("write alert: %w", err)
	}
	if a.in == nil {
		return nil
	}
	if _, err := fmt.Fprint(a.out, "Press Enter to dismiss."); err != nil {
		return fmt.Errorf("write alert: %w", err)
	}

	a.once.Do(func() { go a.readLines() })
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err, ok := <-a.lines:
		if !ok || err == nil || errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read acknowledgement: %w", err)
	}
}

var _ domain.Alerter = (*TerminalAlerter)(nil)
