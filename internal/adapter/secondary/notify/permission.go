package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"drink-reminder/internal/domain"
	"drink-reminder/internal/logging"
)

// Prompter asks the user whether notifications may be shown.
type Prompter interface {
	Ask(ctx context.Context) (domain.Permission, error)
}

// PermissionStore keeps the notification decision in the key-value store so
// it survives restarts, the way a browser remembers a site's permission.
type PermissionStore struct {
	kv       domain.KeyValueStore
	prompter Prompter
}

// NewPermissionStore creates a store that asks prompter when undecided.
func NewPermissionStore(kv domain.KeyValueStore, prompter Prompter) *PermissionStore {
	return &PermissionStore{kv: kv, prompter: prompter}
}

// Current returns the stored decision, Undetermined if none or unreadable.
func (p *PermissionStore) Current() domain.Permission {
	raw, ok, err := p.kv.Get(domain.KeyPermission)
	if err != nil {
		logging.Warnf("read notification permission: %v", err)
		return domain.PermissionUndetermined
	}
	if !ok {
		return domain.PermissionUndetermined
	}
	return domain.ParsePermission(raw)
}

// Request returns a stored decision as-is; otherwise it prompts and persists
// a definite answer.
func (p *PermissionStore) Request(ctx context.Context) (domain.Permission, error) {
	if current := p.Current(); current != domain.PermissionUndetermined {
		return current, nil
	}
	if p.prompter == nil {
		return domain.PermissionUndetermined, nil
	}

	perm, err := p.prompter.Ask(ctx)
	if err != nil {
		return domain.PermissionUndetermined, err
	}
	if perm == domain.PermissionUndetermined {
		return perm, nil
	}
	if err := p.Set(perm); err != nil {
		return perm, err
	}
	return perm, nil
}

// Set stores perm. Undetermined removes the decision.
func (p *PermissionStore) Set(perm domain.Permission) error {
	if perm == domain.PermissionUndetermined {
		return p.kv.Update(nil, domain.KeyPermission)
	}
	return p.kv.Update(map[string]string{domain.KeyPermission: perm.String()})
}

// StaticPrompter answers with a fixed decision; used when running headless.
type StaticPrompter struct {
	Answer domain.Permission
}

func (s StaticPrompter) Ask(context.Context) (domain.Permission, error) {
	return s.Answer, nil
}

// TerminalPrompter asks on the controlling terminal with readline.
type TerminalPrompter struct {
	Stdin  io.ReadCloser
	Stdout io.Writer
}

// NewTerminalPrompter returns a prompter on the process's stdio.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{Stdin: os.Stdin, Stdout: os.Stdout}
}

// Interactive reports whether stdin is a terminal.
func Interactive() bool {
	return readline.IsTerminal(int(os.Stdin.Fd()))
}

// Ask prompts until it gets a yes or no. Interrupt or EOF count as no.
func (t *TerminalPrompter) Ask(ctx context.Context) (domain.Permission, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "Allow drink-reminder to show desktop notifications? [y/n] ",
		Stdin:           t.Stdin,
		Stdout:          t.Stdout,
		InterruptPrompt: "^C",
		EOFPrompt:       "n",
	})
	if err != nil {
		return domain.PermissionUndetermined, fmt.Errorf("open prompt: %w", err)
	}
	defer rl.Close()

	for {
		if err := ctx.Err(); err != nil {
			return domain.PermissionUndetermined, err
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return domain.PermissionDenied, nil
		}
		if err != nil {
			return domain.PermissionUndetermined, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return domain.PermissionGranted, nil
		case "n", "no":
			return domain.PermissionDenied, nil
		}
	}
}
