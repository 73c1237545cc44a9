package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"drink-reminder/internal/domain"
)

// Runner executes an external command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// DesktopNotifier implements domain.Notifier with the platform's notification
// command: notify-send on Linux, osascript on macOS.
// This is a secondary adapter.
type DesktopNotifier struct {
	goos        string
	lookPath    func(string) (string, error)
	run         Runner
	permissions *PermissionStore
}

// NewDesktopNotifier creates a notifier for the current platform.
func NewDesktopNotifier(permissions *PermissionStore) *DesktopNotifier {
	return &DesktopNotifier{
		goos:        runtime.GOOS,
		lookPath:    exec.LookPath,
		run:         execRunner,
		permissions: permissions,
	}
}

func (d *DesktopNotifier) command() string {
	switch d.goos {
	case "darwin":
		return "osascript"
	case "linux", "freebsd", "openbsd", "netbsd":
		return "notify-send"
	default:
		return ""
	}
}

// Available reports whether the notification command exists.
func (d *DesktopNotifier) Available() bool {
	name := d.command()
	if name == "" {
		return false
	}
	_, err := d.lookPath(name)
	return err == nil
}

// Permission returns the stored decision.
func (d *DesktopNotifier) Permission() domain.Permission {
	return d.permissions.Current()
}

// RequestPermission asks the user (or the configured policy) and stores the answer.
func (d *DesktopNotifier) RequestPermission(ctx context.Context) (domain.Permission, error) {
	return d.permissions.Request(ctx)
}

// Notify shows n as a desktop notification.
func (d *DesktopNotifier) Notify(ctx context.Context, n domain.Notification) error {
	name := d.command()
	if name == "" {
		return domain.ErrUnsupportedEnvironment
	}

	var args []string
	switch name {
	case "osascript":
		script := fmt.Sprintf("display notification %s with title %s", appleQuote(n.Body), appleQuote(n.Title))
		args = []string{"-e", script}
	default:
		args = []string{"--app-name=drink-reminder"}
		if n.Icon != "" {
			args = append(args, "--icon="+n.Icon)
		}
		args = append(args, n.Title, n.Body)
	}

	if output, err := d.run(ctx, name, args...); err != nil {
		return fmt.Errorf("%s failed: %w, output: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

var _ domain.Notifier = (*DesktopNotifier)(nil)
