package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"drink-reminder/internal/domain"
	"drink-reminder/internal/logging"
)

// ReminderUseCase is the primary port for the reminder lifecycle.
type ReminderUseCase interface {
	Start(ctx context.Context, intervalMinutes int) error
	StartInput(ctx context.Context, text string) error
	Stop(ctx context.Context) error
	TriggerReminder(ctx context.Context) bool
	RemindNow(ctx context.Context) error
	Resume(ctx context.Context) error
	Reconcile(ctx context.Context) error
	Snapshot() domain.StatusView
	Close() error
}

// Recorder receives lifecycle events for metrics.
type Recorder interface {
	ReminderStarted(intervalMinutes int)
	ReminderStopped()
	ReminderEmitted(channel string)
	PlaybackFailed()
}

type nopRecorder struct{}

func (nopRecorder) ReminderStarted(int)    {}
func (nopRecorder) ReminderStopped()       {}
func (nopRecorder) ReminderEmitted(string) {}
func (nopRecorder) PlaybackFailed()        {}

// Options tunes the controller. Zero values select defaults.
type Options struct {
	// Unit is the length of one "minute"; shortened in demos and tests.
	Unit         time.Duration
	Notification domain.Notification
	Sound        domain.SoundPlayer
	Recorder     Recorder
	Now          func() time.Time
}

// Emission channels reported to the Recorder.
const (
	ChannelNative   = "native"
	ChannelFallback = "fallback"
)

// reminderController implements ReminderUseCase.
// All state transitions happen under mu; emission runs outside it.
type reminderController struct {
	store     domain.SettingsStore
	scheduler domain.Scheduler
	notifier  domain.Notifier
	alerter   domain.Alerter
	service   *domain.ReminderService
	opts      Options

	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu           sync.Mutex
	state        domain.ReminderState
	minutes      int
	status       domain.Status
	handle       domain.TriggerHandle
	generation   uint64
	closed       bool
	startedAt    time.Time
	lastReminder time.Time
}

// NewReminderUseCase creates the reminder controller.
// Dependencies are injected (secondary ports). The controller starts Stopped;
// call Resume to restore a previous session.
func NewReminderUseCase(
	store domain.SettingsStore,
	scheduler domain.Scheduler,
	notifier domain.Notifier,
	alerter domain.Alerter,
	opts Options,
) (ReminderUseCase, error) {
	if store == nil || scheduler == nil || notifier == nil || alerter == nil {
		return nil, errors.New("store, scheduler, notifier and alerter are required")
	}
	if opts.Unit <= 0 {
		opts.Unit = time.Minute
	}
	if opts.Notification.Title == "" {
		opts.Notification = domain.DefaultNotification()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &reminderController{
		store:      store,
		scheduler:  scheduler,
		notifier:   notifier,
		alerter:    alerter,
		service:    domain.NewReminderService(),
		opts:       opts,
		baseCtx:    ctx,
		cancelBase: cancel,
		state:      domain.StateStopped,
	}, nil
}

// Start validates the interval and (re)schedules the periodic trigger.
func (c *reminderController) Start(ctx context.Context, intervalMinutes int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked(intervalMinutes)
}

// StartInput parses raw text from a UI field and starts with it.
func (c *reminderController) StartInput(ctx context.Context, text string) error {
	cfg, err := c.service.ParseInterval(text)
	if err != nil {
		c.mu.Lock()
		c.status = c.service.ErrorStatus(domain.MsgInvalidInterval)
		c.mu.Unlock()
		return err
	}
	return c.Start(ctx, cfg.IntervalMinutes)
}

func (c *reminderController) startLocked(minutes int) error {
	cfg, err := c.service.Validate(minutes)
	if err != nil {
		c.status = c.service.ErrorStatus(domain.MsgInvalidInterval)
		logging.Debugf("rejected interval %d: %v", minutes, err)
		return err
	}

	c.cancelLocked()
	gen := c.generation
	handle, err := c.scheduler.Every(cfg.Interval(c.opts.Unit), func() { c.tick(gen) })
	if err != nil {
		c.state = domain.StateStopped
		c.status = c.service.ErrorStatus(domain.MsgScheduleUnavailable)
		if clearErr := c.store.ClearRunning(); clearErr != nil {
			logging.Warnf("clear running flag: %v", clearErr)
		}
		return fmt.Errorf("schedule reminder: %w", err)
	}
	c.handle = handle

	if err := c.store.Save(cfg.IntervalMinutes, true); err != nil {
		logging.Warnf("persist settings: %v", err)
	}

	c.state = domain.StateRunning
	c.minutes = cfg.IntervalMinutes
	c.startedAt = c.opts.Now()
	c.status = c.service.StartedStatus(cfg)
	c.opts.Recorder.ReminderStarted(cfg.IntervalMinutes)
	logging.Logger().Info("reminders started",
		logging.Interval(cfg.IntervalMinutes),
		logging.Trigger(handle.ID()))
	return nil
}

// Stop cancels the trigger and clears the running flag. Safe to repeat.
func (c *reminderController) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	return nil
}

func (c *reminderController) stopLocked() {
	wasRunning := c.state == domain.StateRunning
	c.cancelLocked()
	if err := c.store.ClearRunning(); err != nil {
		logging.Warnf("clear running flag: %v", err)
	}
	c.state = domain.StateStopped
	c.startedAt = time.Time{}
	c.status = c.service.StoppedStatus()
	if wasRunning {
		c.opts.Recorder.ReminderStopped()
		logging.Infof("reminders stopped")
	}
}

// cancelLocked drops the current trigger. Bumping the generation makes any
// tick already in flight for the old trigger a no-op.
func (c *reminderController) cancelLocked() {
	c.generation++
	if c.handle == nil {
		return
	}
	if err := c.handle.Cancel(); err != nil {
		logging.Warnf("cancel trigger %s: %v", c.handle.ID(), err)
	}
	c.handle = nil
}

func (c *reminderController) tick(gen uint64) {
	current := func() bool { return gen == c.generation }
	if !c.triggerIf(c.baseCtx, current) {
		logging.Tracef("ignoring stale tick (generation %d)", gen)
	}
}

// TriggerReminder emits a reminder if the controller is Running.
// It reports whether anything was emitted.
func (c *reminderController) TriggerReminder(ctx context.Context) bool {
	return c.triggerIf(ctx, func() bool { return true })
}

// triggerIf emits when Running and live, checked under mu, holds.
func (c *reminderController) triggerIf(ctx context.Context, live func() bool) bool {
	c.mu.Lock()
	ok := c.state == domain.StateRunning && live()
	c.mu.Unlock()
	if !ok {
		return false
	}
	if err := c.emit(ctx); err != nil {
		logging.Debugf("reminder degraded: %v", err)
	}
	return true
}

// RemindNow emits a reminder regardless of state.
func (c *reminderController) RemindNow(ctx context.Context) error {
	return c.emit(ctx)
}

func (c *reminderController) emit(ctx context.Context) error {
	if !c.notifier.Available() {
		c.fallback(ctx, domain.MsgFallbackReminder)
		return domain.ErrUnsupportedEnvironment
	}

	switch c.notifier.Permission() {
	case domain.PermissionGranted:
		return c.notify(ctx)
	case domain.PermissionUndetermined:
		perm, err := c.notifier.RequestPermission(ctx)
		if err != nil {
			logging.Warnf("request notification permission: %v", err)
		}
		if perm == domain.PermissionGranted {
			return c.notify(ctx)
		}
		c.fallback(ctx, domain.MsgPermissionDenied)
		return domain.ErrPermissionDenied
	default:
		c.fallback(ctx, domain.MsgFallbackReminder)
		return domain.ErrPermissionDenied
	}
}

func (c *reminderController) notify(ctx context.Context) error {
	if err := c.notifier.Notify(ctx, c.opts.Notification); err != nil {
		logging.Warnf("native notification failed: %v", err)
		c.fallback(ctx, domain.MsgFallbackReminder)
		return fmt.Errorf("send notification: %w", err)
	}
	c.markReminded(ChannelNative)

	if c.opts.Sound != nil {
		if err := c.opts.Sound.Play(ctx); err != nil {
			c.opts.Recorder.PlaybackFailed()
			logging.Logger().Warn("reminder sound",
				logging.Err(fmt.Errorf("%w: %v", domain.ErrPlayback, err)))
		}
	}
	return nil
}

func (c *reminderController) fallback(ctx context.Context, message string) {
	if err := c.alerter.Alert(ctx, message); err != nil {
		logging.Errorf("fallback alert: %v", err)
		return
	}
	c.markReminded(ChannelFallback)
}

func (c *reminderController) markReminded(channel string) {
	c.mu.Lock()
	c.lastReminder = c.opts.Now()
	c.mu.Unlock()
	c.opts.Recorder.ReminderEmitted(channel)
	logging.Logger().Debug("reminder emitted", logging.Channel(channel))
}

// Resume restores a previous session from the settings store.
func (c *reminderController) Resume(ctx context.Context) error {
	settings, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	c.mu.Lock()
	if settings.IntervalMinutes != nil {
		c.minutes = *settings.IntervalMinutes
	}
	c.mu.Unlock()

	if !settings.IsRunning() {
		return nil
	}

	if !c.notifier.Available() {
		c.revert(domain.MsgUnsupported)
		return domain.ErrUnsupportedEnvironment
	}

	perm := c.notifier.Permission()
	if perm != domain.PermissionGranted {
		perm, err = c.notifier.RequestPermission(ctx)
		if err != nil {
			logging.Warnf("request notification permission: %v", err)
		}
	}
	if perm != domain.PermissionGranted {
		c.revert(domain.MsgResumeDenied)
		return domain.ErrPermissionDenied
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked(c.minutes)
}

// revert forces Stopped and clears the running flag so the next process
// does not try to auto-start again.
func (c *reminderController) revert(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	if err := c.store.ClearRunning(); err != nil {
		logging.Warnf("clear running flag: %v", err)
	}
	c.state = domain.StateStopped
	c.startedAt = time.Time{}
	c.status = c.service.ErrorStatus(message)
	logging.Warnf("resume aborted: %s", message)
}

// Reconcile aligns the in-memory state with whatever is persisted.
func (c *reminderController) Reconcile(ctx context.Context) error {
	settings, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	logging.Logger().Debug("reconciling settings",
		logging.State(c.state.String()),
		"running", settings.IsRunning())

	if settings.IntervalMinutes != nil && c.state == domain.StateStopped {
		c.minutes = *settings.IntervalMinutes
	}

	switch {
	case settings.IsRunning():
		if settings.IntervalMinutes == nil {
			return nil
		}
		m := *settings.IntervalMinutes
		if c.state == domain.StateRunning && c.minutes == m {
			return nil
		}
		return c.startLocked(m)
	case c.state == domain.StateRunning:
		c.stopLocked()
	}
	return nil
}

// Snapshot returns the current state for rendering.
func (c *reminderController) Snapshot() domain.StatusView {
	c.mu.Lock()
	defer c.mu.Unlock()
	view := c.service.View(c.state, c.minutes, c.status)
	view.StartedAt = c.startedAt
	view.LastReminder = c.lastReminder
	return view
}

// Close cancels the trigger without touching persistence, so the next
// process resumes where this one left off. Later Reconcile calls are ignored.
func (c *reminderController) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cancelLocked()
	c.cancelBase()
	c.state = domain.StateStopped
	return nil
}
