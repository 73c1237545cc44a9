package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Status messages shown to the user.
const (
	MsgInvalidInterval     = "Please enter a valid reminder interval (minutes)."
	MsgStopped             = "Reminders stopped. You can start them again anytime!"
	MsgResumeDenied        = "Notification permission denied. Reminders cannot auto-start."
	MsgUnsupported         = "Notifications are not supported in this environment."
	MsgPermissionDenied    = "Notification permission denied. Reminders may not show."
	MsgFallbackReminder    = "💧 Time to Drink Water! Stay hydrated!"
	MsgScheduleUnavailable = "Could not schedule reminders."
)

// ReminderService provides pure domain logic for the reminder lifecycle.
type ReminderService struct{}

// NewReminderService creates a new reminder service.
func NewReminderService() *ReminderService {
	return &ReminderService{}
}

// Validate checks that minutes is a positive interval.
func (s *ReminderService) Validate(minutes int) (ReminderConfig, error) {
	if minutes <= 0 {
		return ReminderConfig{}, fmt.Errorf("%w: got %d", ErrInvalidInterval, minutes)
	}
	return ReminderConfig{IntervalMinutes: minutes}, nil
}

// ParseInterval parses raw user input. Only base-10 integers are accepted.
func (s *ReminderService) ParseInterval(text string) (ReminderConfig, error) {
	trimmed := strings.TrimSpace(text)
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return ReminderConfig{}, fmt.Errorf("%w: %q", ErrInvalidInterval, text)
	}
	return s.Validate(n)
}

// StartedStatus is reported after a successful start.
func (s *ReminderService) StartedStatus(cfg ReminderConfig) Status {
	return Status{
		Message: fmt.Sprintf("Reminders started! You'll be reminded every %d minutes.", cfg.IntervalMinutes),
		Tone:    ToneSuccess,
	}
}

// StoppedStatus is reported after stop.
func (s *ReminderService) StoppedStatus() Status {
	return Status{Message: MsgStopped, Tone: ToneNeutral}
}

// ErrorStatus wraps message with the error tone.
func (s *ReminderService) ErrorStatus(message string) Status {
	return Status{Message: message, Tone: ToneError}
}

// View derives the control layout from state.
func (s *ReminderService) View(state ReminderState, minutes int, status Status) StatusView {
	running := state == StateRunning
	return StatusView{
		State:           state,
		IntervalMinutes: minutes,
		Status:          status,
		StartEnabled:    !running,
		StopEnabled:     running,
		InputEnabled:    !running,
	}
}
