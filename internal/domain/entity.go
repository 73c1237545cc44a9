package domain

import "time"

// ReminderState is the lifecycle state of the reminder controller.
type ReminderState int

const (
	StateStopped ReminderState = iota
	StateRunning
)

func (s ReminderState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// ReminderConfig is a validated reminder cadence.
type ReminderConfig struct {
	IntervalMinutes int
}

// Interval converts the configured minutes using unit as the length of one minute.
func (c ReminderConfig) Interval(unit time.Duration) time.Duration {
	return time.Duration(c.IntervalMinutes) * unit
}

// PersistedSettings mirrors what the key-value store holds. Absent keys are nil.
type PersistedSettings struct {
	IntervalMinutes *int
	Running         *bool
}

// IsRunning reports whether the running flag is present and true.
func (p PersistedSettings) IsRunning() bool {
	return p.Running != nil && *p.Running
}

// Tone is the colour cue attached to a status message.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneSuccess
	ToneError
)

func (t Tone) String() string {
	switch t {
	case ToneSuccess:
		return "success"
	case ToneError:
		return "error"
	default:
		return "neutral"
	}
}

// Color returns the hex colour used by the UIs for this tone.
func (t Tone) Color() string {
	switch t {
	case ToneSuccess:
		return "#00796b"
	case ToneError:
		return "#d32f2f"
	default:
		return "#555555"
	}
}

// Status is the result of the last operation, shown in the status region.
type Status struct {
	Message string
	Tone    Tone
}

// StatusView is everything a UI needs to render the controls.
type StatusView struct {
	State           ReminderState
	IntervalMinutes int
	Status          Status
	StartEnabled    bool
	StopEnabled     bool
	InputEnabled    bool
	StartedAt       time.Time
	LastReminder    time.Time
}

// Permission is the notification permission as reported by the channel.
type Permission int

const (
	PermissionUndetermined Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "undetermined"
	}
}

// ParsePermission maps a stored label back to a Permission.
func ParsePermission(s string) Permission {
	switch s {
	case "granted":
		return PermissionGranted
	case "denied":
		return PermissionDenied
	default:
		return PermissionUndetermined
	}
}

// Notification is the content of a native reminder.
type Notification struct {
	Title string
	Body  string
	Icon  string
}

// DefaultNotification returns the stock reminder content.
func DefaultNotification() Notification {
	return Notification{
		Title: "💧 Time to Drink Water!",
		Body:  "Stay hydrated for better health and focus!",
	}
}
