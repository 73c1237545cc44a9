package logging

import "log/slog"

// Canonical attribute keys.
const (
	KeyInterval  = "interval_minutes"
	KeyState     = "state"
	KeyTrigger   = "trigger_id"
	KeyChannel   = "channel"
	KeyPath      = "path"
	KeyRequestID = "request_id"
	KeyError     = "error"
)

func Interval(minutes int) slog.Attr { return slog.Int(KeyInterval, minutes) }
func State(s string) slog.Attr       { return slog.String(KeyState, s) }
func Trigger(id string) slog.Attr    { return slog.String(KeyTrigger, id) }
func Channel(c string) slog.Attr     { return slog.String(KeyChannel, c) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func RequestID(id string) slog.Attr  { return slog.String(KeyRequestID, id) }
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
