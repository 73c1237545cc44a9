package domain

import "errors"

var (
	// ErrInvalidInterval indicates a non-integer or non-positive interval.
	ErrInvalidInterval = errors.New("interval must be a positive whole number of minutes")

	// ErrPermissionDenied indicates the notification permission was refused.
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrPlayback indicates the reminder sound could not be played.
	ErrPlayback = errors.New("sound playback failed")

	// ErrUnsupportedEnvironment indicates no notification channel is available.
	ErrUnsupportedEnvironment = errors.New("notifications are not supported in this environment")
)
