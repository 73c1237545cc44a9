package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderService_ParseInterval(t *testing.T) {
	s := NewReminderService()

	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"25", 25, true},
		{" 5\n", 5, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"2.5", 0, false},
		{"1e3", 0, false},
		{"ten", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		cfg, err := s.ParseInterval(tc.in)
		if !tc.ok {
			require.ErrorIs(t, err, ErrInvalidInterval, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, cfg.IntervalMinutes)
	}
}

func TestReminderService_View(t *testing.T) {
	s := NewReminderService()

	running := s.View(StateRunning, 25, s.StartedStatus(ReminderConfig{IntervalMinutes: 25}))
	assert.False(t, running.StartEnabled)
	assert.True(t, running.StopEnabled)
	assert.False(t, running.InputEnabled)
	assert.Equal(t, "Reminders started! You'll be reminded every 25 minutes.", running.Status.Message)

	stopped := s.View(StateStopped, 25, s.StoppedStatus())
	assert.True(t, stopped.StartEnabled)
	assert.False(t, stopped.StopEnabled)
	assert.True(t, stopped.InputEnabled)
}

func TestReminderConfig_Interval(t *testing.T) {
	cfg := ReminderConfig{IntervalMinutes: 3}
	assert.Equal(t, 3*time.Minute, cfg.Interval(time.Minute))
	assert.Equal(t, 3*time.Second, cfg.Interval(time.Second))
}

func TestToneAndPermissionLabels(t *testing.T) {
	assert.Equal(t, "#d32f2f", ToneError.Color())
	assert.Equal(t, "#00796b", ToneSuccess.Color())
	assert.Equal(t, "#555555", ToneNeutral.Color())

	for _, p := range []Permission{PermissionUndetermined, PermissionGranted, PermissionDenied} {
		assert.Equal(t, p, ParsePermission(p.String()))
	}
	assert.Equal(t, "running", StateRunning.String())
}
