package logging

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetVerbosity(t *testing.T) {
	t.Cleanup(func() { SetVerbosity(0) })

	cases := []struct {
		count int
		want  string
	}{
		{-1, "warn"},
		{0, "warn"},
		{1, "info"},
		{2, "debug"},
		{3, "trace"},
		{9, "trace"},
	}
	for _, tc := range cases {
		SetVerbosity(tc.count)
		assert.Equal(t, tc.want, LevelName(), "count %d", tc.count)
	}
	assert.Equal(t, 4, Verbosity())
}

func TestParseLevel(t *testing.T) {
	lvl, count, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, lvl)
	assert.Equal(t, 2, count)

	_, _, err = ParseLevel("loud")
	require.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbosity(0)
		SetOutput(os.Stderr)
	})

	SetVerbosity(0)
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden 1")
	assert.Contains(t, buf.String(), "shown 2")

	buf.Reset()
	SetVerbosity(4)
	Tracef("deep")
	assert.Contains(t, buf.String(), "level=TRACE")
}

func TestFieldKeys(t *testing.T) {
	assert.Equal(t, KeyInterval, Interval(5).Key)
	assert.Equal(t, "5", Interval(5).Value.String())
	assert.Equal(t, "boom", Err(errors.New("boom")).Value.String())
	assert.Equal(t, "", Err(nil).Value.String())
	assert.Equal(t, KeyChannel, Channel("native").Key)
	assert.Equal(t, KeyState, State("running").Key)
}
