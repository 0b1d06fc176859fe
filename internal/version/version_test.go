package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoDefault(t *testing.T) {
	info := Info()
	assert.Contains(t, info, "dugout")
	assert.Contains(t, info, Version)
	assert.Contains(t, info, runtime.GOOS)
}

func TestInfoWithCustomValues(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	t.Cleanup(func() {
		Version, Commit, Date = origVersion, origCommit, origDate
	})

	Version = "0.4.0"
	Commit = "deadbeefcafe"
	Date = "2026-10-01"

	info := Info()
	assert.Contains(t, info, "0.4.0")
	assert.Contains(t, info, "deadbee")
	assert.NotContains(t, info, "deadbeefcafe")
	assert.Equal(t, "dugout/0.4.0", UserAgent())
}

func TestShort(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"abcdefghij", "abcdefg"},
		{"abc", "abc"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, short(tt.input))
		})
	}
}
