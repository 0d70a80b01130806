package draft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecide_Boundaries(t *testing.T) {
	const threshold = 30 * time.Second

	tests := []struct {
		name       string
		elapsed    time.Duration
		hasDraft   bool
		meaningful bool
		want       Decision
	}{
		{"29.9s meaningful", 29900 * time.Millisecond, true, true, AutoResume},
		{"29.9s not meaningful", 29900 * time.Millisecond, true, false, AutoResume},
		{"exactly 30s meaningful", 30 * time.Second, true, true, PromptUser},
		{"30.1s meaningful", 30100 * time.Millisecond, true, true, PromptUser},
		{"exactly 30s not meaningful", 30 * time.Second, true, false, FreshStart},
		{"hours later meaningful", 4 * time.Hour, true, true, PromptUser},
		{"no draft at all", 10 * time.Second, false, false, FreshStart},
		{"no draft, long elapsed", 4 * time.Hour, false, true, FreshStart},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.elapsed, tc.hasDraft, tc.meaningful, threshold)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestElapsed(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 45, 0, time.UTC)
	opened := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 45*time.Second, Elapsed(opened, true, now))

	// an absent marker behaves as infinitely long ago
	assert.Greater(t, Elapsed(time.Time{}, false, now), 100*365*24*time.Hour)
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "auto-resume", AutoResume.String())
	assert.Equal(t, "prompt-user", PromptUser.String())
	assert.Equal(t, "fresh-start", FreshStart.String())
}
