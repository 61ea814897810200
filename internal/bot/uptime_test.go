package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 seconds"},
		{400 * time.Millisecond, "0 seconds"},
		{time.Second, "1 second"},
		{61 * time.Second, "1 minute and 1 second"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "2 hours, 3 minutes, and 4 seconds"},
		{8 * 24 * time.Hour, "1 week and 1 day"},
		{-90 * time.Second, "1 minute and 30 seconds"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, humanDuration(tt.in), "duration %s", tt.in)
	}
}
