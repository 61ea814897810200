package bot

import (
	"fmt"
	"strings"
	"time"
)

// humanDuration renders d as "2 days, 3 hours, and 1 second". Zero is
// "0 seconds".
func humanDuration(d time.Duration) string {
	secs := int64(d.Round(time.Second) / time.Second)
	if secs < 0 {
		secs = -secs
	}
	if secs == 0 {
		return "0 seconds"
	}

	units := []struct {
		name string
		size int64
	}{
		{"week", 7 * 24 * 3600},
		{"day", 24 * 3600},
		{"hour", 3600},
		{"minute", 60},
		{"second", 1},
	}

	var parts []string
	for _, u := range units {
		n := secs / u.size
		secs %= u.size
		if n == 0 {
			continue
		}
		s := fmt.Sprintf("%d %s", n, u.name)
		if n != 1 {
			s += "s"
		}
		parts = append(parts, s)
	}

	if len(parts) > 2 {
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
	return strings.Join(parts, " and ")
}
