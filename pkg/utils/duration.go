package utils

import (
	"fmt"
	"time"
)

// FormatMinSec renders a duration as "3m 42s", truncated to whole seconds.
// Negative durations are clamped to zero.
func FormatMinSec(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}
