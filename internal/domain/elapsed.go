package domain

import (
	"fmt"
	"time"
)

// FormatElapsed renders d as zero-padded HH:MM:SS. Sub-second remainders are
// dropped and hours keep counting past 24. Negative durations render as zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}
