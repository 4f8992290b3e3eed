// Package stats contains the pure statistics calculations: session
// metrics, cumulative key aggregation, time-windowed analytics, and
// goal tracking. Every function is total and returns zero-valued
// results for degenerate input.
package stats

import (
	"fmt"
	"math"
	"time"
)

// WPM computes words per minute from correctly typed characters, using
// the 5-characters-per-word convention. Zero duration yields 0.
func WPM(correctChars int, d time.Duration) float64 {
	minutes := d.Minutes()
	if minutes <= 0 {
		return 0
	}
	return (float64(correctChars) / 5.0) / minutes
}

// Accuracy computes the correct-keystroke percentage rounded to two
// decimal places. Zero attempts yield 0.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}

// FormatDuration renders whole seconds as "{minutes}m {seconds:02}s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm %02ds", seconds/60, seconds%60)
}
