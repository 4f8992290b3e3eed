// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang         string
	SnippetDir   string
	BlockOnError int
	Targeted     bool
	SnippetFile  string
	QueueFiles   []string
}

// TimeFilter selects a window over the practice history.
type TimeFilter string

// Supported time filters.
const (
	Filter24H TimeFilter = "24h"
	Filter7D  TimeFilter = "7d"
	Filter30D TimeFilter = "30d"
	FilterAll TimeFilter = "all"
)

// ParseTimeFilter validates a filter string. The empty string maps to
// FilterAll.
func ParseTimeFilter(s string) (TimeFilter, bool) {
	switch TimeFilter(s) {
	case Filter24H, Filter7D, Filter30D, FilterAll:
		return TimeFilter(s), true
	case "":
		return FilterAll, true
	}
	return FilterAll, false
}

// IntentKind tags the flavor of a practice session.
type IntentKind int

// Session intent variants.
const (
	IntentDefault IntentKind = iota
	IntentTargeted
	IntentQueue
)

// Intent describes what the next session should practice. The session
// engine is intent-agnostic; the trainer consumes this uniformly.
type Intent struct {
	Kind       IntentKind
	WeakKeys   []string
	QueueFiles []string
	QueueIndex int
}

// PracticeStats captures one finished or early-exited session. Records
// are immutable once created and live in the history log in
// chronological order.
type PracticeStats struct {
	WPM        float64
	Accuracy   float64
	Errors     int
	Lang       string
	Timestamp  time.Time
	DurationS  int
	LinesTyped int
	ErrorMap   map[string]int
	AttemptMap map[string]int
	EarlyExit  bool
}

// Goals holds the user-configured targets.
type Goals struct {
	WPMGoal         float64
	AccuracyGoal    float64
	TimeGoalMinutes float64
}

// DefaultGoals returns the targets used before the user edits anything.
func DefaultGoals() Goals {
	return Goals{WPMGoal: 40, AccuracyGoal: 95, TimeGoalMinutes: 15}
}
