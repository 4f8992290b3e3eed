package stats

import (
	"testing"
	"time"

	"github.com/keydrill-dev/keydrill/internal/model"
)

func sessionAt(ts time.Time, lang string, wpm float64, durationS int) model.PracticeStats {
	return model.PracticeStats{
		WPM:       wpm,
		Accuracy:  90,
		Lang:      lang,
		Timestamp: ts,
		DurationS: durationS,
	}
}

func TestFilterByWindow24h(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	var history []model.PracticeStats
	// 7 sessions spread across 10 days, 3 inside the last 24 hours,
	// deliberately appended out of order to exercise the re-sort.
	inside := []time.Time{
		now.Add(-2 * time.Hour),
		now.Add(-23 * time.Hour),
		now.Add(-30 * time.Minute),
	}
	outside := []time.Time{
		now.AddDate(0, 0, -9),
		now.AddDate(0, 0, -6),
		now.AddDate(0, 0, -3),
		now.Add(-25 * time.Hour),
	}
	for _, ts := range append(append([]time.Time{}, inside...), outside...) {
		history = append(history, sessionAt(ts, "go", 40, 60))
	}

	got := FilterByWindow(history, model.Filter24H, now)
	if len(got) != 3 {
		t.Fatalf("expected exactly 3 sessions in 24h, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Timestamp.After(got[i].Timestamp) {
			t.Fatalf("filtered set must be ascending by timestamp")
		}
	}
}

func TestFilterMonotonicInclusion(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	var history []model.PracticeStats
	for d := 0; d < 40; d++ {
		history = append(history, sessionAt(now.AddDate(0, 0, -d), "go", 40, 60))
	}

	filters := []model.TimeFilter{model.Filter24H, model.Filter7D, model.Filter30D, model.FilterAll}
	var prev map[time.Time]struct{}
	for _, f := range filters {
		got := FilterByWindow(history, f, now)
		members := map[time.Time]struct{}{}
		for _, s := range got {
			members[s.Timestamp] = struct{}{}
		}
		for ts := range prev {
			if _, ok := members[ts]; !ok {
				t.Fatalf("filter %s must include every member of the narrower window", f)
			}
		}
		prev = members
	}
	if got := FilterByWindow(history, model.FilterAll, now); len(got) != len(history) {
		t.Fatalf("all filter must be unbounded, got %d of %d", len(got), len(history))
	}
}

func TestFilter7DIsCalendarAligned(t *testing.T) {
	now := time.Date(2026, 8, 27, 1, 0, 0, 0, time.UTC)
	// 23:00 six calendar days ago is more than 6*24h away from a 01:00
	// "now" but still inside a calendar-aligned 7 day window.
	edge := time.Date(2026, 8, 21, 23, 0, 0, 0, time.UTC)
	history := []model.PracticeStats{sessionAt(edge, "go", 40, 60)}
	if got := FilterByWindow(history, model.Filter7D, now); len(got) != 1 {
		t.Fatalf("calendar-aligned 7d window must include the edge session")
	}
	before := time.Date(2026, 8, 20, 23, 59, 0, 0, time.UTC)
	history = []model.PracticeStats{sessionAt(before, "go", 40, 60)}
	if got := FilterByWindow(history, model.Filter7D, now); len(got) != 0 {
		t.Fatalf("session on the 8th day back must be excluded")
	}
}

func TestOverallEmpty(t *testing.T) {
	overall := Overall(nil)
	if overall != (OverallStats{}) {
		t.Fatalf("empty history must yield all-zero stats, got %+v", overall)
	}
	if focus := LanguageFocus(nil); len(focus) != 0 {
		t.Fatalf("empty history must yield empty focus, got %v", focus)
	}
}

func TestOverallAggregation(t *testing.T) {
	now := time.Now()
	history := []model.PracticeStats{
		{WPM: 40, Accuracy: 90, Errors: 2, DurationS: 60, LinesTyped: 3, Timestamp: now},
		{WPM: 50, Accuracy: 95, Errors: 1, DurationS: 120, LinesTyped: 5, Timestamp: now},
		{WPM: 63, Accuracy: 97, Errors: 0, DurationS: 30, LinesTyped: 1, Timestamp: now},
	}
	overall := Overall(history)
	if overall.Sessions != 3 {
		t.Fatalf("expected 3 sessions, got %d", overall.Sessions)
	}
	if overall.AvgWPM != 51 {
		t.Fatalf("expected rounded avg 51, got %d", overall.AvgWPM)
	}
	if overall.BestWPM != 63 {
		t.Fatalf("expected best 63, got %v", overall.BestWPM)
	}
	if overall.AvgAccuracy != 94 {
		t.Fatalf("expected avg accuracy 94, got %v", overall.AvgAccuracy)
	}
	if overall.TotalDuration != 210 || overall.TotalLines != 9 || overall.TotalErrors != 3 {
		t.Fatalf("unexpected totals: %+v", overall)
	}
}

func TestLanguageFocus(t *testing.T) {
	now := time.Now()
	history := []model.PracticeStats{
		sessionAt(now, "go", 40, 300),
		sessionAt(now, "python", 40, 100),
		sessionAt(now, "go", 40, 100),
	}
	focus := LanguageFocus(history)
	if len(focus) != 2 {
		t.Fatalf("expected 2 languages, got %d", len(focus))
	}
	if focus[0].Lang != "go" || focus[0].DurationS != 400 {
		t.Fatalf("expected go first with 400s, got %+v", focus[0])
	}
	if focus[0].Share != 80 || focus[1].Share != 20 {
		t.Fatalf("unexpected shares: %+v", focus)
	}
}

func TestDailyMinutes(t *testing.T) {
	day1 := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	history := []model.PracticeStats{
		sessionAt(day1, "go", 40, 600),
		sessionAt(day1, "go", 40, 600),
		sessionAt(day2, "go", 40, 300),
	}
	// 25 minutes over 2 practice days.
	if got := DailyMinutes(history); got != 12.5 {
		t.Fatalf("expected 12.5 daily minutes, got %v", got)
	}
	if got := DailyMinutes(nil); got != 0 {
		t.Fatalf("empty history must yield 0, got %v", got)
	}
}
