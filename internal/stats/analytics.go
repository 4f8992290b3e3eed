package stats

import (
	"math"
	"sort"
	"time"

	"github.com/keydrill-dev/keydrill/internal/model"
)

// OverallStats summarizes a filtered slice of the history log. All
// fields are zero when the slice is empty.
type OverallStats struct {
	AvgWPM        int
	AvgAccuracy   float64
	TotalDuration int
	Sessions      int
	BestWPM       float64
	TotalLines    int
	TotalErrors   int
}

// LanguageShare is one language's slice of total practice time.
type LanguageShare struct {
	Lang      string
	DurationS int
	Share     float64
}

// FilterByWindow returns the history records inside the given window,
// sorted ascending by timestamp. The 24h window rolls back from now;
// 7d and 30d are calendar-day aligned and include today; all is
// unbounded. Wider windows are strict supersets of narrower ones.
func FilterByWindow(history []model.PracticeStats, filter model.TimeFilter, now time.Time) []model.PracticeStats {
	cutoff, bounded := windowStart(filter, now)
	out := make([]model.PracticeStats, 0, len(history))
	for _, rec := range history {
		if bounded && rec.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, rec)
	}
	// The store keeps records ordered, but imported logs only promise
	// structural validity, so re-sort defensively.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func windowStart(filter model.TimeFilter, now time.Time) (time.Time, bool) {
	switch filter {
	case model.Filter24H:
		return now.Add(-24 * time.Hour), true
	case model.Filter7D:
		return startOfDay(now).AddDate(0, 0, -6), true
	case model.Filter30D:
		return startOfDay(now).AddDate(0, 0, -29), true
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Overall computes aggregate statistics for an already-filtered set.
func Overall(sessions []model.PracticeStats) OverallStats {
	if len(sessions) == 0 {
		return OverallStats{}
	}
	var out OverallStats
	var wpmSum, accSum float64
	for _, s := range sessions {
		wpmSum += s.WPM
		accSum += s.Accuracy
		out.TotalDuration += s.DurationS
		out.TotalLines += s.LinesTyped
		out.TotalErrors += s.Errors
		if s.WPM > out.BestWPM {
			out.BestWPM = s.WPM
		}
	}
	count := float64(len(sessions))
	out.Sessions = len(sessions)
	out.AvgWPM = int(math.Round(wpmSum / count))
	out.AvgAccuracy = math.Round(accSum/count*100) / 100
	return out
}

// LanguageFocus sums practice time per language for a relative-share
// breakdown, ordered by descending duration. Empty input yields an
// empty slice.
func LanguageFocus(sessions []model.PracticeStats) []LanguageShare {
	totals := map[string]int{}
	order := []string{}
	grand := 0
	for _, s := range sessions {
		if _, seen := totals[s.Lang]; !seen {
			order = append(order, s.Lang)
		}
		totals[s.Lang] += s.DurationS
		grand += s.DurationS
	}
	out := make([]LanguageShare, 0, len(order))
	for _, lang := range order {
		share := 0.0
		if grand > 0 {
			share = float64(totals[lang]) / float64(grand) * 100
		}
		out = append(out, LanguageShare{Lang: lang, DurationS: totals[lang], Share: share})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DurationS > out[j].DurationS
	})
	return out
}

// DailyMinutes returns the average practiced minutes per calendar day
// inside the filtered set. It feeds the time-goal progress and
// suggestion logic.
func DailyMinutes(sessions []model.PracticeStats) float64 {
	if len(sessions) == 0 {
		return 0
	}
	days := map[string]struct{}{}
	total := 0
	for _, s := range sessions {
		days[s.Timestamp.Format("2006-01-02")] = struct{}{}
		total += s.DurationS
	}
	return float64(total) / 60.0 / float64(len(days))
}
