package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/keydrill-dev/keydrill/internal/model"
)

// Report bundles every derived view the dashboard needs for one time
// window.
type Report struct {
	Filter   model.TimeFilter
	Sessions []model.PracticeStats
	Overall  OverallStats
	Focus    []LanguageShare
	WeakKeys []WeakKey
	Daily    float64
}

// BuildReport filters the history log and computes all derived views.
// The weak-key ranking always folds the full log; everything else is
// scoped to the window.
func BuildReport(history []model.PracticeStats, filter model.TimeFilter, now time.Time) Report {
	sessions := FilterByWindow(history, filter, now)
	return Report{
		Filter:   filter,
		Sessions: sessions,
		Overall:  Overall(sessions),
		Focus:    LanguageFocus(sessions),
		WeakKeys: WeakKeysFromHistory(history),
		Daily:    DailyMinutes(sessions),
	}
}

// RenderSummary prints the overall statistics block.
func RenderSummary(w io.Writer, overall OverallStats) error {
	if overall.Sessions == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", overall.Sessions),
		fmt.Sprintf("Avg WPM: %d", overall.AvgWPM),
		fmt.Sprintf("Best WPM: %.2f", overall.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", overall.AvgAccuracy),
		fmt.Sprintf("Practice Time: %s", FormatDuration(overall.TotalDuration)),
		fmt.Sprintf("Lines Typed: %d", overall.TotalLines),
		fmt.Sprintf("Errors: %d", overall.TotalErrors),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderLanguageFocus prints the per-language time breakdown.
func RenderLanguageFocus(w io.Writer, focus []LanguageShare) error {
	if len(focus) == 0 {
		_, err := fmt.Fprintln(w, "No language data.")
		return err
	}
	cols := []Column{
		{Title: "Language"},
		{Title: "Time", RightAlign: true},
		{Title: "Share", RightAlign: true},
	}
	rows := make([][]string, 0, len(focus))
	for _, share := range focus {
		rows = append(rows, []string{
			share.Lang,
			FormatDuration(share.DurationS),
			fmt.Sprintf("%.1f%%", share.Share),
		})
	}
	if _, err := fmt.Fprintln(w, "Language Focus"); err != nil {
		return err
	}
	for _, line := range FormatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderWeakKeys prints the weak-key ranking.
func RenderWeakKeys(w io.Writer, weak []WeakKey) error {
	if len(weak) == 0 {
		_, err := fmt.Fprintln(w, "No weak keys yet.")
		return err
	}
	cols := []Column{
		{Title: "Key"},
		{Title: "Error Rate", RightAlign: true},
		{Title: "Errors", RightAlign: true},
		{Title: "Attempts", RightAlign: true},
	}
	rows := make([][]string, 0, len(weak))
	for _, wk := range weak {
		rows = append(rows, []string{
			keyLabel(wk.Key),
			fmt.Sprintf("%.1f%%", wk.ErrorRate),
			fmt.Sprintf("%d", wk.Errors),
			fmt.Sprintf("%d", wk.Attempts),
		})
	}
	if _, err := fmt.Fprintln(w, "Weak Keys"); err != nil {
		return err
	}
	for _, line := range FormatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func keyLabel(key string) string {
	switch key {
	case " ":
		return "<space>"
	case "\n":
		return "<enter>"
	case "\t":
		return "<tab>"
	}
	return key
}
