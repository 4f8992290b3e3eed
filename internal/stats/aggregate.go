package stats

import (
	"sort"

	"github.com/keydrill-dev/keydrill/internal/model"
)

// Ranking parameters for weak keys: a key needs more than minAttempts
// cumulative attempts to qualify, and at most weakKeyLimit keys are
// reported.
const (
	minAttempts  = 2
	weakKeyLimit = 5
)

// KeyStats holds the cumulative per-key counters folded from the whole
// history log. Keys lists every seen key in first-seen order, which
// makes downstream rankings deterministic.
type KeyStats struct {
	Errors   map[string]int
	Attempts map[string]int
	Keys     []string
}

// FoldKeyStats merges every record's error/attempt maps into cumulative
// key stats. Missing maps on a record default to empty. Within one
// record keys are visited in sorted order so that "first seen" is
// well-defined.
func FoldKeyStats(history []model.PracticeStats) KeyStats {
	ks := KeyStats{
		Errors:   map[string]int{},
		Attempts: map[string]int{},
	}
	for _, rec := range history {
		for _, key := range sortedKeys(rec.AttemptMap) {
			if _, seen := ks.Attempts[key]; !seen {
				ks.Keys = append(ks.Keys, key)
			}
			ks.Attempts[key] += rec.AttemptMap[key]
		}
		for _, key := range sortedKeys(rec.ErrorMap) {
			if _, seen := ks.Attempts[key]; !seen {
				ks.Keys = append(ks.Keys, key)
				ks.Attempts[key] = 0
			}
			ks.Errors[key] += rec.ErrorMap[key]
		}
	}
	return ks
}

// WeakKey is one entry of the weak-key ranking.
type WeakKey struct {
	Key       string
	Errors    int
	Attempts  int
	ErrorRate float64
}

// WeakKeys ranks keys by descending error rate. Keys with too few
// attempts never appear; ties keep first-seen order.
func WeakKeys(ks KeyStats) []WeakKey {
	ranked := make([]WeakKey, 0, len(ks.Keys))
	for _, key := range ks.Keys {
		attempts := ks.Attempts[key]
		if attempts <= minAttempts {
			continue
		}
		errs := ks.Errors[key]
		ranked = append(ranked, WeakKey{
			Key:       key,
			Errors:    errs,
			Attempts:  attempts,
			ErrorRate: float64(errs) / float64(attempts) * 100,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ErrorRate > ranked[j].ErrorRate
	})
	if len(ranked) > weakKeyLimit {
		ranked = ranked[:weakKeyLimit]
	}
	return ranked
}

// WeakKeysFromHistory is the one-step fold-and-rank used by callers
// that do not need the intermediate cumulative stats.
func WeakKeysFromHistory(history []model.PracticeStats) []WeakKey {
	return WeakKeys(FoldKeyStats(history))
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
