package stats

import (
	"testing"

	"github.com/keydrill-dev/keydrill/internal/model"
)

func rec(attempts, errors map[string]int) model.PracticeStats {
	return model.PracticeStats{AttemptMap: attempts, ErrorMap: errors}
}

func TestFoldKeyStats(t *testing.T) {
	history := []model.PracticeStats{
		rec(map[string]int{"a": 3, "b": 2}, map[string]int{"a": 1}),
		rec(map[string]int{"a": 2, "c": 4}, map[string]int{"c": 2}),
		{}, // record with no maps must not fault
	}
	ks := FoldKeyStats(history)
	if ks.Attempts["a"] != 5 || ks.Attempts["b"] != 2 || ks.Attempts["c"] != 4 {
		t.Fatalf("unexpected attempts: %v", ks.Attempts)
	}
	if ks.Errors["a"] != 1 || ks.Errors["c"] != 2 {
		t.Fatalf("unexpected errors: %v", ks.Errors)
	}
	want := []string{"a", "b", "c"}
	if len(ks.Keys) != len(want) {
		t.Fatalf("unexpected key order: %v", ks.Keys)
	}
	for i, key := range want {
		if ks.Keys[i] != key {
			t.Fatalf("unexpected key order: %v", ks.Keys)
		}
	}
}

func TestWeakKeysRanking(t *testing.T) {
	ks := KeyStats{
		Attempts: map[string]int{"a": 10, "b": 10, "c": 10, "d": 2, "e": 10, "f": 10, "g": 10},
		Errors:   map[string]int{"a": 1, "b": 5, "c": 3, "d": 2, "e": 4, "f": 2, "g": 1},
		Keys:     []string{"a", "b", "c", "d", "e", "f", "g"},
	}
	weak := WeakKeys(ks)
	if len(weak) != 5 {
		t.Fatalf("expected top 5, got %d", len(weak))
	}
	for _, wk := range weak {
		if wk.Key == "d" {
			t.Fatalf("keys with <= 2 attempts must never appear")
		}
	}
	for i := 1; i < len(weak); i++ {
		if weak[i-1].ErrorRate < weak[i].ErrorRate {
			t.Fatalf("ranking not descending: %v", weak)
		}
	}
	if weak[0].Key != "b" || weak[1].Key != "e" || weak[2].Key != "c" {
		t.Fatalf("unexpected head of ranking: %v", weak)
	}
}

func TestWeakKeysTiesKeepFirstSeenOrder(t *testing.T) {
	ks := KeyStats{
		Attempts: map[string]int{"z": 10, "m": 10, "a": 10},
		Errors:   map[string]int{"z": 2, "m": 2, "a": 2},
		Keys:     []string{"z", "m", "a"},
	}
	weak := WeakKeys(ks)
	if weak[0].Key != "z" || weak[1].Key != "m" || weak[2].Key != "a" {
		t.Fatalf("ties must keep first-seen order: %v", weak)
	}
}

func TestWeakKeysEmptyHistory(t *testing.T) {
	if weak := WeakKeysFromHistory(nil); len(weak) != 0 {
		t.Fatalf("expected empty ranking, got %v", weak)
	}
}
