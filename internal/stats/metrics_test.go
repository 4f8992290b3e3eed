package stats

import (
	"testing"
	"time"
)

func TestWPM(t *testing.T) {
	if got := WPM(25, time.Minute); got != 5 {
		t.Fatalf("expected 5 WPM, got %v", got)
	}
	if got := WPM(100, 0); got != 0 {
		t.Fatalf("zero duration must yield 0, got %v", got)
	}
	if got := WPM(0, time.Minute); got != 0 {
		t.Fatalf("zero chars must yield 0, got %v", got)
	}
}

func TestAccuracy(t *testing.T) {
	if got := Accuracy(2, 3); got != 66.67 {
		t.Fatalf("expected 66.67, got %v", got)
	}
	if got := Accuracy(0, 0); got != 0 {
		t.Fatalf("zero attempts must yield 0, got %v", got)
	}
	if got := Accuracy(3, 3); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0m 00s"},
		{5, "0m 05s"},
		{65, "1m 05s"},
		{600, "10m 00s"},
		{-3, "0m 00s"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
