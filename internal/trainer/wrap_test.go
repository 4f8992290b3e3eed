package trainer

import (
	"strings"
	"testing"

	"github.com/keydrill-dev/keydrill/internal/session"
)

func plainRunes(text string) []styledRune {
	out := make([]styledRune, 0, len(text))
	for _, r := range text {
		display := r
		if r == '\n' {
			display = '⏎'
		}
		out = append(out, styledRune{
			s:         string(display),
			width:     1,
			isSpace:   r == ' ',
			isNewline: r == '\n',
		})
	}
	return out
}

func TestBuildStyledRunesGlyphs(t *testing.T) {
	target := []rune("a\n\t ")
	states := []session.CharState{
		session.CharCorrect,
		session.CharIncorrect,
		session.CharCurrent,
		session.CharPending,
	}
	runes := buildStyledRunes(target, states)
	if len(runes) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(runes))
	}
	if !strings.Contains(runes[1].s, "⏎") || !runes[1].isNewline {
		t.Fatalf("newline must render as a visible glyph: %+v", runes[1])
	}
	if !strings.Contains(runes[2].s, "⇥") {
		t.Fatalf("tab must render as a visible glyph: %+v", runes[2])
	}
	if !runes[3].isSpace {
		t.Fatalf("space cell must keep its space flag: %+v", runes[3])
	}
}

func TestBuildStyledRunesIncorrectSpace(t *testing.T) {
	runes := buildStyledRunes([]rune(" "), []session.CharState{session.CharIncorrect})
	if !strings.Contains(runes[0].s, "•") {
		t.Fatalf("a missed space needs a visible marker: %+v", runes[0])
	}
	runes = buildStyledRunes([]rune(" "), []session.CharState{session.CharPending})
	if strings.Contains(runes[0].s, "•") {
		t.Fatalf("a pending space must stay invisible: %+v", runes[0])
	}
}

func TestBuildStyledRunesShortStates(t *testing.T) {
	// More target runes than states must not panic; extras are pending.
	runes := buildStyledRunes([]rune("abc"), []session.CharState{session.CharCorrect})
	if len(runes) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(runes))
	}
}

func TestWrapSoftBreaksAtSpaces(t *testing.T) {
	got := wrapStyledRunes(plainRunes("one two three"), 8)
	want := "one two\nthree"
	if got != want {
		t.Fatalf("wrapped = %q, want %q", got, want)
	}
}

func TestWrapHardBreaksAtNewlines(t *testing.T) {
	got := wrapStyledRunes(plainRunes("ab\ncd"), 80)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected a hard break, got %q", got)
	}
	if lines[0] != "ab⏎" {
		t.Fatalf("newline glyph must end its line, got %q", lines[0])
	}
	if lines[1] != "cd" {
		t.Fatalf("text after the break lost: %q", got)
	}
}

func TestWrapLongWordHardBreaks(t *testing.T) {
	got := wrapStyledRunes(plainRunes("abcdefgh"), 3)
	want := "abc\ndef\ngh"
	if got != want {
		t.Fatalf("wrapped = %q, want %q", got, want)
	}
}

func TestWrapZeroWidthDisablesWrapping(t *testing.T) {
	text := "one two three"
	if got := wrapStyledRunes(plainRunes(text), 0); got != text {
		t.Fatalf("zero width must disable wrapping, got %q", got)
	}
}
