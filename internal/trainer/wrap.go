// Package trainer provides the Bubble Tea practice interface.
package trainer

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/keydrill-dev/keydrill/internal/session"
)

type styledRune struct {
	s         string
	width     int
	isSpace   bool
	isNewline bool
}

// buildStyledRunes maps the ledger snapshot onto display cells. The
// target text is always shown; an incorrect slot keeps its target
// character in the error style so the user sees what to fix. Newlines
// and tabs get visible glyphs since code snippets depend on them.
func buildStyledRunes(target []rune, states []session.CharState) []styledRune {
	out := make([]styledRune, 0, len(target))
	for i, r := range target {
		state := session.CharPending
		if i < len(states) {
			state = states[i]
		}
		style := pendingStyle
		switch state {
		case session.CharCorrect:
			style = correctStyle
		case session.CharIncorrect:
			style = incorrectStyle
		case session.CharCurrent:
			style = cursorStyle
		}

		displayed := r
		switch r {
		case '\n':
			displayed = '⏎'
		case '\t':
			displayed = '⇥'
		case ' ':
			if state == session.CharIncorrect {
				displayed = '•'
			}
		}
		out = append(out, styledRune{
			s:         style.Render(string(displayed)),
			width:     runewidth.RuneWidth(displayed),
			isSpace:   r == ' ',
			isNewline: r == '\n',
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes soft-wraps at spaces within the given width and
// hard-breaks at snippet newlines.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	flush := func(upto int, dropBreak bool) {
		out.WriteString(renderStyledRunes(line[:upto]))
		out.WriteRune('\n')
		rest := upto
		if dropBreak {
			rest = upto + 1
		}
		line = append([]styledRune{}, line[rest:]...)
		lineWidth = 0
		lastSpaceIdx = -1
		for i, item := range line {
			lineWidth += item.width
			if item.isSpace {
				lastSpaceIdx = i
			}
		}
	}

	for i := 0; i < len(runes); {
		item := runes[i]
		if item.isNewline {
			line = append(line, item)
			flush(len(line), false)
			i++
			continue
		}
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				flush(lastSpaceIdx, true)
			} else {
				flush(len(line), false)
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return strings.TrimRight(out.String(), "\n")
}
