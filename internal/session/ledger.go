// Package session implements the typing session engine: the
// per-character ledger and the keystroke-driven state machine.
package session

// CharState is the correctness state of one snippet position.
type CharState int

// Ledger slot states.
const (
	CharPending CharState = iota
	CharCorrect
	CharIncorrect
	CharCurrent
)

// Ledger tracks per-character status for the active snippet. The
// invariant len(states) == len(target) holds for the ledger's lifetime,
// and 0 <= index <= len(target).
type Ledger struct {
	target []rune
	states []CharState
	index  int
}

// NewLedger creates a ledger with every slot pending.
func NewLedger(target []rune) *Ledger {
	return &Ledger{
		target: target,
		states: make([]CharState, len(target)),
	}
}

// Len returns the snippet length.
func (l *Ledger) Len() int {
	return len(l.target)
}

// Index returns the cursor position.
func (l *Ledger) Index() int {
	return l.index
}

// Expected returns the character the cursor currently targets. The
// second result is false once the whole snippet has been typed.
func (l *Ledger) Expected() (rune, bool) {
	if l.index >= len(l.target) {
		return 0, false
	}
	return l.target[l.index], true
}

// MarkCorrect marks the cursor slot correct and advances the cursor.
func (l *Ledger) MarkCorrect() {
	if l.index >= len(l.target) {
		return
	}
	l.states[l.index] = CharCorrect
	l.index++
}

// MarkIncorrect marks the cursor slot incorrect. The cursor does not
// advance: the mismatched character remains the target until it is
// typed correctly or the mark is cleared with backspace.
func (l *Ledger) MarkIncorrect() {
	if l.index >= len(l.target) {
		return
	}
	l.states[l.index] = CharIncorrect
}

// Backspace clears an incorrect mark at the cursor if one is present;
// otherwise it steps the cursor back one slot and resets the vacated
// slot to pending. At position zero with a clean slot it is a no-op.
// It reports whether anything changed.
func (l *Ledger) Backspace() bool {
	if l.index < len(l.target) && l.states[l.index] == CharIncorrect {
		l.states[l.index] = CharPending
		return true
	}
	if l.index == 0 {
		return false
	}
	l.index--
	l.states[l.index] = CharPending
	return true
}

// States returns a render-ready copy of the slot states with the
// cursor slot reported as CharCurrent unless it carries an incorrect
// mark.
func (l *Ledger) States() []CharState {
	out := make([]CharState, len(l.states))
	copy(out, l.states)
	if l.index < len(out) && out[l.index] == CharPending {
		out[l.index] = CharCurrent
	}
	return out
}

// Complete reports whether every slot has been typed correctly.
func (l *Ledger) Complete() bool {
	return l.index == len(l.target)
}
