package session

import "testing"

func TestLedgerAdvanceAndBackspace(t *testing.T) {
	l := NewLedger([]rune("ab"))
	if l.Index() != 0 || l.Len() != 2 {
		t.Fatalf("unexpected initial state: index=%d len=%d", l.Index(), l.Len())
	}

	l.MarkCorrect()
	if l.Index() != 1 {
		t.Fatalf("expected index 1 after correct, got %d", l.Index())
	}
	if !l.Backspace() {
		t.Fatalf("expected backspace to vacate a slot")
	}
	if l.Index() != 0 {
		t.Fatalf("expected index 0 after backspace, got %d", l.Index())
	}
	if got := l.States()[0]; got != CharCurrent {
		t.Fatalf("expected vacated slot to render as current, got %v", got)
	}
}

func TestLedgerBackspaceAtZeroIsNoop(t *testing.T) {
	l := NewLedger([]rune("ab"))
	if l.Backspace() {
		t.Fatalf("expected backspace at index 0 to be a no-op")
	}
	if l.Index() != 0 {
		t.Fatalf("expected index to stay 0, got %d", l.Index())
	}
	states := l.States()
	if states[0] != CharCurrent || states[1] != CharPending {
		t.Fatalf("unexpected states after no-op backspace: %v", states)
	}
}

func TestLedgerIncorrectDoesNotAdvance(t *testing.T) {
	l := NewLedger([]rune("ab"))
	l.MarkIncorrect()
	if l.Index() != 0 {
		t.Fatalf("expected index to stay 0 on mismatch, got %d", l.Index())
	}
	if got := l.States()[0]; got != CharIncorrect {
		t.Fatalf("expected incorrect slot, got %v", got)
	}

	// Backspace clears the mark without moving the cursor.
	if !l.Backspace() {
		t.Fatalf("expected backspace to clear the mark")
	}
	if l.Index() != 0 {
		t.Fatalf("expected index to stay 0, got %d", l.Index())
	}
	if got := l.States()[0]; got != CharCurrent {
		t.Fatalf("expected cleared slot to render as current, got %v", got)
	}
}

func TestLedgerComplete(t *testing.T) {
	l := NewLedger([]rune("ok"))
	l.MarkCorrect()
	l.MarkCorrect()
	if !l.Complete() {
		t.Fatalf("expected ledger to be complete")
	}
	for i, st := range l.States() {
		if st != CharCorrect {
			t.Fatalf("expected slot %d correct, got %v", i, st)
		}
	}
}
