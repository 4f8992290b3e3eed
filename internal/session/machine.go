package session

import (
	"strings"
	"time"
	"unicode"

	"github.com/keydrill-dev/keydrill/internal/model"
	"github.com/keydrill-dev/keydrill/internal/stats"
)

// State is the lifecycle state of a typing session.
type State int

// Session states. Finished is terminal.
const (
	StateIdle State = iota
	StateActive
	StatePaused
	StateFinished
)

// FrustrationCap is the consecutive-error ceiling past which the UI
// should recommend a restart. It never gates the engine itself.
const FrustrationCap = 10

// Callbacks notify the caller of pause/resume transitions so it can
// redirect input focus. Nil fields are skipped.
type Callbacks struct {
	OnPause  func()
	OnResume func()
}

// Machine consumes keystroke events for a single snippet and drives
// the ledger, the error counters, and the active-time accumulator.
// All methods are total: malformed keystrokes are ignored and nothing
// mutates after the Finished state is reached.
type Machine struct {
	snippet string
	ledger  *Ledger
	state   State

	startedAt   time.Time
	accumulated time.Duration

	keystrokes        int
	errors            int
	consecutiveErrors int

	errorMap   map[string]int
	attemptMap map[string]int

	blockThreshold int
	callbacks      Callbacks
}

// New creates a machine for the given snippet. blockThreshold of 0
// disables error blocking; otherwise it is clamped to 1..3. An empty
// snippet yields an immediately finished session.
func New(snippet string, blockThreshold int, cb Callbacks) *Machine {
	if blockThreshold < 0 {
		blockThreshold = 0
	}
	if blockThreshold > 3 {
		blockThreshold = 3
	}
	m := &Machine{
		snippet:        snippet,
		ledger:         NewLedger([]rune(snippet)),
		blockThreshold: blockThreshold,
		callbacks:      cb,
		errorMap:       map[string]int{},
		attemptMap:     map[string]int{},
	}
	if m.ledger.Len() == 0 {
		m.state = StateFinished
	}
	return m
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	return m.state
}

// HandleKey processes one keystroke. The first keystroke starts the
// session; a keystroke while paused resumes it before being processed.
// Keys that cannot appear in a snippet are ignored.
func (m *Machine) HandleKey(r rune) {
	if m.state == StateFinished {
		return
	}
	if !typeable(r) {
		return
	}
	if m.state == StatePaused {
		m.resume()
	}
	if m.state == StateIdle {
		m.state = StateActive
		m.startedAt = time.Now()
	}

	expected, ok := m.ledger.Expected()
	if !ok {
		return
	}
	key := string(expected)
	m.keystrokes++
	m.attemptMap[key]++

	if r == expected {
		m.ledger.MarkCorrect()
		m.consecutiveErrors = 0
		if m.ledger.Complete() {
			m.state = StateFinished
		}
		return
	}
	m.ledger.MarkIncorrect()
	m.errors++
	m.errorMap[key]++
	m.consecutiveErrors++
}

// HandleBackspace clears the last input. It also resumes a paused
// session and decrements the consecutive-error counter, floored at 0.
func (m *Machine) HandleBackspace() {
	if m.state == StateFinished || m.state == StateIdle {
		return
	}
	if m.state == StatePaused {
		m.resume()
	}
	m.ledger.Backspace()
	if m.consecutiveErrors > 0 {
		m.consecutiveErrors--
	}
}

// Pause suspends timing accrual. Only an active session can pause.
func (m *Machine) Pause() {
	if m.state != StateActive {
		return
	}
	m.state = StatePaused
	if m.callbacks.OnPause != nil {
		m.callbacks.OnPause()
	}
}

// Resume restarts timing accrual after an explicit pause.
func (m *Machine) Resume() {
	if m.state != StatePaused {
		return
	}
	m.resume()
}

func (m *Machine) resume() {
	m.state = StateActive
	if m.callbacks.OnResume != nil {
		m.callbacks.OnResume()
	}
}

// Tick advances the active-time accumulator. Ticks arriving while
// idle, paused, or finished are dropped.
func (m *Machine) Tick(d time.Duration) {
	if m.state != StateActive || d <= 0 {
		return
	}
	m.accumulated += d
}

// Blocked reports whether the configured error threshold is currently
// tripped. It drives UI feedback only; ledger mechanics are unchanged.
func (m *Machine) Blocked() bool {
	return m.blockThreshold > 0 && m.consecutiveErrors >= m.blockThreshold
}

// Frustrated reports whether the session has hit the restart-worthy
// consecutive-error ceiling.
func (m *Machine) Frustrated() bool {
	return m.consecutiveErrors >= FrustrationCap
}

// Errors returns the cumulative mismatch count.
func (m *Machine) Errors() int {
	return m.errors
}

// ConsecutiveErrors returns the current error streak.
func (m *Machine) ConsecutiveErrors() int {
	return m.consecutiveErrors
}

// Elapsed returns accrued active time.
func (m *Machine) Elapsed() time.Duration {
	return m.accumulated
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	States            []CharState
	Index             int
	Length            int
	State             State
	Errors            int
	ConsecutiveErrors int
	Blocked           bool
	Frustrated        bool
	Keystrokes        int
	Correct           int
	Elapsed           time.Duration
}

// Snapshot captures the current ledger and counter state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		States:            m.ledger.States(),
		Index:             m.ledger.Index(),
		Length:            m.ledger.Len(),
		State:             m.state,
		Errors:            m.errors,
		ConsecutiveErrors: m.consecutiveErrors,
		Blocked:           m.Blocked(),
		Frustrated:        m.Frustrated(),
		Keystrokes:        m.keystrokes,
		Correct:           m.keystrokes - m.errors,
		Elapsed:           m.accumulated,
	}
}

// Finalize freezes the counters into an immutable PracticeStats
// record. The caller decides when a still-running session counts as an
// early exit; the engine itself has no abandon transition.
func (m *Machine) Finalize(lang string, earlyExit bool, now time.Time) model.PracticeStats {
	if m.state == StateActive {
		m.state = StatePaused
	}
	correct := m.keystrokes - m.errors
	return model.PracticeStats{
		WPM:        stats.WPM(correct, m.accumulated),
		Accuracy:   stats.Accuracy(correct, m.keystrokes),
		Errors:     m.errors,
		Lang:       lang,
		Timestamp:  now,
		DurationS:  m.durationSeconds(),
		LinesTyped: m.linesTyped(),
		ErrorMap:   copyCounts(m.errorMap),
		AttemptMap: copyCounts(m.attemptMap),
		EarlyExit:  earlyExit,
	}
}

func (m *Machine) linesTyped() int {
	idx := m.ledger.Index()
	if idx == 0 {
		return 0
	}
	prefix := string([]rune(m.snippet)[:idx])
	return strings.Count(prefix, "\n") + 1
}

func (m *Machine) durationSeconds() int {
	return int(m.accumulated.Seconds())
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func typeable(r rune) bool {
	if r == '\n' || r == '\t' {
		return true
	}
	return unicode.IsPrint(r)
}
