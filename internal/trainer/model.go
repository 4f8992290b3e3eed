package trainer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/keydrill-dev/keydrill/internal/model"
	"github.com/keydrill-dev/keydrill/internal/session"
	"github.com/keydrill-dev/keydrill/internal/snippet"
	statsPkg "github.com/keydrill-dev/keydrill/internal/stats"
	"github.com/keydrill-dev/keydrill/internal/store"
)

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = pendingStyle.Underline(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

type tickMsg time.Time

// Model implements the Bubble Tea practice UI. It owns the single live
// session machine; starting a new snippet discards the previous one.
type Model struct {
	cfg     model.Config
	store   *store.Store
	goals   model.Goals
	gen     *snippet.Generator
	intent  model.Intent
	library []snippet.Snippet

	current snippet.Snippet
	machine *session.Machine
	paused  bool

	width  int
	height int

	lastStars int
	hasLast   bool
	lastWPM   float64
	lastAcc   float64
}

// NewModel constructs a practice model for the given intent.
func NewModel(cfg model.Config, st *store.Store, goals model.Goals, gen *snippet.Generator, library []snippet.Snippet, intent model.Intent) *Model {
	m := &Model{
		cfg:     cfg,
		store:   st,
		goals:   goals,
		gen:     gen,
		intent:  intent,
		library: library,
	}
	m.startSession()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.machine.Tick(time.Second)
		return m, tick()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.abandonSession()
			return m, tea.Quit
		case tea.KeyEsc:
			m.togglePause()
			return m, nil
		case tea.KeyCtrlR:
			m.startSession()
			return m, nil
		case tea.KeyBackspace, tea.KeyDelete:
			m.machine.HandleBackspace()
			m.syncPaused()
			return m, nil
		case tea.KeyEnter:
			m.handleRunes([]rune{'\n'})
			return m, nil
		case tea.KeyTab:
			m.handleRunes([]rune{'\t'})
			return m, nil
		case tea.KeySpace:
			m.handleRunes([]rune{' '})
			return m, nil
		case tea.KeyRunes:
			m.handleRunes(msg.Runes)
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	target := []rune(m.current.Text)
	if len(target) == 0 {
		return ""
	}
	snap := m.machine.Snapshot()
	styledRunes := buildStyledRunes(target, snap.States)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	footer := m.renderFooter(snap)
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		m.machine.HandleKey(r)
		if m.machine.State() == session.StateFinished {
			m.finishSession()
			m.startSession()
			return
		}
	}
	m.syncPaused()
}

func (m *Model) togglePause() {
	if m.paused {
		m.machine.Resume()
	} else {
		m.machine.Pause()
	}
}

// syncPaused picks up the implicit resume a keystroke performs while
// paused.
func (m *Model) syncPaused() {
	m.paused = m.machine.State() == session.StatePaused
}

func (m *Model) startSession() {
	m.current = m.nextSnippet()
	m.machine = session.New(m.current.Text, m.cfg.BlockOnError, session.Callbacks{
		OnPause:  func() { m.paused = true },
		OnResume: func() { m.paused = false },
	})
}

func (m *Model) nextSnippet() snippet.Snippet {
	switch m.intent.Kind {
	case model.IntentTargeted:
		return m.gen.Targeted(m.library, m.intent.WeakKeys)
	case model.IntentQueue:
		if len(m.library) == 0 {
			return snippet.Snippet{}
		}
		sn := m.library[m.intent.QueueIndex%len(m.library)]
		m.intent.QueueIndex++
		return sn
	}
	return m.gen.Pick(m.library)
}

func (m *Model) finishSession() {
	rec := m.machine.Finalize(m.current.Lang, false, time.Now())
	m.record(rec)
}

// abandonSession is the early-exit path: counters are frozen as they
// stand and the record is flagged.
func (m *Model) abandonSession() {
	state := m.machine.State()
	if state == session.StateIdle || state == session.StateFinished {
		return
	}
	rec := m.machine.Finalize(m.current.Lang, true, time.Now())
	m.record(rec)
}

func (m *Model) record(rec model.PracticeStats) {
	if _, err := m.store.Append(context.Background(), rec); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
	m.lastWPM = rec.WPM
	m.lastAcc = rec.Accuracy
	m.lastStars = statsPkg.StarRating(rec.WPM, rec.Accuracy, m.goals)
	m.hasLast = true
}

func (m *Model) renderFooter(snap session.Snapshot) string {
	progress := 0
	if snap.Length > 0 {
		progress = snap.Index * 100 / snap.Length
	}
	liveWPM := statsPkg.WPM(snap.Correct, snap.Elapsed)
	liveAcc := statsPkg.Accuracy(snap.Correct, snap.Keystrokes)

	segments := []string{
		fmt.Sprintf("%s · %d%%", statsPkg.FormatDuration(int(snap.Elapsed.Seconds())), progress),
		fmt.Sprintf("%.1f WPM · %.1f%%", liveWPM, liveAcc),
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%% · %s", m.lastWPM, m.lastAcc, starBar(m.lastStars)))
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))

	switch {
	case m.paused:
		footer += "  " + warnStyle.Render("PAUSED (esc to resume)")
	case snap.Frustrated:
		footer += "  " + warnStyle.Render("rough patch, ctrl+r restarts")
	case snap.Blocked:
		footer += "  " + warnStyle.Render("fix the error to continue")
	}
	return footer
}

func starBar(stars int) string {
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
