// Package statsui provides the Bubble Tea dashboard.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/keydrill-dev/keydrill/internal/model"
	"github.com/keydrill-dev/keydrill/internal/stats"
	"github.com/keydrill-dev/keydrill/internal/store"
)

const (
	tabOverview = iota
	tabWeakKeys
	tabTrends
)

const plotHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	badgeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6CC26C"))
)

// Model implements the Bubble Tea dashboard UI.
type Model struct {
	store   *store.Store
	history []model.PracticeStats
	goals   model.Goals
	filter  model.TimeFilter
	report  stats.Report
	errMsg  string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	weakTable table.Model

	width  int
	height int

	goalMode   bool
	goalInputs []textinput.Model
	goalIndex  int
	goalError  string
}

// NewModel constructs a dashboard model over a loaded history log.
func NewModel(st *store.Store, history []model.PracticeStats, goals model.Goals, filter model.TimeFilter) *Model {
	m := &Model{
		store:   st,
		history: history,
		goals:   goals,
		filter:  filter,
		tabs:    []string{"Overview", "Weak Keys", "Trends"},
	}
	m.initGoalInputs()
	m.initWeakTable()
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.goalMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.goalMode {
			return m.updateGoalForm(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "1":
			return m.setFilter(model.Filter24H)
		case "2":
			return m.setFilter(model.Filter7D)
		case "3":
			return m.setFilter(model.Filter30D)
		case "4":
			return m.setFilter(model.FilterAll)
		case "g":
			return m.startGoalForm()
		case "r":
			m.reloadHistory()
			m.updateLayout()
			return m, tea.ClearScreen
		default:
			if m.activeTab == tabWeakKeys {
				var cmd tea.Cmd
				m.weakTable, cmd = m.weakTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader()
	body := m.renderBody()
	footer := m.renderFooter()
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) setFilter(f model.TimeFilter) (tea.Model, tea.Cmd) {
	m.filter = f
	m.refreshReport()
	m.updateLayout()
	return m, tea.ClearScreen
}

func (m *Model) refreshReport() {
	m.report = stats.BuildReport(m.history, m.filter, time.Now())
	m.applyWeakTable()
	m.renderTabContents()
}

func (m *Model) reloadHistory() {
	history, err := m.store.LoadHistory(context.Background())
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.history = history
	m.refreshReport()
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabWeakKeys {
		m.weakTable.Focus()
	} else {
		m.weakTable.Blur()
	}
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	bodyHeight := m.bodyHeight()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.weakTable.SetWidth(m.width)
	m.weakTable.SetHeight(maxInt(1, bodyHeight-1))
	for i := range m.goalInputs {
		promptWidth := lipgloss.Width(m.goalInputs[i].Prompt)
		m.goalInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) bodyHeight() int {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight := tabsHeight + 1
	footerHeight := 1
	if m.errMsg != "" {
		footerHeight++
	}
	h := m.height - headerHeight - footerHeight
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	summary := headerStyle.Render(fmt.Sprintf("Window: %s  Sessions: %d", m.filter, m.report.Overall.Sessions))
	return tabs + "\n" + summary
}

func (m *Model) renderBody() string {
	height := m.bodyHeight()
	if m.goalMode {
		return fitLines(m.renderGoalForm(), m.width, height)
	}
	if m.activeTab == tabWeakKeys {
		if len(m.report.WeakKeys) == 0 {
			return fitLines("No weak keys yet.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.weakTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderFooter() string {
	if m.goalMode {
		return headerStyle.Render("tab: next field  enter: save  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Window: 1=24h 2=7d 3=30d 4=all  Goals: g  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(m.renderOverview(width))
	m.viewports[tabTrends].SetContent(m.renderTrends(width))
}

func (m *Model) renderOverview(width int) string {
	overall := m.report.Overall
	if overall.Sessions == 0 {
		return "No sessions in this window."
	}
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", overall.Sessions)),
		metricCard("Avg WPM", fmt.Sprintf("%d", overall.AvgWPM)),
		metricCard("Best WPM", fmt.Sprintf("%.1f", overall.BestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.2f%%", overall.AvgAccuracy)),
		metricCard("Time", stats.FormatDuration(overall.TotalDuration)),
		metricCard("Lines", fmt.Sprintf("%d", overall.TotalLines)),
		metricCard("Errors", fmt.Sprintf("%d", overall.TotalErrors)),
	}
	var cardBlock string
	if width < 80 {
		cardBlock = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:4]...)
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[4:]...)
		cardBlock = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	return strings.TrimRight(cardBlock+"\n\n"+m.renderGoals()+"\n\n"+m.renderFocus(), "\n")
}

func metricCard(title, value string) string {
	inner := lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render(title),
		cardValueStyle.Render(value))
	return cardStyle.Render(inner)
}

func (m *Model) renderGoals() string {
	overall := m.report.Overall
	daily := m.report.Daily
	achieved := stats.GoalsAchieved(m.goals, float64(overall.AvgWPM), overall.AvgAccuracy, daily)
	suggest := stats.SuggestGoals(m.goals, float64(overall.AvgWPM), overall.AvgAccuracy, daily)

	lines := []string{"Goals"}
	lines = append(lines, goalLine("WPM",
		fmt.Sprintf("%d / %.0f", overall.AvgWPM, m.goals.WPMGoal),
		stats.GoalProgress(float64(overall.AvgWPM), m.goals.WPMGoal),
		achieved.WPM))
	lines = append(lines, goalLine("Accuracy",
		fmt.Sprintf("%.2f%% / %.0f%%", overall.AvgAccuracy, m.goals.AccuracyGoal),
		stats.GoalProgress(overall.AvgAccuracy, m.goals.AccuracyGoal),
		achieved.Accuracy))
	lines = append(lines, goalLine("Daily time",
		fmt.Sprintf("%.1fm / %.0fm", daily, m.goals.TimeGoalMinutes),
		stats.GoalProgress(daily, m.goals.TimeGoalMinutes),
		achieved.Time))

	var hints []string
	if suggest.WPMGoal > 0 {
		hints = append(hints, fmt.Sprintf("raise WPM goal to %.0f", suggest.WPMGoal))
	}
	if suggest.AccuracyGoal > 0 {
		hints = append(hints, fmt.Sprintf("raise accuracy goal to %.0f%%", suggest.AccuracyGoal))
	}
	if suggest.TimeGoalMinutes > 0 {
		hints = append(hints, fmt.Sprintf("raise time goal to %.0fm", suggest.TimeGoalMinutes))
	}
	if len(hints) > 0 {
		lines = append(lines, badgeStyle.Render("Suggestion: "+strings.Join(hints, ", ")))
	}
	return strings.Join(lines, "\n")
}

func goalLine(label, values string, progress float64, achieved bool) string {
	badge := ""
	if achieved {
		badge = " " + badgeStyle.Render("✔")
	}
	return fmt.Sprintf("%-11s %s %5.1f%%  %s%s", label, progressBar(progress, 20), progress, values, badge)
}

func progressBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func (m *Model) renderFocus() string {
	var buf bytes.Buffer
	if err := stats.RenderLanguageFocus(&buf, m.report.Focus); err != nil {
		return fmt.Sprintf("Failed to render language focus: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) renderTrends(width int) string {
	sessions := m.report.Sessions
	if len(sessions) == 0 {
		return "No sessions in this window."
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i] = s.WPM
		accs[i] = s.Accuracy
	}
	var buf bytes.Buffer
	err := stats.PlotSeries(&buf, "Trends", []stats.Series{
		{Name: "WPM", Values: wpms},
		{Name: "Accuracy", Values: accs},
	}, stats.PlotWidthFor(width), plotHeight, true)
	if err != nil {
		return fmt.Sprintf("Failed to render trends: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) initWeakTable() {
	columns := []table.Column{
		{Title: "Key", Width: 8},
		{Title: "Error Rate", Width: 11},
		{Title: "Errors", Width: 7},
		{Title: "Attempts", Width: 9},
	}
	m.weakTable = table.New(table.WithColumns(columns), table.WithHeight(1))
}

func (m *Model) applyWeakTable() {
	rows := make([]table.Row, 0, len(m.report.WeakKeys))
	for _, wk := range m.report.WeakKeys {
		rows = append(rows, table.Row{
			keyLabel(wk.Key),
			fmt.Sprintf("%.1f%%", wk.ErrorRate),
			fmt.Sprintf("%d", wk.Errors),
			fmt.Sprintf("%d", wk.Attempts),
		})
	}
	m.weakTable.SetRows(rows)
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

func (m *Model) initGoalInputs() {
	m.goalInputs = []textinput.Model{
		newGoalInput("WPM goal: "),
		newGoalInput("Accuracy goal (%): "),
		newGoalInput("Daily minutes goal: "),
	}
}

func newGoalInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) startGoalForm() (tea.Model, tea.Cmd) {
	m.goalMode = true
	m.goalError = ""
	m.goalIndex = 0
	m.goalInputs[0].SetValue(strconv.FormatFloat(m.goals.WPMGoal, 'f', -1, 64))
	m.goalInputs[1].SetValue(strconv.FormatFloat(m.goals.AccuracyGoal, 'f', -1, 64))
	m.goalInputs[2].SetValue(strconv.FormatFloat(m.goals.TimeGoalMinutes, 'f', -1, 64))
	for i := range m.goalInputs {
		m.goalInputs[i].Blur()
	}
	return m, m.goalInputs[0].Focus()
}

func (m *Model) updateGoalForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.goalMode = false
		return m, nil
	case "tab", "down":
		return m.focusGoalInput(m.goalIndex + 1)
	case "shift+tab", "up":
		return m.focusGoalInput(m.goalIndex - 1)
	case "enter":
		return m.applyGoalForm()
	}
	var cmd tea.Cmd
	m.goalInputs[m.goalIndex], cmd = m.goalInputs[m.goalIndex].Update(msg)
	return m, cmd
}

func (m *Model) focusGoalInput(next int) (tea.Model, tea.Cmd) {
	count := len(m.goalInputs)
	m.goalInputs[m.goalIndex].Blur()
	m.goalIndex = (next + count) % count
	return m, m.goalInputs[m.goalIndex].Focus()
}

func (m *Model) applyGoalForm() (tea.Model, tea.Cmd) {
	values := make([]float64, len(m.goalInputs))
	for i, input := range m.goalInputs {
		v, err := strconv.ParseFloat(strings.TrimSpace(input.Value()), 64)
		if err != nil || v < 0 {
			m.goalError = "goals must be non-negative numbers"
			return m, nil
		}
		values[i] = v
	}
	goals := model.Goals{WPMGoal: values[0], AccuracyGoal: values[1], TimeGoalMinutes: values[2]}
	if err := m.store.SaveGoals(context.Background(), goals); err != nil {
		m.goalError = err.Error()
		return m, nil
	}
	m.goals = goals
	m.goalMode = false
	m.refreshReport()
	return m, nil
}

func (m *Model) renderGoalForm() string {
	lines := []string{"Edit goals (enter to save, esc to cancel)"}
	for _, input := range m.goalInputs {
		lines = append(lines, input.View())
	}
	if m.goalError != "" {
		lines = append(lines, errorStyle.Render(m.goalError))
	}
	return strings.Join(lines, "\n")
}

func fitLines(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = truncateLine(line, width)
		}
	}
	return strings.Join(lines, "\n")
}

func truncateLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	w := 0
	for _, r := range line {
		rw := lipgloss.Width(string(r))
		if w+rw > width {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
