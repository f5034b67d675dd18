// Package tui provides a Bubble Tea TUI for viewing work reports.
package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/worklog/internal/report"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	// Section heading inside a tab
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	bulletStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	// Selected row in the Days list
	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabDays
	tabTasks
	tabSessions
	tabMessages
	tabCount
)

var tabNames = [tabCount]string{
	"Summary", "Days", "Tasks", "Sessions", "Messages",
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	report    *report.WorkReport
	filename  string
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	sortAsc   bool
	// Days tab: cursor position and expanded set
	dayCursor    int
	expandedDays map[int]bool
}

// New creates a new TUI model for the given report and source filename.
func New(r *report.WorkReport, filename string) Model {
	return Model{
		report:       r,
		filename:     filepath.Base(filename),
		sortAsc:      false,
		expandedDays: make(map[int]bool),
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4", "5":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "s":
			if m.activeTab == tabMessages {
				m.sortAsc = !m.sortAsc
				m.rebuild(tabMessages)
				m.viewports[tabMessages].GotoTop()
			}
		case "up", "k":
			if m.activeTab == tabDays && m.dayCursor > 0 {
				m.dayCursor--
				m.rebuild(tabDays)
				return m, nil
			}
		case "down", "j":
			if m.activeTab == tabDays && m.dayCursor < len(m.report.Days)-1 {
				m.dayCursor++
				m.rebuild(tabDays)
				return m, nil
			}
		case "enter", " ":
			if m.activeTab == tabDays && len(m.report.Days) > 0 {
				if m.expandedDays[m.dayCursor] {
					delete(m.expandedDays, m.dayCursor)
				} else {
					m.expandedDays[m.dayCursor] = true
				}
				m.rebuild(tabDays)
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  worklog  " + m.filename)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-5 jump  q quit"
	if m.activeTab == tabMessages {
		dir := "newest first"
		if m.sortAsc {
			dir = "oldest first"
		}
		hint += "  s sort (" + dir + ")"
	}
	if m.activeTab == tabDays {
		hint += "  enter expand/collapse"
	}
	// show scroll % on the right
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Model) rebuild(t tabID) {
	m.viewports[t].SetContent(m.renderTab(t))
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabDays:
		return m.renderDays()
	case tabTasks:
		return m.renderTasks()
	case tabSessions:
		return m.renderSessions()
	case tabMessages:
		return m.renderMessages()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func bullet(text string) string {
	return bulletStyle.Render("  •") + "  " + text + "\n"
}

func (m *Model) row(sb *strings.Builder, label, value string) {
	sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-16s", label)) + "  " + value + "\n")
}

func (m *Model) renderSummary() string {
	r := m.report
	var sb strings.Builder
	sb.WriteString(heading("Work Summary"))

	m.row(&sb, "Repository:", r.Repo)
	m.row(&sb, "Path:", r.RepoPath)
	m.row(&sb, "Range:", r.Range)
	if !r.GeneratedAt.IsZero() {
		m.row(&sb, "Generated:", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if r.Author != "" {
		m.row(&sb, "Author:", r.Author)
	}

	sb.WriteString("\n")
	sb.WriteString(heading("Counts"))
	m.row(&sb, "Days:", fmt.Sprintf("%d", len(r.Days)))
	m.row(&sb, "Commits:", fmt.Sprintf("%d", r.Messages()))
	m.row(&sb, "Tasks:", fmt.Sprintf("%d", len(report.AllPoints(r))))
	if r.Sessions != nil {
		m.row(&sb, "Sessions:", fmt.Sprintf("%d", r.Sessions.Count))
		m.row(&sb, "Active time:", r.Sessions.Total)
	}
	return sb.String()
}

func (m *Model) renderDays() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Days (%d)", len(m.report.Days))))
	if len(m.report.Days) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for i, d := range m.report.Days {
		toggle := dimStyle.Render("  ▶ ")
		expanded := m.expandedDays[i]
		if expanded {
			toggle = dimStyle.Render("  ▼ ")
		}
		count := countStyle.Render(fmt.Sprintf("%3d", len(d.Messages)))
		row := fmt.Sprintf("%s%s  %s commits  %s", toggle, dateStyle.Render(d.Date), count, firstLine(d.Summary))
		if i == m.dayCursor {
			// Pad to width so the highlight fills the line
			row = selectedRowStyle.Width(m.width - 2).Render(row)
		}
		sb.WriteString(row + "\n")

		if expanded {
			sb.WriteString(indent(d.Summary, "      ") + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderTasks() string {
	var sb strings.Builder
	points := report.AllPoints(m.report)
	sb.WriteString(heading(fmt.Sprintf("Tasks (%d)", len(points))))
	if len(points) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for _, d := range m.report.Days {
		if len(d.Points) == 0 {
			continue
		}
		sb.WriteString("  " + dateStyle.Render(d.Date) + "\n")
		for _, p := range d.Points {
			sb.WriteString(bullet(p))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderSessions() string {
	var sb strings.Builder
	sb.WriteString(heading("Sessions"))
	s := m.report.Sessions
	if s == nil {
		sb.WriteString(dimStyle.Render("  (no session estimate in this report)") + "\n")
		return sb.String()
	}
	m.row(&sb, "Gap threshold:", fmt.Sprintf("%d minutes", s.GapMinutes))
	m.row(&sb, "Sessions:", fmt.Sprintf("%d", s.Count))
	m.row(&sb, "Total active:", s.Total)
	if s.Longest != "" {
		m.row(&sb, "Longest:", s.Longest)
	}
	m.row(&sb, "Latest session:", s.CurrentStreak)
	return sb.String()
}

func (m *Model) renderMessages() string {
	var sb strings.Builder

	dir := "newest first"
	if m.sortAsc {
		dir = "oldest first"
	}
	sb.WriteString(heading(fmt.Sprintf("Messages (%s)", dir)))

	days := make([]report.DaySummary, len(m.report.Days))
	copy(days, m.report.Days)
	if m.sortAsc {
		sort.SliceStable(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	} else {
		sort.SliceStable(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	}

	if m.report.Messages() == 0 {
		sb.WriteString(dimStyle.Render("  (no commit messages in this report)") + "\n")
		return sb.String()
	}

	for _, d := range days {
		msgs := d.Messages
		if !m.sortAsc {
			msgs = reversed(msgs)
		}
		for _, msg := range msgs {
			sb.WriteString(dateStyle.Render("  "+d.Date) + "  " + msg + "\n")
		}
	}
	return sb.String()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// Run starts the TUI for the given report.
func Run(r *report.WorkReport, filename string) error {
	p := tea.NewProgram(New(r, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
