// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/mood"
	"github.com/jeranaias/haven-tui/internal/report"
	"github.com/jeranaias/haven-tui/internal/session"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ReportLoadedMsg delivers the fetched sentiment report. Stale is set
// when the fetch failed and the report came from the local cache.
type ReportLoadedMsg struct {
	Report *report.Report
	Stale  bool
	Err    error
}

// MoodRecordedMsg signals a saved check-in.
type MoodRecordedMsg struct {
	Entry mood.Entry
	Err   error
}

// MoodHistoryMsg delivers the recent check-ins strip.
type MoodHistoryMsg struct {
	Entries []mood.Entry
	Err     error
}

// ExportDoneMsg signals a finished markdown export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// SENTIMENT CLIENT
// =============================================================================

// SentimentClient is the slice of the backend the dashboard needs.
type SentimentClient interface {
	Sentiment(ctx context.Context, userID string, days int) (*backend.SentimentReport, error)
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the wellness dashboard view.
type Model struct {
	theme   *styles.Theme
	mgr     *session.Manager
	client  SentimentClient
	tracker *mood.Tracker
	days    int
	timeout time.Duration

	spinner spinner.Model
	width   int
	height  int

	selected int // index into mood.Levels()
	recent   []mood.Entry
	rpt      *report.Report

	loading  bool
	errText  string
	notice   string
}

// NewModel creates the dashboard view.
func NewModel(theme *styles.Theme, mgr *session.Manager, client SentimentClient, tracker *mood.Tracker, days int, timeout time.Duration) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = theme.Spinner

	return &Model{
		theme:    theme,
		mgr:      mgr,
		client:   client,
		tracker:  tracker,
		days:     days,
		timeout:  timeout,
		spinner:  sp,
		selected: 2, // start on Neutral
	}
}

// Init loads the report and the recent check-ins.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.loadReportCmd(), m.loadMoodsCmd(), m.spinner.Tick)
}

// Update handles dashboard input and async results.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReportLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = "Couldn't load your wellness report right now."
			return m, nil
		}
		m.rpt = msg.Report
		if msg.Stale {
			m.notice = "Showing your last saved report; the service is unreachable."
		}
		return m, nil

	case MoodHistoryMsg:
		if msg.Err == nil {
			m.recent = msg.Entries
		}
		return m, nil

	case MoodRecordedMsg:
		if msg.Err != nil {
			m.errText = "Couldn't save your check-in: " + msg.Err.Error()
			return m, nil
		}
		m.notice = fmt.Sprintf("Recorded %s %s", msg.Entry.Level.Emoji(), msg.Entry.Level.Label())
		return m, m.loadMoodsCmd()

	case ExportDoneMsg:
		if msg.Err != nil {
			m.errText = "Export failed: " + msg.Err.Error()
		} else {
			m.notice = "Report exported to " + msg.Path
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		if m.selected > 0 {
			m.selected--
		}
	case "right", "l":
		if m.selected < len(mood.Levels())-1 {
			m.selected++
		}
	case "enter":
		return m, m.recordMoodCmd(mood.Levels()[m.selected])
	case "r":
		m.loading = true
		m.errText = ""
		return m, tea.Batch(m.loadReportCmd(), m.spinner.Tick)
	case "e":
		return m, m.exportCmd()
	case "esc":
		m.errText = ""
		m.notice = ""
	}
	return m, nil
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m *Model) loadReportCmd() tea.Cmd {
	mgr, userID, days, client, timeout := m.mgr, m.mgr.UserID(), m.days, m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		src, err := client.Sentiment(ctx, userID, days)
		if err != nil {
			// Fall back to the report saved by the last successful fetch.
			if cached := mgr.CachedReport(); cached != nil {
				return ReportLoadedMsg{Report: report.Build(cached, days), Stale: true}
			}
			return ReportLoadedMsg{Err: err}
		}
		mgr.SaveReport(src)
		return ReportLoadedMsg{Report: report.Build(src, days)}
	}
}

func (m *Model) loadMoodsCmd() tea.Cmd {
	userID, tracker := m.mgr.UserID(), m.tracker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		entries, err := tracker.Recent(ctx, userID, 5)
		return MoodHistoryMsg{Entries: entries, Err: err}
	}
}

func (m *Model) recordMoodCmd(level mood.Level) tea.Cmd {
	userID, tracker := m.mgr.UserID(), m.tracker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		entry, err := tracker.Record(ctx, userID, level, "")
		return MoodRecordedMsg{Entry: entry, Err: err}
	}
}

func (m *Model) exportCmd() tea.Cmd {
	if m.rpt == nil {
		m.errText = "Nothing to export yet."
		return nil
	}
	rpt, moods := m.rpt, chronological(m.recent)
	return func() tea.Msg {
		home, err := os.UserHomeDir()
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		path := filepath.Join(home, fmt.Sprintf("wellness-report-%s.md", time.Now().Format("2006-01-02")))
		return ExportDoneMsg{Path: path, Err: report.ExportMarkdown(path, rpt, moods)}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the dashboard.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderTitle.Render("Wellness"))
	b.WriteString("  ")
	b.WriteString(m.theme.HeaderSubtitle.Render(fmt.Sprintf("last %d days", m.days)))
	b.WriteString("\n\n")

	b.WriteString(m.renderMoodCard())
	b.WriteString("\n")
	b.WriteString(m.renderReportCard())
	b.WriteString("\n")

	switch {
	case m.errText != "":
		b.WriteString(m.theme.FormError.Render(m.errText))
	case m.notice != "":
		b.WriteString(m.theme.FormHint.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.theme.StatusBar.Render(
		m.theme.ShortcutKey.Render("←/→") + m.theme.ShortcutDesc.Render(" pick mood  ") +
			m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" check in  ") +
			m.theme.ShortcutKey.Render("r") + m.theme.ShortcutDesc.Render(" refresh  ") +
			m.theme.ShortcutKey.Render("e") + m.theme.ShortcutDesc.Render(" export  ") +
			m.theme.ShortcutKey.Render("tab") + m.theme.ShortcutDesc.Render(" views")))

	return b.String()
}

func (m *Model) renderMoodCard() string {
	var b strings.Builder
	b.WriteString(m.theme.CardTitle.Render("How are you feeling today?"))
	b.WriteString("\n\n")

	var opts []string
	for i, lvl := range mood.Levels() {
		cell := lvl.Emoji() + " " + lvl.Label()
		if i == m.selected {
			opts = append(opts, m.theme.MoodSelected.Render(cell))
		} else {
			opts = append(opts, m.theme.MoodOption.Render(cell))
		}
	}
	b.WriteString(strings.Join(opts, " "))

	if len(m.recent) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.theme.FormHint.Render("recent: "))
		var strip []string
		for _, e := range m.recent {
			strip = append(strip, e.Level.Emoji())
		}
		b.WriteString(strings.Join(strip, " "))

		chrono := chronological(m.recent)
		avg, _ := report.MoodAverage(chrono)
		trend := report.MoodTrend(chrono)
		trendStyle := m.theme.TrendUp
		if trend < 0 {
			trendStyle = m.theme.TrendDown
		}
		b.WriteString("\n")
		b.WriteString(m.theme.FormHint.Render(fmt.Sprintf("average %.1f  ", avg)))
		b.WriteString(trendStyle.Render(report.TrendWord(trend)))
	}

	return m.theme.Card.Width(m.cardWidth()).Render(b.String())
}

// chronological reverses the newest-first strip into check-in order.
func chronological(entries []mood.Entry) []mood.Entry {
	out := make([]mood.Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}

func (m *Model) renderReportCard() string {
	var b strings.Builder
	b.WriteString(m.theme.CardTitle.Render("Emotional tone"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " building your report...")
	case m.rpt == nil:
		b.WriteString(m.theme.FormHint.Render("No report yet. Press r to refresh."))
	case len(m.rpt.Daily) == 0:
		b.WriteString(m.theme.FormHint.Render("Not enough conversation yet. Chat with Dr. Sarah and check back."))
	default:
		for _, label := range m.rpt.Labels {
			spark := m.rpt.LabelSparkline(label)
			if spark == "" {
				continue
			}
			b.WriteString(fmt.Sprintf("%-12s ", label))
			b.WriteString(m.theme.Sparkline.Render(spark))
			b.WriteString("\n")
		}
		b.WriteString("\n")

		for _, d := range m.rpt.Daily {
			dominant := d.Dominant
			if dominant == "" {
				dominant = "-"
			}
			b.WriteString(fmt.Sprintf("%-12s %-12s %.2f\n", d.Date, dominant, d.Score))
		}
	}

	return m.theme.Card.Width(m.cardWidth()).Render(b.String())
}

func (m *Model) cardWidth() int {
	if m.width > 4 {
		return m.width - 4
	}
	return 76
}
