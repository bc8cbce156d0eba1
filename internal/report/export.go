// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/haven-tui/internal/mood"
	"github.com/jeranaias/haven-tui/internal/util"
)

// =============================================================================
// MARKDOWN EXPORT
// =============================================================================

// ExportMarkdown renders the report (plus optional local mood check-ins)
// to markdown and writes it atomically.
func ExportMarkdown(path string, r *Report, moods []mood.Entry) error {
	data := []byte(RenderMarkdown(r, moods))
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// RenderMarkdown builds the markdown document for the report.
func RenderMarkdown(r *Report, moods []mood.Entry) string {
	var b strings.Builder

	b.WriteString("# Wellness Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Period: last %d days\n\n", r.Days)

	b.WriteString("## Emotional Tone\n\n")
	if len(r.Daily) == 0 {
		b.WriteString("No conversation data in this period.\n\n")
	} else {
		for _, label := range r.Labels {
			if spark := r.LabelSparkline(label); spark != "" {
				fmt.Fprintf(&b, "- %s: `%s`\n", label, spark)
			}
		}
		b.WriteString("\n")

		b.WriteString("| Date | Dominant emotion | Score |\n")
		b.WriteString("|------|------------------|-------|\n")
		for _, d := range r.Daily {
			dominant := d.Dominant
			if dominant == "" {
				dominant = "-"
			}
			fmt.Fprintf(&b, "| %s | %s | %.2f |\n", d.Date, dominant, d.Score)
		}
		b.WriteString("\n")
	}

	if len(moods) > 0 {
		b.WriteString("## Mood Check-ins\n\n")
		avg, n := MoodAverage(moods)
		fmt.Fprintf(&b, "Average mood: %.1f over %d check-ins (%s)\n\n", avg, n, TrendWord(MoodTrend(moods)))

		b.WriteString("| Date | Mood | Note |\n")
		b.WriteString("|------|------|------|\n")
		for _, e := range moods {
			note := e.Note
			if note == "" {
				note = "-"
			}
			fmt.Fprintf(&b, "| %s | %s %s | %s |\n",
				e.RecordedAt.Format("2006-01-02"), e.Level.Emoji(), e.Level.Label(), note)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	b.WriteString("This report is generated locally from your conversations and check-ins. ")
	b.WriteString("It is not a medical assessment.\n")
	return b.String()
}
