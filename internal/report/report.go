// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"sort"
	"strings"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/mood"
)

// =============================================================================
// REPORT MODEL
// =============================================================================

// DaySummary is one day's digest of the sentiment aggregates.
type DaySummary struct {
	Date     string
	Dominant string  // label with the highest mean score, "" when no data
	Score    float64 // the dominant label's mean score
}

// Report is the assembled wellness report for one user and window.
type Report struct {
	UserID string
	Days   int
	Labels []string
	Daily  []DaySummary

	// series holds each label's per-day scores, aligned with Daily.
	// Days where the label was absent hold zero.
	series map[string][]float64
}

// Build digests the backend's sentiment report into display form.
func Build(src *backend.SentimentReport, days int) *Report {
	r := &Report{
		UserID: src.UserID.String(),
		Days:   days,
		Labels: append([]string(nil), src.AvailableLabels...),
		series: make(map[string][]float64, len(src.AvailableLabels)),
	}

	for _, day := range src.DailySentiments {
		r.Daily = append(r.Daily, summarizeDay(day))
		for _, label := range r.Labels {
			var v float64
			if s, ok := day.Labels[label]; ok && s != nil {
				v = *s
			}
			r.series[label] = append(r.series[label], v)
		}
	}
	return r
}

func summarizeDay(day backend.DailySentiment) DaySummary {
	s := DaySummary{Date: day.Date}

	labels := make([]string, 0, len(day.Labels))
	for label := range day.Labels {
		labels = append(labels, label)
	}
	// Stable dominant pick when scores tie.
	sort.Strings(labels)

	for _, label := range labels {
		score := day.Labels[label]
		if score == nil {
			continue
		}
		if s.Dominant == "" || *score > s.Score {
			s.Dominant = label
			s.Score = *score
		}
	}
	return s
}

// LabelSeries returns the label's per-day scores, aligned with Daily.
func (r *Report) LabelSeries(label string) []float64 {
	return r.series[label]
}

// =============================================================================
// MOOD STATISTICS
// =============================================================================

// MoodAverage returns the mean score of the check-ins and their count.
func MoodAverage(entries []mood.Entry) (float64, int) {
	if len(entries) == 0 {
		return 0, 0
	}
	var sum float64
	for _, e := range entries {
		sum += float64(e.Level.Score())
	}
	return sum / float64(len(entries)), len(entries)
}

// MoodTrend returns the last check-in's score minus the previous one's.
// Entries must be in chronological order; fewer than two entries yield 0.
func MoodTrend(entries []mood.Entry) float64 {
	if len(entries) < 2 {
		return 0
	}
	last := entries[len(entries)-1].Level.Score()
	prev := entries[len(entries)-2].Level.Score()
	return float64(last - prev)
}

// TrendWord describes a score delta for display.
func TrendWord(delta float64) string {
	switch {
	case delta > 0:
		return "improving"
	case delta < 0:
		return "declining"
	default:
		return "steady"
	}
}

// =============================================================================
// SPARKLINE
// =============================================================================

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a fixed-height bar string. Values are
// scaled to the observed range; a flat series renders mid-height bars.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		idx := len(sparkRunes) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// LabelSparkline renders one label's day scores.
func (r *Report) LabelSparkline(label string) string {
	return Sparkline(r.series[label])
}

// ScoreSparkline renders the dominant score per day.
func (r *Report) ScoreSparkline() string {
	values := make([]float64, 0, len(r.Daily))
	for _, d := range r.Daily {
		values = append(values, d.Score)
	}
	return Sparkline(values)
}
