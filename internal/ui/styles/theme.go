// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the haven TUI.
package styles

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble    lipgloss.Style
	BotBubble     lipgloss.Style
	Placeholder   lipgloss.Style
	SenderLabel   lipgloss.Style
	SystemNotice  lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	Recording      lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	FormBox      lipgloss.Style
	FormLabel    lipgloss.Style
	FormError    lipgloss.Style
	FormHint     lipgloss.Style

	// ==========================================================================
	// DASHBOARD STYLES
	// ==========================================================================

	Card         lipgloss.Style
	CardTitle    lipgloss.Style
	MoodSelected lipgloss.Style
	MoodOption   lipgloss.Style
	Sparkline    lipgloss.Style
	TrendUp      lipgloss.Style
	TrendDown    lipgloss.Style

	// ==========================================================================
	// LIST STYLES
	// ==========================================================================

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListCategory     lipgloss.Style

	// ==========================================================================
	// SPINNER AND ERROR STYLES
	// ==========================================================================

	Spinner    lipgloss.Style
	ErrorBox   lipgloss.Style
	ErrorTitle lipgloss.Style
}

// NewTheme creates a theme matched to the terminal background.
func NewTheme() *Theme {
	output := termenv.NewOutput(os.Stdout)
	isDark := output.HasDarkBackground()
	return newThemeWithBackground(isDark, output.ColorProfile())
}

// NewThemeDark creates a dark theme regardless of terminal detection.
func NewThemeDark() *Theme {
	return newThemeWithBackground(true, termenv.TrueColor)
}

// NewThemeLight creates a light theme regardless of terminal detection.
func NewThemeLight() *Theme {
	return newThemeWithBackground(false, termenv.TrueColor)
}

func newThemeWithBackground(isDark bool, profile termenv.Profile) *Theme {
	t := &Theme{IsDark: isDark, ColorProfile: profile}

	// Calm palette: teal primary, lavender accent. A wellness app
	// should not look like an alert console.
	var (
		primary  = lipgloss.AdaptiveColor{Light: "#0D7377", Dark: "#14B8A6"}
		accent   = lipgloss.AdaptiveColor{Light: "#7C6FD0", Dark: "#A78BFA"}
		muted    = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
		surface  = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"}
		danger   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
		positive = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	)

	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	t.Header = lipgloss.NewStyle().Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(primary)
	t.HeaderSubtitle = lipgloss.NewStyle().Foreground(muted)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}).
		Background(surface).
		Padding(0, 1)
	t.BotBubble = lipgloss.NewStyle().Padding(0, 1)
	t.Placeholder = lipgloss.NewStyle().Italic(true).Foreground(muted)
	t.SenderLabel = lipgloss.NewStyle().Bold(true).Foreground(accent)
	t.SystemNotice = lipgloss.NewStyle().Italic(true).Foreground(muted)

	t.InputContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primary).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Foreground(primary).Bold(true)
	t.Recording = lipgloss.NewStyle().Foreground(danger).Bold(true)

	t.StatusBar = lipgloss.NewStyle().Foreground(muted)
	t.ShortcutKey = lipgloss.NewStyle().Bold(true).Foreground(accent)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(muted)

	t.FormBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primary).
		Padding(1, 2)
	t.FormLabel = lipgloss.NewStyle().Bold(true)
	t.FormError = lipgloss.NewStyle().Foreground(danger)
	t.FormHint = lipgloss.NewStyle().Foreground(muted)

	t.Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1)
	t.CardTitle = lipgloss.NewStyle().Bold(true).Foreground(primary)
	t.MoodSelected = lipgloss.NewStyle().Bold(true).Background(surface).Padding(0, 1)
	t.MoodOption = lipgloss.NewStyle().Padding(0, 1)
	t.Sparkline = lipgloss.NewStyle().Foreground(accent)
	t.TrendUp = lipgloss.NewStyle().Foreground(positive)
	t.TrendDown = lipgloss.NewStyle().Foreground(danger)

	t.ListItem = lipgloss.NewStyle().Padding(0, 2)
	t.ListItemSelected = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(primary)
	t.ListCategory = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginTop(1)

	t.Spinner = lipgloss.NewStyle().Foreground(accent)
	t.ErrorBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(danger).
		Padding(0, 1)
	t.ErrorTitle = lipgloss.NewStyle().Bold(true).Foreground(danger)

	return t
}

// Resize records the terminal dimensions for layout decisions.
func (t *Theme) Resize(width, height int) {
	t.Width = width
	t.Height = height
}
