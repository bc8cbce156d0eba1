// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mood

// =============================================================================
// MOOD LEVELS
// =============================================================================

// Level is a mood on the five-point check-in scale.
type Level int

const (
	VeryLow Level = iota + 1
	Low
	Neutral
	Good
	Great
)

// levels in display order.
var levels = []Level{VeryLow, Low, Neutral, Good, Great}

// Levels returns the five levels in display order.
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// Valid reports whether the level is on the scale.
func (l Level) Valid() bool {
	return l >= VeryLow && l <= Great
}

// Label returns the display name for the level.
func (l Level) Label() string {
	switch l {
	case VeryLow:
		return "Very Low"
	case Low:
		return "Low"
	case Neutral:
		return "Neutral"
	case Good:
		return "Good"
	case Great:
		return "Great"
	default:
		return "Unknown"
	}
}

// Emoji returns the check-in emoji for the level.
func (l Level) Emoji() string {
	switch l {
	case VeryLow:
		return "😢"
	case Low:
		return "😕"
	case Neutral:
		return "😐"
	case Good:
		return "🙂"
	case Great:
		return "😄"
	default:
		return "❓"
	}
}

// Score returns the 2..10 numeric score used by the wellness report.
func (l Level) Score() int {
	return int(l) * 2
}
