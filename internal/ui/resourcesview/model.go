// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resourcesview

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/haven-tui/internal/resources"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the resource library view: a category-grouped list, with a
// reader pane when an article is opened.
type Model struct {
	theme   *styles.Theme
	library *resources.Library

	items    []resources.Resource
	selected int
	reading  bool
	reader   viewport.Model

	width  int
	height int
}

// NewModel creates the library view.
func NewModel(theme *styles.Theme, library *resources.Library) *Model {
	return &Model{
		theme:   theme,
		library: library,
		items:   orderedItems(library),
		reader:  viewport.New(80, 20),
	}
}

// orderedItems flattens the library grouped by category.
func orderedItems(lib *resources.Library) []resources.Resource {
	var items []resources.Resource
	for _, cat := range lib.Categories() {
		items = append(items, lib.ByCategory(cat)...)
	}
	return items
}

// Init is a no-op.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles navigation.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.reader.Width = msg.Width
		m.reader.Height = msg.Height - 4
		return m, nil

	case tea.KeyMsg:
		if m.reading {
			switch msg.String() {
			case "esc", "q", "backspace":
				m.reading = false
				return m, nil
			}
			var cmd tea.Cmd
			m.reader, cmd = m.reader.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.items)-1 {
				m.selected++
			}
		case "enter":
			m.openSelected()
		}
	}
	return m, nil
}

func (m *Model) openSelected() {
	if m.selected < 0 || m.selected >= len(m.items) {
		return
	}
	m.reading = true
	m.reader.SetContent(m.items[m.selected].Rendered())
	m.reader.GotoTop()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the list or the open article.
func (m *Model) View() string {
	if m.reading {
		return m.renderReader()
	}
	return m.renderList()
}

func (m *Model) renderReader() string {
	var b strings.Builder
	r := m.items[m.selected]
	b.WriteString(m.theme.HeaderTitle.Render(r.Title))
	b.WriteString("\n")
	b.WriteString(m.reader.View())
	b.WriteString("\n")
	b.WriteString(m.theme.StatusBar.Render(
		m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" back  ") +
			m.theme.ShortcutKey.Render("↑/↓") + m.theme.ShortcutDesc.Render(" scroll")))
	return b.String()
}

func (m *Model) renderList() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Resources"))
	b.WriteString("  ")
	b.WriteString(m.theme.HeaderSubtitle.Render("tools for hard moments"))
	b.WriteString("\n")

	var lastCat resources.Category
	for i, r := range m.items {
		if r.Category != lastCat {
			b.WriteString(m.theme.ListCategory.Render(string(r.Category)))
			b.WriteString("\n")
			lastCat = r.Category
		}

		line := r.Title + "  " + m.theme.FormHint.Render(r.Summary)
		if i == m.selected {
			b.WriteString(m.theme.ListItemSelected.Render("> " + line))
		} else {
			b.WriteString(m.theme.ListItem.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.StatusBar.Render(
		m.theme.ShortcutKey.Render("↑/↓") + m.theme.ShortcutDesc.Render(" browse  ") +
			m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" read  ") +
			m.theme.ShortcutKey.Render("tab") + m.theme.ShortcutDesc.Render(" views")))
	return b.String()
}
