// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resources

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// RESOURCE MODEL
// =============================================================================

// Category groups resources in the library view.
type Category string

const (
	CategoryCoping    Category = "Coping Skills"
	CategorySleep     Category = "Sleep"
	CategoryAnxiety   Category = "Anxiety"
	CategoryCrisis    Category = "Crisis Support"
	CategoryEducation Category = "Understanding Emotions"
)

// Resource is one article in the library. Body is markdown.
type Resource struct {
	ID       string
	Title    string
	Category Category
	Summary  string
	Body     string
}

// =============================================================================
// RENDERER
// =============================================================================

// markdownRenderer is the shared glamour renderer for article bodies.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		// Fall back to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// Rendered returns the article body rendered for the terminal, or the
// raw markdown if rendering is unavailable.
func (r Resource) Rendered() string {
	if markdownRenderer == nil {
		return r.Body
	}
	out, err := markdownRenderer.Render(r.Body)
	if err != nil {
		return r.Body
	}
	return out
}

// =============================================================================
// LIBRARY
// =============================================================================

// Library is the in-app resource collection.
type Library struct {
	resources []Resource
}

// NewLibrary returns the built-in library.
func NewLibrary() *Library {
	return &Library{resources: builtin}
}

// All returns every resource in display order.
func (l *Library) All() []Resource {
	out := make([]Resource, len(l.resources))
	copy(out, l.resources)
	return out
}

// ByCategory returns resources in the given category.
func (l *Library) ByCategory(c Category) []Resource {
	var out []Resource
	for _, r := range l.resources {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

// Get returns a resource by ID.
func (l *Library) Get(id string) (Resource, bool) {
	for _, r := range l.resources {
		if r.ID == id {
			return r, true
		}
	}
	return Resource{}, false
}

// Search returns resources whose title or summary contains the query,
// case-insensitive.
func (l *Library) Search(query string) []Resource {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return l.All()
	}

	var out []Resource
	for _, r := range l.resources {
		if strings.Contains(strings.ToLower(r.Title), query) ||
			strings.Contains(strings.ToLower(r.Summary), query) {
			out = append(out, r)
		}
	}
	return out
}

// Categories returns the categories that have at least one resource,
// in display order.
func (l *Library) Categories() []Category {
	order := []Category{CategoryCrisis, CategoryCoping, CategoryAnxiety, CategorySleep, CategoryEducation}
	var out []Category
	for _, c := range order {
		if len(l.ByCategory(c)) > 0 {
			out = append(out, c)
		}
	}
	return out
}
