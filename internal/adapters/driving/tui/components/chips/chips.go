// Package chips provides the suggestion chip row for the TUI.
package chips

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/zraval/portfolio-assistant/internal/adapters/driving/tui/styles"
)

// maxVisible caps how many chips are rendered at once.
const maxVisible = 6

// Row displays suggestion chips the visitor can cycle through.
// When a filter is set, chips are fuzzy-matched against it so typing
// narrows the row to relevant suggestions.
type Row struct {
	styles      *styles.Styles
	suggestions []string
	filter      string
	visible     []string
	selected    int
	width       int
}

// NewRow creates a suggestion chip row.
func NewRow(s *styles.Styles, suggestions []string) *Row {
	if s == nil {
		s = styles.DefaultStyles()
	}

	r := &Row{
		styles:      s,
		suggestions: suggestions,
		selected:    -1,
		width:       80,
	}
	r.refresh()
	return r
}

// SetSuggestions replaces the suggestion pool and re-applies the filter.
func (r *Row) SetSuggestions(suggestions []string) {
	r.suggestions = suggestions
	r.refresh()
}

// SetFilter narrows visible chips to fuzzy matches of the given text.
// An empty filter shows the full pool.
func (r *Row) SetFilter(filter string) {
	filter = strings.TrimSpace(filter)
	if filter == r.filter {
		return
	}
	r.filter = filter
	r.refresh()
}

// refresh recomputes the visible chips and resets the selection.
func (r *Row) refresh() {
	r.selected = -1
	if r.filter == "" {
		if len(r.suggestions) > maxVisible {
			r.visible = r.suggestions[:maxVisible]
		} else {
			r.visible = r.suggestions
		}
		return
	}

	matches := fuzzy.Find(r.filter, r.suggestions)
	visible := make([]string, 0, len(matches))
	for _, m := range matches {
		visible = append(visible, m.Str)
		if len(visible) == maxVisible {
			break
		}
	}
	r.visible = visible
}

// Next advances the selection to the following chip, wrapping around.
// It returns the newly selected chip, or "" when no chips are visible.
func (r *Row) Next() string {
	if len(r.visible) == 0 {
		return ""
	}
	r.selected = (r.selected + 1) % len(r.visible)
	return r.visible[r.selected]
}

// Selected returns the currently selected chip, or "" when none is.
func (r *Row) Selected() string {
	if r.selected < 0 || r.selected >= len(r.visible) {
		return ""
	}
	return r.visible[r.selected]
}

// ClearSelection deselects the current chip.
func (r *Row) ClearSelection() {
	r.selected = -1
}

// Visible returns the chips currently shown.
func (r *Row) Visible() []string {
	return r.visible
}

// SetWidth sets the row width.
func (r *Row) SetWidth(width int) {
	r.width = width
}

// View renders the chip row, wrapping onto further lines when needed.
func (r *Row) View() string {
	if len(r.visible) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(r.visible))
	for i, chip := range r.visible {
		if i == r.selected {
			rendered = append(rendered, r.styles.ChipSelected.Render(chip))
		} else {
			rendered = append(rendered, r.styles.Chip.Render(chip))
		}
	}

	lines := make([]string, 0, 2)
	var row []string
	rowWidth := 0
	for _, chip := range rendered {
		w := lipgloss.Width(chip)
		if rowWidth+w > r.width && len(row) > 0 {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
			rowWidth = 0
		}
		row = append(row, chip)
		rowWidth += w
	}
	if len(row) > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return strings.Join(lines, "\n")
}
