package ui

// view_helpers.go provides common View() rendering helpers.

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

// =============================================================================
// Table Rendering with Full-Width Selection
// =============================================================================

// RenderTableWithSelection renders a bubbles table with full-width selection highlight.
// The table's Selected style should be neutral (see ApplyTableStyles);
// this function applies the visible selection styling.
//
// bubbles/table View() output:
// - Line 0: Header row
// - Line 1+: Data rows (only visible rows due to viewport scrolling)
func RenderTableWithSelection(t table.Model, width int) string {
	lines := strings.Split(t.View(), "\n")
	result := make([]string, 0, len(lines)+1)

	visibleCursorIndex := t.Cursor() - scrollStart(t.Cursor(), t.Height(), len(t.Rows()))

	for i, line := range lines {
		if i == 0 {
			result = append(result, NormalStyle.Render(line))
			result = append(result, FullWidthDivider(width))
			continue
		}

		// Strip escape codes first so embedded resets don't kill the background
		if i-1 == visibleCursorIndex && len(t.Rows()) > 0 {
			result = append(result, RenderSelectedWidth(stripEscapeCodes(line), width))
			continue
		}

		result = append(result, NormalStyle.Render(line))
	}

	return strings.Join(result, "\n")
}

// scrollStart mirrors the bubbles table viewport: rows only scroll once the
// cursor passes the bottom, and never past the last row
func scrollStart(cursor, height, totalRows int) int {
	if totalRows <= height {
		return 0
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	if maxStart := totalRows - height; start > maxStart {
		start = maxStart
	}
	return start
}

// =============================================================================
// View Header - Title + Divider Pattern
// =============================================================================

// ViewHeaderWithSubtitle renders title + subtitle + divider + spacing.
func ViewHeaderWithSubtitle(title, subtitle string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	if subtitle != "" {
		b.WriteString(RenderDim(subtitle))
		b.WriteString("\n")
	}
	b.WriteString(FullWidthDivider(innerWidth))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Text Centering
// =============================================================================

// CenterText centers text within given width.
func CenterText(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	return strings.Repeat(" ", (width-textW)/2) + text
}

// CenterTextPadded centers text and pads to full width.
func CenterTextPadded(text string, width int) string {
	return padRight(CenterText(text, width), width)
}

// FullWidthDivider returns a horizontal divider spanning the inner width.
func FullWidthDivider(innerWidth int) string {
	return strings.Repeat("─", innerWidth)
}
