package ui

// base_model.go provides common TUI functionality for Bubble Tea models.

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// BaseTableModel - Embed in table-based models
// =============================================================================

// BaseTableModel provides common table TUI state.
//
// Usage:
//
//	type myModel struct {
//	    BaseTableModel  // Embedded
//	    customField string
//	}
type BaseTableModel struct {
	Table    table.Model
	Layout   Layout
	Quitting bool
}

// NewBaseTableModel creates a BaseTableModel with default layout and an
// empty table built from specs.
func NewBaseTableModel(specs []ColumnSpec) BaseTableModel {
	layout := DefaultLayout()
	return BaseTableModel{
		Table:  InitTable(CalculateColumns(specs, layout.TableWidth), nil, layout),
		Layout: layout,
	}
}

// InitTable creates and configures a table with proper styling and dimensions.
func InitTable(columns []table.Column, rows []table.Row, layout Layout) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)

	// Apply standard table styles for consistent look and proper selection behavior
	ApplyTableStyles(&t)

	t.GotoTop()

	return t
}

// HandleWindowResize updates layout and table dimensions.
func (m *BaseTableModel) HandleWindowResize(width, height int, specs []ColumnSpec) {
	m.Layout = NewLayout(width, height)
	m.Table.SetColumns(CalculateColumns(specs, m.Layout.TableWidth))
	m.Table.SetWidth(m.Layout.TableWidth)
	m.Table.SetHeight(m.Layout.TableHeight)
}

// =============================================================================
// Standard Init/Update Helpers
// =============================================================================

// StandardInit returns the standard Init command for table models.
func StandardInit() tea.Cmd {
	return tea.WindowSize()
}

// HandleQuitKeysNoEsc returns true and Quit cmd for q/ctrl+c keys (not esc).
// Use when esc has special meaning (e.g., cancel input mode).
func HandleQuitKeysNoEsc(key string) (bool, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return true, tea.Quit
	}
	return false, nil
}
