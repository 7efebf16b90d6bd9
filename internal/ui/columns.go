package ui

// columns.go provides column width calculation for bubbles/table.

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/thesavant42/explorecountries/internal/models"
)

// ColumnSpec defines a table column with flexible or fixed width.
type ColumnSpec struct {
	Title      string
	MinWidth   int // Minimum width (0 = no minimum)
	FixedWidth int // If > 0, use this exact width (ignores FlexRatio)
	FlexRatio  int // Relative ratio for flexible columns
}

// CountryColumns are the browser table columns
var CountryColumns = []ColumnSpec{
	{Title: "#", FixedWidth: 4},
	{Title: "Country", FlexRatio: 35, MinWidth: 14},
	{Title: "Capital", FlexRatio: 25, MinWidth: 10},
	{Title: "Currency", FlexRatio: 20, MinWidth: 8},
	{Title: "Population", FixedWidth: 15},
}

// CalculateColumns computes column widths from specs.
// Flexible columns split remaining space by ratio after fixed columns are allocated.
// Each column also costs two cells of cell padding.
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	fixedTotal := 0
	flexTotal := 0
	for _, s := range specs {
		fixedTotal += 2
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}

	remaining := max(totalWidth-fixedTotal, 0)

	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		var width int
		if s.FixedWidth > 0 {
			width = s.FixedWidth
		} else if flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}

		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}

		columns[i] = table.Column{Title: s.Title, Width: width}
	}

	return columns
}

// CountryRows converts countries into table rows, numbering from 1
func CountryRows(countries []models.Country) []table.Row {
	rows := make([]table.Row, len(countries))
	for i, c := range countries {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			c.Name,
			c.CapitalOrUnknown(),
			c.CurrencyOrUnknown(),
			c.PopulationLabel(),
		}
	}
	return rows
}
