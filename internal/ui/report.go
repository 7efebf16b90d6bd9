package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/explorecountries/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	reportBorderStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)

	rowStyle = lipgloss.NewStyle().
			Foreground(ColorText)
)

// reportColumns are the plain report widths: #, Country, Capital, Currency, Population
var reportColumns = []int{4, 32, 20, 16, 25}

// PrintCountryTable writes a bordered table of countries.
//
// This is a CLI report (non-interactive), so the table structure is built
// with plain string formatting; lipgloss only colors it.
func PrintCountryTable(w io.Writer, countries []models.Country, filter models.CountryFilter) {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Countries (%s)", filter.Criterion)))
	if filter.SearchText != "" {
		fmt.Fprintln(w, RenderDim("Search: "+filter.SearchText))
	}

	if len(countries) == 0 {
		fmt.Fprintln(w, RenderDim("No countries match."))
		return
	}

	totalWidth := 1
	for _, cw := range reportColumns {
		totalWidth += cw + 3
	}
	separator := FullWidthDivider(totalWidth - 2)

	fmt.Fprintln(w, reportBorderStyle.Render("┌"+separator+"┐"))
	fmt.Fprintln(w, headerStyle.Render(formatReportRow("#", "Country", "Capital", "Currency", "Population")))
	fmt.Fprintln(w, reportBorderStyle.Render("├"+separator+"┤"))

	for i, c := range countries {
		fmt.Fprintln(w, rowStyle.Render(formatReportRow(
			strconv.Itoa(i+1),
			c.Name,
			c.CapitalOrUnknown(),
			c.CurrencyOrUnknown(),
			c.PopulationLabel(),
		)))
	}

	fmt.Fprintln(w, reportBorderStyle.Render("└"+separator+"┘"))
	fmt.Fprintln(w, StatsLine(len(countries)))
}

func formatReportRow(cells ...string) string {
	row := "│"
	for i, cell := range cells {
		row += " " + padRight(truncateToWidth(cell, reportColumns[i]), reportColumns[i]) + " │"
	}
	return row
}

// StatsLine renders the result counter shown under lists
func StatsLine(n int) string {
	return AccentStyle.Render(fmt.Sprintf("%d results found", n))
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Println(ErrorStyle.Render("Error: " + message))
}
