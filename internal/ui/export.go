package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thesavant42/explorecountries/internal/models"
)

// ExportFilename returns the dated Markdown file name for an export
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("countries-%s.md", now.Format("2006-01-02"))
}

// ExportMarkdown writes the countries to a dated Markdown file in dir and
// returns its path
func ExportMarkdown(countries []models.Country, filter models.CountryFilter, dir string, now time.Time) (string, error) {
	var sb strings.Builder
	if err := WriteMarkdown(&sb, countries, filter, now); err != nil {
		return "", err
	}

	path := filepath.Join(dir, ExportFilename(now))
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown file: %w", err)
	}
	return path, nil
}

// WriteMarkdown renders the countries as a Markdown document
func WriteMarkdown(w io.Writer, countries []models.Country, filter models.CountryFilter, now time.Time) error {
	var sb strings.Builder

	sb.WriteString("# Countries\n\n")

	// Summary
	sb.WriteString(fmt.Sprintf("**Population Filter:** %s\n", filter.Criterion))
	if filter.SearchText != "" {
		sb.WriteString(fmt.Sprintf("**Search:** %s\n", escapeMarkdown(filter.SearchText)))
	}
	sb.WriteString(fmt.Sprintf("**Results:** %d\n", len(countries)))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", now.Format("2006-01-02 15:04:05")))

	sb.WriteString("| # | Country | Capital | Currency | Population | Flag |\n")
	sb.WriteString("|---|---------|---------|----------|------------|------|\n")

	for i, c := range countries {
		flag := "-"
		if url, ok := c.ImageURL(); ok {
			flag = fmt.Sprintf("[image](%s)", url)
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s |\n",
			i+1,
			escapeMarkdown(c.Name),
			escapeMarkdown(c.CapitalOrUnknown()),
			escapeMarkdown(c.CurrencyOrUnknown()),
			c.PopulationLabel(),
			flag))
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	return nil
}

// escapeMarkdown keeps cell text from breaking the table
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
