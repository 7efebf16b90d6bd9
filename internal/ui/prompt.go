package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/thesavant42/explorecountries/internal/models"
)

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		// Keep printable characters and normal whitespace (space, tab, newline)
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
}

// PromptForFilter asks the user to pick a population filter, starting on current
func PromptForFilter(current models.Criterion) (models.Criterion, error) {
	selected := 0
	options := make([]huh.Option[int], len(models.Criteria))
	for i, c := range models.Criteria {
		options[i] = huh.NewOption(c.String(), i)
		if c == current {
			selected = i
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Filter by Population").
				Description("Countries with an unknown population are always shown").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return current, fmt.Errorf("prompt cancelled: %w", err)
	}

	return models.Criteria[selected], nil
}
