package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
)

type criterionKind int

const (
	criterionAll criterionKind = iota
	criterionPopulationUnder
)

// Criterion is the population predicate applied to the country list.
// The zero value matches every country.
type Criterion struct {
	kind      criterionKind
	threshold int64
}

// PopulationUnder matches countries whose population is below threshold.
// An unknown population counts as 0 and therefore always matches.
func PopulationUnder(threshold int64) Criterion {
	return Criterion{kind: criterionPopulationUnder, threshold: threshold}
}

// Preset criteria offered by the front end
var (
	All      = Criterion{}
	Under1M  = PopulationUnder(1_000_000)
	Under5M  = PopulationUnder(5_000_000)
	Under10M = PopulationUnder(10_000_000)
)

// Criteria lists the presets in menu order
var Criteria = []Criterion{All, Under1M, Under5M, Under10M}

// IsAll reports whether the criterion lets every country through
func (c Criterion) IsAll() bool {
	return c.kind == criterionAll
}

// Threshold returns the population bound, false for All
func (c Criterion) Threshold() (int64, bool) {
	if c.kind == criterionAll {
		return 0, false
	}
	return c.threshold, true
}

// Matches applies the criterion to a single country
func (c Criterion) Matches(country Country) bool {
	if c.kind == criterionAll {
		return true
	}
	return country.PopulationOrZero() < c.threshold
}

// Next returns the preset following c, wrapping around.
// Criteria that are not presets cycle back to All.
func (c Criterion) Next() Criterion {
	for i, preset := range Criteria {
		if preset == c {
			return Criteria[(i+1)%len(Criteria)]
		}
	}
	return All
}

// String renders the criterion the way the filter button shows it: "All", "< 5M"
func (c Criterion) String() string {
	if c.kind == criterionAll {
		return "All"
	}
	t := c.threshold
	switch {
	case t != 0 && t%1_000_000_000 == 0:
		return fmt.Sprintf("< %dB", t/1_000_000_000)
	case t != 0 && t%1_000_000 == 0:
		return fmt.Sprintf("< %dM", t/1_000_000)
	case t != 0 && t%1_000 == 0:
		return fmt.Sprintf("< %dK", t/1_000)
	}
	return "< " + humanize.Comma(t)
}

// ParseCriterion parses the output of Criterion.String and a few looser
// spellings ("all", "<1m", "5M", "250000", "250,000").
func ParseCriterion(s string) (Criterion, error) {
	raw := strings.TrimSpace(s)
	if raw == "" || strings.EqualFold(raw, "all") {
		return All, nil
	}

	v := strings.TrimSpace(strings.TrimPrefix(raw, "<"))
	v = strings.ReplaceAll(v, ",", "")
	v = strings.ReplaceAll(v, "_", "")

	multiplier := int64(1)
	if n := len(v); n > 0 {
		switch v[n-1] {
		case 'k', 'K':
			multiplier = 1_000
		case 'm', 'M':
			multiplier = 1_000_000
		case 'b', 'B':
			multiplier = 1_000_000_000
		}
		if multiplier != 1 {
			v = strings.TrimSpace(v[:n-1])
		}
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return All, fmt.Errorf("invalid population filter %q: %w", s, err)
	}
	if n < 0 {
		return All, fmt.Errorf("invalid population filter %q: threshold must not be negative", s)
	}
	if n > math.MaxInt64/multiplier {
		return All, fmt.Errorf("invalid population filter %q: threshold out of range", s)
	}
	return PopulationUnder(n * multiplier), nil
}

// CountryFilter holds the filter criteria for the visible country list
type CountryFilter struct {
	SearchText string
	Criterion  Criterion
}

// Matcher returns a predicate equivalent to Matches that folds the search
// text once. The returned func must not be shared between goroutines.
func (f CountryFilter) Matcher() func(Country) bool {
	if f.SearchText == "" {
		return f.Criterion.Matches
	}
	fold := cases.Fold()
	needle := fold.String(f.SearchText)
	return func(c Country) bool {
		return f.Criterion.Matches(c) && strings.Contains(fold.String(c.Name), needle)
	}
}

// Matches reports whether the country passes both the criterion and the
// case-insensitive name search.
func (f CountryFilter) Matches(c Country) bool {
	return f.Matcher()(c)
}
