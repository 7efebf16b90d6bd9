package store

import "github.com/thesavant42/explorecountries/internal/models"

// Visible returns the countries of all that pass f, keeping their order.
// The result never aliases all.
func Visible(all []models.Country, f models.CountryFilter) []models.Country {
	match := f.Matcher()
	out := make([]models.Country, 0, len(all))
	for _, c := range all {
		if match(c) {
			out = append(out, c)
		}
	}
	return out
}

// CriterionCount is the number of countries a preset would show
type CriterionCount struct {
	Criterion models.Criterion
	Count     int
}

// CountByCriterion reports, for each preset, how many countries would be
// visible with that preset and the given search text.
func CountByCriterion(all []models.Country, searchText string) []CriterionCount {
	counts := make([]CriterionCount, len(models.Criteria))
	for i, c := range models.Criteria {
		match := models.CountryFilter{SearchText: searchText, Criterion: c}.Matcher()
		n := 0
		for _, country := range all {
			if match(country) {
				n++
			}
		}
		counts[i] = CriterionCount{Criterion: c, Count: n}
	}
	return counts
}
