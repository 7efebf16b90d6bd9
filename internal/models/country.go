package models

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// NotAvailable is shown for details the upstream service left blank
const NotAvailable = "Information not available"

// CountryMedia holds the image URLs published for a country
type CountryMedia struct {
	Flag         *string `json:"flag"`   // nullable
	Emblem       *string `json:"emblem"` // nullable
	Orthographic string  `json:"orthographic"`
}

// Country represents one entry of the countries API response.
// Values are decoded once and never modified afterwards.
type Country struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Capital      string       `json:"capital"`
	Currency     string       `json:"currency"`
	CallingCode  string       `json:"phone"`
	Abbreviation string       `json:"abbreviation"`
	Population   *int64       `json:"population"` // nullable
	Media        CountryMedia `json:"media"`
}

// ImageURL returns the URL of the image shown next to the country.
// The flag wins over the emblem; false means no image is available.
func (c Country) ImageURL() (string, bool) {
	if c.Media.Flag != nil && strings.TrimSpace(*c.Media.Flag) != "" {
		return *c.Media.Flag, true
	}
	if c.Media.Emblem != nil && strings.TrimSpace(*c.Media.Emblem) != "" {
		return *c.Media.Emblem, true
	}
	return "", false
}

// PopulationOrZero returns the population, treating an unknown value as 0
func (c Country) PopulationOrZero() int64 {
	if c.Population == nil {
		return 0
	}
	return *c.Population
}

// CapitalOrUnknown returns the capital or NotAvailable
func (c Country) CapitalOrUnknown() string {
	return orUnknown(c.Capital)
}

// CurrencyOrUnknown returns the currency or NotAvailable
func (c Country) CurrencyOrUnknown() string {
	return orUnknown(c.Currency)
}

// PopulationLabel formats the population with thousands separators
// (e.g. "44,000,000"), or NotAvailable when the service sent null.
func (c Country) PopulationLabel() string {
	if c.Population == nil {
		return NotAvailable
	}
	return humanize.Comma(*c.Population)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
