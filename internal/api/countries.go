package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/thesavant42/explorecountries/internal/models"
)

// wireMedia and wireCountry mirror the upstream payload. Required fields are
// pointers so a missing key can be told apart from a zero value.
type wireMedia struct {
	Flag         *string `json:"flag"`
	Emblem       *string `json:"emblem"`
	Orthographic string  `json:"orthographic"`
}

type wireCountry struct {
	Abbreviation string     `json:"abbreviation"`
	Capital      string     `json:"capital"`
	Currency     string     `json:"currency"`
	Name         *string    `json:"name"`
	Phone        string     `json:"phone"`
	Population   *int64     `json:"population"`
	Media        *wireMedia `json:"media"`
	ID           *int       `json:"id"`
}

// ParseCountriesFromJSON decodes a countries payload.
// An empty body is not accepted here; callers check for it first.
func ParseCountriesFromJSON(data []byte) ([]models.Country, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("expected a JSON array")
	}

	var raw []*wireCountry
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	countries := make([]models.Country, 0, len(raw))
	for i, w := range raw {
		c, err := w.toModel()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		countries = append(countries, c)
	}
	return countries, nil
}

func (w *wireCountry) toModel() (models.Country, error) {
	switch {
	case w == nil:
		return models.Country{}, fmt.Errorf("null entry")
	case w.ID == nil:
		return models.Country{}, fmt.Errorf("missing id")
	case w.Name == nil:
		return models.Country{}, fmt.Errorf("missing name")
	case w.Media == nil:
		return models.Country{}, fmt.Errorf("missing media")
	case w.Population != nil && *w.Population < 0:
		return models.Country{}, fmt.Errorf("negative population %d", *w.Population)
	}

	return models.Country{
		ID:           *w.ID,
		Name:         *w.Name,
		Capital:      w.Capital,
		Currency:     w.Currency,
		CallingCode:  w.Phone,
		Abbreviation: w.Abbreviation,
		Population:   w.Population,
		Media: models.CountryMedia{
			Flag:         w.Media.Flag,
			Emblem:       w.Media.Emblem,
			Orthographic: w.Media.Orthographic,
		},
	}, nil
}
