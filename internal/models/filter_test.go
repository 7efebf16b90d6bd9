package models

import "testing"

func ptr[T any](v T) *T { return &v }

func country(name string, population *int64) Country {
	return Country{Name: name, Population: population}
}

// TestCriterionMatches verifies the population thresholds and the absent-population policy
func TestCriterionMatches(t *testing.T) {
	tests := []struct {
		name       string
		criterion  Criterion
		population *int64
		want       bool
	}{
		{"all matches large", All, ptr(int64(1_400_000_000)), true},
		{"all matches unknown", All, nil, true},
		{"under 1M below", Under1M, ptr(int64(999_999)), true},
		{"under 1M equal is excluded", Under1M, ptr(int64(1_000_000)), false},
		{"under 5M above", Under5M, ptr(int64(6_000_000)), false},
		{"under 10M unknown counts as zero", Under10M, nil, true},
		{"zero threshold excludes zero", PopulationUnder(0), ptr(int64(0)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.criterion.Matches(country("X", tt.population)); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCriterionStringRoundTrip verifies that every preset label parses back to the preset
func TestCriterionStringRoundTrip(t *testing.T) {
	wantLabels := []string{"All", "< 1M", "< 5M", "< 10M"}
	for i, c := range Criteria {
		if got := c.String(); got != wantLabels[i] {
			t.Errorf("Criteria[%d].String() = %q, want %q", i, got, wantLabels[i])
		}
		parsed, err := ParseCriterion(c.String())
		if err != nil {
			t.Fatalf("ParseCriterion(%q) error: %v", c.String(), err)
		}
		if parsed != c {
			t.Errorf("ParseCriterion(%q) = %v, want %v", c.String(), parsed, c)
		}
	}
}

// TestParseCriterion covers the looser spellings accepted on the command line
func TestParseCriterion(t *testing.T) {
	tests := []struct {
		input   string
		want    Criterion
		wantErr bool
	}{
		{"", All, false},
		{"all", All, false},
		{"<1m", Under1M, false},
		{"5M", Under5M, false},
		{"250,000", PopulationUnder(250_000), false},
		{"< 750K", PopulationUnder(750_000), false},
		{"lots", All, true},
		{"-5", All, true},
		{"9000000000B", PopulationUnder(9_000_000_000_000_000_000), false},
		{"10000000000B", All, true},
		{"9223372036854775808", All, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCriterion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCriterion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseCriterion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCriterionNextCycles(t *testing.T) {
	c := All
	var seen []string
	for range Criteria {
		c = c.Next()
		seen = append(seen, c.String())
	}
	if c != All {
		t.Errorf("cycling through %d presets ended on %v, want All (seen %v)", len(Criteria), c, seen)
	}
	if got := PopulationUnder(42).Next(); got != All {
		t.Errorf("custom criterion Next() = %v, want All", got)
	}
}

// TestCountryFilterMatches verifies search and criterion compose as an intersection
func TestCountryFilterMatches(t *testing.T) {
	austria := country("Austria", ptr(int64(8_000_000)))
	australia := country("Australia", ptr(int64(25_000_000)))

	f := CountryFilter{SearchText: "AUS", Criterion: Under10M}
	if !f.Matches(austria) {
		t.Error("expected Austria to match AUS / < 10M")
	}
	if f.Matches(australia) {
		t.Error("expected Australia to be excluded by < 10M")
	}
	if !(CountryFilter{}).Matches(australia) {
		t.Error("zero filter should match everything")
	}
	if (CountryFilter{SearchText: "zzz"}).Matches(austria) {
		t.Error("unexpected match for zzz")
	}
}
