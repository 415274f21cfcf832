package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/customer-xref/internal/dataset"
)

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips legal suffix and article",
			input:    "The ACME, Inc.",
			expected: "acme",
		},
		{
			name:     "saint abbreviation and possessive",
			input:    "Saint Mary's Company",
			expected: "st mary",
		},
		{
			name:     "drops single-character tokens",
			input:    "A B Plumbing Ltd",
			expected: "plumbing",
		},
		{
			name:     "folds accents",
			input:    "Société Générale",
			expected: "societe generale",
		},
		{
			name:     "ampersand and filler words",
			input:    "Smith & Sons Holdings",
			expected: "smith sons",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "punctuation only",
			input:    "!!! --- ...",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Name(tt.input))
		})
	}
}

func TestNameIdempotent(t *testing.T) {
	inputs := []string{
		"The ACME, Inc.",
		"Saint Mary's Company",
		"Société Générale",
		"weird   spacing\tand\ntabs LLC",
	}
	for _, in := range inputs {
		once := Name(in)
		assert.Equal(t, once, Name(once), "input %q", in)
	}
}

func TestState(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Ontario", "ON"},
		{"  british  columbia ", "BC"},
		{"QC", "QC"},
		{"Texas", "TEXAS"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, State(tt.input), "input %q", tt.input)
	}
}

func TestPostal(t *testing.T) {
	assert.Equal(t, "A1A1A1", Postal("a1a 1a1"))
	assert.Equal(t, "90210", Postal(" 90210 "))
	assert.Equal(t, "", Postal("   "))
}

func TestInferCountry(t *testing.T) {
	tests := []struct {
		name        string
		country     string
		countryCode string
		postal      string
		expected    string
	}{
		{"explicit country wins", "united states", "CA", "A1A1A1", "united states"},
		{"CA code backfills canada", "", "CA", "", "canada"},
		{"lowercase code accepted", "", " ca ", "", "canada"},
		{"canadian postal backfills canada", "", "", "M5H2N2", "canada"},
		{"us zip does not backfill", "", "", "90210", ""},
		{"nothing to infer", "", "US", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferCountry(tt.country, tt.countryCode, tt.postal))
		})
	}
}

func TestNormalizeKeys(t *testing.T) {
	r := Normalize(dataset.UnifiedRecord{
		CustomerID:   "1",
		AddressCode:  "A",
		CustomerName: "ACME Inc.",
		Street1:      "1 Main St",
		City:         "Toronto",
		State:        "Ontario",
		Postal:       "M5H 2N2",
	})

	// Country inferred from the Canadian postal format.
	assert.Equal(t, "canada", r.CountryNorm)
	assert.Equal(t, "canada|M5H2N2", r.BlockKey)
	assert.Equal(t, "1 main st|toronto|ON|M5H2N2|canada", r.LocationKey)
	assert.Equal(t, "toronto|ON|M5H2N2|canada", r.LocationKeyLoose)
}

func TestNormalizeBlockKeyCityFallback(t *testing.T) {
	r := Normalize(dataset.UnifiedRecord{
		CustomerID:   "1",
		CustomerName: "ACME",
		City:         "Toronto",
		Country:      "Canada",
	})
	assert.Equal(t, "canada|toronto", r.BlockKey)
}

func TestNormalizeTotalOnEmptyRecord(t *testing.T) {
	r := Normalize(dataset.UnifiedRecord{CustomerID: "2"})

	assert.Empty(t, r.NameNorm)
	// A fully empty record still forms a block of its own.
	assert.Equal(t, "|", r.BlockKey)
	// Location keys collapse to empty rather than separator junk.
	assert.Equal(t, "", r.LocationKey)
	assert.Equal(t, "", r.LocationKeyLoose)
}

func TestNormalizeStreetLinesConcatenated(t *testing.T) {
	r := Normalize(dataset.UnifiedRecord{
		CustomerID: "1",
		Street1:    "Suite 400,",
		Street2:    "1 King St. W",
		Street3:    "",
	})
	assert.Equal(t, "suite 400 1 king st w", r.StreetNorm)
}
