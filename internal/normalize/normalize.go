// Package normalize turns unified raw records into normalized records with
// comparable keys. Normalization is a pure function of each row's own
// fields: no dependence on other rows, stable under re-application.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/customer-xref/internal/dataset"
)

// Record is a unified record plus normalized fields and derived keys.
type Record struct {
	dataset.UnifiedRecord

	NameNorm    string
	StreetNorm  string
	CityNorm    string
	StateNorm   string
	PostalNorm  string
	CountryNorm string

	// BlockKey is country|postal when postal is present, country|city
	// otherwise. It always carries the separator, so a fully empty record
	// still forms its own (effectively unmatchable) block.
	BlockKey string
	// LocationKey is street|city|state|postal|country; empty when every
	// part is empty.
	LocationKey string
	// LocationKeyLoose drops the street segment.
	LocationKeyLoose string
}

// nameNoise are legal-entity and filler tokens removed from company names
// before fuzzy comparison.
var nameNoise = map[string]bool{
	"inc": true, "incorporated": true,
	"corp": true, "corporation": true,
	"co": true, "company": true,
	"llc":     true,
	"ltd":     true,
	"limited": true,
	"plc":     true,
	"gmbh":    true,
	"group":   true,
	"holdings": true, "holding": true,
	"the": true,
	"and": true,
}

// canadaProvinces maps full Canadian province names to 2-letter codes.
var canadaProvinces = map[string]string{
	"ONTARIO":                   "ON",
	"BRITISH COLUMBIA":          "BC",
	"ALBERTA":                   "AB",
	"SASKATCHEWAN":              "SK",
	"MANITOBA":                  "MB",
	"QUEBEC":                    "QC",
	"NOVA SCOTIA":               "NS",
	"NEW BRUNSWICK":             "NB",
	"PRINCE EDWARD ISLAND":      "PE",
	"NEWFOUNDLAND AND LABRADOR": "NL",
	"NORTHWEST TERRITORIES":     "NT",
	"NUNAVUT":                   "NU",
	"YUKON":                     "YT",
}

var (
	nonAlnum       = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpace     = regexp.MustCompile(`\s+`)
	saintWord      = regexp.MustCompile(`\bsaint\b`)
	canadianPostal = regexp.MustCompile(`^[A-Z]\d[A-Z]\d[A-Z]\d$`)
)

// accentFolder decomposes accented runes and drops the combining marks, so
// "Société" folds to "Societe" instead of losing letters entirely when
// punctuation stripping runs.
var accentFolder = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize builds a normalized record from a unified raw record. It is
// total: arbitrary garbage fields degrade to empty strings, never errors.
func Normalize(raw dataset.UnifiedRecord) Record {
	r := Record{UnifiedRecord: raw}

	r.NameNorm = Name(raw.CustomerName)
	r.StreetNorm = Street(joinStreet(raw.Street1, raw.Street2, raw.Street3))
	r.CityNorm = Text(raw.City)
	r.StateNorm = State(raw.State)
	r.PostalNorm = Postal(raw.Postal)
	r.CountryNorm = InferCountry(Text(raw.Country), raw.CountryCode, r.PostalNorm)

	if r.PostalNorm != "" {
		r.BlockKey = r.CountryNorm + "|" + r.PostalNorm
	} else {
		r.BlockKey = r.CountryNorm + "|" + r.CityNorm
	}

	r.LocationKey = makeKey(r.StreetNorm, r.CityNorm, r.StateNorm, r.PostalNorm, r.CountryNorm)
	r.LocationKeyLoose = makeKey(r.CityNorm, r.StateNorm, r.PostalNorm, r.CountryNorm)

	return r
}

// All normalizes a full dataset, preserving row order.
func All(raws []dataset.UnifiedRecord) []Record {
	records := make([]Record, len(raws))
	for i, raw := range raws {
		records[i] = Normalize(raw)
	}
	return records
}

// Text normalizes generic text fields: lowercase, collapsed whitespace.
func Text(value string) string {
	text := strings.ToLower(strings.TrimSpace(value))
	return strings.TrimSpace(multiSpace.ReplaceAllString(text, " "))
}

// Postal normalizes postal/zip codes: uppercase, all whitespace removed.
func Postal(value string) string {
	postal := strings.ToUpper(strings.TrimSpace(value))
	return multiSpace.ReplaceAllString(postal, "")
}

// State normalizes province/state values to a compact form. Full Canadian
// province names map to 2-letter codes; anything else is uppercased and
// whitespace-normalized.
func State(value string) string {
	state := strings.ToUpper(Text(value))
	if state == "" {
		return ""
	}
	if code, ok := canadaProvinces[state]; ok {
		return code
	}
	return state
}

// Name normalizes a customer/company name for fuzzy matching: accent fold,
// lowercase, strip punctuation, "saint" -> "st", drop single-character
// tokens and legal-entity noise tokens.
func Name(value string) string {
	name := foldAccents(value)
	name = strings.ToLower(strings.TrimSpace(name))
	name = nonAlnum.ReplaceAllString(name, " ")
	name = strings.TrimSpace(multiSpace.ReplaceAllString(name, " "))

	name = saintWord.ReplaceAllString(name, "st")

	var tokens []string
	for _, tok := range strings.Fields(name) {
		if len(tok) <= 1 || nameNoise[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return strings.Join(tokens, " ")
}

// Street normalizes street strings for strict location overlap checks.
func Street(value string) string {
	street := foldAccents(value)
	street = strings.ToLower(strings.TrimSpace(street))
	street = nonAlnum.ReplaceAllString(street, " ")
	return strings.TrimSpace(multiSpace.ReplaceAllString(street, " "))
}

// InferCountry backfills the country from sibling fields when the cleaned
// country itself is empty: a CA country code or a Canadian-format postal
// implies canada. This is the one place normalization looks across fields.
func InferCountry(countryNorm, countryCode, postalNorm string) string {
	if countryNorm != "" {
		return countryNorm
	}
	if strings.ToUpper(strings.TrimSpace(countryCode)) == "CA" {
		return "canada"
	}
	if IsCanadianPostal(postalNorm) {
		return "canada"
	}
	return ""
}

// IsCanadianPostal reports whether a normalized postal code matches the
// Canadian A1A1A1 format.
func IsCanadianPostal(postalNorm string) bool {
	return canadianPostal.MatchString(postalNorm)
}

func joinStreet(parts ...string) string {
	var kept []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// makeKey builds a pipe-separated key, empty when every part is empty.
func makeKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	if strings.TrimSpace(strings.ReplaceAll(joined, "|", "")) == "" {
		return ""
	}
	return joined
}

func foldAccents(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return folded
}
