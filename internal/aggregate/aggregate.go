// Package aggregate rolls address-level matches up to one row per DS1
// company: its own location keys, the identities and locations of every
// matched DS2 company, and the strict/loose location overlaps.
package aggregate

import (
	"sort"
	"strings"

	"github.com/sells-group/customer-xref/internal/match"
	"github.com/sells-group/customer-xref/internal/normalize"
)

// Company is the merged output row for one DS1 company. Every list field
// is non-nil; zero-match companies carry empty lists, not missing rows.
type Company struct {
	CompanyIDDS1      string
	CompanyNameDS1    string
	LocationsDS1      []string
	LocationsDS1Loose []string

	MatchedCompanyIDsDS2   []string
	MatchedCompanyNamesDS2 []string
	// LocationsDS2 unions the location keys of every address row of each
	// matched DS2 company, not just the rows that matched: a company-level
	// merge exposes every known location of a matched counterpart.
	LocationsDS2      []string
	LocationsDS2Loose []string

	OverlappingLocations      []string
	OverlappingLocationsLoose []string
}

// Aggregate builds one Company per distinct DS1 customer id, in order of
// first appearance, including companies with zero address matches.
func Aggregate(ds1, ds2 []normalize.Record, matches []match.AddressMatch) []Company {
	ds1Companies := companyOrder(ds1)
	ds1Strict := locationsByCompany(ds1, false)
	ds1Loose := locationsByCompany(ds1, true)
	ds1Names := displayNames(ds1)

	ds2Strict := locationsByCompany(ds2, false)
	ds2Loose := locationsByCompany(ds2, true)
	ds2Names := displayNames(ds2)

	matchedIDs := matchedCompanies(matches)

	out := make([]Company, 0, len(ds1Companies))
	for _, id := range ds1Companies {
		c := Company{
			CompanyIDDS1:      id,
			CompanyNameDS1:    ds1Names[id],
			LocationsDS1:      orEmpty(ds1Strict[id]),
			LocationsDS1Loose: orEmpty(ds1Loose[id]),
		}

		ids := matchedIDs[id]
		c.MatchedCompanyIDsDS2 = orEmpty(ids)
		c.MatchedCompanyNamesDS2 = collectSorted(ids, func(ds2ID string) []string {
			if name := ds2Names[ds2ID]; name != "" {
				return []string{name}
			}
			return nil
		})
		c.LocationsDS2 = collectSorted(ids, func(ds2ID string) []string { return ds2Strict[ds2ID] })
		c.LocationsDS2Loose = collectSorted(ids, func(ds2ID string) []string { return ds2Loose[ds2ID] })

		c.OverlappingLocations = intersect(c.LocationsDS1, c.LocationsDS2)
		c.OverlappingLocationsLoose = intersect(c.LocationsDS1Loose, c.LocationsDS2Loose)

		out = append(out, c)
	}
	return out
}

// companyOrder returns distinct customer ids in first-appearance order.
func companyOrder(records []normalize.Record) []string {
	seen := make(map[string]bool)
	var order []string
	for _, r := range records {
		if !seen[r.CustomerID] {
			seen[r.CustomerID] = true
			order = append(order, r.CustomerID)
		}
	}
	return order
}

// locationsByCompany unions location keys per company, first-appearance
// order, duplicates and separator-only keys dropped.
func locationsByCompany(records []normalize.Record, loose bool) map[string][]string {
	seen := make(map[string]map[string]bool)
	out := make(map[string][]string)
	for _, r := range records {
		key := r.LocationKey
		if loose {
			key = r.LocationKeyLoose
		}
		if isJunkKey(key) {
			continue
		}
		if seen[r.CustomerID] == nil {
			seen[r.CustomerID] = make(map[string]bool)
		}
		if seen[r.CustomerID][key] {
			continue
		}
		seen[r.CustomerID][key] = true
		out[r.CustomerID] = append(out[r.CustomerID], key)
	}
	return out
}

// displayNames picks the first non-empty raw name per company, with
// whitespace collapsed for readable output.
func displayNames(records []normalize.Record) map[string]string {
	names := make(map[string]string)
	for _, r := range records {
		if names[r.CustomerID] != "" {
			continue
		}
		if name := strings.Join(strings.Fields(r.CustomerName), " "); name != "" {
			names[r.CustomerID] = name
		}
	}
	return names
}

// matchedCompanies maps each DS1 company to its distinct matched DS2
// company ids, sorted.
func matchedCompanies(matches []match.AddressMatch) map[string][]string {
	seen := make(map[string]map[string]bool)
	for _, m := range matches {
		if seen[m.DS1CustomerID] == nil {
			seen[m.DS1CustomerID] = make(map[string]bool)
		}
		seen[m.DS1CustomerID][m.DS2CustomerID] = true
	}

	out := make(map[string][]string, len(seen))
	for ds1ID, ids := range seen {
		sorted := make([]string, 0, len(ids))
		for id := range ids {
			sorted = append(sorted, id)
		}
		sort.Strings(sorted)
		out[ds1ID] = sorted
	}
	return out
}

// collectSorted unions values across matched DS2 ids into a sorted
// deduplicated list.
func collectSorted(ids []string, get func(string) []string) []string {
	seen := make(map[string]bool)
	for _, id := range ids {
		for _, v := range get(id) {
			seen[v] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// intersect keeps the elements of a that also appear in b, preserving a's
// order. Always returns a non-nil slice.
func intersect(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, v := range b {
		inB[v] = true
	}
	out := make([]string, 0)
	for _, v := range a {
		if inB[v] {
			out = append(out, v)
		}
	}
	return out
}

func isJunkKey(key string) bool {
	return strings.TrimSpace(strings.ReplaceAll(key, "|", "")) == ""
}

func orEmpty(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
