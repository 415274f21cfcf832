// Package metrics computes coverage and ambiguity statistics from the
// address-level matches and company-level aggregates. Pure derivation,
// no side effects.
package metrics

import (
	"github.com/sells-group/customer-xref/internal/aggregate"
	"github.com/sells-group/customer-xref/internal/match"
	"github.com/sells-group/customer-xref/internal/normalize"
)

// Metrics is the flat statistics artifact for one reconciliation run.
type Metrics struct {
	DS1CompaniesTotal   int     `json:"ds1_companies_total"`
	DS2CompaniesTotal   int     `json:"ds2_companies_total"`
	DS1MatchedCompanies int     `json:"ds1_matched_companies"`
	DS2MatchedCompanies int     `json:"ds2_matched_companies"`
	MatchRateDS1        float64 `json:"match_rate_ds1"`
	MatchRateDS2        float64 `json:"match_rate_ds2"`

	// UnmatchedRate is the share of companies, across both datasets
	// combined, with zero matches.
	UnmatchedRate float64 `json:"unmatched_rate"`

	// One-to-many ambiguity, DS1 -> DS2 direction. The two rates answer
	// different questions: overall ambiguity vs ambiguity conditional on
	// having matched at all.
	DS1OneToManyCompanies int     `json:"ds1_one_to_many_companies"`
	OneToManyRateAll      float64 `json:"one_to_many_rate_all"`
	OneToManyRateMatched  float64 `json:"one_to_many_rate_matched"`

	// DS2ManyToOneCompanies counts DS2 companies claimed by more than one
	// DS1 company, the reverse-direction ambiguity.
	DS2ManyToOneCompanies int `json:"ds2_many_to_one_companies"`

	AddressLevelMatches int `json:"address_level_matches"`
}

// Compute derives run metrics from the normalized datasets, the accepted
// address-level matches, and the company aggregates.
func Compute(ds1, ds2 []normalize.Record, matches []match.AddressMatch, aggregates []aggregate.Company) Metrics {
	m := Metrics{
		DS1CompaniesTotal:   distinctCompanies(ds1),
		DS2CompaniesTotal:   distinctCompanies(ds2),
		AddressLevelMatches: len(matches),
	}

	ds2Matched := make(map[string]bool)
	ds2Claimants := make(map[string]map[string]bool)
	for _, am := range matches {
		ds2Matched[am.DS2CustomerID] = true
		if ds2Claimants[am.DS2CustomerID] == nil {
			ds2Claimants[am.DS2CustomerID] = make(map[string]bool)
		}
		ds2Claimants[am.DS2CustomerID][am.DS1CustomerID] = true
	}
	m.DS2MatchedCompanies = len(ds2Matched)
	for _, claimants := range ds2Claimants {
		if len(claimants) > 1 {
			m.DS2ManyToOneCompanies++
		}
	}

	for _, agg := range aggregates {
		switch len(agg.MatchedCompanyIDsDS2) {
		case 0:
		case 1:
			m.DS1MatchedCompanies++
		default:
			m.DS1MatchedCompanies++
			m.DS1OneToManyCompanies++
		}
	}

	m.MatchRateDS1 = rate(m.DS1MatchedCompanies, m.DS1CompaniesTotal)
	m.MatchRateDS2 = rate(m.DS2MatchedCompanies, m.DS2CompaniesTotal)

	unmatched := (m.DS1CompaniesTotal - m.DS1MatchedCompanies) + (m.DS2CompaniesTotal - m.DS2MatchedCompanies)
	m.UnmatchedRate = rate(unmatched, m.DS1CompaniesTotal+m.DS2CompaniesTotal)

	m.OneToManyRateAll = rate(m.DS1OneToManyCompanies, m.DS1CompaniesTotal)
	m.OneToManyRateMatched = rate(m.DS1OneToManyCompanies, m.DS1MatchedCompanies)

	return m
}

func distinctCompanies(records []normalize.Record) int {
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		seen[r.CustomerID] = true
	}
	return len(seen)
}

func rate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
