// Package match scores same-block candidate pairs by fuzzy name
// similarity and selects the best DS2 address row for each DS1 address
// row. Matching is one-directional and greedy: a function from DS1 rows
// to at most one DS2 row, not a global assignment.
package match

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/customer-xref/internal/blocking"
)

// AddressMatch pairs one DS1 address row with its accepted DS2 address row.
type AddressMatch struct {
	DS1CustomerID  string  `json:"ds1_customer_id"`
	DS1AddressCode string  `json:"ds1_address_code"`
	DS2CustomerID  string  `json:"ds2_customer_id"`
	DS2AddressCode string  `json:"ds2_address_code"`
	Score          float64 `json:"score"`
}

// Thresholds are the block-dependent acceptance thresholds. Postal applies
// in postal-based blocks, City in the city-based fallback blocks; City
// must be the stricter of the two since city blocking constrains less.
type Thresholds struct {
	Postal float64
	City   float64
}

// DefaultThresholds mirror the tuned production values.
func DefaultThresholds() Thresholds {
	return Thresholds{Postal: 86, City: 95}
}

// Matcher matches DS1 address rows against DS2 within shared blocks.
type Matcher struct {
	Thresholds Thresholds
	// Concurrency > 1 scores DS1 rows in parallel. Blocks are read-only
	// during matching and results are slotted by row index, so the output
	// is identical to a serial run.
	Concurrency int
}

// Match selects the best accepted DS2 candidate for every DS1 address row.
// DS1 rows with no same-block candidate, an empty normalized name, or a
// best score under the block's threshold produce no output row. Output
// order follows DS1 dataset order; candidate ties keep the first candidate
// in DS2 dataset order.
func (m *Matcher) Match(ctx context.Context, ds1, ds2 *blocking.Index) ([]AddressMatch, error) {
	slots := make([]*AddressMatch, ds1.Len())

	if m.Concurrency > 1 {
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(m.Concurrency)
		for i := range ds1.Records {
			i := i
			g.Go(func() error {
				slots[i] = m.bestForRow(ds1, ds2, i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range ds1.Records {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			slots[i] = m.bestForRow(ds1, ds2, i)
		}
	}

	matches := make([]AddressMatch, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			matches = append(matches, *s)
		}
	}
	return matches, nil
}

// bestForRow returns the accepted match for one DS1 row, or nil.
func (m *Matcher) bestForRow(ds1, ds2 *blocking.Index, row int) *AddressMatch {
	r1 := ds1.Records[row]
	if r1.NameNorm == "" {
		return nil
	}

	candidates := ds2.Rows(r1.BlockKey)
	if len(candidates) == 0 {
		return nil
	}

	// A non-empty postal means the block key was built from the postal
	// segment, so postal equality already vouches for the pair and a
	// weaker name agreement suffices.
	threshold := m.Thresholds.City
	if r1.PostalNorm != "" {
		threshold = m.Thresholds.Postal
	}

	bestScore := -1.0
	bestRow := -1
	for _, j := range candidates {
		name2 := ds2.Records[j].NameNorm
		if name2 == "" {
			continue
		}
		if score := TokenSetRatio(r1.NameNorm, name2); score > bestScore {
			bestScore = score
			bestRow = j
		}
	}

	if bestRow < 0 || bestScore < threshold {
		return nil
	}

	r2 := ds2.Records[bestRow]
	return &AddressMatch{
		DS1CustomerID:  r1.CustomerID,
		DS1AddressCode: r1.AddressCode,
		DS2CustomerID:  r2.CustomerID,
		DS2AddressCode: r2.AddressCode,
		Score:          bestScore,
	}
}
