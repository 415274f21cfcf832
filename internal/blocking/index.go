// Package blocking groups normalized records by block key so that only
// same-block pairs are ever compared. Records in different blocks never
// meet, which trades recall for tractable comparison cost.
package blocking

import (
	"sort"

	"github.com/sells-group/customer-xref/internal/normalize"
)

// Index holds one dataset's records plus a block key -> row index grouping.
// Row order within each block follows the original dataset order; nothing
// is deduplicated.
type Index struct {
	Records []normalize.Record
	blocks  map[string][]int
}

// Build groups records by block key.
func Build(records []normalize.Record) *Index {
	blocks := make(map[string][]int)
	for i, r := range records {
		blocks[r.BlockKey] = append(blocks[r.BlockKey], i)
	}
	return &Index{Records: records, blocks: blocks}
}

// Rows returns the row indices sharing a block key, in dataset order.
func (ix *Index) Rows(key string) []int {
	return ix.blocks[key]
}

// Len returns the number of records behind the index.
func (ix *Index) Len() int {
	return len(ix.Records)
}

// BlockCount returns the number of distinct block keys.
func (ix *Index) BlockCount() int {
	return len(ix.blocks)
}

// BlockStat describes one block for diagnostics.
type BlockStat struct {
	Key  string
	Size int
}

// Stats returns per-block sizes sorted by size descending, key ascending.
func (ix *Index) Stats() []BlockStat {
	stats := make([]BlockStat, 0, len(ix.blocks))
	for key, rows := range ix.blocks {
		stats = append(stats, BlockStat{Key: key, Size: len(rows)})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Size != stats[j].Size {
			return stats[i].Size > stats[j].Size
		}
		return stats[i].Key < stats[j].Key
	})
	return stats
}

// PairEstimate returns the number of candidate comparisons between two
// indexed datasets: the sum of |block1|*|block2| over shared block keys.
func PairEstimate(ds1, ds2 *Index) int {
	total := 0
	for key, rows := range ds1.blocks {
		if other := ds2.blocks[key]; len(other) > 0 {
			total += len(rows) * len(other)
		}
	}
	return total
}
