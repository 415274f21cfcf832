package blocking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/customer-xref/internal/normalize"
)

func rec(id, blockKey string) normalize.Record {
	r := normalize.Record{BlockKey: blockKey}
	r.CustomerID = id
	return r
}

func TestBuildGroupsAndPreservesOrder(t *testing.T) {
	records := []normalize.Record{
		rec("1", "canada|M5H2N2"),
		rec("2", "canada|toronto"),
		rec("3", "canada|M5H2N2"),
		rec("4", "canada|M5H2N2"),
	}

	ix := Build(records)

	assert.Equal(t, 4, ix.Len())
	assert.Equal(t, 2, ix.BlockCount())
	// Dataset order within the block, no dedup.
	assert.Equal(t, []int{0, 2, 3}, ix.Rows("canada|M5H2N2"))
	assert.Equal(t, []int{1}, ix.Rows("canada|toronto"))
	assert.Nil(t, ix.Rows("missing|key"))
}

func TestStatsSortedBySizeThenKey(t *testing.T) {
	ix := Build([]normalize.Record{
		rec("1", "b"),
		rec("2", "a"),
		rec("3", "a"),
		rec("4", "c"),
	})

	stats := ix.Stats()
	require.Len(t, stats, 3)
	assert.Equal(t, BlockStat{Key: "a", Size: 2}, stats[0])
	assert.Equal(t, BlockStat{Key: "b", Size: 1}, stats[1])
	assert.Equal(t, BlockStat{Key: "c", Size: 1}, stats[2])
}

func TestPairEstimateCountsSharedBlocksOnly(t *testing.T) {
	ds1 := Build([]normalize.Record{
		rec("1", "a"),
		rec("2", "a"),
		rec("3", "b"),
	})
	ds2 := Build([]normalize.Record{
		rec("x", "a"),
		rec("y", "a"),
		rec("z", "a"),
		rec("w", "c"),
	})

	// Only block "a" is shared: 2 * 3 comparisons.
	assert.Equal(t, 6, PairEstimate(ds1, ds2))
}

func TestBuildEmptyDataset(t *testing.T) {
	ix := Build(nil)
	assert.Equal(t, 0, ix.Len())
	assert.Equal(t, 0, ix.BlockCount())
	assert.Empty(t, ix.Stats())
}
