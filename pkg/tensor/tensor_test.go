package tensor

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiEdgePromotionAndDemotion(t *testing.T) {
	// Scenario 4: multi-edge promotion and demotion.
	tn := New(10, 10, 10000)

	tn.Set(0, 1, 10)
	ids := tn.Iter(0, 1)
	assert.Equal(t, []uint64{10}, ids)

	tn.Set(0, 1, 11)
	ids = tn.Iter(0, 1)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	assert.Equal(t, []uint64{10, 11}, ids)

	emptied := tn.Remove([]CellEdge{{Src: 0, Dest: 1, ID: 11}})
	assert.Empty(t, emptied)
	ids = tn.Iter(0, 1)
	assert.Equal(t, []uint64{10}, ids)

	emptied = tn.Remove([]CellEdge{{Src: 0, Dest: 1, ID: 10}})
	assert.Equal(t, []int{0}, emptied)
	ids = tn.Iter(0, 1)
	assert.Nil(t, ids)
}

func TestSetManyGroupsRuns(t *testing.T) {
	tn := New(10, 10, 10000)
	tn.SetMany([]CellEdge{
		{Src: 0, Dest: 1, ID: 1},
		{Src: 0, Dest: 1, ID: 2},
		{Src: 0, Dest: 1, ID: 3},
		{Src: 2, Dest: 3, ID: 4},
	})

	ids := tn.Iter(0, 1)
	assert.ElementsMatch(t, []uint64{1, 2, 3}, ids)
	ids = tn.Iter(2, 3)
	assert.Equal(t, []uint64{4}, ids)
}

func TestIterRangeRowMajorVisitsEachTripleOnce(t *testing.T) {
	tn := New(5, 5, 10000)
	tn.Set(0, 1, 100)
	tn.Set(0, 1, 101)
	tn.Set(3, 2, 102)

	it := tn.IterRange(0, 5, false)
	var got []TriEdge
	for it.Next() {
		got = append(got, TriEdge{Src: it.Src(), Dest: it.Dest(), ID: it.ID()})
	}
	require.Len(t, got, 3)
	assert.Equal(t, uint64(0), got[0].Src)
	assert.Equal(t, uint64(3), got[2].Src)
}

func TestIterRangeTransposedColumnMajor(t *testing.T) {
	tn := New(5, 5, 10000)
	tn.Set(0, 1, 100)
	tn.Set(3, 1, 101)
	tn.Set(0, 4, 102)

	it := tn.IterRange(0, 5, true)
	var dests []uint64
	for it.Next() {
		dests = append(dests, it.Dest())
	}
	assert.Equal(t, []uint64{1, 1, 4}, dests)
}

func TestRowAndColDegree(t *testing.T) {
	tn := New(5, 5, 10000)
	tn.Set(0, 1, 10)
	tn.Set(0, 1, 11)
	tn.Set(0, 2, 12)

	assert.Equal(t, uint64(3), tn.RowDegree(0))
	assert.Equal(t, uint64(2), tn.ColDegree(1))
	assert.Equal(t, uint64(1), tn.ColDegree(2))
}

func TestNeverHoldsEmptyOrUnitBundle(t *testing.T) {
	tn := New(5, 5, 10000)
	tn.Set(1, 1, 1)
	tn.Set(1, 1, 2)
	tn.Set(1, 1, 3)

	tn.Remove([]CellEdge{{Src: 1, Dest: 1, ID: 1}})
	ids := tn.Iter(1, 1)
	assert.ElementsMatch(t, []uint64{2, 3}, ids)

	tn.Remove([]CellEdge{{Src: 1, Dest: 1, ID: 2}})
	ids = tn.Iter(1, 1)
	assert.Equal(t, []uint64{3}, ids)
	_, tagged := tn.bundles[0]
	assert.False(t, tagged, "bundle must be freed once the cell demotes to untagged")
}
