package deltamatrix

import (
	"testing"

	"github.com/orneryd/propgraph/pkg/sparsematrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMxmWritesDirectlyIntoM(t *testing.T) {
	a := New[bool](3, 3, 10000, false)
	a.Set(0, 1, true)
	b := New[bool](3, 3, 10000, false)
	b.Set(1, 2, true)

	dst := New[bool](3, 3, 10000, false)
	Mxm(dst, sparsematrix.AnyPairBool, a, b)

	v, ok := dst.Extract(0, 2)
	require.True(t, ok)
	assert.True(t, v)
	assert.False(t, dst.Dirty(), "Mxm must land its product in M directly, not buffer it into Δ⁺")

	// NVals counts Δ⁺ as well as M, so it would read 1 even if the product
	// had been buffered into Δ⁺; the Dirty() assertion above is what tells
	// the two apart.
	assert.Equal(t, uint64(1), dst.NVals())
}

func TestEWiseAddWritesDirectlyIntoM(t *testing.T) {
	a := New[bool](3, 3, 10000, false)
	a.Set(0, 0, true)
	b := New[bool](3, 3, 10000, false)
	b.Set(1, 1, true)

	out := EWiseAdd(sparsematrix.AnyPairBool, a, b)

	assert.False(t, out.Dirty(), "EWiseAdd must land its union in M directly, not buffer it into Δ⁺")
	assert.Equal(t, uint64(2), out.NVals())
	v, ok := out.Extract(0, 0)
	require.True(t, ok)
	assert.True(t, v)
}
