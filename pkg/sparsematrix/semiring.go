package sparsematrix

// Semiring names the algebra used by EWiseAdd and Mxm: any-pair for boolean
// unions, identity for copy.
type Semiring int

const (
	// AnyPairBool treats any structurally present entry as logically true;
	// used for boolean unions (eWiseAdd on adjacency-style matrices) and for
	// existence-propagating multiply.
	AnyPairBool Semiring = iota
	// Identity prefers the left operand's value where both operands hold an
	// entry, and copies through the right operand's value otherwise. In
	// EWiseAdd it behaves exactly like AnyPairBool.
	Identity
)

// EWiseAdd computes the element-wise union of a and b under semiring,
// returning a new matrix sized to the larger of the two operands.
func EWiseAdd[T comparable](semiring Semiring, a, b *Matrix[T]) *Matrix[T] {
	out := New[T](max(a.rows, b.rows), max(a.cols, b.cols))
	for i, row := range b.data {
		for j, v := range row {
			out.Set(i, j, v)
		}
	}
	for i, row := range a.data {
		for j, v := range row {
			switch semiring {
			case AnyPairBool, Identity:
				out.Set(i, j, v) // left operand wins on overlap
			}
		}
	}
	return out
}

// Mxm computes a boolean-existence matrix product: out[i,k] is present
// (true, for a bool result type; any present value otherwise) iff there is
// some j with a[i,j] and b[j,k] both present. This is the "any-pair"
// semiring GraphBLAS uses for adjacency-style propagation; deltamatrix.Mxm
// (algebra.go) applies it to exported snapshots of its two operands.
func Mxm[T comparable](a, b *Matrix[T]) *Matrix[bool] {
	out := New[bool](a.rows, b.cols)
	// b.data is row-major (j -> k -> v), so row j of b is looked up directly
	// for each entry a[i,j]; no separate column index is built.
	for i, arow := range a.data {
		for j := range arow {
			brow, ok := b.data[j]
			if !ok {
				continue
			}
			for k := range brow {
				out.Set(i, k, true)
			}
		}
	}
	return out
}
