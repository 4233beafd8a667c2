package graphstore

import (
	"fmt"
)

// invariant panics with a formatted diagnostic when cond is false. Used at
// every point a condition is an assert-and-abort programmer error
// (out-of-range label/relation id, deleting a node with live edges, ...).
func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
