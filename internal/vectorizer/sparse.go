// Package vectorizer turns raw documents into bag-of-words count matrices.
package vectorizer

import "sort"

// SparseVector represents a sparse float64 vector. Indices are kept sorted.
type SparseVector struct {
	Indices []int
	Values  []float64
	Dim     int
}

// NewSparseVector creates a sparse vector with given dimension.
func NewSparseVector(dim int) SparseVector {
	return SparseVector{Dim: dim}
}

// Get returns the value at idx, or zero when it is not stored.
func (sv SparseVector) Get(idx int) float64 {
	pos := sort.SearchInts(sv.Indices, idx)
	if pos < len(sv.Indices) && sv.Indices[pos] == idx {
		return sv.Values[pos]
	}
	return 0
}

// Nnz returns the number of non-zero entries.
func (sv SparseVector) Nnz() int {
	return len(sv.Indices)
}
