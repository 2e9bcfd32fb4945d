package vectorizer

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a row-sparse document-term matrix. It implements mat.Matrix and
// mat.RowNonZeroDoer, so consumers can aggregate over non-zero counts only.
type Matrix struct {
	rows []SparseVector
	cols int
}

var (
	_ mat.Matrix         = (*Matrix)(nil)
	_ mat.RowNonZeroDoer = (*Matrix)(nil)
)

// NewMatrix builds a matrix from sparse rows of width cols.
func NewMatrix(rows []SparseVector, cols int) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyCorpus
	}
	for i, r := range rows {
		if r.Dim != cols {
			return nil, fmt.Errorf("vectorizer: row %d has dimension %d, want %d", i, r.Dim, cols)
		}
	}
	return &Matrix{rows: rows, cols: cols}, nil
}

// Dims returns the number of documents and the vocabulary size.
func (m *Matrix) Dims() (r, c int) {
	return len(m.rows), m.cols
}

// At returns the count of word j in document i.
func (m *Matrix) At(i, j int) float64 {
	if i < 0 || i >= len(m.rows) {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= m.cols {
		panic(mat.ErrColAccess)
	}
	return m.rows[i].Get(j)
}

// T returns the transpose of the matrix.
func (m *Matrix) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// DoRowNonZero calls fn for each stored entry of row i.
func (m *Matrix) DoRowNonZero(i int, fn func(i, j int, v float64)) {
	row := m.rows[i]
	for k, j := range row.Indices {
		if v := row.Values[k]; v != 0 {
			fn(i, j, v)
		}
	}
}

// Nnz returns the number of stored entries.
func (m *Matrix) Nnz() int {
	n := 0
	for _, r := range m.rows {
		n += r.Nnz()
	}
	return n
}
