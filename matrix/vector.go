// Package matrix implements the small set of integer vector/matrix
// operations the Petri net engine needs: a unit vector for a transition,
// incidence-matrix-by-unit-vector multiplication, and elementwise
// addition. All three are pure and require no synchronization.
package matrix

import "fmt"

// OutOfRange reports that a transition index fell outside a vector's
// valid bounds.
type OutOfRange struct {
	Index int
	Size  int
}

func (e *OutOfRange) Error() string {
	return fmt.Sprintf("matrix: index %d out of range [0,%d)", e.Index, e.Size)
}

// DimMismatch reports incompatible operand dimensions.
type DimMismatch struct {
	Want int
	Got  int
}

func (e *DimMismatch) Error() string {
	return fmt.Sprintf("matrix: dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// UnitVector returns a length-size vector with a single 1 at index t and
// zero elsewhere.
func UnitVector(t, size int) ([]int, error) {
	if t < 0 || t >= size {
		return nil, &OutOfRange{Index: t, Size: size}
	}
	v := make([]int, size)
	v[t] = 1
	return v, nil
}

// Multiply computes w·v for an incidence-style matrix w (rows x cols) and
// a column vector v (cols). Zero entries of v are skipped, matching the
// optimization in the original implementation this package is grounded
// on.
func Multiply(w [][]int, v []int) ([]int, error) {
	if len(w) == 0 {
		return []int{}, nil
	}
	cols := len(w[0])
	if cols != len(v) {
		return nil, &DimMismatch{Want: cols, Got: len(v)}
	}

	result := make([]int, len(w))
	for i, row := range w {
		for j, vj := range v {
			if vj != 0 {
				result[i] += row[j] * vj
			}
		}
	}
	return result, nil
}

// Add returns the elementwise sum a+b.
func Add(a, b []int) ([]int, error) {
	if len(a) != len(b) {
		return nil, &DimMismatch{Want: len(a), Got: len(b)}
	}
	result := make([]int, len(a))
	for i := range a {
		result[i] = a[i] + b[i]
	}
	return result, nil
}
