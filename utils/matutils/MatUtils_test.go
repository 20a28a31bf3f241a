package matutils

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestStackTruncates(t *testing.T) {
	m := Stack([][]float64{{1, 2, 3}, {4, 5}})
	r, c := m.Dims()
	if r != 2 || c != 2 {
		t.Fatalf("expected 2x2 matrix, got %dx%d", r, c)
	}

	means := ColMean(m)
	want := []float64{2.5, 3.5}
	for i, w := range want {
		if got := means.AtVec(i); got != w {
			t.Errorf("column %d: expected mean %v, got %v", i, w, got)
		}
	}
}

func TestStackEmpty(t *testing.T) {
	if Stack(nil) != nil {
		t.Error("expected nil for no rows")
	}
	if Stack([][]float64{{1}, {}}) != nil {
		t.Error("expected nil for an empty row")
	}
}

func TestScaleBias(t *testing.T) {
	a := mat.NewVecDense(3, []float64{5, 10, 2})
	scale := mat.NewVecDense(3, []float64{10, 10, 0})

	got := ScaleBias(a, scale)
	want := []float64{0.5, 1, 2, 1}
	if got.Len() != len(want) {
		t.Fatalf("expected length %d, got %d", len(want), got.Len())
	}
	for i, w := range want {
		if got.AtVec(i) != w {
			t.Errorf("element %d: expected %v, got %v", i, w, got.AtVec(i))
		}
	}
}
