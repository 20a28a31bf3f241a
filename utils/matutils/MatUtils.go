// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// ColMean computes and returns the mean of each column of a matrix
func ColMean(matrix *mat.Dense) *mat.VecDense {
	_, c := matrix.Dims()
	colMeans := make([]float64, c)

	for j := 0; j < c; j++ {
		colMeans[j] = stat.Mean(mat.Col(nil, j, matrix), nil)
	}
	return mat.NewVecDense(c, colMeans)
}

// Stack truncates every row to the shortest row and returns the rows
// as a matrix. It returns nil if any row is empty.
func Stack(rows [][]float64) *mat.Dense {
	if len(rows) == 0 {
		return nil
	}

	cols := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) < cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return nil
	}

	m := mat.NewDense(len(rows), cols, nil)
	for i, row := range rows {
		m.SetRow(i, row[:cols])
	}
	return m
}

// ScaleBias divides each element of a by the matching element of scale
// and appends a trailing 1.0 bias unit. Zero scales leave the element
// unchanged.
func ScaleBias(a, scale mat.Vector) *mat.VecDense {
	n := a.Len()
	out := mat.NewVecDense(n+1, nil)

	for i := 0; i < n; i++ {
		v := a.AtVec(i)
		if s := scale.AtVec(i); s != 0 {
			v /= s
		}
		out.SetVec(i, v)
	}
	out.SetVec(n, 1.0)
	return out
}
