package strategy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// solveLeastSquares computes the least squares coefficients of x against y
// using QR factorization with back substitution.
func solveLeastSquares(x *mat.Dense, y []float64) ([]float64, error) {
	if x == nil {
		return nil, fmt.Errorf("empty design matrix, %w", ErrModelFit)
	}
	obs, n := x.Dims()
	if obs != len(y) {
		return nil, fmt.Errorf("design matrix has %d rows for %d observations, %w", obs, len(y), ErrModelFit)
	}
	if obs < n {
		return nil, fmt.Errorf("%d observations for %d features, %w", obs, n, ErrModelFit)
	}

	yMx := mat.NewDense(1, len(y), y)

	qr := new(mat.QR)
	qr.Factorize(x)

	q := new(mat.Dense)
	r := new(mat.Dense)
	qr.QTo(q)
	qr.RTo(r)

	var yq mat.Dense
	yq.Mul(yMx, q)

	coef := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		coef[i] = yq.At(0, i)
		for j := i + 1; j < n; j++ {
			coef[i] -= coef[j] * r.At(i, j)
		}
		coef[i] /= r.At(i, i)
	}

	for i, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("non-finite coefficient for feature %d, %w", i, ErrModelFit)
		}
	}
	return coef, nil
}
