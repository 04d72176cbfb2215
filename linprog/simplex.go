// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linprog

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// simplex solves the standard form problem with gonum's revised simplex.
func simplex(c []float64, a *mat.Dense, b []float64) ([]float64, error) {
	_, x, err := lp.Simplex(c, a, b, 0, nil)
	switch {
	case err == nil:
		return x, nil
	case errors.Is(err, lp.ErrInfeasible):
		return nil, ErrInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return nil, ErrUnbounded
	}
	return nil, fmt.Errorf("%w: %v", ErrNotConverged, err)
}
