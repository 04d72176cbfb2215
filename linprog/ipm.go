// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linprog

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ipmOptions specifies the stopping criteria of the interior-point method.
type ipmOptions struct {
	// Relative tolerance on primal residual, dual residual and duality gap.
	Tolerance float64
	// The iteration stops when the number of iterations exceeds limit.
	MaxIterations int
	// Centering parameter σ ∈ (0, 1).
	Centering float64
	// Fraction of the step to the boundary of the positive orthant.
	StepRatio float64
	// Iterates whose norm exceeds Divergence are taken as evidence of
	// unboundedness (primal) or infeasibility (dual).
	Divergence float64
}

var defaultIPMOptions = ipmOptions{
	Tolerance:     1e-9,
	MaxIterations: 200,
	Centering:     0.1,
	StepRatio:     0.9995,
	Divergence:    1e12,
}

// interiorPoint solves min 𝐜ᵀ𝐱 s.t. 𝐀𝐱 = 𝐛, 𝐱 ≥ 0 by an infeasible primal-dual
// path-following method. Each iteration solves the normal equations
//
//	𝐀𝐃𝐀ᵀ Δ𝐲 = 𝐫ₚ - 𝐀𝐒⁻¹𝐫꜀ + 𝐀𝐃𝐫ᵈ,  𝐃 = 𝐗𝐒⁻¹
//
// for the dual step and recovers Δ𝐬 and Δ𝐱 from it.
//
// # Reference:
//
//   - S. J. Wright, Primal-Dual Interior-Point Methods, SIAM, 1997.
func interiorPoint(c []float64, a *mat.Dense, b []float64, opt ipmOptions) (x []float64, iter int, err error) {
	m, n := a.Dims()

	x = make([]float64, n)
	s := make([]float64, n)
	y := make([]float64, m)
	floats.AddConst(math.Max(1, floats.Norm(b, math.Inf(1))), x)
	floats.AddConst(math.Max(1, floats.Norm(c, math.Inf(1))), s)

	bNorm := 1 + floats.Norm(b, 2)
	cNorm := 1 + floats.Norm(c, 2)

	var (
		ax  = make([]float64, m)
		aty = make([]float64, n)
		rp  = make([]float64, m) // 𝐛 - 𝐀𝐱
		rd  = make([]float64, n) // 𝐜 - 𝐀ᵀ𝐲 - 𝐬
		rc  = make([]float64, n) // σμ𝐞 - 𝐗𝐒𝐞
		d   = make([]float64, n)
		tmp = make([]float64, n)
		rhs = make([]float64, m)
		ds  = make([]float64, n)
		dx  = make([]float64, n)
		ad  = mat.NewDense(m, n, nil)
		nrm = mat.NewSymDense(m, nil)
		dy  = mat.NewVecDense(m, nil)
	)

	// views sharing storage with the slices above
	xv, yv := mat.NewVecDense(n, x), mat.NewVecDense(m, y)
	axv, atyv := mat.NewVecDense(m, ax), mat.NewVecDense(n, aty)
	tmpv, rhsv := mat.NewVecDense(n, tmp), mat.NewVecDense(m, rhs)

	for iter = 1; iter <= opt.MaxIterations; iter++ {
		axv.MulVec(a, xv)
		atyv.MulVec(a.T(), yv)
		floats.SubTo(rp, b, ax)
		floats.SubTo(rd, c, aty)
		floats.Sub(rd, s)

		xs := floats.Dot(x, s)
		mu := xs / float64(n)
		gap := xs / (1 + math.Abs(floats.Dot(c, x)))
		if floats.Norm(rp, 2)/bNorm < opt.Tolerance && floats.Norm(rd, 2)/cNorm < opt.Tolerance && gap < opt.Tolerance {
			return x, iter, nil
		}
		switch {
		case floats.Norm(x, math.Inf(1)) > opt.Divergence:
			return nil, iter, ErrUnbounded
		case floats.Norm(y, math.Inf(1)) > opt.Divergence || floats.Norm(s, math.Inf(1)) > opt.Divergence:
			return nil, iter, ErrInfeasible
		}

		for j := range x {
			d[j] = x[j] / s[j]
			rc[j] = opt.Centering*mu - x[j]*s[j]
		}

		// 𝐀𝐃𝐀ᵀ
		for i := 0; i < m; i++ {
			floats.MulTo(ad.RawRowView(i), a.RawRowView(i), d)
		}
		for i := 0; i < m; i++ {
			for k := i; k < m; k++ {
				nrm.SetSym(i, k, floats.Dot(ad.RawRowView(i), a.RawRowView(k)))
			}
		}

		// 𝐫ₚ - 𝐀𝐒⁻¹𝐫꜀ + 𝐀𝐃𝐫ᵈ
		for j := range tmp {
			tmp[j] = d[j]*rd[j] - rc[j]/s[j]
		}
		rhsv.MulVec(a, tmpv)
		floats.Add(rhs, rp)

		var chol mat.Cholesky
		if chol.Factorize(nrm) {
			err = chol.SolveVecTo(dy, rhsv)
		} else {
			err = dy.SolveVec(nrm, rhsv)
		}
		// ill-conditioning is expected close to the optimum
		var cond mat.Condition
		if errors.As(err, &cond) {
			err = nil
		}
		if err != nil {
			return nil, iter, ErrNotConverged
		}

		// Δ𝐬 = 𝐫ᵈ - 𝐀ᵀΔ𝐲, Δ𝐱 = 𝐒⁻¹(𝐫꜀ - 𝐗Δ𝐬)
		tmpv.MulVec(a.T(), dy)
		for j := range ds {
			ds[j] = rd[j] - tmp[j]
			dx[j] = (rc[j] - x[j]*ds[j]) / s[j]
		}

		alphaP := opt.StepRatio * maxStep(x, dx)
		alphaD := opt.StepRatio * maxStep(s, ds)
		floats.AddScaled(x, alphaP, dx)
		floats.AddScaled(s, alphaD, ds)
		floats.AddScaled(y, alphaD, dy.RawVector().Data)
	}

	return nil, opt.MaxIterations, ErrNotConverged
}

// maxStep returns the largest α ≤ 1 such that v + α·dv stays nonnegative.
func maxStep(v, dv []float64) float64 {
	alpha := math.Inf(1)
	for i, d := range dv {
		if d < 0 {
			alpha = math.Min(alpha, -v[i]/d)
		}
	}
	return math.Min(alpha, 1)
}
