// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tangent computes the partial derivatives of a surface z = f(x, y)
// and its tangent plane at a point.
package tangent

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/opmodel/numdiff"
	"github.com/curioloop/opmodel/symbolic"
)

var (
	ErrVariables        = errors.New("tangent: f may only depend on x and y")
	ErrNotFinite        = errors.New("tangent: f or its partials are not finite at the point")
	ErrGradientMismatch = errors.New("tangent: symbolic and numeric derivatives disagree")
)

var vars = []string{"x", "y"}

// Options tune Analyze.
type Options struct {
	// Verify compares the symbolic gradient and Hessian with finite differences.
	Verify bool
	// Relative tolerance of the comparison.
	Tolerance float64
}

// DefaultOptions verifies derivatives with a relative tolerance of 1e-5.
func DefaultOptions() Options {
	return Options{Verify: true, Tolerance: 1e-5}
}

// Surface is the function f together with its symbolic partials and the tangent plane at (X0, Y0).
type Surface struct {
	F   symbolic.Expr
	Fx  symbolic.Expr
	Fy  symbolic.Expr
	Fxx symbolic.Expr
	Fxy symbolic.Expr
	Fyy symbolic.Expr

	X0, Y0, Z0 float64
	// Gradient (∂f/∂x, ∂f/∂y) at the point.
	Gradient [2]float64
	// Hessian (f_xx, f_xy, f_yy) at the point.
	Hessian [3]float64

	f func(p []float64) float64
}

// Analyze parses src, differentiates it and evaluates the tangent plane at (x0, y0).
func Analyze(src string, x0, y0 float64, opt Options) (*Surface, error) {
	e, err := symbolic.Parse(src)
	if err != nil {
		return nil, err
	}
	return New(e, x0, y0, opt)
}

// New is like Analyze for an already parsed expression.
func New(e symbolic.Expr, x0, y0 float64, opt Options) (*Surface, error) {
	f, err := symbolic.Func(e, vars...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVariables, err)
	}

	g := symbolic.Gradient(e, vars...)
	h := symbolic.Hessian(e, vars...)
	s := &Surface{
		F: e, Fx: g[0], Fy: g[1],
		Fxx: h[0][0], Fxy: h[0][1], Fyy: h[1][1],
		X0: x0, Y0: y0,
		f: f,
	}

	env := symbolic.Env{"x": x0, "y": y0}
	vals := make([]float64, 6)
	for i, d := range []symbolic.Expr{e, s.Fx, s.Fy, s.Fxx, s.Fxy, s.Fyy} {
		if vals[i], err = symbolic.Eval(d, env); err != nil {
			return nil, err
		}
	}
	s.Z0 = vals[0]
	s.Gradient = [2]float64{vals[1], vals[2]}
	s.Hessian = [3]float64{vals[3], vals[4], vals[5]}
	for _, v := range vals[:3] {
		if !isFinite(v) {
			return nil, ErrNotFinite
		}
	}

	if opt.Verify {
		if err := s.verify(opt.Tolerance); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// eps is the machine epsilon; roundoff scales it to the error of a difference quotient.
var eps = math.Nextafter(1, 2) - 1

const roundoff = 8

// estimate is a finite-difference value and the error it may carry.
type estimate struct {
	value, slack float64
}

// verify checks the gradient against gonum's central differences and the Hessian
// against a numdiff Jacobian of the symbolic gradient. A partial whose central
// estimate leaves the domain of f is estimated one-sided from the defined side,
// and is skipped when f is undefined on both sides.
func (s *Surface) verify(tol float64) error {
	p := []float64{s.X0, s.Y0}
	for i := range p {
		h := fd.Central.Step * math.Max(1, math.Abs(p[i]))
		line := func(t float64) float64 {
			q := [2]float64{s.X0, s.Y0}
			q[i] = t
			return s.f(q[:])
		}
		// the rounding error of the quotient grows with |f|/h
		est := estimate{
			value: fd.Derivative(line, p[i], &fd.Settings{Formula: fd.Central, Step: h}),
			slack: roundoff * eps * math.Abs(s.Z0) / h,
		}
		if !isFinite(est.value) {
			edge, ok := s.oneSided([]symbolic.Expr{s.F}, p, i)
			if !ok {
				continue
			}
			est = edge[0]
		}
		if !near(est.value, s.Gradient[i], tol, est.slack) {
			return fmt.Errorf("%w: ∂f/∂%s = %g, finite differences give %g", ErrGradientMismatch, vars[i], s.Gradient[i], est.value)
		}
	}

	if !finite(s.Hessian[:]) {
		return nil
	}
	field := []symbolic.Expr{s.Fx, s.Fy}
	fx, _ := symbolic.Func(s.Fx, vars...)
	fy, _ := symbolic.Func(s.Fy, vars...)
	spec := numdiff.Spec{
		N: 2, M: 2, Method: numdiff.Central,
		Field: func(x, y []float64) {
			y[0], y[1] = fx(x), fy(x)
		},
	}
	jac := make([]float64, 4)
	if err := spec.Jacobian(p, jac); err != nil {
		return err
	}
	steps := spec.Steps()
	// rows are ∇f_x and ∇f_y
	want := []float64{s.Hessian[0], s.Hessian[1], s.Hessian[1], s.Hessian[2]}
	for i := range p {
		col := make([]estimate, 2)
		for j := range col {
			col[j] = estimate{jac[j*2+i], roundoff * eps * math.Abs(s.Gradient[j]) / math.Abs(steps[i])}
		}
		if !isFinite(col[0].value) || !isFinite(col[1].value) {
			var ok bool
			if col, ok = s.oneSided(field, p, i); !ok {
				continue
			}
		}
		for j, e := range col {
			if !near(e.value, want[j*2+i], 100*tol, e.slack) {
				return fmt.Errorf("%w: second-order partial %g, finite differences give %g", ErrGradientMismatch, want[j*2+i], e.value)
			}
		}
	}
	return nil
}

// oneSided estimates ∂e/∂xᵢ at p for every e in field with a forward difference
// bounded to the side of p on which the field is defined. The slack allows for
// the truncation error h/2·|∂²e/∂xᵢ²|, doubled. ok is false when the field is
// undefined on both sides or its curvature is not finite at p.
func (s *Surface) oneSided(field []symbolic.Expr, p []float64, i int) (est []estimate, ok bool) {
	fns := make([]func([]float64) float64, len(field))
	for j, e := range field {
		fns[j], _ = symbolic.Func(e, vars...)
	}
	q := slices.Clone(p)
	eval := func(x, y []float64) {
		q[i] = x[0]
		for j, f := range fns {
			y[j] = f(q)
		}
	}

	// numdiff takes forward steps of √eps·max(1, |x|)
	h := math.Sqrt(eps) * math.Max(1, math.Abs(p[i]))
	y := make([]float64, len(field))
	bound := numdiff.Bound{Lower: math.Inf(-1), Upper: math.Inf(1)}
	if eval([]float64{p[i] + h}, y); finite(y) {
		bound.Lower = p[i]
	} else if eval([]float64{p[i] - h}, y); finite(y) {
		bound.Upper = p[i]
	} else {
		return nil, false
	}

	spec := numdiff.Spec{
		N: 1, M: len(field), Method: numdiff.Forward,
		Field:  eval,
		Bounds: []numdiff.Bound{bound},
	}
	jac := make([]float64, len(field))
	if err := spec.Jacobian([]float64{p[i]}, jac); err != nil || !finite(jac) {
		return nil, false
	}
	step := math.Abs(spec.Steps()[0])

	env := symbolic.Env{"x": p[0], "y": p[1]}
	est = make([]estimate, len(field))
	for j, e := range field {
		curv, err := symbolic.Eval(symbolic.Diff(symbolic.Diff(e, vars[i]), vars[i]), env)
		if err != nil || !isFinite(curv) {
			return nil, false
		}
		est[j] = estimate{jac[j], step*math.Abs(curv) + roundoff*eps*math.Abs(fns[j](p))/step}
	}
	return est, true
}

// near reports whether a and b agree to the relative tolerance tol
// once an absolute error allowance slack is granted.
func near(a, b, tol, slack float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))+slack
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finite(v []float64) bool {
	for _, x := range v {
		if !isFinite(x) {
			return false
		}
	}
	return true
}

// At evaluates f(x, y); points outside the domain of f yield NaN.
func (s *Surface) At(x, y float64) float64 {
	return s.f([]float64{x, y})
}

// Plane evaluates the tangent plane z₀ + f_x·(x - x₀) + f_y·(y - y₀).
func (s *Surface) Plane(x, y float64) float64 {
	return s.Z0 + s.Gradient[0]*(x-s.X0) + s.Gradient[1]*(y-s.Y0)
}

// Equation renders the tangent plane as text.
func (s *Surface) Equation() string {
	return fmt.Sprintf("z = %.4f + %.4f·(x - %g) + %.4f·(y - %g)", s.Z0, s.Gradient[0], s.X0, s.Gradient[1], s.Y0)
}

// Mesh samples the surface and its tangent plane on a regular grid.
type Mesh struct {
	X, Y  []float64
	Z     *mat.Dense // Z.At(i, j) = f(X[j], Y[i])
	Plane *mat.Dense
}

// Mesh evaluates f and the tangent plane on an n×n grid covering
// [x₀-half, x₀+half] × [y₀-half, y₀+half].
func (s *Surface) Mesh(half float64, n int) (*Mesh, error) {
	if !(half > 0) || math.IsInf(half, 0) || n < 2 {
		return nil, fmt.Errorf("tangent: invalid mesh %g×%d", half, n)
	}
	m := &Mesh{
		X:     floats.Span(make([]float64, n), s.X0-half, s.X0+half),
		Y:     floats.Span(make([]float64, n), s.Y0-half, s.Y0+half),
		Z:     mat.NewDense(n, n, nil),
		Plane: mat.NewDense(n, n, nil),
	}
	for i, y := range m.Y {
		for j, x := range m.X {
			m.Z.Set(i, j, s.At(x, y))
			m.Plane.Set(i, j, s.Plane(x, y))
		}
	}
	return m, nil
}
