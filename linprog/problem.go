// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linprog solves the production-planning linear program
//
//	maximize (or minimize) 𝐜ᵀ𝐱
//	subject to            𝐀𝐱 ≤ 𝐛, 𝐱 ≥ 0
//
// with either the simplex method or a primal-dual interior-point method.
package linprog

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

type Method int

const (
	// Simplex pivots between vertices of the feasible polytope.
	Simplex Method = iota
	// InteriorPoint follows the central path through the interior of the feasible region.
	InteriorPoint
)

func (m Method) String() string {
	switch m {
	case Simplex:
		return "simplex"
	case InteriorPoint:
		return "interior-point"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseMethod maps a method name to a Method.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "simplex", "highs":
		return Simplex, nil
	case "interior-point", "ipm":
		return InteriorPoint, nil
	}
	return 0, fmt.Errorf("linprog: unknown method %q", name)
}

var (
	ErrDimension    = errors.New("linprog: inconsistent problem dimensions")
	ErrInfeasible   = errors.New("linprog: problem is infeasible")
	ErrUnbounded    = errors.New("linprog: problem is unbounded")
	ErrNotConverged = errors.New("linprog: solver did not converge")
)

// Problem is a linear program in inequality form.
type Problem struct {
	C        []float64  // objective coefficients, one per variable
	A        *mat.Dense // constraint matrix, one row per constraint
	B        []float64  // right-hand side of 𝐀𝐱 ≤ 𝐛
	Maximize bool
}

// Production returns the classic two-product planning problem
//
//	x1 ≤ 4, 2·x2 ≤ 12, 3·x1 + 2·x2 ≤ 18
//
// maximizing c1·x1 + c2·x2.
func Production(c1, c2 float64) Problem {
	return Problem{
		C: []float64{c1, c2},
		A: mat.NewDense(3, 2, []float64{
			1, 0,
			0, 2,
			3, 2,
		}),
		B:        []float64{4, 12, 18},
		Maximize: true,
	}
}

func (p *Problem) validate() (m, n int, err error) {
	n = len(p.C)
	switch {
	case n == 0:
		err = fmt.Errorf("%w: no variables", ErrDimension)
	case p.A == nil:
		err = fmt.Errorf("%w: missing constraint matrix", ErrDimension)
	default:
		var c int
		m, c = p.A.Dims()
		if c != n || len(p.B) != m {
			err = fmt.Errorf("%w: A is %d×%d, len(c)=%d, len(b)=%d", ErrDimension, m, c, n, len(p.B))
		}
	}
	if err != nil {
		return
	}
	for _, v := range p.C {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return m, n, fmt.Errorf("%w: objective coefficient %v", ErrDimension, v)
		}
	}
	for _, v := range p.B {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return m, n, fmt.Errorf("%w: right-hand side %v", ErrDimension, v)
		}
	}
	return
}

// standardForm converts the problem to
//
//	minimize 𝐜ₛᵀ𝐳 subject to [𝐀 𝐈]𝐳 = 𝐛, 𝐳 ≥ 0
//
// by appending one slack column per row. Columns of 𝐀 that are identically zero
// are dropped and reported in skip.
func (p *Problem) standardForm() (c []float64, a *mat.Dense, skip []bool, err error) {
	m, n, err := p.validate()
	if err != nil {
		return
	}
	sign := 1.0
	if p.Maximize {
		sign = -1
	}

	skip = make([]bool, n)
	keep := 0
	for j := 0; j < n; j++ {
		if zeroColumn(p.A, j) {
			// a variable without constraints is unbounded in any improving direction
			if sign*p.C[j] < 0 {
				return nil, nil, nil, ErrUnbounded
			}
			skip[j] = true
			continue
		}
		keep++
	}

	c = make([]float64, keep+m)
	a = mat.NewDense(m, keep+m, nil)
	k := 0
	for j := 0; j < n; j++ {
		if skip[j] {
			continue
		}
		c[k] = sign * p.C[j]
		for i := 0; i < m; i++ {
			a.Set(i, k, p.A.At(i, j))
		}
		k++
	}
	for i := 0; i < m; i++ {
		a.Set(i, keep+i, 1)
	}
	return
}

func zeroColumn(a mat.Matrix, j int) bool {
	m, _ := a.Dims()
	for i := 0; i < m; i++ {
		if a.At(i, j) != 0 {
			return false
		}
	}
	return true
}

// Result is the optimal solution of a Problem.
type Result struct {
	Method     Method    `json:"method"`
	X          []float64 `json:"x"`     // decision variables
	Z          float64   `json:"z"`     // objective value 𝐜ᵀ𝐱
	Slack      []float64 `json:"slack"` // 𝐛 - 𝐀𝐱 per constraint
	Iterations int       `json:"iterations,omitempty"`
}

func (p *Problem) result(method Method, z []float64, skip []bool, iter int) *Result {
	m, n := p.A.Dims()
	x := make([]float64, n)
	k := 0
	for j := range x {
		if skip[j] {
			continue
		}
		x[j] = math.Max(0, z[k])
		k++
	}
	ax := mat.NewVecDense(m, nil)
	ax.MulVec(p.A, mat.NewVecDense(n, x))
	slack := make([]float64, m)
	for i := range slack {
		slack[i] = p.B[i] - ax.AtVec(i)
	}
	return &Result{
		Method:     method,
		X:          x,
		Z:          mat.Dot(mat.NewVecDense(n, p.C), mat.NewVecDense(n, x)),
		Slack:      slack,
		Iterations: iter,
	}
}

// Solve computes an optimal solution of p.
func Solve(p Problem, method Method) (*Result, error) {
	c, a, skip, err := p.standardForm()
	if err != nil {
		return nil, err
	}
	var (
		z    []float64
		iter int
	)
	switch method {
	case Simplex:
		z, err = simplex(c, a, p.B)
	case InteriorPoint:
		z, iter, err = interiorPoint(c, a, p.B, defaultIPMOptions)
	default:
		err = fmt.Errorf("linprog: unknown method %v", method)
	}
	if err != nil {
		return nil, err
	}
	return p.result(method, z, skip, iter), nil
}
