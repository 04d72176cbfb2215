// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numdiff estimates derivatives of vector and scalar fields by finite differences.
// It is used to cross-check symbolic partial derivatives.
package numdiff

import (
	"errors"
	"math"
)

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use central difference in interior points and the second order accuracy
	// one-sided difference near the boundary.
	Central
)

// Bound is the closed interval [Lower, Upper] an independent variable may be evaluated in.
type Bound struct {
	Lower, Upper float64
}

var (
	ErrDimension = errors.New("numdiff: invalid dimensions")
	ErrMethod    = errors.New("numdiff: unknown method")
	ErrNoField   = errors.New("numdiff: field function is required")
	ErrBound     = errors.New("numdiff: invalid bound")
	ErrOutside   = errors.New("numdiff: x0 violates bound constraints")
)

// Spec describes a field 𝒇(𝐱) : ℝⁿ → ℝᵐ whose Jacobian is estimated.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
type Spec struct {
	N, M int
	// Field to differentiate. The result of evaluating at x is stored in y (an m-vector).
	Field func(x, y []float64)
	// Finite difference method to use.
	Method Method
	// Optional bounds of the independent variables.
	Bounds []Bound
	// Absolute step size. Selected from the machine epsilon when zero:
	// h = eps * sign(x0) * max(1, |x0|).
	Step float64

	f0, f1, f2 []float64
	step       []float64
	oneSide    []bool
}

func (s *Spec) check(x0, jac []float64) error {
	switch {
	case s.N <= 0 || s.M <= 0:
		return ErrDimension
	case s.Method != Forward && s.Method != Central:
		return ErrMethod
	case s.Field == nil:
		return ErrNoField
	case len(x0) != s.N || len(jac) != s.N*s.M:
		return ErrDimension
	}
	if s.Bounds != nil {
		if len(s.Bounds) != s.N {
			return ErrBound
		}
		for i, b := range s.Bounds {
			if b.Lower > b.Upper {
				return ErrBound
			}
			if x0[i] < b.Lower || x0[i] > b.Upper {
				return ErrOutside
			}
		}
	}
	if len(s.f0) != s.M {
		s.f0 = make([]float64, s.M)
		s.f1 = make([]float64, s.M)
		s.f2 = make([]float64, s.M)
	}
	if len(s.step) != s.N {
		s.step = make([]float64, s.N)
		s.oneSide = make([]bool, s.N)
	}
	return nil
}

// Jacobian stores ∂yⱼ/∂xᵢ at jac[j*n+i] (row-major m×n).
// x0 is restored before returning.
func (s *Spec) Jacobian(x0, jac []float64) error {
	if err := s.check(x0, jac); err != nil {
		return err
	}
	s.initialStep(x0)
	s.fitBounds(x0)
	if s.Method == Central {
		s.central(x0, jac)
	} else {
		s.forward(x0, jac)
	}
	return nil
}

func (s *Spec) initialStep(x0 []float64) {
	eps := sqrtEps
	if s.Method == Central {
		eps = cubeEps
	}
	for i, v := range x0 {
		h := s.Step
		if h == 0 || (v+h)-v == 0 {
			h = math.Copysign(eps, v) * math.Max(1, math.Abs(v))
		}
		if s.Method == Central {
			h = math.Abs(h)
		}
		s.step[i] = h
		s.oneSide[i] = false
	}
}

// fitBounds shrinks or flips steps so that every evaluation stays inside the bounds.
func (s *Spec) fitBounds(x0 []float64) {
	if s.Bounds == nil {
		return
	}
	for i, x := range x0 {
		lo, up := x-s.Bounds[i].Lower, s.Bounds[i].Upper-x
		h := s.step[i]
		switch s.Method {
		case Forward:
			if x+h > s.Bounds[i].Upper || x+h < s.Bounds[i].Lower {
				if math.Abs(h) <= math.Max(lo, up) {
					h = -h
				} else if up >= lo {
					h = up
				} else {
					h = -lo
				}
			}
		case Central:
			if lo < h || up < h {
				if up >= lo {
					h = math.Min(h, 0.5*up)
				} else {
					h = -math.Min(h, 0.5*lo)
				}
				s.oneSide[i] = true
				if d := math.Min(lo, up); math.Abs(h) <= d {
					h, s.oneSide[i] = d, false
				}
			}
		}
		s.step[i] = h
	}
}

func (s *Spec) forward(x0, jac []float64) {
	n := s.N
	s.Field(x0, s.f0)
	for i, h := range s.step {
		t := x0[i]
		x0[i] = t + h
		s.Field(x0, s.f1)
		x0[i] = t
		for j := range s.f0 {
			jac[j*n+i] = (s.f1[j] - s.f0[j]) / h
		}
	}
}

func (s *Spec) central(x0, jac []float64) {
	n := s.N
	s.Field(x0, s.f0)
	for i, h := range s.step {
		t := x0[i]
		d := 1 / (2 * h)
		if s.oneSide[i] {
			x0[i] = t + h
			s.Field(x0, s.f1)
			x0[i] = t + 2*h
			s.Field(x0, s.f2)
			for j := range s.f0 {
				jac[j*n+i] = (4*s.f1[j] - 3*s.f0[j] - s.f2[j]) * d
			}
		} else {
			x0[i] = t - h
			s.Field(x0, s.f1)
			x0[i] = t + h
			s.Field(x0, s.f2)
			for j := range s.f0 {
				jac[j*n+i] = (s.f2[j] - s.f1[j]) * d
			}
		}
		x0[i] = t
	}
}

// Steps returns the signed step taken along each variable by the last call to Jacobian.
// A one-sided central step spans twice its magnitude.
func (s *Spec) Steps() []float64 {
	return append([]float64(nil), s.step...)
}
