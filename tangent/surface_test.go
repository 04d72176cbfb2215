// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tangent

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioloop/opmodel/symbolic"
)

func TestParaboloid(t *testing.T) {
	s, err := Analyze("x^2 + y^2", 1, 2, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "2*x", s.Fx.String())
	assert.Equal(t, "2*y", s.Fy.String())
	assert.Equal(t, 5.0, s.Z0)
	assert.Equal(t, [2]float64{2, 4}, s.Gradient)
	assert.Equal(t, [3]float64{2, 0, 2}, s.Hessian)
	assert.Equal(t, 11.0, s.Plane(2, 3))
	assert.Equal(t, "z = 5.0000 + 2.0000·(x - 1) + 4.0000·(y - 2)", s.Equation())
}

func TestTranscendental(t *testing.T) {
	s, err := Analyze("sin(x)*exp(y)", 0, 0, DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 0, s.Z0, 1e-15)
	assert.InDelta(t, 1, s.Gradient[0], 1e-15)
	assert.InDelta(t, 0, s.Gradient[1], 1e-15)

	s, err = Analyze("x*y*exp(-(x^2+y^2)/2) + ln(1+x^2)", 0.3, -0.8, DefaultOptions())
	require.NoError(t, err)
	x, y := 0.3, -0.8
	g := math.Exp(-(x*x + y*y) / 2)
	assert.InDelta(t, y*g*(1-x*x)+2*x/(1+x*x), s.Gradient[0], 1e-12)
	assert.InDelta(t, x*g*(1-y*y), s.Gradient[1], 1e-12)
}

func TestPlaneTouchesSurface(t *testing.T) {
	s, err := Analyze("x^2 + y^2", 1, 2, DefaultOptions())
	require.NoError(t, err)
	m, err := s.Mesh(1, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2}, m.X)
	assert.Equal(t, []float64{1, 1.5, 2, 2.5, 3}, m.Y)
	assert.Equal(t, 5.0, m.Z.At(2, 2))
	assert.Equal(t, 5.0, m.Plane.At(2, 2))
	assert.Equal(t, s.At(2, 3), m.Z.At(4, 4))
	// a convex surface lies above each of its tangent planes
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			assert.GreaterOrEqual(t, m.Z.At(i, j), m.Plane.At(i, j))
		}
	}
}

func TestMeshOutsideDomain(t *testing.T) {
	s, err := Analyze("sqrt(x) + y", 1, 0, DefaultOptions())
	require.NoError(t, err)
	m, err := s.Mesh(2, 3)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(m.Z.At(0, 0)))
	assert.False(t, math.IsNaN(m.Plane.At(0, 0)))

	_, err = s.Mesh(0, 10)
	assert.Error(t, err)
	_, err = s.Mesh(1, 1)
	assert.Error(t, err)
}

func TestErrors(t *testing.T) {
	_, err := Analyze("x*z", 0, 0, DefaultOptions())
	assert.ErrorIs(t, err, ErrVariables)
	assert.ErrorIs(t, err, symbolic.ErrUnknownVariable)

	_, err = Analyze("sqrt(x)", 0, 1, DefaultOptions())
	assert.ErrorIs(t, err, ErrNotFinite)

	_, err = Analyze("log(x)", -1, 0, DefaultOptions())
	assert.ErrorIs(t, err, ErrNotFinite)

	_, err = Analyze("x +* y", 0, 0, DefaultOptions())
	var se *symbolic.SyntaxError
	assert.True(t, errors.As(err, &se))
}

func TestVerifyDetectsMismatch(t *testing.T) {
	s, err := Analyze("x^3*y", 1, 1, Options{})
	require.NoError(t, err)
	require.NoError(t, s.verify(1e-5))

	s.Gradient[0] += 0.01
	assert.ErrorIs(t, s.verify(1e-5), ErrGradientMismatch)

	s.Gradient[0] -= 0.01
	s.Hessian[1] = 0
	assert.ErrorIs(t, s.verify(1e-5), ErrGradientMismatch)
}

func TestVerifyAcceptsValidInputs(t *testing.T) {
	cases := []struct {
		f      string
		x0, y0 float64
		grad   [2]float64
	}{
		// |f| much larger than the partials
		{"x + y^4", 0, 100, [2]float64{1, 4e6}},
		{"x + 1e8", 0, 0, [2]float64{1, 0}},
		{"x*y^4", 1, 100, [2]float64{1e8, 4e6}},
		// central steps would leave the domain of f
		{"sqrt(x) + y", 1e-8, 0, [2]float64{5000, 1}},
		{"sqrt(1e-8 - x) + y", 0, 0, [2]float64{-5000, 1}},
		{"log(x)*y", 1e-9, 1, [2]float64{1e9, math.Log(1e-9)}},
		// (x^2)^0.5 is |x|
		{"(x^2)^0.5 + y", -1, 0, [2]float64{-1, 1}},
	}
	for _, c := range cases {
		s, err := Analyze(c.f, c.x0, c.y0, DefaultOptions())
		require.NoError(t, err, c.f)
		assert.InDelta(t, c.grad[0], s.Gradient[0], 1e-9*math.Max(1, math.Abs(c.grad[0])), c.f)
		assert.InDelta(t, c.grad[1], s.Gradient[1], 1e-9*math.Max(1, math.Abs(c.grad[1])), c.f)
	}
}

func TestVerifyAtDomainEdge(t *testing.T) {
	s, err := Analyze("sqrt(x) + y", 1e-8, 0, Options{})
	require.NoError(t, err)

	est, ok := s.oneSided([]symbolic.Expr{s.F}, []float64{s.X0, s.Y0}, 0)
	require.True(t, ok)
	assert.Less(t, est[0].value, 5000.0)
	assert.Greater(t, est[0].value, 0.0)
	assert.LessOrEqual(t, math.Abs(est[0].value-5000), est[0].slack)

	// a wrong partial is still caught from the defined side
	s.Gradient[0] = -5000
	assert.ErrorIs(t, s.verify(1e-5), ErrGradientMismatch)

	// undefined on both sides of x0: that partial cannot be checked and is skipped
	s, err = Analyze("sqrt(x) + y", 1, 0, Options{})
	require.NoError(t, err)
	s.F = symbolic.MustParse("sqrt(-(x - 1)^2) + y")
	s.f = func([]float64) float64 { return math.NaN() }
	s.Gradient[0] = 123
	_, ok = s.oneSided([]symbolic.Expr{s.F}, []float64{1, 0}, 0)
	assert.False(t, ok)
	assert.NoError(t, s.verify(1e-5))
}

func TestVerifyLargeValues(t *testing.T) {
	s, err := Analyze("x + 1e8", 0, 0, Options{})
	require.NoError(t, err)
	require.NoError(t, s.verify(1e-5))

	s.Gradient[0] = 1.1
	assert.ErrorIs(t, s.verify(1e-5), ErrGradientMismatch)
}
