// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numdiff

import (
	"errors"
	"math"
	"testing"
)

func fieldV2(x, y []float64) {
	y[0] = x[0] * math.Sin(x[1])
	y[1] = x[1] * math.Cos(x[0])
	y[2] = math.Pow(x[0], 3) * math.Pow(x[1], -0.5)
}

func jacV2(x []float64) []float64 {
	return []float64{
		math.Sin(x[1]), x[0] * math.Cos(x[1]),
		-x[1] * math.Sin(x[0]), math.Cos(x[0]),
		3 * math.Pow(x[0], 2) * math.Pow(x[1], -0.5), -0.5 * math.Pow(x[0], 3) * math.Pow(x[1], -1.5),
	}
}

func relativeEqual(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol*math.Max(1, math.Abs(b[i])) {
			return false
		}
	}
	return true
}

func TestJacobian(t *testing.T) {

	x0 := []float64{1, 2}
	want := jacV2(x0)

	for _, tc := range []struct {
		method Method
		tol    float64
	}{
		{Forward, 1e-6},
		{Central, 1e-9},
	} {
		s := Spec{N: 2, M: 3, Field: fieldV2, Method: tc.method}
		jac := make([]float64, 6)
		if err := s.Jacobian(x0, jac); err != nil {
			t.Fatal(err)
		}
		switch {
		case !relativeEqual(jac, want, tc.tol):
			t.Fatalf("method %d: unexpected jacobian %v", tc.method, jac)
		case x0[0] != 1 || x0[1] != 2:
			t.Fatal("x0 not restored")
		}
	}
}

func TestJacobianBounded(t *testing.T) {

	// Evaluations beyond the upper bound would leave the domain of sqrt.
	field := func(x, y []float64) {
		if x[0] > 1 {
			y[0] = math.NaN()
			return
		}
		y[0] = math.Sqrt(1 - x[0])
	}
	x0 := []float64{1 - 1e-9}

	s := Spec{N: 1, M: 1, Field: field, Method: Central, Bounds: []Bound{{-1, 1}}}
	jac := make([]float64, 1)
	if err := s.Jacobian(x0, jac); err != nil {
		t.Fatal(err)
	}
	switch {
	case math.IsNaN(jac[0]):
		t.Fatal("evaluated outside bounds")
	case !s.oneSide[0]:
		t.Fatal("expected one-sided step near the bound")
	case jac[0] >= 0:
		t.Fatalf("unexpected derivative %v", jac[0])
	}

	s.Method = Forward
	if err := s.Jacobian(x0, jac); err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(jac[0]) || s.step[0] > 0 {
		t.Fatal("forward step should be flipped inside the bounds")
	}
}

func TestSteps(t *testing.T) {

	// log is undefined left of x0, so the forward step must point right.
	field := func(x, y []float64) { y[0] = math.Log(x[0]) }
	x0 := []float64{1e-12}

	s := Spec{N: 1, M: 1, Field: field, Method: Forward, Bounds: []Bound{{1e-12, math.Inf(1)}}}
	jac := make([]float64, 1)
	if err := s.Jacobian(x0, jac); err != nil {
		t.Fatal(err)
	}
	h := s.Steps()
	switch {
	case len(h) != 1 || h[0] <= 0:
		t.Fatalf("unexpected steps %v", h)
	case math.Abs(jac[0]-math.Log1p(h[0]/1e-12)/h[0]) > 1e-6*jac[0]:
		t.Fatalf("unexpected derivative %v", jac[0])
	}

	// only the left side is defined, the default positive step is flipped
	field = func(x, y []float64) {
		y[0] = x[0] * x[0]
		if x[0] > 2 {
			y[0] = math.NaN()
		}
	}
	x0[0] = 2
	s = Spec{N: 1, M: 1, Field: field, Method: Forward, Bounds: []Bound{{math.Inf(-1), 2}}}
	if err := s.Jacobian(x0, jac); err != nil {
		t.Fatal(err)
	}
	if h = s.Steps(); h[0] >= 0 || math.Abs(jac[0]-4) > 1e-6 {
		t.Fatalf("unexpected step %v or derivative %v", h, jac[0])
	}
}

func TestCheck(t *testing.T) {
	dummy := func(x, y []float64) {}
	cases := []struct {
		spec Spec
		x0   []float64
		want error
	}{
		{Spec{N: 0, M: 1, Field: dummy}, nil, ErrDimension},
		{Spec{N: 1, M: 1, Field: dummy, Method: 7}, []float64{0}, ErrMethod},
		{Spec{N: 1, M: 1}, []float64{0}, ErrNoField},
		{Spec{N: 2, M: 1, Field: dummy}, []float64{0}, ErrDimension},
		{Spec{N: 1, M: 1, Field: dummy, Bounds: []Bound{{1, -1}}}, []float64{0}, ErrBound},
		{Spec{N: 1, M: 1, Field: dummy, Bounds: []Bound{{1, 2}}}, []float64{0}, ErrOutside},
	}
	for i, c := range cases {
		jac := make([]float64, max(0, c.spec.N*c.spec.M))
		if err := c.spec.Jacobian(c.x0, jac); !errors.Is(err, c.want) {
			t.Fatalf("case %d: got %v want %v", i, err, c.want)
		}
	}
}
