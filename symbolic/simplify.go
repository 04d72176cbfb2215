// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbolic

import "math"

// Simplify folds constants and removes neutral elements bottom-up.
// The rules are local rewrites; the result is not a canonical form.
func Simplify(e Expr) Expr {
	switch n := e.(type) {
	case Neg:
		return simplifyNeg(Simplify(n.X))
	case Call:
		return simplifyCall(n.Fn, Simplify(n.Arg))
	case Binary:
		return simplifyBinary(n.Op, Simplify(n.L), Simplify(n.R))
	}
	return e
}

func isNum(e Expr, v float64) bool {
	n, ok := e.(Num)
	return ok && float64(n) == v
}

func simplifyNeg(x Expr) Expr {
	switch n := x.(type) {
	case Num:
		return -n
	case Neg:
		return n.X
	case Binary:
		// -(a-b) = b-a
		if n.Op == '-' {
			return Binary{'-', n.R, n.L}
		}
		// -(c*a) = (-c)*a
		if c, ok := n.L.(Num); ok && n.Op == '*' {
			return simplifyBinary('*', -c, n.R)
		}
	}
	return Neg{x}
}

func simplifyCall(fn string, arg Expr) Expr {
	if a, ok := arg.(Num); ok {
		if v, err := apply(fn, float64(a)); err == nil && v == math.Trunc(v) && !math.IsInf(v, 0) {
			return Num(v)
		}
	}
	return Call{fn, arg}
}

func simplifyBinary(op byte, l, r Expr) Expr {
	ln, lok := l.(Num)
	rn, rok := r.(Num)
	if lok && rok {
		if v, ok := fold(op, float64(ln), float64(rn)); ok {
			return Num(v)
		}
	}
	switch op {
	case '+':
		switch {
		case isNum(l, 0):
			return r
		case isNum(r, 0):
			return l
		}
		if x, ok := r.(Neg); ok {
			return simplifyBinary('-', l, x.X)
		}
		if rok && rn < 0 {
			return Binary{'-', l, -rn}
		}
		if x, ok := l.(Neg); ok {
			return simplifyBinary('-', r, x.X)
		}
		if Equal(l, r) {
			return simplifyBinary('*', Num(2), l)
		}
	case '-':
		switch {
		case isNum(r, 0):
			return l
		case isNum(l, 0):
			return simplifyNeg(r)
		case Equal(l, r):
			return Num(0)
		}
		if x, ok := r.(Neg); ok {
			return simplifyBinary('+', l, x.X)
		}
		if rok && rn < 0 {
			return Binary{'+', l, -rn}
		}
	case '*':
		switch {
		case isNum(l, 0) || isNum(r, 0):
			return Num(0)
		case isNum(l, 1):
			return r
		case isNum(r, 1):
			return l
		case isNum(l, -1):
			return simplifyNeg(r)
		case isNum(r, -1):
			return simplifyNeg(l)
		}
		// constants first
		if rok && !lok {
			return simplifyBinary('*', r, l)
		}
		if x, ok := l.(Neg); ok {
			return simplifyNeg(simplifyBinary('*', x.X, r))
		}
		if x, ok := r.(Neg); ok {
			return simplifyNeg(simplifyBinary('*', l, x.X))
		}
		if lok {
			if m, ok := r.(Binary); ok && m.Op == '*' {
				if c, ok := m.L.(Num); ok {
					return simplifyBinary('*', ln*c, m.R)
				}
			}
		}
		if Equal(l, r) {
			return simplifyBinary('^', l, Num(2))
		}
	case '/':
		switch {
		case isNum(l, 0) && !isNum(r, 0):
			return Num(0)
		case isNum(r, 1):
			return l
		case Equal(l, r) && !isNum(r, 0):
			return Num(1)
		}
	case '^':
		switch {
		case isNum(r, 0):
			return Num(1)
		case isNum(r, 1):
			return l
		case isNum(l, 1):
			return Num(1)
		}
		// (a^b)^c = a^(b*c) only holds for integral c: (x^2)^0.5 is |x|
		if p, ok := l.(Binary); ok && p.Op == '^' && rok && rn == Num(math.Trunc(float64(rn))) {
			if b, ok := p.R.(Num); ok {
				return simplifyBinary('^', p.L, b*rn)
			}
		}
	}
	return Binary{op, l, r}
}

// fold evaluates a binary operation on two literals.
// Non-finite results are left symbolic.
func fold(op byte, a, b float64) (float64, bool) {
	var v float64
	switch op {
	case '+':
		v = a + b
	case '-':
		v = a - b
	case '*':
		v = a * b
	case '/':
		if b == 0 {
			return 0, false
		}
		v = a / b
	case '^':
		v = math.Pow(a, b)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
