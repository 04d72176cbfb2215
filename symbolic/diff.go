// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbolic

import (
	"slices"
)

// derivatives maps a function name to f′(u). The chain rule multiplies by u′.
var derivatives = map[string]func(u Expr) Expr{
	"sin": func(u Expr) Expr { return Call{"cos", u} },
	"cos": func(u Expr) Expr { return Neg{Call{"sin", u}} },
	"tan": func(u Expr) Expr { return Binary{'/', Num(1), Binary{'^', Call{"cos", u}, Num(2)}} },
	"asin": func(u Expr) Expr {
		return Binary{'/', Num(1), Call{"sqrt", Binary{'-', Num(1), Binary{'^', u, Num(2)}}}}
	},
	"acos": func(u Expr) Expr {
		return Neg{Binary{'/', Num(1), Call{"sqrt", Binary{'-', Num(1), Binary{'^', u, Num(2)}}}}}
	},
	"atan": func(u Expr) Expr { return Binary{'/', Num(1), Binary{'+', Num(1), Binary{'^', u, Num(2)}}} },
	"sinh": func(u Expr) Expr { return Call{"cosh", u} },
	"cosh": func(u Expr) Expr { return Call{"sinh", u} },
	"tanh": func(u Expr) Expr { return Binary{'-', Num(1), Binary{'^', Call{"tanh", u}, Num(2)}} },
	"exp":  func(u Expr) Expr { return Call{"exp", u} },
	"log":  func(u Expr) Expr { return Binary{'/', Num(1), u} },
	"ln":   func(u Expr) Expr { return Binary{'/', Num(1), u} },
	"sqrt": func(u Expr) Expr { return Binary{'/', Num(1), Binary{'*', Num(2), Call{"sqrt", u}}} },
	"abs":  func(u Expr) Expr { return Binary{'/', u, Call{"abs", u}} },
}

// Functions lists the names of the elementary functions understood by Parse.
func Functions() []string {
	names := make([]string, 0, len(derivatives))
	for name := range derivatives {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Diff returns the simplified partial derivative ∂e/∂v.
func Diff(e Expr, v string) Expr {
	return Simplify(diff(e, v))
}

func diff(e Expr, v string) Expr {
	if !DependsOn(e, v) {
		return Num(0)
	}
	switch n := e.(type) {
	case Var:
		return Num(1)
	case Neg:
		return Neg{diff(n.X, v)}
	case Call:
		return Binary{'*', derivatives[n.Fn](n.Arg), diff(n.Arg, v)}
	case Binary:
		l, r := n.L, n.R
		switch n.Op {
		case '+', '-':
			return Binary{n.Op, diff(l, v), diff(r, v)}
		case '*':
			return Binary{'+', Binary{'*', diff(l, v), r}, Binary{'*', l, diff(r, v)}}
		case '/':
			return Binary{'/',
				Binary{'-', Binary{'*', diff(l, v), r}, Binary{'*', l, diff(r, v)}},
				Binary{'^', r, Num(2)}}
		case '^':
			switch {
			case !DependsOn(r, v):
				// power rule: r·l^(r-1)·l′
				return Binary{'*', Binary{'*', r, Binary{'^', l, Binary{'-', r, Num(1)}}}, diff(l, v)}
			case !DependsOn(l, v):
				// exponential rule: l^r·ln(l)·r′
				return Binary{'*', Binary{'*', n, Call{"log", l}}, diff(r, v)}
			default:
				// l^r·(r′·ln(l) + r·l′/l)
				return Binary{'*', n, Binary{'+',
					Binary{'*', diff(r, v), Call{"log", l}},
					Binary{'/', Binary{'*', r, diff(l, v)}, l}}}
			}
		}
	}
	panic("symbolic: unknown node")
}

// Gradient returns the partial derivatives of e with respect to each of vars.
func Gradient(e Expr, vars ...string) []Expr {
	g := make([]Expr, len(vars))
	for i, v := range vars {
		g[i] = Diff(e, v)
	}
	return g
}

// Hessian returns the matrix of second-order partials ∂²e/∂vᵢ∂vⱼ in row-major order.
func Hessian(e Expr, vars ...string) [][]Expr {
	g := Gradient(e, vars...)
	h := make([][]Expr, len(vars))
	for i := range vars {
		h[i] = make([]Expr, len(vars))
		for j, v := range vars {
			if j < i {
				h[i][j] = h[j][i]
				continue
			}
			h[i][j] = Diff(g[i], v)
		}
	}
	return h
}
