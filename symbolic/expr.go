// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbolic

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Expr is a node of an expression tree.
// Trees are immutable; every transformation returns a new tree and may share subtrees.
type Expr interface {
	String() string
	prec() int
}

const (
	precSum = iota + 1
	precProduct
	precUnary
	precPower
	precAtom
)

// Num is a numeric literal.
type Num float64

// Const is a named mathematical constant such as pi.
type Const string

// Var is a free variable.
type Var string

// Neg is the unary negation -X.
type Neg struct{ X Expr }

// Binary applies one of the operators + - * / ^ to L and R.
type Binary struct {
	Op   byte
	L, R Expr
}

// Call applies an elementary function to Arg.
type Call struct {
	Fn  string
	Arg Expr
}

var constants = map[Const]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func (n Num) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

func (n Num) prec() int {
	if n < 0 || math.Signbit(float64(n)) {
		return precUnary
	}
	return precAtom
}

func (c Const) String() string { return string(c) }
func (c Const) prec() int      { return precAtom }

func (v Var) String() string { return string(v) }
func (v Var) prec() int      { return precAtom }

func (n Neg) String() string { return "-" + wrap(n.X, n.X.prec() < precUnary) }
func (n Neg) prec() int      { return precUnary }

func (c Call) String() string { return c.Fn + "(" + c.Arg.String() + ")" }
func (c Call) prec() int      { return precAtom }

func (b Binary) prec() int {
	switch b.Op {
	case '+', '-':
		return precSum
	case '*', '/':
		return precProduct
	default:
		return precPower
	}
}

func (b Binary) String() string {
	p := b.prec()
	var l, r bool
	switch b.Op {
	case '^':
		// right associative
		l = b.L.prec() <= p
		r = b.R.prec() < p
	case '-', '/':
		l = b.L.prec() < p
		r = b.R.prec() <= p
	default:
		l = b.L.prec() < p
		r = b.R.prec() < p
	}
	var sb strings.Builder
	sb.WriteString(wrap(b.L, l))
	switch b.Op {
	case '+', '-':
		sb.WriteByte(' ')
		sb.WriteByte(b.Op)
		sb.WriteByte(' ')
	default:
		sb.WriteByte(b.Op)
	}
	sb.WriteString(wrap(b.R, r))
	return sb.String()
}

func wrap(e Expr, paren bool) string {
	if paren {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Variables returns the sorted names of the free variables of e.
func Variables(e Expr) []string {
	seen := map[string]bool{}
	walk(e, func(n Expr) {
		if v, ok := n.(Var); ok {
			seen[string(v)] = true
		}
	})
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// DependsOn reports whether the variable v occurs in e.
func DependsOn(e Expr, v string) bool {
	found := false
	walk(e, func(n Expr) {
		if x, ok := n.(Var); ok && string(x) == v {
			found = true
		}
	})
	return found
}

func walk(e Expr, visit func(Expr)) {
	visit(e)
	switch n := e.(type) {
	case Neg:
		walk(n.X, visit)
	case Binary:
		walk(n.L, visit)
		walk(n.R, visit)
	case Call:
		walk(n.Arg, visit)
	}
}

// Equal reports whether two trees are structurally identical.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case Num:
		y, ok := b.(Num)
		return ok && x == y
	case Const:
		y, ok := b.(Const)
		return ok && x == y
	case Var:
		y, ok := b.(Var)
		return ok && x == y
	case Neg:
		y, ok := b.(Neg)
		return ok && Equal(x.X, y.X)
	case Binary:
		y, ok := b.(Binary)
		return ok && x.Op == y.Op && Equal(x.L, y.L) && Equal(x.R, y.R)
	case Call:
		y, ok := b.(Call)
		return ok && x.Fn == y.Fn && Equal(x.Arg, y.Arg)
	}
	return false
}
