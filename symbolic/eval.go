// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbolic

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownVariable = errors.New("symbolic: unknown variable")
	ErrUnknownFunction = errors.New("symbolic: unknown function")
)

// Env binds variable names to values.
type Env map[string]float64

// Eval computes the value of e under env.
// Domain errors such as log(-1) are not errors; they produce NaN or ±Inf as in package math.
func Eval(e Expr, env Env) (float64, error) {
	switch n := e.(type) {
	case Num:
		return float64(n), nil
	case Const:
		return constants[n], nil
	case Var:
		v, ok := env[string(n)]
		if !ok {
			return math.NaN(), fmt.Errorf("%w %q", ErrUnknownVariable, string(n))
		}
		return v, nil
	case Neg:
		x, err := Eval(n.X, env)
		return -x, err
	case Call:
		x, err := Eval(n.Arg, env)
		if err != nil {
			return math.NaN(), err
		}
		return apply(n.Fn, x)
	case Binary:
		a, err := Eval(n.L, env)
		if err != nil {
			return math.NaN(), err
		}
		b, err := Eval(n.R, env)
		if err != nil {
			return math.NaN(), err
		}
		switch n.Op {
		case '+':
			return a + b, nil
		case '-':
			return a - b, nil
		case '*':
			return a * b, nil
		case '/':
			return a / b, nil
		case '^':
			return math.Pow(a, b), nil
		}
	}
	return math.NaN(), fmt.Errorf("symbolic: cannot evaluate %v", e)
}

func apply(fn string, x float64) (float64, error) {
	switch fn {
	case "sin":
		return math.Sin(x), nil
	case "cos":
		return math.Cos(x), nil
	case "tan":
		return math.Tan(x), nil
	case "asin":
		return math.Asin(x), nil
	case "acos":
		return math.Acos(x), nil
	case "atan":
		return math.Atan(x), nil
	case "sinh":
		return math.Sinh(x), nil
	case "cosh":
		return math.Cosh(x), nil
	case "tanh":
		return math.Tanh(x), nil
	case "exp":
		return math.Exp(x), nil
	case "log", "ln":
		return math.Log(x), nil
	case "sqrt":
		return math.Sqrt(x), nil
	case "abs":
		return math.Abs(x), nil
	}
	return math.NaN(), fmt.Errorf("%w %q", ErrUnknownFunction, fn)
}

// Func compiles e into a closure over the ordered variables vars.
// Variables of e missing from vars are reported immediately.
func Func(e Expr, vars ...string) (func(x []float64) float64, error) {
	known := map[string]bool{}
	for _, v := range vars {
		known[v] = true
	}
	for _, v := range Variables(e) {
		if !known[v] {
			return nil, fmt.Errorf("%w %q", ErrUnknownVariable, v)
		}
	}
	return func(x []float64) float64 {
		env := make(Env, len(vars))
		for i, v := range vars {
			env[v] = x[i]
		}
		f, err := Eval(e, env)
		if err != nil {
			return math.NaN()
		}
		return f
	}, nil
}
