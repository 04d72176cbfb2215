// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symbolic parses infix expressions and differentiates them symbolically.
//
// Expressions are immutable trees built from Num, Const, Var, Neg, Binary and Call.
// Diff applies the sum, product, quotient, power and chain rules and simplifies the
// result with a small set of local rewrites:
//
//	f := symbolic.MustParse("x^2*y + sin(x*y)")
//	fx := symbolic.Diff(f, "x") // 2*x*y + cos(x*y)*y
//
// Eval and Func turn a tree back into numbers.
package symbolic
