// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command opmodel is a calculator for classic operations-research models
// and for partial derivatives of bivariate functions.
//
//	opmodel lp --c1 3 --c2 5           # production planning by linear programming
//	opmodel eoq --demand 1000          # economic order quantity
//	opmodel mm1 --lambda 2 --mu 5      # M/M/1 queue
//	opmodel growth --years 10 --out growth.png
//	opmodel partial --f "x^2*y + sin(x*y)" --x0 1 --y0 1 --out plane.png
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
