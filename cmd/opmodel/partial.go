// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curioloop/opmodel/chart"
	"github.com/curioloop/opmodel/symbolic"
	"github.com/curioloop/opmodel/tangent"
)

type partialReport struct {
	F        string     `json:"f"`
	Fx       string     `json:"fx"`
	Fy       string     `json:"fy"`
	Fxx      string     `json:"fxx"`
	Fxy      string     `json:"fxy"`
	Fyy      string     `json:"fyy"`
	X0       float64    `json:"x0"`
	Y0       float64    `json:"y0"`
	Z0       float64    `json:"z0"`
	Gradient [2]float64 `json:"gradient"`
	Hessian  [3]float64 `json:"hessian"`
	Plane    string     `json:"plane"`
	Chart    string     `json:"chart,omitempty"`
}

func newPartialCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partial",
		Short: "Partial derivatives and tangent plane of f(x, y)",
		Long: `Differentiate f(x, y) symbolically and build the tangent plane at (x0, y0).

Expressions use + - * / ^ (or **), parentheses, the constants pi and e and
the functions ` + strings.Join(symbolic.Functions(), " ") + `.`,
		Example: `  opmodel partial --f "x^2*y + sin(x*y)" --x0 1 --y0 2 --out plane.png`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.config(cmd)
			if err != nil {
				return err
			}
			opt := tangent.DefaultOptions()
			opt.Verify = v.GetBool("verify")
			opt.Tolerance = v.GetFloat64("tolerance")
			if !(opt.Tolerance > 0) {
				return fmt.Errorf("tolerance must be positive, got %g", opt.Tolerance)
			}
			src, x0, y0 := v.GetString("f"), v.GetFloat64("x0"), v.GetFloat64("y0")
			a.log.Debug("analyzing surface", "f", src, "x0", x0, "y0", y0, "verify", opt.Verify)
			s, err := tangent.Analyze(src, x0, y0, opt)
			if err != nil {
				return err
			}

			r := partialReport{
				F: s.F.String(), Fx: s.Fx.String(), Fy: s.Fy.String(),
				Fxx: s.Fxx.String(), Fxy: s.Fxy.String(), Fyy: s.Fyy.String(),
				X0: s.X0, Y0: s.Y0, Z0: s.Z0,
				Gradient: s.Gradient, Hessian: s.Hessian,
				Plane: s.Equation(),
			}
			if out := v.GetString("out"); out != "" {
				m, err := s.Mesh(v.GetFloat64("range"), v.GetInt("grid"))
				if err != nil {
					return err
				}
				if err := chart.Surface(s, m, out); err != nil {
					return err
				}
				a.log.Info("chart written", "path", out)
				r.Chart = out
			}

			var b strings.Builder
			fmt.Fprintf(&b, "f(x, y) = %s\n", r.F)
			fmt.Fprintf(&b, "∂f/∂x = %s\n", r.Fx)
			fmt.Fprintf(&b, "∂f/∂y = %s\n", r.Fy)
			fmt.Fprintf(&b, "∂²f/∂x² = %s\n", r.Fxx)
			fmt.Fprintf(&b, "∂²f/∂x∂y = %s\n", r.Fxy)
			fmt.Fprintf(&b, "∂²f/∂y² = %s\n", r.Fyy)
			fmt.Fprintf(&b, "At (%g, %g): f = %.2f, ∂f/∂x = %.2f, ∂f/∂y = %.2f\n",
				r.X0, r.Y0, r.Z0, r.Gradient[0], r.Gradient[1])
			fmt.Fprintf(&b, "Tangent plane: %s\n", r.Plane)
			if r.Chart != "" {
				fmt.Fprintf(&b, "Chart written to %s\n", r.Chart)
			}
			return a.emit(cmd, r, b.String())
		},
	}
	def := tangent.DefaultOptions()
	f := cmd.Flags()
	f.String("f", "x^2 + 3*x*y + y^2", "function of x and y")
	f.Float64("x0", 1, "x coordinate of the point")
	f.Float64("y0", 1, "y coordinate of the point")
	f.Bool("verify", def.Verify, "cross-check derivatives with finite differences")
	f.Float64("tolerance", def.Tolerance, "relative tolerance of the cross-check")
	f.Float64("range", 3, "half width of the plotted square around the point")
	f.Int("grid", 50, "grid points per axis of the plot")
	f.StringP("out", "o", "", "write the plot to a PNG, SVG or PDF file")
	return cmd
}
