// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/opmodel/linprog"
)

func newLPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lp",
		Short: "Production optimization by linear programming",
		Long: `Maximize Z = c1·x1 + c2·x2 subject to
  x1 ≤ 4, 2·x2 ≤ 12, 3·x1 + 2·x2 ≤ 18, x ≥ 0.

A different problem can be given with --objective, --matrix and --rhs,
e.g. --objective 3,5 --matrix "1,0;0,2;3,2" --rhs 4,12,18.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.config(cmd)
			if err != nil {
				return err
			}
			method, err := linprog.ParseMethod(v.GetString("method"))
			if err != nil {
				return err
			}
			p, err := lpProblem(v.GetFloat64("c1"), v.GetFloat64("c2"),
				v.GetString("objective"), v.GetString("matrix"), v.GetString("rhs"))
			if err != nil {
				return err
			}
			p.Maximize = !v.GetBool("minimize")

			a.log.Debug("solving linear program", "method", method, "c", p.C, "b", p.B, "maximize", p.Maximize)
			res, err := linprog.Solve(p, method)
			if err != nil {
				a.log.Debug("solver failed", "err", err)
				return fmt.Errorf("no optimal solution found: %w", err)
			}
			a.log.Debug("solved", "iterations", res.Iterations, "slack", res.Slack)

			var b strings.Builder
			b.WriteString("Optimal solution: ")
			for i, x := range res.X {
				fmt.Fprintf(&b, "x%d = %.2f, ", i+1, x)
			}
			fmt.Fprintf(&b, "Z = %.2f\n", res.Z)
			return a.emit(cmd, res, b.String())
		},
	}
	f := cmd.Flags()
	f.Float64("c1", 3, "objective coefficient of x1")
	f.Float64("c2", 5, "objective coefficient of x2")
	f.String("objective", "", "comma separated objective coefficients (overrides --c1/--c2)")
	f.String("matrix", "", "constraint rows separated by ';', entries by ','")
	f.String("rhs", "", "comma separated right-hand side, one per row")
	f.Bool("minimize", false, "minimize instead of maximize")
	f.String("method", "simplex", "solver: simplex or interior-point")
	return cmd
}

// lpProblem builds the production problem, or a custom one when matrix is set.
func lpProblem(c1, c2 float64, objective, matrix, rhs string) (linprog.Problem, error) {
	if matrix == "" {
		if objective != "" || rhs != "" {
			return linprog.Problem{}, errors.New("--objective and --rhs require --matrix")
		}
		return linprog.Production(c1, c2), nil
	}
	if objective == "" {
		objective = fmt.Sprintf("%g,%g", c1, c2)
	}
	c, err := parseVector(objective)
	if err != nil {
		return linprog.Problem{}, fmt.Errorf("objective: %w", err)
	}
	b, err := parseVector(rhs)
	if err != nil {
		return linprog.Problem{}, fmt.Errorf("rhs: %w", err)
	}
	var data []float64
	rows := strings.Split(matrix, ";")
	for i, row := range rows {
		r, err := parseVector(row)
		if err != nil {
			return linprog.Problem{}, fmt.Errorf("matrix row %d: %w", i+1, err)
		}
		if len(r) != len(c) {
			return linprog.Problem{}, fmt.Errorf("%w: matrix row %d has %d entries, objective has %d",
				linprog.ErrDimension, i+1, len(r), len(c))
		}
		data = append(data, r...)
	}
	return linprog.Problem{C: c, A: mat.NewDense(len(rows), len(c), data), B: b}, nil
}

func parseVector(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	v := make([]float64, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		v[i] = x
	}
	return v, nil
}
