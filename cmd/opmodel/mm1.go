// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curioloop/opmodel/queueing"
)

func newMM1Cmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mm1",
		Short: "M/M/1 queue measures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.config(cmd)
			if err != nil {
				return err
			}
			lambda, mu := v.GetFloat64("lambda"), v.GetFloat64("mu")
			a.log.Debug("analyzing queue", "lambda", lambda, "mu", mu)
			m, err := queueing.Analyze(lambda, mu)
			if err != nil {
				return err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "ρ (utilization): %.2f\n", m.Rho)
			fmt.Fprintf(&b, "Average number in system (L): %.2f\n", m.L)
			fmt.Fprintf(&b, "Average number in queue (Lq): %.2f\n", m.Lq)
			fmt.Fprintf(&b, "Average time in system (W): %.2f\n", m.W)
			fmt.Fprintf(&b, "Average time in queue (Wq): %.2f\n", m.Wq)
			fmt.Fprintf(&b, "Probability of an idle server (P0): %.2f\n", m.P0)
			if n := v.GetInt("n"); n > 0 {
				fmt.Fprintf(&b, "P(N = %d): %.4f\n", n, m.Pn(n))
				fmt.Fprintf(&b, "P(N > %d): %.4f\n", n, m.ProbMoreThan(n))
			}
			return a.emit(cmd, m, b.String())
		},
	}
	f := cmd.Flags()
	f.Float64("lambda", 2, "arrival rate λ")
	f.Float64("mu", 5, "service rate μ")
	f.Int("n", 0, "also report the probability of n customers in the system")
	return cmd
}
