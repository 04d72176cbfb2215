// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curioloop/opmodel/chart"
	"github.com/curioloop/opmodel/growth"
)

const maxYears = 50

type growthReport struct {
	growth.Model
	Years        int            `json:"years"`
	Population   float64        `json:"population"`
	DoublingTime *float64       `json:"doubling_time,omitempty"`
	Series       *growth.Series `json:"series,omitempty"`
	Chart        string         `json:"chart,omitempty"`
}

func newGrowthCmd(a *app) *cobra.Command {
	def := growth.Defaults()
	cmd := &cobra.Command{
		Use:   "growth",
		Short: "Exponential growth P(t) = P0·e^(r·t)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.config(cmd)
			if err != nil {
				return err
			}
			m := growth.Model{P0: v.GetFloat64("p0"), Rate: v.GetFloat64("rate")}
			years := v.GetInt("years")
			if years < 1 || years > maxYears {
				return fmt.Errorf("%w: years must be in [1, %d], got %d", growth.ErrHorizon, maxYears, years)
			}
			a.log.Debug("sampling growth curve", "model", m, "years", years)
			s, err := m.Sample(float64(years), v.GetInt("samples"))
			if err != nil {
				return err
			}

			r := growthReport{Model: m, Years: years, Population: m.At(float64(years))}
			if d := m.DoublingTime(); !math.IsInf(d, 0) {
				r.DoublingTime = &d
			}
			if v.GetBool("series") {
				r.Series = s
			}
			if out := v.GetString("out"); out != "" {
				if err := chart.Growth(s, out); err != nil {
					return err
				}
				a.log.Info("chart written", "path", out)
				r.Chart = out
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Population at t=%d years: %.2f\n", years, r.Population)
			if r.DoublingTime != nil {
				label := "Doubling time"
				if m.Rate < 0 {
					label = "Halving time"
				}
				fmt.Fprintf(&b, "%s: %.2f years\n", label, *r.DoublingTime)
			}
			if r.Series != nil {
				for i := range s.T {
					fmt.Fprintf(&b, "%8.4f\t%.4f\n", s.T[i], s.P[i])
				}
			}
			if r.Chart != "" {
				fmt.Fprintf(&b, "Chart written to %s\n", r.Chart)
			}
			return a.emit(cmd, r, b.String())
		},
	}
	f := cmd.Flags()
	f.Float64("p0", def.P0, "initial population P0")
	f.Float64("rate", def.Rate, "growth rate r per year")
	f.Int("years", 10, "time horizon in years (1 to 50)")
	f.Int("samples", growth.DefaultSamples, "number of points on the curve")
	f.Bool("series", false, "print the sampled curve")
	f.StringP("out", "o", "", "write the curve to a PNG, SVG or PDF file")
	return cmd
}
