// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/curioloop/opmodel/inventory"
)

func newEOQCmd(a *app) *cobra.Command {
	def := inventory.Defaults()
	cmd := &cobra.Command{
		Use:   "eoq",
		Short: "Economic order quantity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.config(cmd)
			if err != nil {
				return err
			}
			p := inventory.Params{
				Demand:   v.GetFloat64("demand"),
				Ordering: v.GetFloat64("ordering"),
				Holding:  v.GetFloat64("holding"),
			}
			a.log.Debug("computing EOQ", "params", p)
			plan, err := inventory.NewPlan(p)
			if err != nil {
				return err
			}
			text := fmt.Sprintf("EOQ (economic order quantity): %.2f units\n", plan.Quantity) +
				fmt.Sprintf("Orders per year: %.2f\n", plan.Orders) +
				fmt.Sprintf("Days between orders: %.2f\n", plan.CycleDays) +
				fmt.Sprintf("Annual ordering cost: %.2f\n", plan.OrderingCost) +
				fmt.Sprintf("Annual holding cost: %.2f\n", plan.HoldingCost) +
				fmt.Sprintf("Total annual cost: %.2f\n", plan.TotalCost)
			return a.emit(cmd, plan, text)
		},
	}
	f := cmd.Flags()
	f.Float64("demand", def.Demand, "annual demand D")
	f.Float64("ordering", def.Ordering, "cost per order S")
	f.Float64("holding", def.Holding, "holding cost per unit per year H")
	return cmd
}
