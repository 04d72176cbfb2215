// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inventory implements the Economic Order Quantity model.
package inventory

import (
	"errors"
	"math"
)

// DaysPerYear converts order cycles from years to days.
const DaysPerYear = 365

var (
	ErrNonPositiveHolding = errors.New("inventory: holding cost must be greater than 0")
	ErrNegativeInput      = errors.New("inventory: demand and ordering cost must not be negative")
	ErrNotFinite          = errors.New("inventory: inputs must be finite")
)

// Params of the EOQ model.
type Params struct {
	Demand   float64 `json:"demand"`   // annual demand D
	Ordering float64 `json:"ordering"` // fixed cost per order S
	Holding  float64 `json:"holding"`  // holding cost per unit per year H
}

// Defaults returns D = 1000, S = 50, H = 2.
func Defaults() Params {
	return Params{Demand: 1000, Ordering: 50, Holding: 2}
}

func (p Params) validate() (err error) {
	switch {
	case isBad(p.Demand) || isBad(p.Ordering) || isBad(p.Holding):
		err = ErrNotFinite
	case p.Holding <= 0:
		err = ErrNonPositiveHolding
	case p.Demand < 0 || p.Ordering < 0:
		err = ErrNegativeInput
	}
	return
}

func isBad(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

// EOQ returns the order quantity Q* = √(2DS/H) that minimizes ordering plus holding cost.
func EOQ(p Params) (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	return math.Sqrt(2 * p.Demand * p.Ordering / p.Holding), nil
}

// Plan is the ordering policy implied by the economic order quantity.
type Plan struct {
	Params
	Quantity     float64 `json:"quantity"`      // Q*
	Orders       float64 `json:"orders"`        // orders per year D/Q*
	CycleDays    float64 `json:"cycle_days"`    // days between orders
	OrderingCost float64 `json:"ordering_cost"` // annual DS/Q*
	HoldingCost  float64 `json:"holding_cost"`  // annual HQ*/2
	TotalCost    float64 `json:"total_cost"`
}

// NewPlan computes the EOQ policy for p.
// At the optimum the annual ordering and holding costs are equal.
func NewPlan(p Params) (*Plan, error) {
	q, err := EOQ(p)
	if err != nil {
		return nil, err
	}
	plan := &Plan{Params: p, Quantity: q, HoldingCost: p.Holding * q / 2}
	if q > 0 {
		plan.Orders = p.Demand / q
		plan.CycleDays = DaysPerYear * q / p.Demand
		plan.OrderingCost = p.Demand * p.Ordering / q
	}
	plan.TotalCost = plan.OrderingCost + plan.HoldingCost
	return plan, nil
}

// Cost returns the annual ordering plus holding cost of ordering q units at a time.
func Cost(p Params, q float64) float64 {
	if q <= 0 {
		return math.Inf(1)
	}
	return p.Demand*p.Ordering/q + p.Holding*q/2
}
