// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package growth evaluates the continuous exponential growth model P(t) = P₀·eʳᵗ.
package growth

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultSamples is the number of points of a Series when none is requested.
const DefaultSamples = 100

var (
	ErrHorizon = errors.New("growth: time horizon must be positive")
	ErrSamples = errors.New("growth: a series needs at least 2 samples")
	ErrInput   = errors.New("growth: initial population and rate must be finite")
)

// Model is an exponential growth (r > 0) or decay (r < 0) process.
type Model struct {
	P0   float64 `json:"p0"`   // population at t = 0
	Rate float64 `json:"rate"` // continuous rate r per year
}

// Defaults returns P₀ = 100, r = 0.05.
func Defaults() Model {
	return Model{P0: 100, Rate: 0.05}
}

func (m Model) validate() error {
	if math.IsNaN(m.P0) || math.IsInf(m.P0, 0) || math.IsNaN(m.Rate) || math.IsInf(m.Rate, 0) {
		return ErrInput
	}
	return nil
}

// At returns P(t).
func (m Model) At(t float64) float64 {
	return m.P0 * math.Exp(m.Rate*t)
}

// DoublingTime is ln 2 / r, the time for the population to double.
// For decay it is the (positive) half-life; it is +Inf when r = 0.
func (m Model) DoublingTime() float64 {
	if m.Rate == 0 {
		return math.Inf(1)
	}
	return math.Ln2 / math.Abs(m.Rate)
}

// Series is a sampled trajectory of the model.
type Series struct {
	T []float64 `json:"t"`
	P []float64 `json:"p"`
}

// Sample evaluates the model at n evenly spaced times covering [0, horizon], end points included.
func (m Model) Sample(horizon float64, n int) (*Series, error) {
	switch {
	case m.validate() != nil:
		return nil, ErrInput
	case !(horizon > 0) || math.IsInf(horizon, 0):
		return nil, ErrHorizon
	case n < 2:
		return nil, ErrSamples
	}
	s := &Series{T: floats.Span(make([]float64, n), 0, horizon), P: make([]float64, n)}
	s.T[n-1] = horizon
	for i, t := range s.T {
		s.P[i] = m.At(t)
	}
	return s, nil
}
