// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package queueing computes steady-state measures of the M/M/1 queue:
// Poisson arrivals at rate λ, exponential service at rate μ and a single server.
package queueing

import (
	"errors"
	"math"
)

var (
	// ErrUnstable is returned when λ ≥ μ; the queue grows without bound and
	// no steady state exists.
	ErrUnstable        = errors.New("queueing: system unstable (λ must be smaller than μ)")
	ErrNonPositiveRate = errors.New("queueing: arrival rate must not be negative and service rate must be positive")
)

// Metrics are the steady-state measures of an M/M/1 queue.
type Metrics struct {
	Lambda float64 `json:"lambda"`
	Mu     float64 `json:"mu"`
	Rho    float64 `json:"rho"` // utilization λ/μ
	L      float64 `json:"L"`   // mean number in the system
	Lq     float64 `json:"Lq"`  // mean number waiting
	W      float64 `json:"W"`   // mean time in the system
	Wq     float64 `json:"Wq"`  // mean time waiting
	P0     float64 `json:"P0"`  // probability the server is idle
}

// Analyze returns the M/M/1 measures for arrival rate lambda and service rate mu.
func Analyze(lambda, mu float64) (*Metrics, error) {
	switch {
	case math.IsNaN(lambda) || math.IsNaN(mu) || lambda < 0 || mu <= 0 || math.IsInf(mu, 0):
		return nil, ErrNonPositiveRate
	case lambda >= mu:
		return nil, ErrUnstable
	}
	rho := lambda / mu
	return &Metrics{
		Lambda: lambda,
		Mu:     mu,
		Rho:    rho,
		L:      rho / (1 - rho),
		Lq:     rho * rho / (1 - rho),
		W:      1 / (mu - lambda),
		Wq:     rho / (mu - lambda),
		P0:     1 - rho,
	}, nil
}

// Pn is the probability of exactly n customers in the system.
func (m *Metrics) Pn(n int) float64 {
	if n < 0 {
		return 0
	}
	return (1 - m.Rho) * math.Pow(m.Rho, float64(n))
}

// ProbMoreThan is the probability of more than n customers in the system.
func (m *Metrics) ProbMoreThan(n int) float64 {
	if n < 0 {
		return 1
	}
	return math.Pow(m.Rho, float64(n+1))
}
