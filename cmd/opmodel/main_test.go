// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioloop/opmodel/growth"
	"github.com/curioloop/opmodel/inventory"
	"github.com/curioloop/opmodel/linprog"
	"github.com/curioloop/opmodel/queueing"
	"github.com/curioloop/opmodel/symbolic"
	"github.com/curioloop/opmodel/tangent"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, stderr bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLP(t *testing.T) {
	out, err := run(t, "lp")
	require.NoError(t, err)
	assert.Equal(t, "Optimal solution: x1 = 2.00, x2 = 6.00, Z = 36.00\n", out)

	out, err = run(t, "lp", "--method", "interior-point")
	require.NoError(t, err)
	assert.Equal(t, "Optimal solution: x1 = 2.00, x2 = 6.00, Z = 36.00\n", out)

	out, err = run(t, "lp", "--c1", "5", "--c2", "2")
	require.NoError(t, err)
	assert.Equal(t, "Optimal solution: x1 = 4.00, x2 = 3.00, Z = 26.00\n", out)

	out, err = run(t, "lp", "--objective", "1,1", "--matrix", "1,0;0,1", "--rhs", "2,3")
	require.NoError(t, err)
	assert.Equal(t, "Optimal solution: x1 = 2.00, x2 = 3.00, Z = 5.00\n", out)
}

func TestLPErrors(t *testing.T) {
	_, err := run(t, "lp", "--objective=1,1", "--matrix=1,-1", "--rhs=1")
	assert.ErrorIs(t, err, linprog.ErrUnbounded)
	assert.ErrorContains(t, err, "no optimal solution found")

	_, err = run(t, "lp", "--method", "newton")
	assert.ErrorContains(t, err, "unknown method")

	_, err = run(t, "lp", "--rhs", "1,2")
	assert.ErrorContains(t, err, "require --matrix")

	_, err = run(t, "lp", "--objective", "1,1", "--matrix", "1,0;1", "--rhs", "1,2")
	assert.ErrorIs(t, err, linprog.ErrDimension)

	_, err = run(t, "lp", "--objective", "1,one", "--matrix", "1,0", "--rhs", "1")
	assert.ErrorContains(t, err, "objective")
}

func TestLPJSON(t *testing.T) {
	out, err := run(t, "lp", "--json")
	require.NoError(t, err)
	var r struct {
		Method string
		X      []float64
		Z      float64
		Slack  []float64
	}
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "simplex", r.Method)
	assert.InDeltaSlice(t, []float64{2, 6}, r.X, 1e-9)
	assert.InDelta(t, 36, r.Z, 1e-9)
	assert.InDeltaSlice(t, []float64{2, 0, 0}, r.Slack, 1e-9)
}

func TestEOQ(t *testing.T) {
	out, err := run(t, "eoq")
	require.NoError(t, err)
	assert.Contains(t, out, "EOQ (economic order quantity): 223.61 units\n")
	assert.Contains(t, out, "Total annual cost: 447.21\n")

	t.Setenv("OPMODEL_EOQ_DEMAND", "4000")
	out, err = run(t, "eoq")
	require.NoError(t, err)
	assert.Contains(t, out, "EOQ (economic order quantity): 447.21 units\n")

	// flags win over the environment
	out, err = run(t, "eoq", "--demand", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "223.61 units")

	_, err = run(t, "eoq", "--holding", "0")
	assert.ErrorIs(t, err, inventory.ErrNonPositiveHolding)
}

func TestMM1(t *testing.T) {
	out, err := run(t, "mm1")
	require.NoError(t, err)
	assert.Equal(t, "ρ (utilization): 0.40\n"+
		"Average number in system (L): 0.67\n"+
		"Average number in queue (Lq): 0.27\n"+
		"Average time in system (W): 0.33\n"+
		"Average time in queue (Wq): 0.13\n"+
		"Probability of an idle server (P0): 0.60\n", out)

	out, err = run(t, "mm1", "--n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "P(N = 2): 0.0960\n")
	assert.Contains(t, out, "P(N > 2): 0.0640\n")

	_, err = run(t, "mm1", "--lambda", "5", "--mu", "5")
	assert.ErrorIs(t, err, queueing.ErrUnstable)
}

func TestMM1Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opmodel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mm1:\n  lambda: 3\n  mu: 4\n"), 0o644))

	out, err := run(t, "--config", path, "mm1")
	require.NoError(t, err)
	assert.Contains(t, out, "ρ (utilization): 0.75\n")
	assert.Contains(t, out, "Average number in system (L): 3.00\n")

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "mm1")
	assert.ErrorContains(t, err, "read config")
}

func TestMM1JSON(t *testing.T) {
	out, err := run(t, "mm1", "--json", "--lambda", "1", "--mu", "4")
	require.NoError(t, err)
	var m queueing.Metrics
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.InDelta(t, 0.25, m.Rho, 1e-12)
	assert.InDelta(t, 1.0/3, m.W, 1e-12)
}

func TestGrowth(t *testing.T) {
	out, err := run(t, "growth")
	require.NoError(t, err)
	assert.Equal(t, "Population at t=10 years: 164.87\nDoubling time: 13.86 years\n", out)

	out, err = run(t, "growth", "--rate", "-0.05", "--years", "50")
	require.NoError(t, err)
	assert.Equal(t, "Population at t=50 years: 8.21\nHalving time: 13.86 years\n", out)

	out, err = run(t, "growth", "--rate", "0")
	require.NoError(t, err)
	assert.Equal(t, "Population at t=10 years: 100.00\n", out)

	for _, years := range []string{"0", "51"} {
		_, err = run(t, "growth", "--years", years)
		assert.ErrorIs(t, err, growth.ErrHorizon, years)
	}
	_, err = run(t, "growth", "--samples", "1")
	assert.ErrorIs(t, err, growth.ErrSamples)
}

func TestGrowthSeries(t *testing.T) {
	out, err := run(t, "growth", "--json", "--series", "--samples", "11")
	require.NoError(t, err)
	var r growthReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.NotNil(t, r.Series)
	assert.Len(t, r.Series.T, 11)
	assert.Equal(t, 10.0, r.Series.T[10])
	assert.InDelta(t, 164.872127, r.Population, 1e-6)
	require.NotNil(t, r.DoublingTime)
	assert.InDelta(t, 13.862944, *r.DoublingTime, 1e-6)
}

func TestGrowthChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growth.png")
	out, err := run(t, "growth", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Chart written to "+path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPartial(t *testing.T) {
	out, err := run(t, "partial")
	require.NoError(t, err)
	assert.Contains(t, out, "At (1, 1): f = 5.00, ∂f/∂x = 5.00, ∂f/∂y = 5.00\n")
	assert.Contains(t, out, "Tangent plane: z = 5.0000 + 5.0000·(x - 1) + 5.0000·(y - 1)\n")

	// a large constant does not trip the derivative cross-check
	out, err = run(t, "partial", "--f", "x + y^4", "--x0", "0", "--y0", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "∂f/∂x = 1.00, ∂f/∂y = 4000000.00\n")

	out, err = run(t, "partial", "--json", "--f", "x*y", "--x0", "2", "--y0", "3")
	require.NoError(t, err)
	var r partialReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "y", r.Fx)
	assert.Equal(t, "x", r.Fy)
	assert.Equal(t, "1", r.Fxy)
	assert.Equal(t, [2]float64{3, 2}, r.Gradient)
	assert.Equal(t, 6.0, r.Z0)
}

func TestPartialErrors(t *testing.T) {
	_, err := run(t, "partial", "--f", "x^")
	var se *symbolic.SyntaxError
	assert.ErrorAs(t, err, &se)

	_, err = run(t, "partial", "--f", "x + z")
	assert.ErrorIs(t, err, tangent.ErrVariables)

	_, err = run(t, "partial", "--f", "log(x)", "--x0", "0")
	assert.ErrorIs(t, err, tangent.ErrNotFinite)

	for _, tol := range []string{"0", "-1e-3", "NaN"} {
		_, err = run(t, "partial", "--tolerance", tol)
		assert.ErrorContains(t, err, "tolerance must be positive", tol)
	}
	_, err = run(t, "partial", "--tolerance", "1e-3")
	assert.NoError(t, err)
}

func TestPartialChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plane.svg")
	_, err := run(t, "partial", "--f", "sin(x)*cos(y)", "--x0", "0.5", "--y0", "-0.5",
		"--grid", "20", "--out", path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = run(t, "partial", "--grid", "1", "--out", path)
	assert.ErrorContains(t, err, "invalid mesh")
}
