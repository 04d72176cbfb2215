// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/opmodel/growth"
	"github.com/curioloop/opmodel/tangent"
)

func nonEmpty(t *testing.T, path string) {
	t.Helper()
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, fi.Size())
}

func TestGrowth(t *testing.T) {
	s, err := growth.Defaults().Sample(10, growth.DefaultSamples)
	require.NoError(t, err)
	dir := t.TempDir()
	for _, name := range []string{"growth.png", "growth.svg", "growth.PDF"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Growth(s, path), name)
		nonEmpty(t, path)
	}
}

func TestGrowthErrors(t *testing.T) {
	s, err := growth.Defaults().Sample(10, 5)
	require.NoError(t, err)
	dir := t.TempDir()
	assert.Error(t, Growth(s, filepath.Join(dir, "growth")))
	assert.Error(t, Growth(s, filepath.Join(dir, "growth.unknown")))
	assert.ErrorIs(t, Growth(&growth.Series{T: []float64{0}, P: []float64{1}}, filepath.Join(dir, "g.png")), ErrNoData)
}

func TestSurface(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"x^2 - y^2", "sqrt(x) + y", "3"} {
		s, err := tangent.Analyze(f, 1, 0.5, tangent.DefaultOptions())
		require.NoError(t, err, f)
		m, err := s.Mesh(3, 25)
		require.NoError(t, err, f)
		path := filepath.Join(dir, "surface.png")
		require.NoError(t, Surface(s, m, path), f)
		nonEmpty(t, path)
	}
}

func TestMeshGrid(t *testing.T) {
	g := meshGrid{
		x: []float64{0, 1, 2},
		y: []float64{10, 20},
		z: mat.NewDense(2, 3, []float64{
			1, math.NaN(), 3,
			-4, 5, math.Inf(1),
		}),
	}
	c, r := g.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, -4.0, g.Z(0, 1))
	assert.True(t, math.IsInf(g.Z(1, 0), -1))
	assert.Equal(t, 2.0, g.X(2))
	assert.Equal(t, 20.0, g.Y(1))
	assert.Equal(t, -4.0, g.Min())
	assert.Equal(t, 5.0, g.Max())
	assert.False(t, g.complete())
}
