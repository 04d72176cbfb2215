// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/curioloop/opmodel/tangent"
)

// ContourLevels is the number of iso-lines drawn over the heat map.
const ContourLevels = 10

// meshGrid adapts a tangent.Mesh to plotter.GridXYZ.
type meshGrid struct {
	x, y []float64
	z    *mat.Dense
}

func (g meshGrid) Dims() (c, r int) { r, c = g.z.Dims(); return c, r }
func (g meshGrid) X(c int) float64  { return g.x[c] }
func (g meshGrid) Y(r int) float64  { return g.y[r] }

// Z reports samples outside the domain of f as -Inf so that the heat map
// treats them as underflow and leaves the cell blank.
func (g meshGrid) Z(c, r int) float64 {
	if v := g.z.At(r, c); isFinite(v) {
		return v
	}
	return math.Inf(-1)
}

// Min and Max skip samples outside the domain of f.
func (g meshGrid) Min() float64 {
	lo, _ := g.extent()
	return lo
}

func (g meshGrid) Max() float64 {
	_, hi := g.extent()
	return hi
}

func (g meshGrid) extent() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	r, c := g.z.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := g.z.At(i, j); isFinite(v) {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
	}
	return
}

func (g meshGrid) complete() bool {
	r, c := g.z.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if !isFinite(g.z.At(i, j)) {
				return false
			}
		}
	}
	return true
}

// monochrome is a palette of a single color.
type monochrome struct {
	c color.Color
	n int
}

func (m monochrome) Colors() []color.Color {
	cs := make([]color.Color, m.n)
	for i := range cs {
		cs[i] = m.c
	}
	return cs
}

// Surface draws three panels: a heat map of f with contour lines and the point
// of tangency, then the sections y = y₀ and x = x₀ each with its tangent line.
func Surface(s *tangent.Surface, m *tangent.Mesh, path string) error {
	heat, err := heatPlot(s, m)
	if err != nil {
		return err
	}
	sx, err := sectionPlot(s, m.X, fmt.Sprintf("Section y = %g", s.Y0), "x", s.X0, func(v float64) (float64, float64) {
		return s.At(v, s.Y0), s.Plane(v, s.Y0)
	})
	if err != nil {
		return err
	}
	sy, err := sectionPlot(s, m.Y, fmt.Sprintf("Section x = %g", s.X0), "y", s.Y0, func(v float64) (float64, float64) {
		return s.At(s.X0, v), s.Plane(s.X0, v)
	})
	if err != nil {
		return err
	}
	return save([][]*plot.Plot{{heat, sx, sy}}, path)
}

func heatPlot(s *tangent.Surface, m *tangent.Mesh) (*plot.Plot, error) {
	g := meshGrid{x: m.X, y: m.Y, z: m.Z}
	lo, hi := g.extent()
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = "z = " + s.F.String()
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	hm := plotter.NewHeatMap(g, palette.Heat(64, 1))
	hm.Min, hm.Max = lo, hi
	if hi == lo {
		hm.Min, hm.Max = lo-0.5, hi+0.5
	}
	hm.Underflow = nil
	p.Add(hm)

	if g.complete() && hi > lo {
		levels := make([]float64, ContourLevels)
		for i := range levels {
			levels[i] = lo + (hi-lo)*float64(i+1)/float64(ContourLevels+1)
		}
		p.Add(plotter.NewContour(g, levels, monochrome{c: black, n: ContourLevels}))
	}

	pt, err := plotter.NewScatter(plotter.XYs{{X: s.X0, Y: s.Y0}})
	if err != nil {
		return nil, err
	}
	pt.GlyphStyle.Shape = draw.CircleGlyph{}
	pt.GlyphStyle.Radius = vg.Points(4)
	pt.GlyphStyle.Color = blue
	p.Add(pt)
	p.Legend.Add(fmt.Sprintf("(%g, %g)", s.X0, s.Y0), pt)
	return p, nil
}

func sectionPlot(s *tangent.Surface, axis []float64, title, label string, at float64, eval func(v float64) (f, plane float64)) (*plot.Plot, error) {
	fv := make([]float64, len(axis))
	pv := make([]float64, len(axis))
	for i, v := range axis {
		fv[i], pv[i] = eval(v)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = label
	p.Y.Label.Text = "z"
	p.Add(plotter.NewGrid())

	if xys := finiteXYs(axis, fv); len(xys) >= 2 {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = blue
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add("f", line)
	}

	tl, err := plotter.NewLine(finiteXYs(axis, pv))
	if err != nil {
		return nil, err
	}
	tl.LineStyle.Color = red
	tl.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(tl)
	p.Legend.Add("tangent", tl)

	pt, err := plotter.NewScatter(plotter.XYs{{X: at, Y: s.Z0}})
	if err != nil {
		return nil, err
	}
	pt.GlyphStyle.Shape = draw.CircleGlyph{}
	pt.GlyphStyle.Radius = vg.Points(3)
	pt.GlyphStyle.Color = black
	p.Add(pt)
	return p, nil
}
