// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders the growth curve and the tangent plane figures with gonum/plot.
// The image format follows the file extension (png, svg, pdf, eps, jpg, tif).
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgeps"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"

	"github.com/curioloop/opmodel/growth"
)

// Size of a single panel.
var (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

var ErrNoData = errors.New("chart: not enough finite points to draw")

var (
	blue  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	red   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	black = color.RGBA{A: 255}
)

// Growth draws P(t) against time.
func Growth(s *growth.Series, path string) error {
	p, err := growthPlot(s)
	if err != nil {
		return err
	}
	return save([][]*plot.Plot{{p}}, path)
}

func growthPlot(s *growth.Series) (*plot.Plot, error) {
	xys := finiteXYs(s.T, s.P)
	if len(xys) < 2 {
		return nil, ErrNoData
	}
	p := plot.New()
	p.Title.Text = "Exponential Growth Model"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Population"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = blue
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("P(t)", line)
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// finiteXYs pairs x and y, dropping points where either is NaN or infinite.
func finiteXYs(x, y []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(x))
	for i := range x {
		if isFinite(x[i]) && isFinite(y[i]) {
			xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
		}
	}
	return xys
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// save lays out a grid of plots on one canvas and writes it to path.
func save(plots [][]*plot.Plot, path string) error {
	rows, cols := len(plots), len(plots[0])
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if format == "" {
		return fmt.Errorf("chart: missing file extension in %q", path)
	}
	c, err := draw.NewFormattedCanvas(vg.Length(cols)*Width, vg.Length(rows)*Height, format)
	if err != nil {
		return err
	}
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, draw.New(c))
	for i := range plots {
		for j := range plots[i] {
			if plots[i][j] != nil {
				plots[i][j].Draw(canvases[i][j])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err = c.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
