// Package viz renders clustering results with gonum/plot.
package viz

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/denstream/core/microcluster"
	"github.com/YuminosukeSato/denstream/pkg/errors"
)

// noiseColor is used for points labelled -1.
var noiseColor = color.Gray{Y: 160}

// Options controls the scatter rendering.
type Options struct {
	Title  string
	XDim   int
	YDim   int
	Width  vg.Length
	Height vg.Length
	// MicroClusters, when set, are drawn as crosses at their centers.
	MicroClusters []microcluster.Snapshot
}

// DefaultOptions plots the first two dimensions on an 8x6 inch canvas.
func DefaultOptions() Options {
	return Options{
		Title:  "DenStream clusters",
		XDim:   0,
		YDim:   1,
		Width:  8 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

// NewScatterPlot builds a scatter plot with one series per label. Noise is
// drawn in gray.
func NewScatterPlot(points [][]float64, labels []int, opts Options) (*plot.Plot, error) {
	if len(points) != len(labels) {
		return nil, errors.NewDimensionError("viz.NewScatterPlot", len(points), len(labels), 0)
	}

	if opts.XDim < 0 || opts.YDim < 0 {
		return nil, errors.NewValueError("viz.NewScatterPlot", fmt.Sprintf("negative plot dimension (%d, %d)", opts.XDim, opts.YDim))
	}

	groups := make(map[int]plotter.XYs)
	for i, p := range points {
		if opts.XDim >= len(p) || opts.YDim >= len(p) {
			return nil, errors.NewDimensionError("viz.NewScatterPlot", max(opts.XDim, opts.YDim)+1, len(p), 1)
		}
		groups[labels[i]] = append(groups[labels[i]], plotter.XY{X: p[opts.XDim], Y: p[opts.YDim]})
	}

	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = fmt.Sprintf("x%d", opts.XDim)
	p.Y.Label.Text = fmt.Sprintf("x%d", opts.YDim)
	p.Legend.Top = true

	for _, label := range keys {
		s, err := plotter.NewScatter(groups[label])
		if err != nil {
			return nil, errors.Wrapf(err, "scatter for label %d", label)
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2)
		name := fmt.Sprintf("cluster %d", label)
		if label < 0 {
			s.GlyphStyle.Color = noiseColor
			name = "noise"
		} else {
			s.GlyphStyle.Color = plotutil.Color(label)
		}
		p.Add(s)
		p.Legend.Add(name, s)
	}

	if len(opts.MicroClusters) > 0 {
		centers := make(plotter.XYs, 0, len(opts.MicroClusters))
		for _, mc := range opts.MicroClusters {
			if opts.XDim < len(mc.Center) && opts.YDim < len(mc.Center) {
				centers = append(centers, plotter.XY{X: mc.Center[opts.XDim], Y: mc.Center[opts.YDim]})
			}
		}
		if len(centers) > 0 {
			s, err := plotter.NewScatter(centers)
			if err != nil {
				return nil, errors.Wrap(err, "micro-cluster centers")
			}
			s.GlyphStyle.Shape = draw.CrossGlyph{}
			s.GlyphStyle.Radius = vg.Points(4)
			s.GlyphStyle.Color = color.Black
			p.Add(s)
			p.Legend.Add("micro-clusters", s)
		}
	}

	return p, nil
}

// ScatterClusters renders the plot to path. The image format follows the
// file extension (png, svg, pdf, ...). A panic inside the renderer is
// returned as a PanicError.
func ScatterClusters(points [][]float64, labels []int, path string, opts Options) error {
	return errors.SafeExecute("viz.ScatterClusters", func() error {
		p, err := NewScatterPlot(points, labels, opts)
		if err != nil {
			return err
		}
		if opts.Width <= 0 || opts.Height <= 0 {
			d := DefaultOptions()
			opts.Width, opts.Height = d.Width, d.Height
		}
		if err := p.Save(opts.Width, opts.Height, path); err != nil {
			return errors.Wrapf(err, "save plot %s", path)
		}
		return nil
	})
}
