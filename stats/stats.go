// Package stats summarizes the boxes of a dataset.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/jackvalmadre/dataset-tools/voc"
)

// Quantiles reported for box areas.
var Quantiles = []float64{0.1, 0.5, 0.9}

// Moments holds the mean and standard deviation of a quantity.
type Moments struct {
	Mean, Std float64
}

// Summary describes the boxes of a set of annotations.
type Summary struct {
	Images int
	Boxes  int
	// Images without any box.
	Empty  int
	Counts map[string]int
	Width  Moments
	Height Moments
	Area   []float64 // at Quantiles
	Aspect float64   // optimal common aspect ratio (width / height)
	MinBox float64   // area of the smallest box
	MaxBox float64
}

// Summarize computes box statistics.
func Summarize(anns []*voc.Annotation) Summary {
	s := Summary{Images: len(anns), Counts: make(map[string]int)}
	var ws, hs, areas, aspects []float64
	for _, a := range anns {
		if len(a.Objects) == 0 {
			s.Empty++
		}
		for _, obj := range a.Objects {
			s.Counts[obj.Class]++
			w, h := float64(obj.Region.Dx()), float64(obj.Region.Dy())
			ws = append(ws, w)
			hs = append(hs, h)
			areas = append(areas, w*h)
			if h > 0 {
				aspects = append(aspects, w/h)
			}
		}
	}
	s.Boxes = len(areas)
	if s.Boxes == 0 {
		return s
	}
	s.Width.Mean, s.Width.Std = stat.MeanStdDev(ws, nil)
	s.Height.Mean, s.Height.Std = stat.MeanStdDev(hs, nil)
	if s.Boxes == 1 {
		s.Width.Std, s.Height.Std = 0, 0
	}
	sort.Float64s(areas)
	for _, p := range Quantiles {
		s.Area = append(s.Area, stat.Quantile(p, stat.Empirical, areas, nil))
	}
	s.MinBox, s.MaxBox = floats.Min(areas), floats.Max(areas)
	if len(aspects) > 0 {
		s.Aspect = OptimalAspect(aspects)
	}
	return s
}

// Classes returns the class names in lexical order.
func (s Summary) Classes() []string {
	names := make([]string, 0, len(s.Counts))
	for name := range s.Counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fprint writes a human-readable report.
func (s Summary) Fprint(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "images: %d (%d without boxes)\nboxes: %d\n", s.Images, s.Empty, s.Boxes); err != nil {
		return err
	}
	for _, name := range s.Classes() {
		if _, err := fmt.Fprintf(w, "  %-20s %d\n", name, s.Counts[name]); err != nil {
			return err
		}
	}
	if s.Boxes == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "width: %.1f +- %.1f\nheight: %.1f +- %.1f\narea: min %g, max %g, quantiles %v at %v\naspect: %.3f\n",
		s.Width.Mean, s.Width.Std, s.Height.Mean, s.Height.Std, s.MinBox, s.MaxBox, s.Area, Quantiles, s.Aspect)
	return err
}

// OptimalAspect returns the aspect ratio a that minimizes
//	sum_i 1 - min(x_i/a, a/x_i),
// the total relative loss of fitting every box into a window of aspect a.
//
// Each term is linear in a below x_i and concave above it, so the sum is
// concave between consecutive x_i and the minimum lies at one of them.
// Assumes len(aspects) >= 1.
func OptimalAspect(aspects []float64) float64 {
	cost := make([]float64, len(aspects))
	for i, a := range aspects {
		cost[i] = aspectCost(aspects, a)
	}
	return aspects[floats.MinIdx(cost)]
}

func aspectCost(aspects []float64, a float64) float64 {
	var y float64
	for _, x := range aspects {
		y += 1 - 1/math.Max(x/a, a/x)
	}
	return y
}

// BaseSize returns the window size with the given aspect ratio and
// roughly numPix pixels.
func BaseSize(numPix int, aspect float64) (width, height int) {
	// w h = A, w = a h, A = h^2 a, h = sqrt(A / a)
	// w^2 / a = A, w = sqrt(A * a)
	width = int(math.Round(math.Sqrt(float64(numPix) * aspect)))
	height = int(math.Round(math.Sqrt(float64(numPix) / aspect)))
	return width, height
}
