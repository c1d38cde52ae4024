package stats

import (
	"bytes"
	"image"
	"math"
	"strings"
	"testing"

	"github.com/jackvalmadre/dataset-tools/voc"
)

func TestOptimalAspect(t *testing.T) {
	cases := []struct {
		in   []float64
		want float64
	}{
		{[]float64{1, 1, 1, 2}, 1},
		{[]float64{2}, 2},
		{[]float64{0.5, 2, 2}, 2},
	}
	for _, c := range cases {
		if got := OptimalAspect(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%v: want %g, got %g", c.in, c.want, got)
		}
	}
}

// No aspect ratio scanned on a fine grid does better than the result.
func TestOptimalAspectIsMinimal(t *testing.T) {
	in := []float64{0.3, 0.7, 0.9, 1.4, 1.5, 3}
	best := aspectCost(in, OptimalAspect(in))
	for a := 0.3; a <= 3; a += 0.01 {
		if c := aspectCost(in, a); c < best-1e-9 {
			t.Fatalf("aspect %g has cost %g < %g", a, c, best)
		}
	}
}

func TestSummarize(t *testing.T) {
	anns := []*voc.Annotation{
		{Size: image.Pt(100, 100), Objects: []voc.Object{
			{Class: "gate", Region: image.Rect(0, 0, 10, 10)},
			{Class: "buoy", Region: image.Rect(0, 0, 30, 10)},
		}},
		{Size: image.Pt(100, 100)},
	}
	s := Summarize(anns)
	if s.Images != 2 || s.Boxes != 2 || s.Empty != 1 {
		t.Fatalf("unexpected counts %+v", s)
	}
	if s.Counts["gate"] != 1 || s.Counts["buoy"] != 1 {
		t.Errorf("per-class counts: %v", s.Counts)
	}
	if s.Width.Mean != 20 || s.Height.Mean != 10 {
		t.Errorf("want mean 20x10, got %gx%g", s.Width.Mean, s.Height.Mean)
	}
	if s.MinBox != 100 || s.MaxBox != 300 {
		t.Errorf("want area range [100, 300], got [%g, %g]", s.MinBox, s.MaxBox)
	}
	var buf bytes.Buffer
	if err := s.Fprint(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "buoy") {
		t.Errorf("report misses classes:\n%s", buf.String())
	}
}

func TestBaseSize(t *testing.T) {
	if w, h := BaseSize(100*100, 1); w != 100 || h != 100 {
		t.Errorf("want 100x100, got %dx%d", w, h)
	}
	if w, h := BaseSize(200, 2); w != 20 || h != 10 {
		t.Errorf("want 20x10, got %dx%d", w, h)
	}
}
