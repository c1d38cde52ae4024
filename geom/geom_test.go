package geom

import (
	"errors"
	"image"
	"math/rand"
	"testing"
)

func TestRescale(t *testing.T) {
	cases := []struct {
		box      image.Rectangle
		from, to image.Point
		want     image.Rectangle
	}{
		{image.Rect(10, 10, 50, 50), image.Pt(100, 100), image.Pt(50, 50), image.Rect(5, 5, 25, 25)},
		{image.Rect(20, 20, 80, 60), image.Pt(200, 100), image.Pt(50, 25), image.Rect(5, 5, 20, 15)},
		// Non-uniform target size.
		{image.Rect(0, 0, 100, 100), image.Pt(200, 100), image.Pt(100, 200), image.Rect(0, 0, 50, 200)},
		// Half rounds to even: 5*0.5 = 2.5 -> 2, 15*0.5 = 7.5 -> 8.
		{image.Rect(5, 5, 15, 15), image.Pt(10, 10), image.Pt(5, 5), image.Rect(2, 2, 8, 8)},
	}
	for _, c := range cases {
		got, err := Rescale(c.box, c.from, c.to)
		if err != nil {
			t.Errorf("Rescale(%v, %v, %v): %v", c.box, c.from, c.to, err)
			continue
		}
		if got != c.want {
			t.Errorf("Rescale(%v, %v, %v): want %v, got %v", c.box, c.from, c.to, c.want, got)
		}
	}
}

func TestRescaleCollapse(t *testing.T) {
	_, err := Rescale(image.Rect(10, 10, 11, 50), image.Pt(1000, 1000), image.Pt(10, 10))
	var gerr *GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("want GeometryError, got %v", err)
	}
	if gerr.Box != image.Rect(10, 10, 11, 50) {
		t.Errorf("error should carry the original box, got %v", gerr.Box)
	}
}

// Boxes whose scaled extent exceeds one pixel on both axes always survive;
// otherwise the result is either valid or a GeometryError, never an
// inverted box.
func TestRescaleNeverInverts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		from := image.Pt(1+rng.Intn(2000), 1+rng.Intn(2000))
		to := image.Pt(1+rng.Intn(800), 1+rng.Intn(800))
		x0, y0 := rng.Intn(from.X), rng.Intn(from.Y)
		box := image.Rectangle{
			Min: image.Pt(x0, y0),
			Max: image.Pt(x0+1+rng.Intn(from.X-x0), y0+1+rng.Intn(from.Y-y0)),
		}
		got, err := Rescale(box, from, to)
		sx := float64(box.Dx()) * float64(to.X) / float64(from.X)
		sy := float64(box.Dy()) * float64(to.Y) / float64(from.Y)
		if sx > 1.001 && sy > 1.001 && err != nil {
			t.Fatalf("box %v %v->%v: scaled extent %gx%g should survive: %v", box, from, to, sx, sy, err)
		}
		if err == nil && !Valid(got) {
			t.Fatalf("box %v %v->%v: got invalid %v without error", box, from, to, got)
		}
	}
}

func TestOneSide(t *testing.T) {
	cases := []struct {
		size image.Point
		n    int
		want image.Point
	}{
		{image.Pt(100, 100), 50, image.Pt(50, 50)},
		{image.Pt(200, 100), 50, image.Pt(50, 25)},
		{image.Pt(100, 200), 50, image.Pt(25, 50)},
		{image.Pt(1024, 556), 512, image.Pt(512, 278)},
		{image.Pt(5000, 2500), 512, image.Pt(512, 256)},
	}
	for _, c := range cases {
		got, err := OneSide(c.size, c.n)
		if err != nil {
			t.Errorf("OneSide(%v, %d): %v", c.size, c.n, err)
			continue
		}
		if got != c.want {
			t.Errorf("OneSide(%v, %d): want %v, got %v", c.size, c.n, c.want, got)
		}
	}
	if _, err := OneSide(image.Pt(10000, 1), 10); err == nil {
		t.Error("expected collapse of the shorter side to fail")
	}
}

func TestResizeDims(t *testing.T) {
	orig := image.Pt(640, 480)
	cases := []struct {
		r    Resize
		want image.Point
	}{
		{NoResize, orig},
		{TargetSize(300, 300), image.Pt(300, 300)},
		{OneSideLength(320), image.Pt(320, 240)},
	}
	for _, c := range cases {
		got, err := c.r.Dims(orig)
		if err != nil {
			t.Errorf("%v: %v", c.r, err)
			continue
		}
		if got != c.want {
			t.Errorf("%v: want %v, got %v", c.r, c.want, got)
		}
	}
}

func TestParseTarget(t *testing.T) {
	for _, s := range []string{"512x384", "512,384", "(512, 384)"} {
		got, err := ParseTarget(s)
		if err != nil {
			t.Errorf("ParseTarget(%q): %v", s, err)
			continue
		}
		if got != image.Pt(512, 384) {
			t.Errorf("ParseTarget(%q): want 512x384, got %v", s, got)
		}
	}
	for _, s := range []string{"", "512", "0x3", "ax3", "1,2,3"} {
		if _, err := ParseTarget(s); err == nil {
			t.Errorf("ParseTarget(%q): expected error", s)
		}
	}
}

func TestInsideAndOffset(t *testing.T) {
	size := image.Pt(100, 50)
	if !Inside(image.Rect(0, 0, 100, 50), size) {
		t.Error("full-image box should be inside")
	}
	if Inside(image.Rectangle{Min: image.Pt(-1, 0), Max: image.Pt(10, 10)}, size) {
		t.Error("negative xmin should be outside")
	}
	got := Offset(image.Rect(1, 1, 10, 10), -1)
	if got != (image.Rectangle{Max: image.Pt(10, 10)}) {
		t.Errorf("Offset: got %v", got)
	}
}
