// Package geom maps bounding boxes between the coordinate spaces of an
// image before and after it has been resampled.
//
// Boxes are image.Rectangle values with Min = (xmin, ymin) and
// Max = (xmax, ymax). They are never canonicalized: a rectangle whose
// maximum does not exceed its minimum on either axis is corrupt and is
// reported as a GeometryError. Sizes are image.Point values holding the
// width and height.
package geom

import (
	"fmt"
	"image"
	"math"
)

// GeometryError reports a box or image size that has collapsed to a
// non-positive extent.
type GeometryError struct {
	Box      image.Rectangle
	From, To image.Point
	Msg      string
}

func (e *GeometryError) Error() string {
	if e.From == image.ZP && e.To == image.ZP {
		return fmt.Sprintf("geometry: box %v: %s", e.Box, e.Msg)
	}
	return fmt.Sprintf("geometry: box %v (%dx%d -> %dx%d): %s",
		e.Box, e.From.X, e.From.Y, e.To.X, e.To.Y, e.Msg)
}

// Valid reports whether xmax > xmin and ymax > ymin.
func Valid(box image.Rectangle) bool {
	return box.Max.X > box.Min.X && box.Max.Y > box.Min.Y
}

// Check returns a GeometryError if box is not valid.
func Check(box image.Rectangle) error {
	if !Valid(box) {
		return &GeometryError{Box: box, Msg: "xmax must exceed xmin and ymax must exceed ymin"}
	}
	return nil
}

// Inside reports whether box lies within an image of the given size.
func Inside(box image.Rectangle, size image.Point) bool {
	return box.Min.X >= 0 && box.Min.Y >= 0 && box.Max.X <= size.X && box.Max.Y <= size.Y
}

// Offset shifts the top-left corner of box by d on both axes.
// The bottom-right corner is unchanged.
func Offset(box image.Rectangle, d int) image.Rectangle {
	box.Min.X += d
	box.Min.Y += d
	return box
}

// Rescale maps box from an image of size from to an image of size to.
// Each coordinate becomes round(v * to/from) with the axes scaled
// independently, which permits aspect-distorting resizes.
func Rescale(box image.Rectangle, from, to image.Point) (image.Rectangle, error) {
	if from.X <= 0 || from.Y <= 0 || to.X <= 0 || to.Y <= 0 {
		return image.Rectangle{}, &GeometryError{Box: box, From: from, To: to, Msg: "image size must be positive"}
	}
	rx := float64(to.X) / float64(from.X)
	ry := float64(to.Y) / float64(from.Y)
	out := image.Rectangle{
		Min: image.Pt(round(float64(box.Min.X)*rx), round(float64(box.Min.Y)*ry)),
		Max: image.Pt(round(float64(box.Max.X)*rx), round(float64(box.Max.Y)*ry)),
	}
	if !Valid(out) {
		return out, &GeometryError{Box: box, From: from, To: to, Msg: fmt.Sprintf("collapses to %v", out)}
	}
	return out, nil
}

// OneSide returns the size of an image resized so that its longer side
// has the given length and the aspect ratio is preserved.
// A square image is treated as landscape.
func OneSide(size image.Point, length int) (image.Point, error) {
	if size.X <= 0 || size.Y <= 0 {
		return image.ZP, &GeometryError{From: size, Msg: "image size must be positive"}
	}
	if length <= 0 {
		return image.ZP, &GeometryError{From: size, Msg: fmt.Sprintf("side length %d must be positive", length)}
	}
	var out image.Point
	if size.Y > size.X {
		out = image.Pt(round(float64(size.X)*(float64(length)/float64(size.Y))), length)
	} else {
		out = image.Pt(length, round(float64(size.Y)*(float64(length)/float64(size.X))))
	}
	if out.X <= 0 || out.Y <= 0 {
		return out, &GeometryError{From: size, To: out, Msg: "shorter side collapses to zero"}
	}
	return out, nil
}

// round rounds half to even.
func round(x float64) int {
	return int(math.RoundToEven(x))
}
