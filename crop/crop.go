// Package crop extracts object windows of a common aspect ratio from the
// images of a VOCdevkit set.
package crop

import (
	"fmt"
	"image"
	"math"

	"github.com/nfnt/resize"

	"github.com/jackvalmadre/dataset-tools/voc"
)

// Exclude selects objects to remove by their flags.
type Exclude struct {
	Difficult bool
	Occluded  bool
	Truncated bool
}

func (ex Exclude) match(obj voc.Object) bool {
	return (ex.Difficult && isSet(obj.Difficult)) ||
		(ex.Occluded && isSet(obj.Occluded)) ||
		(ex.Truncated && isSet(obj.Truncated))
}

func isSet(b *bool) bool { return b != nil && *b }

// filter keeps the objects for which keep is true. Images left without
// objects are dropped. It returns the number of removed objects.
func filter(set voc.Set, keep func(name string, obj voc.Object) bool) (voc.Set, int) {
	dst := make(voc.Set, len(set))
	var removed int
	for name, a := range set {
		var objs []voc.Object
		for _, obj := range a.Objects {
			if !keep(name, obj) {
				removed++
				continue
			}
			objs = append(objs, obj)
		}
		if len(objs) == 0 {
			continue
		}
		b := a.Clone()
		b.Objects = objs
		dst[name] = b
	}
	return dst, removed
}

// RemoveFlagged removes objects marked difficult, occluded or truncated
// as selected by ex.
func RemoveFlagged(set voc.Set, ex Exclude) (voc.Set, int) {
	return filter(set, func(_ string, obj voc.Object) bool { return !ex.match(obj) })
}

// RemoveNotInside removes objects which extend past their image.
// Images missing from sizes use their annotated size.
func RemoveNotInside(set voc.Set, sizes map[string]image.Point) (voc.Set, int) {
	return filter(set, func(name string, obj voc.Object) bool {
		size, ok := sizes[name]
		if !ok {
			size = set[name].Size
		}
		return obj.Region.In(image.Rectangle{Max: size})
	})
}

// RemoveSmall removes objects narrower or shorter than size.
func RemoveSmall(set voc.Set, size image.Point) (voc.Set, int) {
	return filter(set, func(_ string, obj voc.Object) bool {
		return obj.Region.Dx() >= size.X && obj.Region.Dy() >= size.Y
	})
}

// Aspects returns the width/height ratio of every object.
func Aspects(set voc.Set) []float64 {
	var aspects []float64
	for _, name := range set.Names() {
		for _, obj := range set[name].Objects {
			w, h := obj.Region.Dx(), obj.Region.Dy()
			aspects = append(aspects, float64(w)/float64(h))
		}
	}
	return aspects
}

// ResizeSet grows every box to the aspect ratio.
func ResizeSet(set voc.Set, aspect float64) voc.Set {
	dst := make(voc.Set, len(set))
	for name, a := range set {
		b := a.Clone()
		for i := range b.Objects {
			b.Objects[i].Region = ResizeRect(b.Objects[i].Region, aspect)
		}
		dst[name] = b
	}
	return dst
}

// ResizeRect grows the shorter side of rect about its center so that
// width / height equals aspect.
func ResizeRect(rect image.Rectangle, aspect float64) image.Rectangle {
	w, h := float64(rect.Dx()), float64(rect.Dy())
	if w < h*aspect {
		w = h * aspect
	} else {
		h = w / aspect
	}
	x := float64(rect.Min.X+rect.Max.X) / 2
	y := float64(rect.Min.Y+rect.Max.Y) / 2
	// Upper bound is not inclusive.
	xmin, xmax := round(x-w/2), round(x+w/2)+1
	ymin, ymax := round(y-h/2), round(y+h/2)+1
	return image.Rect(xmin, ymin, xmax, ymax)
}

func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

type subImager interface {
	SubImage(image.Rectangle) image.Image
}

// Window cuts rect out of img and resamples it to size.
func Window(img image.Image, rect image.Rectangle, size image.Point, interp resize.InterpolationFunction) (image.Image, error) {
	sub, ok := img.(subImager)
	if !ok {
		return nil, fmt.Errorf("could not call SubImage(): %T", img)
	}
	return resize.Resize(uint(size.X), uint(size.Y), sub.SubImage(rect), interp), nil
}
