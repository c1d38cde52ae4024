package imgio

import (
	"fmt"
	"image"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nfnt/resize"
)

var interps = map[string]resize.InterpolationFunction{
	"nearest":  resize.NearestNeighbor,
	"bilinear": resize.Bilinear,
	"bicubic":  resize.Bicubic,
	"mitchell": resize.MitchellNetravali,
	"lanczos2": resize.Lanczos2,
	"lanczos3": resize.Lanczos3,
}

// ParseInterp returns the interpolation with the given name.
// The empty string selects bilinear.
func ParseInterp(name string) (resize.InterpolationFunction, error) {
	if name == "" {
		return resize.Bilinear, nil
	}
	f, ok := interps[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown interpolation %q (want one of %s)", name, strings.Join(InterpNames(), ", "))
	}
	return f, nil
}

// InterpNames lists the accepted interpolation names.
func InterpNames() []string {
	names := make([]string, 0, len(interps))
	for name := range interps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resampler writes images at a new size.
type Resampler struct {
	Interp      resize.InterpolationFunction
	JPEGQuality int
}

// Resize writes src to dst with the given size. If the size and format
// are unchanged the file is copied byte for byte.
func (r Resampler) Resize(src, dst string, size image.Point) error {
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("resize %s: invalid size %v", src, size)
	}
	img, err := Load(src)
	if err != nil {
		return err
	}
	sameExt := strings.EqualFold(filepath.Ext(src), filepath.Ext(dst))
	if img.Bounds().Size() == size && sameExt {
		return Copy(src, dst)
	}
	if img.Bounds().Size() != size {
		img = resize.Resize(uint(size.X), uint(size.Y), img, r.Interp)
	}
	return Save(img, dst, r.JPEGQuality)
}
