package geom

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Kind selects how an image is resampled.
type Kind int

const (
	KindNone Kind = iota
	// KindTarget resizes to a fixed width and height.
	KindTarget
	// KindOneSide fixes the longer side and derives the other.
	KindOneSide
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTarget:
		return "target"
	case KindOneSide:
		return "one-side"
	}
	return "unknown"
}

// Resize describes the resampling applied to every image of a run.
type Resize struct {
	Kind   Kind
	Target image.Point // Kind == KindTarget
	Length int         // Kind == KindOneSide
}

// NoResize keeps images at their original size.
var NoResize = Resize{}

// TargetSize returns a Resize to a fixed size.
func TargetSize(w, h int) Resize {
	return Resize{Kind: KindTarget, Target: image.Pt(w, h)}
}

// OneSideLength returns a Resize that fixes the longer side.
func OneSideLength(n int) Resize {
	return Resize{Kind: KindOneSide, Length: n}
}

// Dims returns the size an image of size orig has after resampling.
func (r Resize) Dims(orig image.Point) (image.Point, error) {
	switch r.Kind {
	case KindNone:
		return orig, nil
	case KindTarget:
		if r.Target.X <= 0 || r.Target.Y <= 0 {
			return image.ZP, &GeometryError{From: orig, To: r.Target, Msg: "target size must be positive"}
		}
		return r.Target, nil
	case KindOneSide:
		return OneSide(orig, r.Length)
	}
	return image.ZP, fmt.Errorf("geom: unknown resize kind %d", r.Kind)
}

// IsNone reports whether images keep their original size.
func (r Resize) IsNone() bool { return r.Kind == KindNone }

func (r Resize) String() string {
	switch r.Kind {
	case KindTarget:
		return fmt.Sprintf("target %dx%d", r.Target.X, r.Target.Y)
	case KindOneSide:
		return fmt.Sprintf("one-side %d", r.Length)
	}
	return "none"
}

// ParseTarget parses a size of the form "WxH", "W,H" or "(W, H)".
func ParseTarget(s string) (image.Point, error) {
	t := strings.Trim(strings.TrimSpace(s), "()")
	var parts []string
	if strings.Contains(t, "x") {
		parts = strings.Split(t, "x")
	} else {
		parts = strings.Split(t, ",")
	}
	if len(parts) != 2 {
		return image.ZP, fmt.Errorf("target size %q: want two integers", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return image.ZP, fmt.Errorf("target size %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return image.ZP, fmt.Errorf("target size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return image.ZP, fmt.Errorf("target size %q: must be positive", s)
	}
	return image.Pt(w, h), nil
}
