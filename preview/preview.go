// Package preview draws annotated boxes over their image for visual
// inspection of a converted dataset.
package preview

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/llgcode/draw2d/draw2dimg"

	"github.com/jackvalmadre/dataset-tools/category"
	"github.com/jackvalmadre/dataset-tools/voc"
)

// Palette gives the outline color of each category id, cycling.
var Palette = []color.RGBA{
	{230, 25, 75, 255},
	{60, 180, 75, 255},
	{255, 225, 25, 255},
	{0, 130, 200, 255},
	{245, 130, 48, 255},
	{145, 30, 180, 255},
	{70, 240, 240, 255},
	{240, 50, 230, 255},
	{210, 245, 60, 255},
	{250, 190, 212, 255},
}

// Color returns the outline color for a category id.
func Color(id int) color.RGBA {
	if id < 0 {
		id = -id
	}
	return Palette[id%len(Palette)]
}

// Draw returns a copy of img with the outline of every object.
// Classes missing from reg are added to it.
func Draw(img image.Image, objs []voc.Object, reg *category.Registry, lineWidth float64) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	gc := draw2dimg.NewGraphicContext(dst)
	gc.SetLineWidth(lineWidth)
	for _, obj := range objs {
		gc.SetStrokeColor(Color(reg.LookupOrExtend(obj.Class)))
		r := obj.Region
		gc.MoveTo(float64(r.Min.X), float64(r.Min.Y))
		gc.LineTo(float64(r.Max.X), float64(r.Min.Y))
		gc.LineTo(float64(r.Max.X), float64(r.Max.Y))
		gc.LineTo(float64(r.Min.X), float64(r.Max.Y))
		gc.Close()
		gc.Stroke()
	}
	return dst
}
