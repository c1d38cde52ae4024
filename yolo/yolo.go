// Package yolo encodes datasets in the darknet layout: one text file per
// image with a line per box, plus the obj.names and obj.data manifests.
package yolo

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackvalmadre/dataset-tools/category"
	"github.com/jackvalmadre/dataset-tools/dataset"
	"github.com/jackvalmadre/dataset-tools/fileutil"
	"github.com/jackvalmadre/dataset-tools/geom"
	"github.com/jackvalmadre/dataset-tools/report"
)

// Lines returns one "class cx cy w h" line per box of the record, with
// the geometry given as fractions of the output image size.
// A box extending past the image is a *geom.GeometryError.
func Lines(r *dataset.Record, reg *category.Registry) ([]string, error) {
	size, objs, err := r.Geometry(0)
	if err != nil {
		return nil, err
	}
	for i, obj := range objs {
		if !geom.Inside(obj.Region, size) {
			return nil, fmt.Errorf("object %d (%s): %w", i, obj.Class,
				&geom.GeometryError{Box: obj.Region, To: size, Msg: "box extends past the image"})
		}
	}
	// Classes are looked up once the whole record is known to be valid.
	lines := make([]string, 0, len(objs))
	for _, obj := range objs {
		box := obj.Region
		var (
			w  = float64(size.X)
			h  = float64(size.Y)
			cx = float64(box.Min.X+box.Max.X) / 2 / w
			cy = float64(box.Min.Y+box.Max.Y) / 2 / h
			bw = float64(box.Dx()) / w
			bh = float64(box.Dy()) / h
		)
		id := reg.LookupOrExtend(obj.Class)
		lines = append(lines, strings.Join([]string{
			strconv.Itoa(id), format(cx), format(cy), format(bw), format(bh),
		}, " "))
	}
	return lines, nil
}

func format(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// CheckRegistry returns a ConfigError unless the class ids are
// 0..n-1, as darknet indexes obj.names by line.
func CheckRegistry(reg *category.Registry) error {
	if reg.Base() != 0 || !reg.Dense() {
		return report.Configf("yolo needs category ids numbered densely from 0, got base %d", reg.Base())
	}
	return nil
}

// Writer lays a dataset out under Root as
//
//	data/obj/<image> and data/obj/<name>.txt
//	data/obj.names, data/obj.data, data/train.txt, data/test.txt
type Writer struct {
	Root string
}

func (w *Writer) dir() string { return filepath.Join(w.Root, "data") }

// ImagePath returns where an image is written; subsets share a directory.
func (w *Writer) ImagePath(_, file string) string {
	return filepath.Join(w.dir(), "obj", file)
}

// LabelFile returns the text file holding the boxes of an image.
func (w *Writer) LabelFile(name string) string {
	return filepath.Join(w.dir(), "obj", name+".txt")
}

// ListFile returns the file listing the images of a subset.
// The validation list is named test.txt.
func (w *Writer) ListFile(subset string) string {
	if subset == "val" {
		subset = "test"
	}
	return filepath.Join(w.dir(), subset+".txt")
}

func (w *Writer) NamesFile() string { return filepath.Join(w.dir(), "obj.names") }
func (w *Writer) DataFile() string  { return filepath.Join(w.dir(), "obj.data") }

// Check computes the label lines of a record without writing them.
func (w *Writer) Check(r *dataset.Record, reg *category.Registry) error {
	_, err := Lines(r, reg)
	return err
}

// Encode writes the label file of every record and the list of the
// subset's images as absolute paths.
func (w *Writer) Encode(sub dataset.Subset, reg *category.Registry) error {
	paths := make([]string, 0, len(sub.Records))
	for _, r := range sub.Records {
		lines, err := Lines(r, reg)
		if err != nil {
			return fmt.Errorf("%s: %w", r.AnnotationFile, err)
		}
		if err := fileutil.SaveLines(lines, w.LabelFile(r.Name)); err != nil {
			return err
		}
		abs, err := filepath.Abs(r.OutputImage())
		if err != nil {
			return err
		}
		paths = append(paths, abs)
	}
	return fileutil.SaveLines(paths, w.ListFile(sub.Name))
}

// Finish writes obj.names in id order and obj.data.
func (w *Writer) Finish(_ []dataset.Subset, reg *category.Registry) error {
	if err := CheckRegistry(reg); err != nil {
		return err
	}
	if err := fileutil.SaveLines(reg.Names(), w.NamesFile()); err != nil {
		return err
	}
	abs := func(name string) string {
		if p, err := filepath.Abs(name); err == nil {
			return p
		}
		return name
	}
	return fileutil.SaveLines([]string{
		fmt.Sprintf("classes = %d", reg.Len()),
		"train = " + abs(w.ListFile("train")),
		"valid = " + abs(w.ListFile("val")),
		"names = " + abs(w.NamesFile()),
		"backup = backup/",
	}, w.DataFile())
}
