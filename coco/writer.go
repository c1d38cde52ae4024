package coco

import (
	"fmt"
	"path/filepath"

	"github.com/jackvalmadre/dataset-tools/category"
	"github.com/jackvalmadre/dataset-tools/dataset"
)

// Writer lays a dataset out under Root as
//
//	data/COCO/images/<subset>2017/<image>
//	data/COCO/annotations/instances_<subset>2017.json
type Writer struct {
	Root    string
	Options Options
}

func (w *Writer) dir() string { return filepath.Join(w.Root, "data", "COCO") }

// ImagePath returns where an image of the subset is written.
func (w *Writer) ImagePath(subset, file string) string {
	return filepath.Join(w.dir(), "images", subset+"2017", file)
}

// AnnotationFile returns the JSON document of a subset.
func (w *Writer) AnnotationFile(subset string) string {
	return filepath.Join(w.dir(), "annotations", fmt.Sprintf("instances_%s2017.json", subset))
}

// Check maps the boxes of a record as Encode does.
func (w *Writer) Check(r *dataset.Record, _ *category.Registry) error {
	_, _, err := r.Geometry(w.Options.Offset())
	return err
}

// Encode writes the document of one subset.
func (w *Writer) Encode(sub dataset.Subset, reg *category.Registry) error {
	ds, err := Convert(sub.Records, reg, w.Options)
	if err != nil {
		return err
	}
	return Write(w.AnnotationFile(sub.Name), ds)
}

// Finish has nothing to write; every subset is self-contained.
func (w *Writer) Finish([]dataset.Subset, *category.Registry) error { return nil }
