// Package devkit writes datasets as a Pascal VOC devkit tree with
// corrected per-image XML annotations and ImageSets lists.
package devkit

import (
	"fmt"
	"path/filepath"

	"github.com/jackvalmadre/dataset-tools/category"
	"github.com/jackvalmadre/dataset-tools/dataset"
	"github.com/jackvalmadre/dataset-tools/voc"
)

// Year names the devkit sub-directory.
const Year = "VOC2007"

// Writer lays a dataset out under Root as
//
//	data/VOCdevkit/VOC2007/JPEGImages/<image>
//	data/VOCdevkit/VOC2007/Annotations/<name>.xml
//	data/VOCdevkit/VOC2007/ImageSets/Main/{train,val,trainval}.txt
type Writer struct {
	Root string
}

// Dir returns the year directory.
func (w *Writer) Dir() string { return filepath.Join(w.Root, "data", "VOCdevkit", Year) }

func (w *Writer) ImagePath(_, file string) string {
	return filepath.Join(w.Dir(), voc.ImagesDir, file)
}

func (w *Writer) Check(r *dataset.Record, _ *category.Registry) error {
	_, err := r.Corrected()
	return err
}

// Encode writes the annotation of every record in the output geometry,
// naming the written image, and the list of the subset.
func (w *Writer) Encode(sub dataset.Subset, _ *category.Registry) error {
	for _, r := range sub.Records {
		a, err := r.Corrected()
		if err != nil {
			return fmt.Errorf("%s: %w", r.AnnotationFile, err)
		}
		img := r.OutputImage()
		a.Folder = voc.ImagesDir
		a.Filename = filepath.Base(img)
		if abs, err := filepath.Abs(img); err == nil {
			a.Path = abs
		}
		if err := voc.WriteFile(voc.AnnotationFile(w.Dir(), r.Name), a); err != nil {
			return err
		}
	}
	return voc.WriteSet(w.Dir(), sub.Name, sub.Records.Names())
}

// Finish writes trainval.txt listing the records of every subset.
func (w *Writer) Finish(subs []dataset.Subset, _ *category.Registry) error {
	var names []string
	for _, sub := range subs {
		names = append(names, sub.Records.Names()...)
	}
	dataset.SortNatural(names)
	return voc.WriteSet(w.Dir(), "trainval", names)
}
