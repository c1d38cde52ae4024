// Package dataset pairs image files with their annotation files and loads
// them into records in a canonical order.
package dataset

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jackvalmadre/dataset-tools/fileutil"
	"github.com/jackvalmadre/dataset-tools/geom"
	"github.com/jackvalmadre/dataset-tools/report"
	"github.com/jackvalmadre/dataset-tools/voc"
)

// Record is one image and its annotation.
type Record struct {
	// Integer identifier parsed from the image's base name.
	ID int
	// Base name of the image without extension.
	Name           string
	Image          string
	AnnotationFile string
	Annotation     *voc.Annotation
	// Size of the image after resampling.
	// Zero if the image keeps its annotated size.
	Resized image.Point
	// Path the image is written to, once known.
	Output string
}

// OutputImage returns the path of the written image, or the source image
// if no output has been assigned.
func (r *Record) OutputImage() string {
	if r.Output != "" {
		return r.Output
	}
	return r.Image
}

// Size returns the size of the image as it will be written.
func (r *Record) Size() image.Point {
	if r.Resized != image.ZP {
		return r.Resized
	}
	return r.Annotation.Size
}

// Geometry returns the output image size and the objects with their
// boxes mapped into it. The offset is added to xmin and ymin before the
// boxes are rescaled. The record itself is not modified.
func (r *Record) Geometry(offset int) (image.Point, []voc.Object, error) {
	from := r.Annotation.Size
	to := r.Size()
	objs := make([]voc.Object, len(r.Annotation.Objects))
	for i, obj := range r.Annotation.Objects {
		box := obj.Region
		if offset != 0 {
			box = geom.Offset(box, offset)
		}
		if to != from {
			var err error
			if box, err = geom.Rescale(box, from, to); err != nil {
				return to, nil, fmt.Errorf("object %d (%s): %w", i, obj.Class, err)
			}
		} else if err := geom.Check(box); err != nil {
			return to, nil, fmt.Errorf("object %d (%s): %w", i, obj.Class, err)
		}
		obj.Region = box
		objs[i] = obj
	}
	return to, objs, nil
}

// Corrected returns a copy of the annotation in the output geometry.
func (r *Record) Corrected() (*voc.Annotation, error) {
	size, objs, err := r.Geometry(0)
	if err != nil {
		return nil, err
	}
	a := r.Annotation.Clone()
	a.Size = size
	a.Objects = objs
	return a, nil
}

// Dataset is an ordered list of records.
type Dataset []*Record

// Sort orders the records by name, comparing digit runs numerically.
func (d Dataset) Sort() {
	sort.SliceStable(d, func(i, j int) bool { return NaturalLess(d[i].Name, d[j].Name) })
}

// Less is the canonical order of records.
func Less(a, b *Record) bool { return NaturalLess(a.Name, b.Name) }

// Names returns the record names in order.
func (d Dataset) Names() []string {
	names := make([]string, len(d))
	for i, r := range d {
		names[i] = r.Name
	}
	return names
}

// Annotations returns the annotation of every record in order.
func (d Dataset) Annotations() []*voc.Annotation {
	anns := make([]*voc.Annotation, len(d))
	for i, r := range d {
		anns[i] = r.Annotation
	}
	return anns
}

// List returns the files in dir with the given extension, in natural order.
// The comparison of extensions ignores case.
func List(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	ext = "." + strings.TrimPrefix(ext, ".")
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		names = append(names, filepath.Join(dir, e.Name()))
	}
	SortNatural(names)
	return names, nil
}

// Pair matches every image with <annotDir>/<base>.xml and every annotation
// in annotDir with an image. Any unmatched file on either side is a
// ConfigError listing all of them.
func Pair(images []string, annotDir string) (Dataset, error) {
	annots, err := List(annotDir, "xml")
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(annots))
	for _, a := range annots {
		byName[fileutil.Base(a)] = a
	}

	var (
		recs    Dataset
		missing []string
		seen    = make(map[string]bool, len(images))
	)
	for _, img := range images {
		name := fileutil.Base(img)
		if seen[name] {
			return nil, report.Configf("two images share the base name %q", name)
		}
		seen[name] = true
		annot, ok := byName[name]
		if !ok {
			missing = append(missing, fmt.Sprintf("image %s has no annotation %s", img, filepath.Join(annotDir, name+".xml")))
			continue
		}
		recs = append(recs, &Record{Name: name, Image: img, AnnotationFile: annot})
	}
	for _, a := range annots {
		if !seen[fileutil.Base(a)] {
			missing = append(missing, fmt.Sprintf("annotation %s has no image", a))
		}
	}
	if len(missing) > 0 {
		return nil, report.Configf("images and annotations do not correspond:\n  %s", strings.Join(missing, "\n  "))
	}
	return recs, nil
}

// Load parses the annotation of every record. When requireID is set, the
// base name of every image must be an integer. Records that fail are
// dropped from the result and reported in errs.
func Load(recs Dataset, requireID bool) (Dataset, *report.Errors) {
	var (
		out  = make(Dataset, 0, len(recs))
		errs = new(report.Errors)
	)
	for _, r := range recs {
		if requireID {
			id, err := ParseID(r.Name)
			if err != nil {
				errs.Add(r.Image, err)
				continue
			}
			r.ID = id
		}
		a, err := voc.ReadFile(r.AnnotationFile)
		if err != nil {
			errs.Add(r.AnnotationFile, err)
			continue
		}
		r.Annotation = a
		out = append(out, r)
	}
	return out, errs
}

// ParseID returns the integer identifier encoded in an image base name.
func ParseID(name string) (int, error) {
	id, err := strconv.Atoi(name)
	if err != nil {
		return 0, &voc.SchemaError{Path: "filename", Msg: fmt.Sprintf("image name %q is not an integer; renumber the dataset first", name)}
	}
	return id, nil
}

// Subset is a named part of a split dataset, such as "train" or "val".
type Subset struct {
	Name    string
	Records Dataset
}
