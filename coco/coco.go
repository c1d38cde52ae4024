// Package coco encodes datasets as COCO instance annotations: one JSON
// document per subset listing images, boxes and categories.
package coco

import (
	"fmt"
	"path/filepath"

	"github.com/jackvalmadre/dataset-tools/category"
	"github.com/jackvalmadre/dataset-tools/dataset"
	"github.com/jackvalmadre/dataset-tools/fileutil"
)

type Image struct {
	FileName string `json:"file_name"`
	Height   int    `json:"height"`
	Width    int    `json:"width"`
	ID       int    `json:"id"`
}

// Annotation is one box. BBox holds x, y, width and height; Segmentation
// is always empty.
type Annotation struct {
	Area         int           `json:"area"`
	IsCrowd      int           `json:"iscrowd"`
	ImageID      int           `json:"image_id"`
	BBox         [4]int        `json:"bbox"`
	CategoryID   int           `json:"category_id"`
	ID           int           `json:"id"`
	Ignore       int           `json:"ignore"`
	Segmentation []interface{} `json:"segmentation"`
}

type Category struct {
	Supercategory string `json:"supercategory"`
	ID            int    `json:"id"`
	Name          string `json:"name"`
}

// Dataset is the document written for one subset.
type Dataset struct {
	Images      []Image      `json:"images"`
	Type        string       `json:"type"`
	Annotations []Annotation `json:"annotations"`
	Categories  []Category   `json:"categories"`
}

// FirstAnnotationID is the id of the first box in every document.
const FirstAnnotationID = 1

// Options configures Convert.
type Options struct {
	// LegacyOffset subtracts one from xmin and ymin before the boxes are
	// mapped to the output size, for annotations made with 1-based pixels.
	LegacyOffset bool
}

// Offset returns the offset added to xmin and ymin.
func (o Options) Offset() int {
	if o.LegacyOffset {
		return -1
	}
	return 0
}

// Convert builds the document for one subset. Image ids are the record
// ids and file names are those of the written images. Categories are
// listed in id order and include every category of reg, so that all
// subsets share one list. Classes missing from reg are added to it.
func Convert(recs dataset.Dataset, reg *category.Registry, opts Options) (*Dataset, error) {
	ds := &Dataset{
		Images:      make([]Image, 0, len(recs)),
		Type:        "instances",
		Annotations: []Annotation{},
	}
	id := FirstAnnotationID
	for _, r := range recs {
		size, objs, err := r.Geometry(opts.Offset())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.AnnotationFile, err)
		}
		ds.Images = append(ds.Images, Image{
			FileName: filepath.Base(r.OutputImage()),
			Height:   size.Y,
			Width:    size.X,
			ID:       r.ID,
		})
		for _, obj := range objs {
			w, h := obj.Region.Dx(), obj.Region.Dy()
			ds.Annotations = append(ds.Annotations, Annotation{
				Area:         w * h,
				ImageID:      r.ID,
				BBox:         [4]int{obj.Region.Min.X, obj.Region.Min.Y, w, h},
				CategoryID:   reg.LookupOrExtend(obj.Class),
				ID:           id,
				Segmentation: []interface{}{},
			})
			id++
		}
	}
	ds.Categories = Categories(reg)
	return ds, nil
}

// Categories lists the categories of reg in id order.
func Categories(reg *category.Registry) []Category {
	cats := make([]Category, 0, reg.Len())
	for _, id := range reg.IDs() {
		name, _ := reg.Name(id)
		cats = append(cats, Category{Supercategory: "none", ID: id, Name: name})
	}
	return cats
}

// Write saves the document as compact JSON.
func Write(name string, ds *Dataset) error {
	return fileutil.SaveJSON(name, ds)
}

// Read loads a document written by Write.
func Read(name string) (*Dataset, error) {
	ds := new(Dataset)
	if err := fileutil.LoadJSON(name, ds); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return ds, nil
}
