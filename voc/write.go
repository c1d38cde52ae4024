package voc

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/jackvalmadre/dataset-tools/fileutil"
	"github.com/jackvalmadre/dataset-tools/geom"
)

type xmlAnnotation struct {
	XMLName   xml.Name    `xml:"annotation"`
	Folder    string      `xml:"folder"`
	Filename  string      `xml:"filename"`
	Path      string      `xml:"path"`
	Database  string      `xml:"source>database"`
	Size      xmlSize     `xml:"size"`
	Segmented int         `xml:"segmented"`
	Objects   []xmlObject `xml:"object"`
}

type xmlSize struct {
	Width  int `xml:"width"`
	Height int `xml:"height"`
	Depth  int `xml:"depth"`
}

type xmlObject struct {
	Name      string `xml:"name"`
	Pose      string `xml:"pose"`
	Truncated int    `xml:"truncated"`
	Difficult int    `xml:"difficult"`
	Occluded  *int   `xml:"occluded,omitempty"`
	BndBox    xmlBox `xml:"bndbox"`
}

type xmlBox struct {
	XMin int `xml:"xmin"`
	YMin int `xml:"ymin"`
	XMax int `xml:"xmax"`
	YMax int `xml:"ymax"`
}

// Encode writes a in the layout produced by labelImg.
// The size element always reflects a.Size. A box that violates
// xmax > xmin, ymax > ymin is reported instead of written.
func Encode(w io.Writer, a *Annotation) error {
	if a.Size.X <= 0 || a.Size.Y <= 0 {
		return &SchemaError{Path: "size", Msg: fmt.Sprintf("image size %dx%d must be positive", a.Size.X, a.Size.Y)}
	}
	out := xmlAnnotation{
		Folder:    a.Folder,
		Filename:  a.Filename,
		Path:      a.Path,
		Database:  orDefault(a.Database, "Unknown"),
		Size:      xmlSize{a.Size.X, a.Size.Y, a.Depth},
		Segmented: boolToInt(a.Segmented),
		Objects:   make([]xmlObject, len(a.Objects)),
	}
	if out.Size.Depth <= 0 {
		out.Size.Depth = 3
	}
	for i, obj := range a.Objects {
		if !geom.Valid(obj.Region) {
			return &SchemaError{Path: fmt.Sprintf("object[%d]/bndbox", i), Msg: fmt.Sprintf("invalid box %v", obj.Region)}
		}
		r := obj.Region
		out.Objects[i] = xmlObject{
			Name:      obj.Class,
			Pose:      orDefault(obj.Pose, "Unspecified"),
			Truncated: boolPtrToInt(obj.Truncated),
			Difficult: boolPtrToInt(obj.Difficult),
			BndBox:    xmlBox{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y},
		}
		if obj.Occluded != nil {
			v := boolPtrToInt(obj.Occluded)
			out.Objects[i].Occluded = &v
		}
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(out); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile saves a to an XML file, creating parent directories.
func WriteFile(name string, a *Annotation) error {
	return fileutil.Save(name, func(w io.Writer) error {
		return Encode(w, a)
	})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func boolPtrToInt(b *bool) int {
	if b == nil {
		return 0
	}
	return boolToInt(*b)
}
