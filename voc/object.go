package voc

import (
	"encoding/xml"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jackvalmadre/dataset-tools/geom"
)

// A window with a name.
type Object struct {
	Class  string
	Region image.Rectangle
	Pose   string
	// Optional flags.
	Difficult *bool
	Occluded  *bool
	Truncated *bool
}

// Annotation is the content of one per-image XML file:
// the size of the image and the objects within it.
type Annotation struct {
	Folder   string
	Filename string
	Path     string
	Database string
	// Width and height of the image the coordinates refer to.
	Size      image.Point
	Depth     int
	Segmented bool
	Objects   []Object
}

// Clone returns a deep copy of a.
func (a *Annotation) Clone() *Annotation {
	b := *a
	b.Objects = append([]Object(nil), a.Objects...)
	return &b
}

// Classes returns the class of every object, in order.
func (a *Annotation) Classes() []string {
	names := make([]string, len(a.Objects))
	for i, obj := range a.Objects {
		names[i] = obj.Class
	}
	return names
}

// SchemaError reports a required element that is missing, repeated or
// malformed, or a box that violates xmax > xmin, ymax > ymin.
type SchemaError struct {
	File string
	// Path of the offending element, e.g. "object[2]/bndbox/xmin".
	Path string
	Msg  string
}

func (e *SchemaError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("schema: %s: %s", e.Path, e.Msg)
	}
	return fmt.Sprintf("schema: %s: %s: %s", e.File, e.Path, e.Msg)
}

type rawAnnotation struct {
	XMLName   xml.Name    `xml:"annotation"`
	Folder    []string    `xml:"folder"`
	Filename  []string    `xml:"filename"`
	Path      []string    `xml:"path"`
	Database  []string    `xml:"source>database"`
	Size      []rawSize   `xml:"size"`
	Segmented []string    `xml:"segmented"`
	Objects   []rawObject `xml:"object"`
}

type rawSize struct {
	Width  []string `xml:"width"`
	Height []string `xml:"height"`
	Depth  []string `xml:"depth"`
}

type rawObject struct {
	Name      []string `xml:"name"`
	Pose      []string `xml:"pose"`
	Truncated []string `xml:"truncated"`
	Difficult []string `xml:"difficult"`
	Occluded  []string `xml:"occluded"`
	BndBox    []rawBox `xml:"bndbox"`
}

type rawBox struct {
	XMin []string `xml:"xmin"`
	YMin []string `xml:"ymin"`
	XMax []string `xml:"xmax"`
	YMax []string `xml:"ymax"`
}

// ReadFile loads the annotation stored in an XML file.
func ReadFile(name string) (*Annotation, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	a, err := Decode(file)
	if serr, ok := err.(*SchemaError); ok {
		serr.File = name
	}
	return a, err
}

// Decode parses an annotation.
// Elements that must appear exactly once are checked, as are the
// coordinates of every box.
func Decode(r io.Reader) (*Annotation, error) {
	var raw rawAnnotation
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &SchemaError{Path: "annotation", Msg: err.Error()}
	}

	a := &Annotation{Depth: 3}
	var err error
	if a.Folder, err = optional(raw.Folder, "folder"); err != nil {
		return nil, err
	}
	if a.Filename, err = optional(raw.Filename, "filename"); err != nil {
		return nil, err
	}
	if a.Path, err = optional(raw.Path, "path"); err != nil {
		return nil, err
	}
	if a.Database, err = optional(raw.Database, "source/database"); err != nil {
		return nil, err
	}
	if seg, err := optional(raw.Segmented, "segmented"); err != nil {
		return nil, err
	} else if seg != "" {
		v, err := atoi(seg, "segmented")
		if err != nil {
			return nil, err
		}
		a.Segmented = v != 0
	}

	if len(raw.Size) != 1 {
		return nil, count("size", len(raw.Size))
	}
	size := raw.Size[0]
	if a.Size.X, err = required(size.Width, "size/width"); err != nil {
		return nil, err
	}
	if a.Size.Y, err = required(size.Height, "size/height"); err != nil {
		return nil, err
	}
	if a.Size.X <= 0 || a.Size.Y <= 0 {
		return nil, &SchemaError{Path: "size", Msg: fmt.Sprintf("image size %dx%d must be positive", a.Size.X, a.Size.Y)}
	}
	if depth, err := optional(size.Depth, "size/depth"); err != nil {
		return nil, err
	} else if depth != "" {
		if a.Depth, err = atoi(depth, "size/depth"); err != nil {
			return nil, err
		}
	}

	a.Objects = make([]Object, len(raw.Objects))
	for i, obj := range raw.Objects {
		if a.Objects[i], err = decodeObject(obj, fmt.Sprintf("object[%d]", i)); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func decodeObject(raw rawObject, path string) (Object, error) {
	var (
		obj Object
		err error
	)
	if len(raw.Name) != 1 {
		return obj, count(path+"/name", len(raw.Name))
	}
	obj.Class = strings.TrimSpace(raw.Name[0])
	if obj.Class == "" {
		return obj, &SchemaError{Path: path + "/name", Msg: "empty class name"}
	}
	if obj.Pose, err = optional(raw.Pose, path+"/pose"); err != nil {
		return obj, err
	}
	if obj.Truncated, err = flag(raw.Truncated, path+"/truncated"); err != nil {
		return obj, err
	}
	if obj.Difficult, err = flag(raw.Difficult, path+"/difficult"); err != nil {
		return obj, err
	}
	if obj.Occluded, err = flag(raw.Occluded, path+"/occluded"); err != nil {
		return obj, err
	}

	if len(raw.BndBox) != 1 {
		return obj, count(path+"/bndbox", len(raw.BndBox))
	}
	box := raw.BndBox[0]
	var r image.Rectangle
	if r.Min.X, err = required(box.XMin, path+"/bndbox/xmin"); err != nil {
		return obj, err
	}
	if r.Min.Y, err = required(box.YMin, path+"/bndbox/ymin"); err != nil {
		return obj, err
	}
	if r.Max.X, err = required(box.XMax, path+"/bndbox/xmax"); err != nil {
		return obj, err
	}
	if r.Max.Y, err = required(box.YMax, path+"/bndbox/ymax"); err != nil {
		return obj, err
	}
	if !geom.Valid(r) {
		return obj, &SchemaError{Path: path + "/bndbox", Msg: fmt.Sprintf("invalid box %v", r)}
	}
	obj.Region = r
	return obj, nil
}

func count(path string, n int) error {
	if n == 0 {
		return &SchemaError{Path: path, Msg: "missing"}
	}
	return &SchemaError{Path: path, Msg: fmt.Sprintf("expected exactly one, found %d", n)}
}

func optional(vals []string, path string) (string, error) {
	switch len(vals) {
	case 0:
		return "", nil
	case 1:
		return strings.TrimSpace(vals[0]), nil
	}
	return "", count(path, len(vals))
}

func required(vals []string, path string) (int, error) {
	if len(vals) != 1 {
		return 0, count(path, len(vals))
	}
	return atoi(vals[0], path)
}

func atoi(s, path string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &SchemaError{Path: path, Msg: fmt.Sprintf("not an integer: %q", s)}
	}
	return v, nil
}

func flag(vals []string, path string) (*bool, error) {
	s, err := optional(vals, path)
	if err != nil || s == "" {
		return nil, err
	}
	v, err := atoi(s, path)
	if err != nil {
		return nil, err
	}
	b := v != 0
	return &b, nil
}
