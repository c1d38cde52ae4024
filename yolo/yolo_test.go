package yolo

import (
	"errors"
	"image"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jackvalmadre/dataset-tools/category"
	"github.com/jackvalmadre/dataset-tools/dataset"
	"github.com/jackvalmadre/dataset-tools/fileutil"
	"github.com/jackvalmadre/dataset-tools/geom"
	"github.com/jackvalmadre/dataset-tools/report"
	"github.com/jackvalmadre/dataset-tools/voc"
)

func TestLines(t *testing.T) {
	r := &dataset.Record{Name: "1", Annotation: &voc.Annotation{
		Size: image.Pt(200, 100),
		Objects: []voc.Object{
			{Class: "gate", Region: image.Rect(20, 20, 80, 60)},
			{Class: "buoy", Region: image.Rect(0, 0, 200, 100)},
		},
	}, Resized: image.Pt(50, 25)}
	reg := category.Build([]*voc.Annotation{r.Annotation}, 0)
	lines, err := Lines(r, reg)
	if err != nil {
		t.Fatal(err)
	}
	// [5 5 20 15] in 50x25.
	want := []string{"1 0.25 0.4 0.3 0.4", "0 0.5 0.5 1 1"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("want %q, got %q", want, lines)
	}
}

func TestLinesOutside(t *testing.T) {
	r := &dataset.Record{Annotation: &voc.Annotation{
		Size:    image.Pt(10, 10),
		Objects: []voc.Object{{Class: "gate", Region: image.Rect(5, 5, 12, 8)}},
	}}
	_, err := Lines(r, category.Build(nil, 0))
	var gerr *geom.GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("want GeometryError, got %v", err)
	}
}

// A record with one bad box adds none of its classes.
func TestLinesOutsideKeepsRegistry(t *testing.T) {
	r := &dataset.Record{Annotation: &voc.Annotation{
		Size: image.Pt(10, 10),
		Objects: []voc.Object{
			{Class: "gate", Region: image.Rect(0, 0, 5, 5)},
			{Class: "buoy", Region: image.Rect(5, 5, 12, 8)},
		},
	}}
	reg := category.Build(nil, 0)
	if _, err := Lines(r, reg); err == nil {
		t.Fatal("want an error for the box outside the image")
	}
	if reg.Len() != 0 {
		t.Errorf("want an empty registry, got %v", reg.Names())
	}
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w := &Writer{Root: root}
	recs := dataset.Dataset{
		{Name: "1", Output: w.ImagePath("train", "1.png"), Annotation: &voc.Annotation{
			Size:    image.Pt(10, 10),
			Objects: []voc.Object{{Class: "gate", Region: image.Rect(0, 0, 5, 5)}},
		}},
	}
	reg := category.Build(recs.Annotations(), 0)
	if err := w.Encode(dataset.Subset{Name: "train", Records: recs}, reg); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(nil, reg); err != nil {
		t.Fatal(err)
	}
	lines, err := fileutil.LoadLines(w.LabelFile("1"))
	if err != nil || !reflect.DeepEqual(lines, []string{"0 0.25 0.25 0.5 0.5"}) {
		t.Errorf("label file: %q %v", lines, err)
	}
	list, _ := fileutil.LoadLines(filepath.Join(root, "data", "train.txt"))
	if len(list) != 1 || !filepath.IsAbs(list[0]) || filepath.Base(list[0]) != "1.png" {
		t.Errorf("train list: %q", list)
	}
	names, _ := fileutil.LoadLines(w.NamesFile())
	if !reflect.DeepEqual(names, []string{"gate"}) {
		t.Errorf("obj.names: %q", names)
	}
	data, _ := fileutil.LoadLines(w.DataFile())
	if len(data) != 5 || data[0] != "classes = 1" || filepath.Base(data[2]) != "test.txt" {
		t.Errorf("obj.data: %q", data)
	}
}

func TestCheckRegistry(t *testing.T) {
	reg, err := category.Seed(map[string]int{"a": 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	var cerr *report.ConfigError
	if err := CheckRegistry(reg); !errors.As(err, &cerr) {
		t.Errorf("want ConfigError, got %v", err)
	}
}
