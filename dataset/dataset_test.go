package dataset

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jackvalmadre/dataset-tools/geom"
	"github.com/jackvalmadre/dataset-tools/report"
	"github.com/jackvalmadre/dataset-tools/voc"
)

func TestSortNatural(t *testing.T) {
	names := []string{"10.png", "2.png", "1.png", "img10", "img9", "b", "a", "007", "7"}
	SortNatural(names)
	want := []string{"1.png", "2.png", "7", "007", "10.png", "a", "b", "img9", "img10"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("want %v, got %v", want, names)
	}
}

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	got := Chunk(items, 3)
	want := [][]int{{1, 2, 3}, {4, 5, 6}, {7}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	if got := Chunk(items, 10); len(got) != 7 {
		t.Errorf("want 7 groups of one, got %d", len(got))
	}
	if got := Chunk(items, 1); len(got) != 1 || len(got[0]) != 7 {
		t.Errorf("want a single group, got %v", got)
	}
}

func writeAnnotation(t *testing.T, dir, name string, a *voc.Annotation) {
	t.Helper()
	if err := voc.WriteFile(filepath.Join(dir, name+".xml"), a); err != nil {
		t.Fatal(err)
	}
}

func touch(t *testing.T, name string) {
	t.Helper()
	if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPairAndLoad(t *testing.T) {
	imgDir, annDir := t.TempDir(), t.TempDir()
	for _, name := range []string{"10", "2", "1"} {
		touch(t, filepath.Join(imgDir, name+".png"))
		writeAnnotation(t, annDir, name, &voc.Annotation{
			Filename: name + ".png",
			Size:     image.Pt(10, 10),
			Objects:  []voc.Object{{Class: "gate", Region: image.Rect(1, 1, 5, 5)}},
		})
	}
	imgs, err := List(imgDir, "png")
	if err != nil {
		t.Fatal(err)
	}
	recs, err := Pair(imgs, annDir)
	if err != nil {
		t.Fatal(err)
	}
	if got := recs.Names(); !reflect.DeepEqual(got, []string{"1", "2", "10"}) {
		t.Fatalf("want natural order, got %v", got)
	}
	recs, errs := Load(recs, true)
	if errs.Len() != 0 {
		t.Fatal(errs.Err())
	}
	if recs[2].ID != 10 || recs[2].Annotation.Objects[0].Class != "gate" {
		t.Errorf("unexpected record: %+v", recs[2])
	}
}

func TestPairMissing(t *testing.T) {
	imgDir, annDir := t.TempDir(), t.TempDir()
	touch(t, filepath.Join(imgDir, "1.png"))
	touch(t, filepath.Join(imgDir, "2.png"))
	writeAnnotation(t, annDir, "1", &voc.Annotation{Size: image.Pt(4, 4)})
	writeAnnotation(t, annDir, "3", &voc.Annotation{Size: image.Pt(4, 4)})

	imgs, err := List(imgDir, "png")
	if err != nil {
		t.Fatal(err)
	}
	_, err = Pair(imgs, annDir)
	var cerr *report.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("want ConfigError, got %v", err)
	}
	if !strings.Contains(err.Error(), "2.png") || !strings.Contains(err.Error(), "3.xml") {
		t.Errorf("both unmatched files should be listed: %v", err)
	}
}

func TestLoadReportsBadRecords(t *testing.T) {
	imgDir, annDir := t.TempDir(), t.TempDir()
	touch(t, filepath.Join(imgDir, "1.png"))
	touch(t, filepath.Join(imgDir, "cat.png"))
	touch(t, filepath.Join(imgDir, "3.png"))
	writeAnnotation(t, annDir, "1", &voc.Annotation{Size: image.Pt(4, 4)})
	writeAnnotation(t, annDir, "cat", &voc.Annotation{Size: image.Pt(4, 4)})
	if err := os.WriteFile(filepath.Join(annDir, "3.xml"), []byte("<annotation></annotation>"), 0o644); err != nil {
		t.Fatal(err)
	}

	imgs, _ := List(imgDir, "png")
	recs, err := Pair(imgs, annDir)
	if err != nil {
		t.Fatal(err)
	}
	recs, errs := Load(recs, true)
	if len(recs) != 1 || recs[0].Name != "1" {
		t.Fatalf("want only record 1, got %v", recs.Names())
	}
	if errs.Len() != 2 {
		t.Fatalf("want 2 failures, got %v", errs.Err())
	}
	for _, e := range errs.List() {
		var serr *voc.SchemaError
		if !errors.As(e, &serr) {
			t.Errorf("want SchemaError for %s, got %v", e.File, e.Err)
		}
	}
}

func TestGeometry(t *testing.T) {
	r := &Record{
		Annotation: &voc.Annotation{
			Size:    image.Pt(200, 100),
			Objects: []voc.Object{{Class: "gate", Region: image.Rect(20, 20, 80, 60)}},
		},
		Resized: image.Pt(50, 25),
	}
	size, objs, err := r.Geometry(0)
	if err != nil {
		t.Fatal(err)
	}
	if size != image.Pt(50, 25) || objs[0].Region != image.Rect(5, 5, 20, 15) {
		t.Errorf("got %v %v", size, objs[0].Region)
	}
	if r.Annotation.Objects[0].Region != image.Rect(20, 20, 80, 60) {
		t.Error("Geometry modified the record")
	}

	// Offset is applied before rescaling.
	_, objs, err = r.Geometry(-1)
	if err != nil {
		t.Fatal(err)
	}
	if objs[0].Region.Min != image.Pt(5, 5) {
		t.Errorf("want min (5,5) after offset and rescale, got %v", objs[0].Region.Min)
	}

	// A box that collapses is reported.
	r.Annotation.Objects[0].Region = image.Rect(20, 20, 21, 60)
	_, _, err = r.Geometry(0)
	var gerr *geom.GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("want GeometryError, got %v", err)
	}
}
