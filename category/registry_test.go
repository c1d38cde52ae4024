package category

import (
	"errors"
	"image"
	"math/rand"
	"reflect"
	"testing"

	"github.com/jackvalmadre/dataset-tools/report"
	"github.com/jackvalmadre/dataset-tools/voc"
)

func ann(classes ...string) *voc.Annotation {
	a := &voc.Annotation{Size: image.Pt(10, 10)}
	for _, c := range classes {
		a.Objects = append(a.Objects, voc.Object{Class: c, Region: image.Rect(0, 0, 1, 1)})
	}
	return a
}

func TestBuild(t *testing.T) {
	anns := []*voc.Annotation{ann("gate", "buoy"), ann(), ann("gate", "arrow")}
	r := Build(anns, 1)
	if got, want := r.Names(), []string{"arrow", "buoy", "gate"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for name, want := range map[string]int{"arrow": 1, "buoy": 2, "gate": 3} {
		if id, ok := r.Lookup(name); !ok || id != want {
			t.Errorf("%s: want %d, got %d", name, want, id)
		}
	}
	if !r.Dense() {
		t.Error("built registry should be dense")
	}
}

// Any permutation of the input gives the same mapping.
func TestBuildOrderInvariant(t *testing.T) {
	anns := []*voc.Annotation{ann("d"), ann("b", "a"), ann("c"), ann("a", "e")}
	want := Build(anns, 0).Names()
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		rnd.Shuffle(len(anns), func(i, j int) { anns[i], anns[j] = anns[j], anns[i] })
		if got := Build(anns, 0).Names(); !reflect.DeepEqual(got, want) {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
}

func TestLookupOrExtend(t *testing.T) {
	r := Build([]*voc.Annotation{ann("a", "b")}, 0)
	if id := r.LookupOrExtend("b"); id != 1 {
		t.Errorf("want 1, got %d", id)
	}
	if id := r.LookupOrExtend("c"); id != 2 {
		t.Errorf("want 2, got %d", id)
	}
	if id, _ := r.Lookup("a"); id != 0 {
		t.Error("existing ids must not change")
	}

	s, err := Seed(map[string]int{"x": 1, "y": 5}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if id := s.LookupOrExtend("z"); id != 6 {
		t.Errorf("want next id after max, got %d", id)
	}
	if s.Dense() {
		t.Error("seeded registry with a gap is not dense")
	}
}

func TestSeedErrors(t *testing.T) {
	cases := []map[string]int{
		{"a": 0, "b": 0},
		{"a": -1},
		{"": 2},
	}
	for _, m := range cases {
		_, err := Seed(m, 0)
		var cerr *report.ConfigError
		if !errors.As(err, &cerr) {
			t.Errorf("%v: want ConfigError, got %v", m, err)
		}
	}
}
