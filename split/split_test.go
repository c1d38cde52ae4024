package split

import (
	"errors"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/jackvalmadre/dataset-tools/report"
)

func intLess(a, b int) bool { return a < b }

func seq(n int) []int {
	x := make([]int, n)
	for i := range x {
		x[i] = i
	}
	return x
}

func TestIntervalSplit(t *testing.T) {
	train, val, err := Split(seq(20), Options{Mode: Interval, TrainFraction: 0.9}, intLess)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{0, 10}; !reflect.DeepEqual(val, want) {
		t.Fatalf("want val %v, got %v", want, val)
	}
	if len(train) != 18 {
		t.Errorf("want 18 train records, got %d", len(train))
	}
}

// Interval split is computed on the canonical order, not the input order.
func TestIntervalSplitSortsInput(t *testing.T) {
	items := seq(20)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	_, val, err := Split(items, Options{Mode: Interval, TrainFraction: 0.9}, intLess)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{0, 10}; !reflect.DeepEqual(val, want) {
		t.Fatalf("want val %v, got %v", want, val)
	}
	if items[0] != 19 {
		t.Error("input was modified")
	}
}

func TestContiguousSplit(t *testing.T) {
	train, val, err := Split(seq(10), Options{Mode: Contiguous, TrainFraction: 0.7}, intLess)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{7, 8, 9}; !reflect.DeepEqual(val, want) {
		t.Fatalf("want val %v, got %v", want, val)
	}
	if want := seq(7); !reflect.DeepEqual(train, want) {
		t.Fatalf("want train %v, got %v", want, train)
	}
}

func TestShuffleIsSeeded(t *testing.T) {
	opts := Options{Mode: Contiguous, TrainFraction: 0.5, Shuffle: true, Seed: 42}
	_, a, err := Split(seq(50), opts, intLess)
	if err != nil {
		t.Fatal(err)
	}
	_, b, _ := Split(seq(50), opts, intLess)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed gave different subsets")
	}
	if !sort.IntsAreSorted(a) {
		t.Error("subset not in canonical order")
	}
}

// Subsets are disjoint and together contain every record.
func TestPartition(t *testing.T) {
	for _, mode := range []Mode{Contiguous, Interval} {
		for n := 2; n <= 30; n++ {
			for _, f := range []float64{0.1, 0.25, 0.5, 0.75, 0.8, 0.9} {
				train, val, err := Split(seq(n), Options{Mode: mode, TrainFraction: f}, intLess)
				if err != nil {
					var cerr *report.ConfigError
					if !errors.As(err, &cerr) {
						t.Fatalf("%v n=%d f=%g: unexpected error %v", mode, n, f, err)
					}
					continue
				}
				all := append(append([]int(nil), train...), val...)
				sort.Ints(all)
				if !reflect.DeepEqual(all, seq(n)) {
					t.Fatalf("%v n=%d f=%g: not a partition: train=%v val=%v", mode, n, f, train, val)
				}
			}
		}
	}
}

func TestSplitErrors(t *testing.T) {
	cases := []struct {
		n    int
		opts Options
	}{
		{10, Options{TrainFraction: 0}},
		{10, Options{TrainFraction: 1}},
		{0, Options{TrainFraction: 0.5}},
		{3, Options{TrainFraction: 0.2}},
		{10, Options{Mode: Interval, TrainFraction: 0.5, Shuffle: true}},
	}
	for _, c := range cases {
		_, _, err := Split(seq(c.n), c.opts, intLess)
		var cerr *report.ConfigError
		if !errors.As(err, &cerr) {
			t.Errorf("n=%d %+v: want ConfigError, got %v", c.n, c.opts, err)
		}
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("Interval"); err != nil || m != Interval {
		t.Errorf("want interval, got %v %v", m, err)
	}
	if _, err := ParseMode("random"); err == nil {
		t.Error("want error for unknown mode")
	}
}

func TestManifest(t *testing.T) {
	name := filepath.Join(t.TempDir(), "sub", "split.msgpack")
	m := &Manifest{
		Mode:          Interval.String(),
		TrainFraction: 0.9,
		Created:       time.Now(),
		Train:         []string{"1", "2"},
		Val:           []string{"0", "3"},
	}
	if err := WriteManifest(name, m); err != nil {
		t.Fatal(err)
	}
	got, err := ReadManifest(name)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Train, m.Train) || !reflect.DeepEqual(got.Val, m.Val) || got.Mode != m.Mode {
		t.Fatalf("want %+v, got %+v", m, got)
	}
	if c := Contaminated(got, []string{"1", "3", "4"}); !reflect.DeepEqual(c, []string{"3"}) {
		t.Errorf("want [3], got %v", c)
	}
	if c := Contaminated(nil, []string{"1"}); c != nil {
		t.Errorf("want nil, got %v", c)
	}
}
