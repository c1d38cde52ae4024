// Package split partitions an ordered dataset into training and
// validation subsets.
package split

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/jackvalmadre/dataset-tools/report"
)

// Mode selects how validation records are chosen.
type Mode int

const (
	// Contiguous takes the tail of the (optionally shuffled) sequence.
	Contiguous Mode = iota
	// Interval takes every k-th record of the canonical order so that
	// appending records does not move earlier ones between subsets.
	Interval
)

func (m Mode) String() string {
	switch m {
	case Contiguous:
		return "contiguous"
	case Interval:
		return "interval"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "contiguous" or "interval".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contiguous", "":
		return Contiguous, nil
	case "interval":
		return Interval, nil
	}
	return 0, report.Configf("unknown split mode %q (want contiguous or interval)", s)
}

// Options configures Split.
type Options struct {
	Mode          Mode
	TrainFraction float64
	// Shuffle permutes the records before a contiguous split.
	Shuffle bool
	Seed    int64
}

// Split returns the training and validation subsets of items, each in the
// order given by less. The input slice is not modified.
//
// With Contiguous, val = items[floor(f*n):].
// With Interval, num_val = n - floor(f*n), k = ceil(n/num_val) and val is
// every k-th record starting from the first.
// Either subset being empty is a ConfigError.
func Split[T any](items []T, opts Options, less func(a, b T) bool) (train, val []T, err error) {
	f := opts.TrainFraction
	if !(f > 0 && f < 1) {
		return nil, nil, report.Configf("train fraction must be in (0, 1), got %g", f)
	}
	n := len(items)
	if n == 0 {
		return nil, nil, report.Configf("cannot split an empty dataset")
	}

	order := make([]T, n)
	copy(order, items)
	numTrain := int(math.Floor(f * float64(n)))

	switch opts.Mode {
	case Contiguous:
		if opts.Shuffle {
			rnd := rand.New(rand.NewSource(opts.Seed))
			rnd.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
		}
		train = append(train, order[:numTrain]...)
		val = append(val, order[numTrain:]...)
	case Interval:
		if opts.Shuffle {
			return nil, nil, report.Configf("shuffle cannot be combined with interval split")
		}
		sort.SliceStable(order, func(i, j int) bool { return less(order[i], order[j]) })
		numVal := n - numTrain
		k := (n + numVal - 1) / numVal
		for i, x := range order {
			if i%k == 0 {
				val = append(val, x)
			} else {
				train = append(train, x)
			}
		}
	default:
		return nil, nil, report.Configf("unknown split mode %v", opts.Mode)
	}

	if len(train) == 0 || len(val) == 0 {
		return nil, nil, report.Configf("train fraction %g leaves %d train and %d validation records out of %d",
			f, len(train), len(val), n)
	}
	sort.SliceStable(train, func(i, j int) bool { return less(train[i], train[j]) })
	sort.SliceStable(val, func(i, j int) bool { return less(val[i], val[j]) })
	return train, val, nil
}
