package dataset

import (
	"sort"
	"strings"
)

// NaturalLess compares strings so that runs of digits are ordered by
// their numeric value: "2.png" < "10.png", "img9" < "img10".
func NaturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, ra := chunk(a)
		cb, rb := chunk(b)
		da, db := isDigit(ca[0]), isDigit(cb[0])
		switch {
		case da && db:
			if c := compareDigits(ca, cb); c != 0 {
				return c < 0
			}
		case da != db:
			// Numbers sort before text.
			return da
		default:
			if ca != cb {
				return ca < cb
			}
		}
		a, b = ra, rb
	}
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// SortNatural sorts names in place with NaturalLess.
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool { return NaturalLess(names[i], names[j]) })
}

// chunk splits off the leading run of digits or non-digits.
func chunk(s string) (string, string) {
	d := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == d {
		i++
	}
	return s[:i], s[i:]
}

func compareDigits(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if ta != tb {
		if ta < tb {
			return -1
		}
		return 1
	}
	// Equal values: fewer leading zeros first.
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return 0
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// Chunk divides items into consecutive groups of ceil(len/n) so that at
// most n groups are returned.
func Chunk[T any](items []T, n int) [][]T {
	if n <= 0 || len(items) == 0 {
		return nil
	}
	size := (len(items) + n - 1) / n
	var out [][]T
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}
