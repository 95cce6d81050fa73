package molecule

import "sort"

// NaturalLess orders strings so that embedded digit runs compare by numeric
// value: "2" < "10", "C2" < "C10".
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// NaturalCompare returns -1, 0 or 1 under natural ordering.
func NaturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			si := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			sj := j
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			if c := compareDigits(a[si:i], b[sj:j]); c != 0 {
				return c
			}
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	}
	// Equal under natural ordering ("01" vs "1"); fall back to byte order so
	// the ordering stays total.
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareDigits(x, y string) int {
	x = trimZeros(x)
	y = trimZeros(y)
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func trimZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// SortIDs sorts ids in place in natural order.
func SortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool { return NaturalLess(ids[i], ids[j]) })
}

// SortedIDs returns a naturally sorted copy of ids.
func SortedIDs(ids []string) []string {
	out := append([]string(nil), ids...)
	SortIDs(out)
	return out
}
