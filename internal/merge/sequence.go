// Package merge orders prepared letter files by their row sequence and plans
// the per-category merged documents.
package merge

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var sequencePrefix = regexp.MustCompile(`^(\d+)_`)

// SequenceOf returns the numeric prefix of a letter file name, or -1 when
// the name carries none.
func SequenceOf(name string) int {
	m := sequencePrefix.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}

// SortBySequence orders names by sequence prefix. Names without a prefix go
// last; ties keep their given order.
func SortBySequence(names []string) []string {
	out := append([]string(nil), names...)
	key := func(name string) int {
		if n := SequenceOf(name); n >= 0 {
			return n
		}
		return math.MaxInt
	}
	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]) < key(out[j])
	})
	return out
}

// SequenceReport describes how well a set of names follows the row order
type SequenceReport struct {
	Min        int
	Max        int
	Gaps       []int
	Duplicates []int
	Unprefixed []string
}

// OK reports a contiguous, duplicate-free sequence
func (r SequenceReport) OK() bool {
	return len(r.Gaps) == 0 && len(r.Duplicates) == 0
}

func (r SequenceReport) String() string {
	if r.Max == 0 && r.Min == 0 && len(r.Unprefixed) == 0 {
		return "no sequenced files"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "sequence %d-%d", r.Min, r.Max)
	if len(r.Gaps) > 0 {
		fmt.Fprintf(&b, ", gaps %v", r.Gaps)
	}
	if len(r.Duplicates) > 0 {
		fmt.Fprintf(&b, ", duplicates %v", r.Duplicates)
	}
	if len(r.Unprefixed) > 0 {
		fmt.Fprintf(&b, ", %d without prefix", len(r.Unprefixed))
	}
	return b.String()
}

// ValidateSequence checks the prefixes of names for gaps and duplicates
// between the smallest and largest sequence seen.
func ValidateSequence(names []string) SequenceReport {
	var report SequenceReport
	counts := make(map[int]int)
	first := true
	for _, name := range names {
		n := SequenceOf(name)
		if n < 0 {
			report.Unprefixed = append(report.Unprefixed, filepath.Base(name))
			continue
		}
		counts[n]++
		if first || n < report.Min {
			report.Min = n
		}
		if first || n > report.Max {
			report.Max = n
		}
		first = false
	}
	if first {
		return report
	}

	for n := report.Min; n <= report.Max; n++ {
		switch c := counts[n]; {
		case c == 0:
			report.Gaps = append(report.Gaps, n)
		case c > 1:
			report.Duplicates = append(report.Duplicates, n)
		}
	}
	return report
}
