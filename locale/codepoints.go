package locale

import (
	"slices"
)

// Printable ASCII is always part of a collected set, so digits, punctuation
// and Latin fallback text render with any subsetted font.
const (
	ASCIIFirst rune = 0x20
	ASCIILast  rune = 0x7E
)

// CodepointSet is a set of Unicode scalar values.
type CodepointSet struct {
	m map[rune]struct{}
}

// NewCodepointSet creates a set seeded with the printable ASCII range.
func NewCodepointSet() *CodepointSet {
	set := &CodepointSet{m: make(map[rune]struct{}, 1024)}
	for r := ASCIIFirst; r <= ASCIILast; r++ {
		set.Add(r)
	}
	return set
}

// Add inserts a single codepoint.
func (set *CodepointSet) Add(r rune) {
	set.m[r] = struct{}{}
}

// AddString inserts every codepoint of s.
// Invalid UTF-8 bytes are recorded as U+FFFD, as Go's range loop reports them.
func (set *CodepointSet) AddString(s string) {
	for _, r := range s {
		set.Add(r)
	}
}

// Union inserts every codepoint of other.
func (set *CodepointSet) Union(other *CodepointSet) {
	if other == nil {
		return
	}
	for r := range other.m {
		set.Add(r)
	}
}

// Contains reports whether r is in the set.
func (set *CodepointSet) Contains(r rune) bool {
	_, ok := set.m[r]
	return ok
}

// Len returns the number of distinct codepoints.
func (set *CodepointSet) Len() int {
	if set == nil {
		return 0
	}
	return len(set.m)
}

// Sorted returns the codepoints in ascending order.
func (set *CodepointSet) Sorted() []rune {
	if set == nil {
		return nil
	}
	runes := make([]rune, 0, len(set.m))
	for r := range set.m {
		runes = append(runes, r)
	}
	slices.Sort(runes)
	return runes
}
