/*
Package charstats partitions a set of codepoints into Unicode blocks relevant
for CJK font subsetting and reports the counts.

The buckets are disjoint: ASCII, CJK Unified Ideographs, Hangul Syllables,
Katakana, Hiragana and a remainder bucket "Other". Bucket counts always add up
to the total.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package charstats

import (
	"fmt"
	"io"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"golang.org/x/text/unicode/runenames"
)

// tracer writes to trace with key 'fontsubset.charstats'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.charstats")
}

// Block is a named, inclusive range of codepoints.
type Block struct {
	Name        string
	First, Last rune
}

// Contains reports whether r falls into the block.
func (b Block) Contains(r rune) bool {
	return b.First <= r && r <= b.Last
}

// Blocks lists the buckets in reporting order.
var Blocks = []Block{
	{Name: "ASCII", First: 0x20, Last: 0x7E},
	{Name: "CJK Unified", First: 0x4E00, Last: 0x9FFF},
	{Name: "Hangul", First: 0xAC00, Last: 0xD7AF},
	{Name: "Katakana", First: 0x30A0, Last: 0x30FF},
	{Name: "Hiragana", First: 0x3040, Last: 0x309F},
}

// Stats holds the bucket counts of a codepoint set.
type Stats struct {
	Total  int
	Counts []int // one entry per element of Blocks
	Other  int
	other  []rune
}

// Compute partitions codepoints into Blocks.
func Compute(codepoints []rune) Stats {
	stats := Stats{Total: len(codepoints), Counts: make([]int, len(Blocks))}
	for _, r := range codepoints {
		inBlock := false
		for i, b := range Blocks {
			if b.Contains(r) {
				stats.Counts[i]++
				inBlock = true
				break
			}
		}
		if !inBlock {
			stats.other = append(stats.other, r)
		}
	}
	stats.Other = stats.Total
	for _, n := range stats.Counts {
		stats.Other -= n
	}
	return stats
}

// Count returns the count of the block with the given name, or 0.
func (stats Stats) Count(name string) int {
	for i, b := range Blocks {
		if b.Name == name {
			return stats.Counts[i]
		}
	}
	return 0
}

// OtherSample lists up to n codepoints of the Other bucket, formatted with
// their Unicode names.
func (stats Stats) OtherSample(n int) []string {
	sample := make([]string, 0, min(n, len(stats.other)))
	for _, r := range stats.other {
		if len(sample) == n {
			break
		}
		sample = append(sample, fmt.Sprintf("%U %s", r, runenames.Name(r)))
	}
	return sample
}

// Print renders the statistics to w.
func (stats Stats) Print(w io.Writer) error {
	data := [][]string{{"Block", "Codepoints"}}
	for i, b := range Blocks {
		data = append(data, []string{b.Name, fmt.Sprint(stats.Counts[i])})
	}
	data = append(data, []string{"Other", fmt.Sprint(stats.Other)})
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintf(w, "\nTotal codepoints: %d\n%s\n", stats.Total, table); err != nil {
		return err
	}
	for _, s := range stats.OtherSample(20) {
		tracer().Debugf("other: %s", s)
	}
	return nil
}
