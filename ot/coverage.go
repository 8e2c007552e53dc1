package ot

import (
	"fmt"
	"iter"
)

// Maximum reasonable counts for OpenType table structures.
// These limits prevent malicious fonts from claiming unreasonably large counts
// that could lead to excessive memory allocation or out-of-bounds reads.
const (
	MaxGlyphCount     = 65536 // Maximum glyph index (uint16)
	MaxCoverageCount  = 65535 // Coverage tables
	MaxLookupCount    = 1000  // Lookups: typically < 100
	MaxExtensionDepth = 16    // Maximum Extension lookup nesting
)

// Coverage is a glyph coverage table, as used by the sub-tables of GSUB, GPOS
// and GDEF. A coverage table assigns a coverage index to each glyph it covers.
//
// Format 1 lists glyphs individually, format 2 lists ranges of consecutive
// glyphs:
//
//	format 1: uint16 format | uint16 glyphCount | uint16 glyphArray[glyphCount]
//	format 2: uint16 format | uint16 rangeCount | RangeRecord{start, end, startCoverageIndex}[rangeCount]
type Coverage struct {
	Format uint16
	Count  int
	data   Segm
}

// ParseCoverage decodes the header of a coverage table and checks its bounds.
func ParseCoverage(b Segm) (Coverage, error) {
	format, err := b.Uint16(0)
	if err != nil {
		return Coverage{}, fmt.Errorf("coverage header: %w", err)
	}
	count := int(b.U16(2))
	var recsize int
	switch format {
	case 1:
		recsize = 2
	case 2:
		recsize = 6
	default:
		return Coverage{}, fmt.Errorf("unknown coverage format %d", format)
	}
	if count > MaxCoverageCount {
		return Coverage{}, fmt.Errorf("coverage count %d exceeds maximum", count)
	}
	data, err := b.View(4, count*recsize)
	if err != nil {
		tracer().Errorf("coverage format %d extends beyond bounds: need %d, have %d",
			format, 4+count*recsize, len(b))
		return Coverage{}, fmt.Errorf("coverage format %d: %w", format, err)
	}
	return Coverage{Format: format, Count: count, data: data}, nil
}

// Glyphs yields every covered glyph together with its coverage index.
func (c Coverage) Glyphs() iter.Seq2[GlyphIndex, int] {
	return func(yield func(GlyphIndex, int) bool) {
		switch c.Format {
		case 1:
			for i := 0; i < c.Count; i++ {
				if !yield(GlyphIndex(c.data.U16(i*2)), i) {
					return
				}
			}
		case 2:
			for i := 0; i < c.Count; i++ {
				rec := c.data[i*6:]
				from, to := int(u16(rec[0:])), int(u16(rec[2:]))
				inx := int(u16(rec[4:]))
				for g := from; g <= to; g++ {
					if !yield(GlyphIndex(g), inx+g-from) {
						return
					}
				}
			}
		}
	}
}

// Match returns the coverage index of glyph g, if g is covered.
func (c Coverage) Match(g GlyphIndex) (int, bool) {
	for glyph, inx := range c.Glyphs() {
		if glyph == g {
			return inx, true
		}
		if c.Format == 1 && glyph > g { // format 1 glyph arrays are sorted
			break
		}
	}
	return 0, false
}
