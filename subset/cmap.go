package subset

import (
	"math/bits"

	"github.com/xivdyetools/fontsubset/ot"
)

const (
	maxSubtableSize4 = 0xFFFF
	lastBMP          = 0xFFFF
)

// cmapSegment is a run of consecutive codepoints of a format 4 subtable.
type cmapSegment struct {
	start, end int // indices into the mapping, end exclusive
	delta      int // glyph minus codepoint, if constant over the run
	constant   bool
}

// buildCMap creates a table 'cmap' for a mapping sorted by codepoint.
//
// BMP codepoints are stored in a format 4 subtable, referenced from platforms
// Unicode (encoding 3) and Windows (encoding 1). If the mapping contains
// supplementary codepoints, a format 12 subtable covering all of them is
// added for Unicode (encoding 4) and Windows (encoding 10).
func buildCMap(mapping []cmapEntry) ([]byte, error) {
	bmp := mapping
	for i, m := range mapping {
		if m.r >= lastBMP {
			bmp = mapping[:i]
			break
		}
	}
	fmt4, err := cmapFormat4(bmp)
	if err != nil {
		return nil, err
	}
	var fmt12 []byte
	if len(bmp) < len(mapping) {
		fmt12 = cmapFormat12(mapping)
	}
	type record struct {
		platform, encoding uint16
		format12           bool
	}
	records := []record{{0, 3, false}, {3, 1, false}}
	if fmt12 != nil {
		records = []record{{0, 3, false}, {0, 4, true}, {3, 1, false}, {3, 10, true}}
	}
	headerSize := 4 + len(records)*8
	w := ot.NewBuilder(headerSize + len(fmt4) + len(fmt12))
	w.U16(0) // version
	w.U16(uint16(len(records)))
	for _, rec := range records {
		w.U16(rec.platform)
		w.U16(rec.encoding)
		if rec.format12 {
			w.U32(uint32(headerSize + len(fmt4)))
		} else {
			w.U32(uint32(headerSize))
		}
	}
	w.Write(fmt4)
	w.Write(fmt12)
	tracer().Debugf("cmap: %d BMP and %d supplementary entries", len(bmp), len(mapping)-len(bmp))
	return w.Bytes(), nil
}

func cmapSegments(bmp []cmapEntry) []cmapSegment {
	var segs []cmapSegment
	for i := 0; i < len(bmp); {
		seg := cmapSegment{start: i, delta: int(bmp[i].g) - int(bmp[i].r), constant: true}
		j := i + 1
		for ; j < len(bmp) && bmp[j].r == bmp[j-1].r+1; j++ {
			if int(bmp[j].g)-int(bmp[j].r) != seg.delta {
				seg.constant = false
			}
		}
		seg.end = j
		segs = append(segs, seg)
		i = j
	}
	// closing segment required by the format
	return append(segs, cmapSegment{start: -1, delta: 1, constant: true})
}

// cmapFormat4 creates a format 4 subtable. Runs of consecutive codepoints
// with a constant glyph delta use idDelta, all others index into the glyph
// array.
func cmapFormat4(bmp []cmapEntry) ([]byte, error) {
	segs := cmapSegments(bmp)
	segCount := len(segs)
	glyphArrayLen := 0
	for _, s := range segs {
		if !s.constant {
			glyphArrayLen += s.end - s.start
		}
	}
	length := 16 + segCount*8 + glyphArrayLen*2
	if length > maxSubtableSize4 {
		return nil, ot.Errorf(ot.T("cmap"), "Format4", "subtable too large: %d segments", segCount)
	}
	log2 := bits.Len(uint(segCount)) - 1
	searchRange := 2 << log2
	w := ot.NewBuilder(length)
	w.U16(4)
	w.U16(uint16(length))
	w.U16(0) // language
	w.U16(uint16(segCount * 2))
	w.U16(uint16(searchRange))
	w.U16(uint16(log2))
	w.U16(uint16(segCount*2 - searchRange))
	for _, s := range segs {
		if s.start < 0 {
			w.U16(lastBMP)
		} else {
			w.U16(uint16(bmp[s.end-1].r))
		}
	}
	w.U16(0) // reserved pad
	for _, s := range segs {
		if s.start < 0 {
			w.U16(lastBMP)
		} else {
			w.U16(uint16(bmp[s.start].r))
		}
	}
	for _, s := range segs {
		if s.constant {
			w.U16(uint16(int16(s.delta))) // modulo 65536
		} else {
			w.U16(0)
		}
	}
	glyphInx := 0
	for i, s := range segs {
		if s.constant {
			w.U16(0)
			continue
		}
		// offset from this idRangeOffset entry into the glyph array
		w.U16(uint16((segCount-i)*2 + glyphInx*2))
		glyphInx += s.end - s.start
	}
	for _, s := range segs {
		if s.constant {
			continue
		}
		for _, m := range bmp[s.start:s.end] {
			w.U16(uint16(m.g))
		}
	}
	return w.Bytes(), nil
}

// cmapFormat12 creates a format 12 subtable with groups of consecutive
// codepoints mapped to consecutive glyphs.
func cmapFormat12(mapping []cmapEntry) []byte {
	type group struct {
		first, last rune
		glyph       ot.GlyphIndex
	}
	var groups []group
	for _, m := range mapping {
		if n := len(groups); n > 0 {
			g := &groups[n-1]
			if m.r == g.last+1 && int(m.g) == int(g.glyph)+int(g.last-g.first)+1 {
				g.last = m.r
				continue
			}
		}
		groups = append(groups, group{first: m.r, last: m.r, glyph: m.g})
	}
	length := 16 + len(groups)*12
	w := ot.NewBuilder(length)
	w.U16(12)
	w.U16(0) // reserved
	w.U32(uint32(length))
	w.U32(0) // language
	w.U32(uint32(len(groups)))
	for _, g := range groups {
		w.U32(uint32(g.first))
		w.U32(uint32(g.last))
		w.U32(uint32(g.glyph))
	}
	return w.Bytes()
}
