package subset

import (
	"github.com/xivdyetools/fontsubset/ot"
	"github.com/xivdyetools/fontsubset/otquery"
)

// Flags of a composite glyph component.
const (
	argsAreWords     = 0x0001
	haveScale        = 0x0008
	moreComponents   = 0x0020
	haveXYScale      = 0x0040
	haveTwoByTwo     = 0x0080
	glyphHeaderSize  = 10
	maxShortLocaSize = 0x1FFFE
)

// glyfTable is the TrueType outline data of a font together with its index.
type glyfTable struct {
	data    ot.Segm
	offsets []uint32 // numGlyphs+1 entries from table 'loca'
}

func readGlyf(otf *ot.Font, numGlyphs int) (*glyfTable, error) {
	head, ok := otquery.HeadInfo(otf)
	if !ok {
		return nil, ot.Errorf(ot.T("head"), "Header", "missing or truncated table")
	}
	loca := ot.Segm(otf.Table(ot.T("loca")))
	glyf := &glyfTable{
		data:    otf.Table(ot.T("glyf")),
		offsets: make([]uint32, numGlyphs+1),
	}
	if glyf.data == nil || loca == nil {
		return nil, ot.Errorf(ot.T("glyf"), "Header", "TrueType font without glyf/loca")
	}
	long := head.IndexToLocFormat == 1
	for i := range glyf.offsets {
		var off uint32
		if long {
			v, err := loca.Uint32(i * 4)
			if err != nil {
				return nil, ot.Errorf(ot.T("loca"), "Offsets", "table too short for %d glyphs", numGlyphs)
			}
			off = v
		} else {
			v, err := loca.Uint16(i * 2)
			if err != nil {
				return nil, ot.Errorf(ot.T("loca"), "Offsets", "table too short for %d glyphs", numGlyphs)
			}
			off = uint32(v) * 2
		}
		if off > uint32(len(glyf.data)) || (i > 0 && off < glyf.offsets[i-1]) {
			return nil, ot.Errorf(ot.T("loca"), "Offsets", "invalid offset %d for glyph %d", off, i)
		}
		glyf.offsets[i] = off
	}
	return glyf, nil
}

// glyph returns the outline data of glyph g, which is empty for glyphs
// without contours.
func (glyf *glyfTable) glyph(g ot.GlyphIndex) ot.Segm {
	return glyf.data[glyf.offsets[g]:glyf.offsets[g+1]]
}

// components returns the glyphs referenced by a composite glyph.
func (glyf *glyfTable) components(g ot.GlyphIndex) ([]ot.GlyphIndex, error) {
	b := glyf.glyph(g)
	if len(b) < glyphHeaderSize || int16(b.U16(0)) >= 0 {
		return nil, nil
	}
	var comps []ot.GlyphIndex
	for at := glyphHeaderSize; ; {
		flags, err := b.Uint16(at)
		if err != nil {
			return nil, ot.Errorf(ot.T("glyf"), "Composite", "truncated component of glyph %d", g)
		}
		comp, err := b.Uint16(at + 2)
		if err != nil {
			return nil, ot.Errorf(ot.T("glyf"), "Composite", "truncated component of glyph %d", g)
		}
		comps = append(comps, ot.GlyphIndex(comp))
		at += 4
		if flags&argsAreWords != 0 {
			at += 4
		} else {
			at += 2
		}
		switch {
		case flags&haveScale != 0:
			at += 2
		case flags&haveXYScale != 0:
			at += 4
		case flags&haveTwoByTwo != 0:
			at += 8
		}
		if flags&moreComponents == 0 {
			return comps, nil
		}
	}
}

// componentClosure adds the components of retained composite glyphs,
// transitively.
func (glyf *glyfTable) componentClosure(glyphs *glyphSet) error {
	var queue []ot.GlyphIndex
	for g, k := range glyphs.keep {
		if k {
			queue = append(queue, ot.GlyphIndex(g))
		}
	}
	for len(queue) > 0 {
		g := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		comps, err := glyf.components(g)
		if err != nil {
			return err
		}
		for _, c := range comps {
			if glyphs.add(c) {
				queue = append(queue, c)
			}
		}
	}
	return nil
}

// subset creates new 'glyf' and 'loca' tables where every glyph not in keep is
// empty. Glyph data is padded to 4 bytes. The short 'loca' format is used
// whenever the outline data is small enough.
func (glyf *glyfTable) subset(keep *glyphSet) (glyfData, loca []byte, long bool) {
	n := len(glyf.offsets) - 1
	w := ot.NewBuilder(len(glyf.data) / 4)
	offsets := make([]uint32, n+1)
	for g := 0; g < n; g++ {
		offsets[g] = uint32(w.Len())
		if keep.has(ot.GlyphIndex(g)) {
			w.Write(glyf.glyph(ot.GlyphIndex(g)))
			w.Align(4)
		}
	}
	offsets[n] = uint32(w.Len())
	long = offsets[n] > maxShortLocaSize
	l := ot.NewBuilder((n + 1) * 4)
	for _, off := range offsets {
		if long {
			l.U32(off)
		} else {
			l.U16(uint16(off / 2))
		}
	}
	return w.Bytes(), l.Bytes(), long
}

// patchHead returns a copy of table 'head' with the 'loca' format set and the
// checksum adjustment cleared.
func patchHead(head []byte, longLoca bool) ([]byte, error) {
	if len(head) < otquery.HeadIndexToLocFormatOffset+2 {
		return nil, ot.Errorf(ot.T("head"), "Header", "table too short")
	}
	w := ot.NewBuilder(len(head))
	w.Write(head)
	w.PutU32(otquery.HeadCheckSumAdjustmentOffset, 0)
	if longLoca {
		w.PutU16(otquery.HeadIndexToLocFormatOffset, 1)
	} else {
		w.PutU16(otquery.HeadIndexToLocFormatOffset, 0)
	}
	return w.Bytes(), nil
}
