package subset

import (
	"slices"

	"github.com/xivdyetools/fontsubset/internal/fontload"
	"github.com/xivdyetools/fontsubset/ot"
	"github.com/xivdyetools/fontsubset/otquery"
	"golang.org/x/image/font/sfnt"
)

// glyphSet is the set of retained glyph IDs of a font.
type glyphSet struct {
	keep  []bool
	count int
}

func newGlyphSet(numGlyphs int) *glyphSet {
	return &glyphSet{keep: make([]bool, numGlyphs)}
}

// add inserts g and reports whether it has not been present before.
// Glyph IDs beyond the font's glyph count are ignored.
func (gs *glyphSet) add(g ot.GlyphIndex) bool {
	if int(g) >= len(gs.keep) || gs.keep[g] {
		return false
	}
	gs.keep[g] = true
	gs.count++
	return true
}

func (gs *glyphSet) has(g ot.GlyphIndex) bool {
	return int(g) < len(gs.keep) && gs.keep[g]
}

func (gs *glyphSet) len() int {
	return gs.count
}

// cmapEntry maps a codepoint to a glyph of the source font.
type cmapEntry struct {
	r rune
	g ot.GlyphIndex
}

// plan collects everything needed to derive the subset font from the source.
type plan struct {
	src       *ot.Font
	opts      *options
	numGlyphs int
	mapping   []cmapEntry // requested codepoints mapped by the source, ascending
	glyphs    *glyphSet
	glyf      *glyfTable // nil for CFF fonts
}

func newPlan(f *fontload.ScalableFont, codepoints []rune, o *options) (*plan, error) {
	maxp, ok := otquery.MaxPInfo(f.OT)
	if !ok {
		return nil, ot.Errorf(ot.T("maxp"), "Header", "missing or truncated table")
	}
	p := &plan{
		src:       f.OT,
		opts:      o,
		numGlyphs: int(maxp.NumGlyphs),
		glyphs:    newGlyphSet(int(maxp.NumGlyphs)),
	}
	var buf sfnt.Buffer
	for _, r := range slices.Compact(slices.Sorted(slices.Values(codepoints))) {
		gid, err := f.SFNT.GlyphIndex(&buf, r)
		if err != nil {
			return nil, err
		}
		if gid == 0 {
			tracer().Debugf("%#U not mapped by font", r)
			continue
		}
		p.mapping = append(p.mapping, cmapEntry{r: r, g: ot.GlyphIndex(gid)})
	}
	tracer().Infof("%d of %d codepoints are mapped by the font", len(p.mapping), len(codepoints))
	return p, nil
}

// closeOver computes the set of retained glyphs.
func (p *plan) closeOver() error {
	p.glyphs.add(0)
	for _, m := range p.mapping {
		p.glyphs.add(m.g)
	}
	if p.opts.layoutClosure {
		if gsub := p.src.Table(ot.T("GSUB")); gsub != nil {
			if err := gsubClosure(gsub, p.glyphs); err != nil {
				return err
			}
		}
	}
	if !p.src.IsCFF() {
		var err error
		if p.glyf, err = readGlyf(p.src, p.numGlyphs); err != nil {
			return err
		}
		if err = p.glyf.componentClosure(p.glyphs); err != nil {
			return err
		}
	}
	tracer().Infof("retaining %d of %d glyphs", p.glyphs.len(), p.numGlyphs)
	return nil
}

// apply creates the table container of the subset font.
func (p *plan) apply() (*ot.Font, error) {
	out := ot.NewFont(p.src.Header.FontType)
	for _, tag := range p.src.TableTags() {
		if slices.Contains(p.opts.dropTables, tag) {
			tracer().Debugf("dropping table %s", tag)
			continue
		}
		out.SetTable(tag, p.src.Table(tag))
	}
	cmap, err := buildCMap(p.mapping)
	if err != nil {
		return nil, err
	}
	out.SetTable(ot.T("cmap"), cmap)
	if p.glyf == nil {
		tracer().Infof("%s", ot.Warning(ot.T("CFF "), "Outlines", "CFF outlines are kept unchanged"))
	} else {
		keep := p.glyphs
		if !p.opts.notdefOutline {
			keep = p.withoutNotdef()
		}
		glyfTable, loca, longLoca := p.glyf.subset(keep)
		out.SetTable(ot.T("glyf"), glyfTable)
		out.SetTable(ot.T("loca"), loca)
		head, err := patchHead(p.src.Table(ot.T("head")), longLoca)
		if err != nil {
			return nil, err
		}
		out.SetTable(ot.T("head"), head)
	}
	if gvar := p.src.Table(ot.T("gvar")); gvar != nil {
		b, err := subsetGVar(gvar, p.glyphs)
		if err != nil {
			return nil, err
		}
		out.SetTable(ot.T("gvar"), b)
	}
	if post := p.src.Table(ot.T("post")); post != nil && !p.opts.glyphNames {
		out.SetTable(ot.T("post"), postVersion3(post))
	}
	if os2 := p.src.Table(ot.T("OS/2")); os2 != nil {
		out.SetTable(ot.T("OS/2"), patchOS2(os2, p.mapping))
	}
	return out, nil
}

func (p *plan) withoutNotdef() *glyphSet {
	gs := newGlyphSet(p.numGlyphs)
	for g, k := range p.glyphs.keep {
		if k && g != 0 {
			gs.add(ot.GlyphIndex(g))
		}
	}
	return gs
}
