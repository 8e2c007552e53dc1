package subset

import (
	"fmt"

	"github.com/xivdyetools/fontsubset/ot"
)

// GSUB lookup types which produce new glyphs. Contextual lookups (types 5 and
// 6) only delegate to other lookups of the lookup list, and every lookup is
// visited by the closure anyway.
const (
	gsubSingle           = 1
	gsubMultiple         = 2
	gsubAlternate        = 3
	gsubLigature         = 4
	gsubExtension        = 7
	gsubReverseChaining  = 8
	maxClosureIterations = 64
)

// gsubSubtable is a lookup subtable with extension lookups resolved.
type gsubSubtable struct {
	lookupType uint16
	data       ot.Segm
}

// gsubClosure adds every glyph which a GSUB lookup may substitute for a
// retained glyph, until no more glyphs are added.
func gsubClosure(gsub ot.Segm, glyphs *glyphSet) error {
	subtables, err := gsubSubtables(gsub)
	if err != nil {
		return err
	}
	before := glyphs.len()
	for i := 0; i < maxClosureIterations; i++ {
		n := glyphs.len()
		for _, sub := range subtables {
			if err := sub.close(glyphs); err != nil {
				return err
			}
		}
		if glyphs.len() == n {
			tracer().Debugf("GSUB closure added %d glyphs in %d rounds", glyphs.len()-before, i+1)
			return nil
		}
	}
	tracer().Infof("GSUB closure did not settle after %d rounds", maxClosureIterations)
	return nil
}

// gsubSubtables lists the subtables of all lookups of table GSUB.
func gsubSubtables(gsub ot.Segm) ([]gsubSubtable, error) {
	lookupListOffset, err := gsub.Uint16(8)
	if err != nil {
		return nil, ot.Errorf(ot.T("GSUB"), "Header", "table too short")
	}
	if lookupListOffset == 0 {
		return nil, nil
	}
	lookupList, err := gsub.From(int(lookupListOffset))
	if err != nil {
		return nil, ot.Errorf(ot.T("GSUB"), "LookupList", "offset %d out of bounds", lookupListOffset)
	}
	count := int(lookupList.U16(0))
	if count > ot.MaxLookupCount {
		return nil, ot.Errorf(ot.T("GSUB"), "LookupList", "lookup count %d exceeds maximum", count)
	}
	var subtables []gsubSubtable
	for i := 0; i < count; i++ {
		lookup, err := lookupList.From(int(lookupList.U16(2 + i*2)))
		if err != nil || lookup.Size() < 6 {
			return nil, ot.Errorf(ot.T("GSUB"), "Lookup", "lookup %d out of bounds", i)
		}
		lookupType := lookup.U16(0)
		subCount := int(lookup.U16(4))
		for j := 0; j < subCount; j++ {
			off, err := lookup.Uint16(6 + j*2)
			if err != nil {
				return nil, ot.Errorf(ot.T("GSUB"), "Lookup", "lookup %d: subtable %d out of bounds", i, j)
			}
			sub, err := lookup.From(int(off))
			if err != nil {
				return nil, ot.Errorf(ot.T("GSUB"), "Lookup", "lookup %d: subtable %d out of bounds", i, j)
			}
			st, err := resolveExtension(gsubSubtable{lookupType: lookupType, data: sub})
			if err != nil {
				return nil, fmt.Errorf("lookup %d: %w", i, err)
			}
			subtables = append(subtables, st)
		}
	}
	tracer().Debugf("GSUB has %d lookups with %d subtables", count, len(subtables))
	return subtables, nil
}

// resolveExtension follows extension subtables to the subtable they wrap.
func resolveExtension(st gsubSubtable) (gsubSubtable, error) {
	for depth := 0; st.lookupType == gsubExtension; depth++ {
		if depth >= ot.MaxExtensionDepth {
			return st, ot.Errorf(ot.T("GSUB"), "Extension", "extension nesting too deep")
		}
		off, err := st.data.Uint32(4)
		if err != nil {
			return st, ot.Errorf(ot.T("GSUB"), "Extension", "truncated extension subtable")
		}
		data, err := st.data.From(int(off))
		if err != nil {
			return st, ot.Errorf(ot.T("GSUB"), "Extension", "extension offset %d out of bounds", off)
		}
		st = gsubSubtable{lookupType: st.data.U16(2), data: data}
	}
	return st, nil
}

// coverage decodes the coverage table referenced at byte offset at.
func (st gsubSubtable) coverage(at int) (ot.Coverage, error) {
	off, err := st.data.Uint16(at)
	if err != nil {
		return ot.Coverage{}, err
	}
	b, err := st.data.From(int(off))
	if err != nil {
		return ot.Coverage{}, err
	}
	return ot.ParseCoverage(b)
}

// close adds the output glyphs of this subtable for all retained input glyphs.
func (st gsubSubtable) close(glyphs *glyphSet) error {
	switch st.lookupType {
	case gsubSingle:
		return st.closeSingle(glyphs)
	case gsubMultiple, gsubAlternate:
		return st.closeSequences(glyphs)
	case gsubLigature:
		return st.closeLigatures(glyphs)
	case gsubReverseChaining:
		return st.closeReverseChaining(glyphs)
	}
	return nil
}

func (st gsubSubtable) closeSingle(glyphs *glyphSet) error {
	cov, err := st.coverage(2)
	if err != nil {
		return st.errorf("single substitution: %v", err)
	}
	switch format := st.data.U16(0); format {
	case 1:
		delta := st.data.U16(4)
		for g := range cov.Glyphs() {
			if glyphs.has(g) {
				glyphs.add(g + ot.GlyphIndex(delta)) // modulo 65536
			}
		}
	case 2:
		count := int(st.data.U16(4))
		substitutes, err := st.data.Glyphs(6, count)
		if err != nil {
			return st.errorf("single substitution: %v", err)
		}
		for g, inx := range cov.Glyphs() {
			if glyphs.has(g) && inx < len(substitutes) {
				glyphs.add(substitutes[inx])
			}
		}
	default:
		return st.errorf("unknown single substitution format %d", format)
	}
	return nil
}

// closeSequences handles multiple and alternate substitution, which share
// their layout: a coverage table and, per covered glyph, a list of glyphs.
func (st gsubSubtable) closeSequences(glyphs *glyphSet) error {
	cov, err := st.coverage(2)
	if err != nil {
		return st.errorf("sequence substitution: %v", err)
	}
	count := int(st.data.U16(4))
	for g, inx := range cov.Glyphs() {
		if !glyphs.has(g) || inx >= count {
			continue
		}
		seq, err := st.data.From(int(st.data.U16(6 + inx*2)))
		if err != nil {
			return st.errorf("sequence %d out of bounds", inx)
		}
		out, err := seq.Glyphs(2, int(seq.U16(0)))
		if err != nil {
			return st.errorf("sequence %d truncated", inx)
		}
		for _, o := range out {
			glyphs.add(o)
		}
	}
	return nil
}

// closeLigatures adds a ligature glyph if all of its components are retained.
func (st gsubSubtable) closeLigatures(glyphs *glyphSet) error {
	cov, err := st.coverage(2)
	if err != nil {
		return st.errorf("ligature substitution: %v", err)
	}
	count := int(st.data.U16(4))
	for g, inx := range cov.Glyphs() {
		if !glyphs.has(g) || inx >= count {
			continue
		}
		ligSet, err := st.data.From(int(st.data.U16(6 + inx*2)))
		if err != nil {
			return st.errorf("ligature set %d out of bounds", inx)
		}
		for i := 0; i < int(ligSet.U16(0)); i++ {
			lig, err := ligSet.From(int(ligSet.U16(2 + i*2)))
			if err != nil || lig.Size() < 4 {
				return st.errorf("ligature %d/%d out of bounds", inx, i)
			}
			compCount := int(lig.U16(2))
			if compCount == 0 {
				continue
			}
			comps, err := lig.Glyphs(4, compCount-1)
			if err != nil {
				return st.errorf("ligature %d/%d truncated", inx, i)
			}
			complete := true
			for _, c := range comps {
				complete = complete && glyphs.has(c)
			}
			if complete {
				glyphs.add(ot.GlyphIndex(lig.U16(0)))
			}
		}
	}
	return nil
}

// closeReverseChaining ignores the context and treats the substitution as a
// single substitution.
func (st gsubSubtable) closeReverseChaining(glyphs *glyphSet) error {
	cov, err := st.coverage(2)
	if err != nil {
		return st.errorf("reverse chaining substitution: %v", err)
	}
	at := 4
	backtrack := int(st.data.U16(at))
	at += 2 + backtrack*2
	lookahead := int(st.data.U16(at))
	at += 2 + lookahead*2
	substitutes, err := st.data.Glyphs(at+2, int(st.data.U16(at)))
	if err != nil {
		return st.errorf("reverse chaining substitution truncated")
	}
	for g, inx := range cov.Glyphs() {
		if glyphs.has(g) && inx < len(substitutes) {
			glyphs.add(substitutes[inx])
		}
	}
	return nil
}

func (st gsubSubtable) errorf(format string, args ...any) error {
	section := fmt.Sprintf("LookupType%d", st.lookupType)
	return ot.Errorf(ot.T("GSUB"), section, format, args...)
}
