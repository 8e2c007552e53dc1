package subset

import (
	"github.com/xivdyetools/fontsubset/ot"
)

const (
	gvarHeaderSize = 20
	gvarLongFlag   = 0x0001
)

// subsetGVar removes the variation data of glyphs which are not retained.
// The result always uses 32 bit offsets.
func subsetGVar(gvar ot.Segm, glyphs *glyphSet) ([]byte, error) {
	if gvar.Size() < gvarHeaderSize {
		return nil, ot.Errorf(ot.T("gvar"), "Header", "table too short")
	}
	axisCount := int(gvar.U16(4))
	sharedTupleCount := int(gvar.U16(6))
	sharedTuplesOffset := int(gvar.U32(8))
	glyphCount := int(gvar.U16(12))
	flags := gvar.U16(14)
	dataOffset := int(gvar.U32(16))
	long := flags&gvarLongFlag != 0

	offsets := make([]int, glyphCount+1)
	for i := range offsets {
		if long {
			v, err := gvar.Uint32(gvarHeaderSize + i*4)
			if err != nil {
				return nil, ot.Errorf(ot.T("gvar"), "Offsets", "truncated offsets array")
			}
			offsets[i] = int(v)
		} else {
			v, err := gvar.Uint16(gvarHeaderSize + i*2)
			if err != nil {
				return nil, ot.Errorf(ot.T("gvar"), "Offsets", "truncated offsets array")
			}
			offsets[i] = int(v) * 2
		}
	}
	sharedTuples, err := gvar.View(sharedTuplesOffset, sharedTupleCount*axisCount*2)
	if err != nil {
		return nil, ot.Errorf(ot.T("gvar"), "SharedTuples", "shared tuples out of bounds")
	}
	data, err := gvar.From(dataOffset)
	if err != nil {
		return nil, ot.Errorf(ot.T("gvar"), "Data", "data array offset %d out of bounds", dataOffset)
	}

	newSharedOffset := gvarHeaderSize + (glyphCount+1)*4
	newDataOffset := newSharedOffset + len(sharedTuples)
	w := ot.NewBuilder(newDataOffset + data.Size())
	w.Write(gvar[:gvarHeaderSize])
	w.PutU32(8, uint32(newSharedOffset))
	w.PutU16(14, flags|gvarLongFlag)
	w.PutU32(16, uint32(newDataOffset))
	for range offsets { // placeholders
		w.U32(0)
	}
	w.Write(sharedTuples)
	dropped := 0
	for g := 0; g < glyphCount; g++ {
		w.PutU32(gvarHeaderSize+g*4, uint32(w.Len()-newDataOffset))
		if !glyphs.has(ot.GlyphIndex(g)) {
			if offsets[g+1] > offsets[g] {
				dropped++
			}
			continue
		}
		varData, err := data.View(offsets[g], offsets[g+1]-offsets[g])
		if err != nil {
			return nil, ot.Errorf(ot.T("gvar"), "Data", "variation data of glyph %d out of bounds", g)
		}
		w.Write(varData)
	}
	w.PutU32(gvarHeaderSize+glyphCount*4, uint32(w.Len()-newDataOffset))
	tracer().Debugf("gvar: dropped variation data of %d glyphs", dropped)
	return w.Bytes(), nil
}
