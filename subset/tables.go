package subset

import (
	"github.com/xivdyetools/fontsubset/ot"
	"github.com/xivdyetools/fontsubset/otquery"
)

const (
	postHeaderSize = 32
	postVersion30  = 0x00030000
)

// postVersion3 strips the glyph names from table 'post'.
func postVersion3(post []byte) []byte {
	if len(post) < postHeaderSize {
		tracer().Infof("%s", ot.Warning(ot.T("post"), "Header", "table too short, kept unchanged"))
		return post
	}
	w := ot.NewBuilder(postHeaderSize)
	w.Write(post[:postHeaderSize])
	w.PutU32(0, postVersion30)
	return w.Bytes()
}

// patchOS2 returns a copy of table 'OS/2' with the first and last character
// index set to the range of the subset's character map. Both values are
// capped at U+FFFF.
func patchOS2(os2 []byte, mapping []cmapEntry) []byte {
	if len(mapping) == 0 || len(os2) < otquery.OS2LastCharIndexOffset+2 {
		return os2
	}
	capped := func(r rune) uint16 {
		return uint16(min(r, lastBMP))
	}
	w := ot.NewBuilder(len(os2))
	w.Write(os2)
	w.PutU16(otquery.OS2FirstCharIndexOffset, capped(mapping[0].r))
	w.PutU16(otquery.OS2LastCharIndexOffset, capped(mapping[len(mapping)-1].r))
	return w.Bytes()
}
