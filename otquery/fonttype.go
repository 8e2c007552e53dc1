package otquery

import "github.com/xivdyetools/fontsubset/ot"

// FontType describes the outline format of a font, and whether it is a
// variable font.
func FontType(otf *ot.Font) string {
	if otf == nil {
		return "unknown"
	}
	t := "TrueType"
	if otf.IsCFF() {
		t = "OpenType (CFF)"
	}
	if otf.HasTable(ot.T("fvar")) {
		t += ", variable"
	}
	return t
}
