package fontload

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-text/typesetting/font/opentype"
	"github.com/npillmayer/schuko/tracing"
	"github.com/xivdyetools/fontsubset/ot"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'fontsubset.fontload'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.fontload")
}

// ScalableFont is a parsed scalable font with original bytes, an SFNT view
// for character mapping and the raw table container for rewriting.
type ScalableFont struct {
	Fontname string
	Filepath string
	Binary   []byte
	SFNT     *sfnt.Font
	OT       *ot.Font
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", fontfile, err)
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
// Font collections are not supported.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	if f.SFNT, err = sfnt.Parse(f.Binary); err != nil {
		return nil, err
	}
	if f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull); err != nil {
		tracer().Debugf("font has no full name: %v", err)
	}
	if f.OT, err = loadTables(fbytes); err != nil {
		return nil, err
	}
	tracer().Debugf("loaded and parsed SFNT %s with %d tables", f.Fontname, f.OT.Header.TableCount)
	return f, nil
}

// loadTables reads every table listed in the table directory.
func loadTables(fbytes []byte) (*ot.Font, error) {
	dir := ot.Segm(fbytes)
	fontType, err := dir.Uint32(0)
	if err != nil {
		return nil, ot.Errorf(ot.T(""), "Header", "font too short")
	}
	if fontType != ot.FontTypeTrueType && fontType != ot.FontTypeCFF && fontType != ot.FontTypeAppleTrueType {
		return nil, ot.Errorf(ot.T(""), "Header", "font type not supported: %x", fontType)
	}
	ld, err := opentype.NewLoader(bytes.NewReader(fbytes))
	if err != nil {
		return nil, err
	}
	count := int(dir.U16(4))
	records, err := dir.View(12, count*16)
	if err != nil {
		return nil, ot.Errorf(ot.T(""), "TableRecords", "table record entries")
	}
	otf := ot.NewFont(fontType)
	for i := 0; i < count; i++ {
		tag := ot.MakeTag(records[i*16 : i*16+4])
		b, err := ld.RawTable(opentype.Tag(tag))
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", tag, err)
		}
		otf.SetTable(tag, b)
	}
	return otf, nil
}
