package otquery

import (
	"fmt"
	"iter"

	"github.com/xivdyetools/fontsubset/ot"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	nameHeaderSize = 6
	nameRecordSize = 12
)

// NameKey identifies a NameRecord entry in OpenType table 'name'.
// The key follows the OpenType NameRecord fields directly.
type NameKey struct {
	Platform PlatformID
	Encoding EncodingID
	Language uint16
	Name     sfnt.NameID // see https://pkg.go.dev/golang.org/x/image/font/sfnt#NameID
}

// NameRecord is a decoded entry of table 'name'. Raw holds the encoded string
// as stored in the font.
type NameRecord struct {
	NameKey
	Value string
	Raw   []byte
}

type PlatformID uint16

const (
	PlatformIDUnicode   PlatformID = 0
	PlatformIDMacintosh PlatformID = 1
	PlatformIDWindows   PlatformID = 3
)

type EncodingID uint16

const (
	EncodingIDMacRoman      EncodingID = 0 // for platform Macintosh
	EncodingIDWindowsSymbol EncodingID = 0 // for now we will not support symbol fonts
	EncodingIDWindowsBMP    EncodingID = 1
	EncodingIDUnicodeBMP    EncodingID = 3
	EncodingIDWindowsFull   EncodingID = 10
)

// Records yields every well-formed record of a raw `name` table, in table
// order. Values of records with an unsupported encoding are left empty, their
// raw bytes are still reported.
func Records(names []byte) iter.Seq[NameRecord] {
	names = checkNameTableSafe(names)
	return func(yield func(NameRecord) bool) {
		if names == nil {
			return
		}
		count := int(u16(names[2:4])) // number of name records
		stringStorageOffset := int(u16(names[4:6]))
		for i := range count {
			recordSlice := names[nameHeaderSize+i*nameRecordSize : nameHeaderSize+(i+1)*nameRecordSize]
			rec := NameRecord{NameKey: NameKey{
				Platform: PlatformID(u16(recordSlice[0:2])),
				Encoding: EncodingID(u16(recordSlice[2:4])),
				Language: u16(recordSlice[4:6]),
				Name:     sfnt.NameID(u16(recordSlice[6:8])),
			}}
			strLen := int(u16(recordSlice[8:10]))
			recordOffset := int(u16(recordSlice[10:12]))
			start := stringStorageOffset + recordOffset
			end := start + strLen
			if end > len(names) {
				tracer().Debugf("name record %d out of bounds", i)
				continue
			}
			rec.Raw = names[start:end]
			if enc := NameEncoding(rec.Platform, rec.Encoding); enc != nil {
				if s, err := enc.NewDecoder().Bytes(rec.Raw); err == nil {
					rec.Value = string(s)
				}
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// NamesRange yields decoded `(nameID, value)` pairs from a font's OpenType
// `name` table.
//
// Only records of a supported encoding are yielded (Unicode BMP, Windows BMP
// and Mac Roman), and malformed or out-of-bounds records are skipped.
func NamesRange(otf *ot.Font) iter.Seq2[sfnt.NameID, string] {
	return func(yield func(sfnt.NameID, string) bool) {
		if otf == nil {
			return
		}
		for rec := range Records(otf.Table(ot.T("name"))) {
			if rec.Value == "" {
				continue
			}
			if !yield(rec.Name, rec.Value) {
				return
			}
		}
	}
}

// NameInfo collects the names of a font, preferring Windows records.
func NameInfo(otf *ot.Font) map[sfnt.NameID]string {
	info := make(map[sfnt.NameID]string)
	if otf == nil {
		return info
	}
	for rec := range Records(otf.Table(ot.T("name"))) {
		if rec.Value == "" {
			continue
		}
		if _, ok := info[rec.Name]; !ok || rec.Platform == PlatformIDWindows {
			info[rec.Name] = rec.Value
		}
	}
	return info
}

// NameEncoding returns the text encoding of name records for a platform and
// platform-specific encoding, or nil if the combination is not supported.
func NameEncoding(platform PlatformID, enc EncodingID) encoding.Encoding {
	switch platform {
	case PlatformIDUnicode:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case PlatformIDWindows:
		if enc == EncodingIDWindowsBMP || enc == EncodingIDWindowsFull {
			return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
		}
	case PlatformIDMacintosh:
		if enc == EncodingIDMacRoman {
			return charmap.Macintosh
		}
	}
	return nil
}

// EncodeName encodes s for storage in a name record of the given platform.
func EncodeName(platform PlatformID, enc EncodingID, s string) ([]byte, error) {
	e := NameEncoding(platform, enc)
	if e == nil {
		return nil, fmt.Errorf("unsupported name encoding platform=%d encoding=%d", platform, enc)
	}
	b, err := e.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding name %q: %w", s, err)
	}
	return b, nil
}

// checkNameTableSafe checks if the name table is safe to use, i.e. no out-of-bounds access,
// no empty tables, etc.
func checkNameTableSafe(b []byte) []byte {
	if b == nil {
		tracer().Debugf("no name table found in font")
		return nil
	}
	if len(b) < nameHeaderSize {
		tracer().Debugf("name table too short: %d", len(b))
		return nil
	}
	count := int(u16(b[2:4]))
	strOff := int(u16(b[4:6]))
	if strOff > len(b) {
		tracer().Debugf("name table invalid string offset: %d", strOff)
		return nil
	}
	recordsEnd := nameHeaderSize + count*nameRecordSize
	if recordsEnd > len(b) {
		tracer().Debugf("name table record section out of bounds: count=%d", count)
		return nil
	}
	return b
}

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])<<0
}
