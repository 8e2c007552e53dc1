package ot

import (
	"sort"
)

// Font is the container view of an OpenType font: the SFNT version and the
// raw bytes of every top-level table.
//
// Tables are views into the font binary they have been loaded from and should
// be treated as read-only. Replacing a table with SetTable does not modify the
// original binary.
type Font struct {
	Header FontHeader
	tables map[Tag][]byte
}

// FontHeader is the leading part of the table directory of a font.
//
// OpenType fonts that contain TrueType outlines should use the value of 0x00010000
// for the FontType. OpenType fonts containing CFF data (version 1 or 2) should
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
// The Apple specification for TrueType fonts allows for 'true' and 'typ1',
// but these version tags should not be used for OpenType fonts.
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// Known values for FontHeader.FontType.
const (
	FontTypeTrueType      uint32 = 0x00010000
	FontTypeCFF           uint32 = 0x4f54544f // OTTO
	FontTypeAppleTrueType uint32 = 0x74727565 // true
)

// NewFont creates an empty font container of the given SFNT flavour.
func NewFont(fontType uint32) *Font {
	return &Font{
		Header: FontHeader{FontType: fontType},
		tables: make(map[Tag][]byte),
	}
}

// IsCFF reports whether the font carries PostScript outlines.
func (otf *Font) IsCFF() bool {
	return otf.Header.FontType == FontTypeCFF || otf.HasTable(T("CFF ")) || otf.HasTable(T("CFF2"))
}

// Table returns the bytes of the table for a given tag. If a table for a tag
// cannot be found in the font, nil is returned.
//
// Table tag names are case-sensitive, following the names in the OpenType
// specification, e.g. "cmap", "OS/2" or "CFF ".
func (otf *Font) Table(tag Tag) []byte {
	if otf == nil {
		return nil
	}
	return otf.tables[tag]
}

// HasTable reports whether a table with the given tag is present.
func (otf *Font) HasTable(tag Tag) bool {
	if otf == nil {
		return false
	}
	_, ok := otf.tables[tag]
	return ok
}

// SetTable adds or replaces a table.
func (otf *Font) SetTable(tag Tag, b []byte) {
	otf.tables[tag] = b
	otf.Header.TableCount = uint16(len(otf.tables))
}

// DeleteTable removes a table, if present.
func (otf *Font) DeleteTable(tag Tag) {
	delete(otf.tables, tag)
	otf.Header.TableCount = uint16(len(otf.tables))
}

// TableTags returns a list of tags, one for each table contained in the font,
// in ascending order as required for the table directory.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by the spec as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}
