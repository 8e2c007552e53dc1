package otquery

import (
	"encoding/binary"

	"github.com/xivdyetools/fontsubset/ot"
)

// HeadTableInfo is a typed query view over OpenType table 'head'.
// Only the fields relevant for rewriting a font are decoded.
type HeadTableInfo struct {
	FontRevision       uint32
	CheckSumAdjustment uint32
	MagicNumber        uint32
	UnitsPerEm         uint16
	IndexToLocFormat   int16 // 0 for short offsets, 1 for long
}

// Byte offsets of fields in table 'head' which are patched when writing a font.
const (
	HeadCheckSumAdjustmentOffset = 8
	HeadIndexToLocFormatOffset   = 50
)

const headTableSize = 54

// HeadMagicNumber is the value every valid 'head' table carries at offset 12.
const HeadMagicNumber = 0x5F0F3CF5

// HeadInfo decodes table 'head' from raw bytes.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func HeadInfo(otf *ot.Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	if otf == nil {
		return info, false
	}
	b := otf.Table(ot.T("head"))
	if len(b) < headTableSize {
		return info, false
	}
	info.FontRevision = binary.BigEndian.Uint32(b[4:8])
	info.CheckSumAdjustment = binary.BigEndian.Uint32(b[8:12])
	info.MagicNumber = binary.BigEndian.Uint32(b[12:16])
	info.UnitsPerEm = binary.BigEndian.Uint16(b[18:20])
	info.IndexToLocFormat = int16(binary.BigEndian.Uint16(b[50:52]))
	return info, true
}

// OS2TableInfo is a typed query view over the character range fields of
// table 'OS/2'.
type OS2TableInfo struct {
	Version        uint16
	FirstCharIndex uint16
	LastCharIndex  uint16
}

// Byte offsets of the character range fields in table 'OS/2'.
const (
	OS2FirstCharIndexOffset = 64
	OS2LastCharIndexOffset  = 66
)

// OS2Info decodes the character range of table 'OS/2'.
func OS2Info(otf *ot.Font) (OS2TableInfo, bool) {
	var info OS2TableInfo
	if otf == nil {
		return info, false
	}
	b := otf.Table(ot.T("OS/2"))
	if len(b) < OS2LastCharIndexOffset+2 {
		return info, false
	}
	info.Version = binary.BigEndian.Uint16(b[0:2])
	info.FirstCharIndex = binary.BigEndian.Uint16(b[OS2FirstCharIndexOffset:])
	info.LastCharIndex = binary.BigEndian.Uint16(b[OS2LastCharIndexOffset:])
	return info, true
}
