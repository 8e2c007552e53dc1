package otquery

import (
	"encoding/binary"

	"github.com/xivdyetools/fontsubset/ot"
)

// MaxPTableInfo is a typed query view over OpenType table 'maxp'.
// The subsetter keeps the profile limits of the source font, so only the
// header is decoded.
type MaxPTableInfo struct {
	VersionFixed uint32
	NumGlyphs    uint16
}

// IsTrueType reports whether the table carries the version 1.0 profile of
// fonts with TrueType outlines.
func (info MaxPTableInfo) IsTrueType() bool {
	return info.VersionFixed == 0x00010000
}

const maxpMinSize = 6

// MaxPInfo decodes table 'maxp' directly from raw bytes.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func MaxPInfo(otf *ot.Font) (MaxPTableInfo, bool) {
	var info MaxPTableInfo
	if otf == nil {
		return info, false
	}
	b := otf.Table(ot.T("maxp"))
	if len(b) < maxpMinSize {
		return info, false
	}
	info.VersionFixed = binary.BigEndian.Uint32(b[0:4])
	info.NumGlyphs = binary.BigEndian.Uint16(b[4:6])
	return info, true
}
