package subset

import (
	"math/bits"

	"github.com/xivdyetools/fontsubset/ot"
	"github.com/xivdyetools/fontsubset/otquery"
)

const (
	sfntHeaderSize    = 12
	tableRecordSize   = 16
	checkSumMagic     = 0xB1B0AFBA
	maxTableCountSFNT = 0xFFFF
	headMinimumSize   = otquery.HeadCheckSumAdjustmentOffset + 4
	paddingAlignment  = 4
)

// Encode serializes a font container to the SFNT binary format.
//
// Tables are written in tag order, each one padded to a multiple of 4 bytes.
// Table checksums and the checksum adjustment of table 'head' are recomputed.
func Encode(otf *ot.Font) ([]byte, error) {
	tags := otf.TableTags()
	n := len(tags)
	if n == 0 || n > maxTableCountSFNT {
		return nil, ot.Errorf(0, "Directory", "cannot encode font with %d tables", n)
	}
	tables := make([][]byte, n)
	size := sfntHeaderSize + n*tableRecordSize
	headAt := -1
	for i, tag := range tags {
		tables[i] = otf.Table(tag)
		if tag == ot.T("head") {
			if len(tables[i]) < headMinimumSize {
				return nil, ot.Errorf(tag, "Header", "table too short")
			}
			head := ot.NewBuilder(len(tables[i]))
			head.Write(tables[i])
			head.PutU32(otquery.HeadCheckSumAdjustmentOffset, 0)
			tables[i] = head.Bytes()
		}
		size += padded(len(tables[i]))
	}
	log2 := bits.Len(uint(n)) - 1
	searchRange := tableRecordSize << log2
	w := ot.NewBuilder(size)
	w.U32(otf.Header.FontType)
	w.U16(uint16(n))
	w.U16(uint16(searchRange))
	w.U16(uint16(log2))
	w.U16(uint16(n*tableRecordSize - searchRange))
	offset := sfntHeaderSize + n*tableRecordSize
	for i, tag := range tags {
		w.U32(uint32(tag))
		w.U32(checksum(tables[i]))
		w.U32(uint32(offset))
		w.U32(uint32(len(tables[i])))
		if tag == ot.T("head") {
			headAt = offset
		}
		offset += padded(len(tables[i]))
	}
	for _, t := range tables {
		w.Write(t)
		w.Align(paddingAlignment)
	}
	if headAt >= 0 {
		adjustment := checkSumMagic - checksum(w.Bytes())
		w.PutU32(headAt+otquery.HeadCheckSumAdjustmentOffset, adjustment)
	}
	tracer().Debugf("encoded %d tables into %d bytes", n, w.Len())
	return w.Bytes(), nil
}

func padded(n int) int {
	return (n + paddingAlignment - 1) &^ (paddingAlignment - 1)
}

// checksum sums up b as big-endian 32 bit values, padding the last one with
// zeros.
func checksum(b []byte) uint32 {
	var sum uint32
	for len(b) >= 4 {
		sum += uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
		b = b[4:]
	}
	var last uint32
	for i, c := range b {
		last |= uint32(c) << (24 - 8*i)
	}
	return sum + last
}
