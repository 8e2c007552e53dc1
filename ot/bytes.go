package ot

import (
	"encoding/binary"
	"errors"
)

// Reading bytes from a font's binary representation

var errBufferBounds = errors.New("internal inconsistency: buffer bounds error")

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// --- Segments of binary data -----------------------------------------------

// Segm is a segment of byte data, usually a table of a font or a sub-table
// within it. We use it throughout this module to navigate the font's binary
// data. All accessors are bounds-checked.
type Segm []byte

// Size returns the size of the segment in bytes.
func (b Segm) Size() int {
	return len(b)
}

// View returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b Segm) View(offset, n int) (Segm, error) {
	if offset < 0 || n < 0 || offset+n > len(b) {
		return nil, errBufferBounds
	}
	return b[offset : offset+n], nil
}

// From returns the sub-segment starting at offset, or an error if offset is
// outside of b.
func (b Segm) From(offset int) (Segm, error) {
	if offset < 0 || offset > len(b) {
		return nil, errBufferBounds
	}
	return b[offset:], nil
}

// Uint16 returns the uint16 in b at the relative offset i.
func (b Segm) Uint16(i int) (uint16, error) {
	buf, err := b.View(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// Uint32 returns the uint32 in b at the relative offset i.
func (b Segm) Uint32(i int) (uint32, error) {
	buf, err := b.View(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// U16 is a convenience accessor for 16 bit data at byte index i. It returns 0
// if i is out of bounds.
func (b Segm) U16(i int) uint16 {
	n, err := b.Uint16(i)
	if err != nil {
		return 0
	}
	return n
}

// U32 is a convenience accessor for 32 bit data at byte index i. It returns 0
// if i is out of bounds.
func (b Segm) U32(i int) uint32 {
	n, err := b.Uint32(i)
	if err != nil {
		return 0
	}
	return n
}

// Glyphs interprets count consecutive 16 bit values at offset as glyph
// indices.
func (b Segm) Glyphs(offset, count int) ([]GlyphIndex, error) {
	buf, err := b.View(offset, count*2)
	if err != nil {
		return nil, err
	}
	glyphs := make([]GlyphIndex, count)
	for i := range glyphs {
		glyphs[i] = GlyphIndex(u16(buf[i*2:]))
	}
	return glyphs, nil
}

// --- Writing tables --------------------------------------------------------

// Builder assembles the binary data of a table in big-endian byte order.
type Builder struct {
	buf []byte
}

// NewBuilder creates a builder with an initial capacity of n bytes.
func NewBuilder(n int) *Builder {
	return &Builder{buf: make([]byte, 0, n)}
}

// Len returns the number of bytes written so far.
func (w *Builder) Len() int {
	return len(w.buf)
}

// Bytes returns the table data. The builder must not be used afterwards.
func (w *Builder) Bytes() []byte {
	return w.buf
}

// U16 appends a 16 bit value.
func (w *Builder) U16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

// U32 appends a 32 bit value.
func (w *Builder) U32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// Write appends raw bytes.
func (w *Builder) Write(b []byte) {
	w.buf = append(w.buf, b...)
}

// Align pads with zeros up to the next multiple of n.
func (w *Builder) Align(n int) {
	for len(w.buf)%n != 0 {
		w.buf = append(w.buf, 0)
	}
}

// PutU16 overwrites the 16 bit value at offset at.
func (w *Builder) PutU16(at int, v uint16) {
	binary.BigEndian.PutUint16(w.buf[at:], v)
}

// PutU32 overwrites the 32 bit value at offset at.
func (w *Builder) PutU32(at int, v uint32) {
	binary.BigEndian.PutUint32(w.buf[at:], v)
}
