/*
Package ot provides low-level access to the binary structures of OpenType fonts.
Intended audience for this package are font manipulation tools, such as the
subsetter of this module, which need to read table data, navigate offsets and
glyph coverage tables, and write tables back into a font container.

Package `ot` will not interpret a font as a whole. It exposes the tables of a
font as byte segments and offers bounded readers for the few structures shared
between tables (tags, coverage tables, big-endian integers). Interpreting a
table is left to the client.

Bugs in fonts: many fonts in the wild contain entries which infringe upon the
OpenType specification. Readers in `ot` never panic on truncated data, but
report an error (or a zero value for the convenience accessors).

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsubset.ot'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.ot")
}
