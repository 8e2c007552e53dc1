/*
Package subset reduces an OpenType font to the glyphs needed for a set of
codepoints.

The subsetter retains glyph IDs: glyphs which are not reachable from the
requested codepoints keep their slot but lose their outline (and variation
data). This keeps every table addressing glyphs by ID valid without rewriting
it, in particular the layout tables GSUB, GPOS and GDEF, metrics and the
variation tables of variable fonts. Reachability follows

▪︎ the character map of the source font,

▪︎ every GSUB lookup (all layout features are retained),

▪︎ components of composite TrueType glyphs,

until no more glyphs are added. Glyph 0 (.notdef) is always retained.

The character map of the output font contains only codepoints which have been
requested and are mapped by the source font. Glyph names are dropped from table
'post' unless requested, and tables invalidated by subsetting (e.g. 'DSIG') are
removed. Fonts with CFF outlines keep their outlines unchanged.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package subset

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/npillmayer/schuko/tracing"
	"github.com/xivdyetools/fontsubset/internal/fontload"
	"github.com/xivdyetools/fontsubset/ot"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'fontsubset.subset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.subset")
}

// Result describes a written subset font.
type Result struct {
	Size   int64 // size of the output file in bytes
	Glyphs int   // number of entries in the best character map of the output
}

// DefaultDropTables lists tables which are removed from every subset font.
// They either become invalid by subsetting or are of no use for rendering.
var DefaultDropTables = []string{
	"BASE", "JSTF", "DSIG", "EBDT", "EBLC", "EBSC", "PCLT", "LTSH",
	"Feat", "Glat", "Gloc", "Silf", "Sill",
}

type options struct {
	layoutClosure bool
	notdefOutline bool
	glyphNames    bool
	dropTables    []ot.Tag
	nameOverrides map[uint16]string
}

// Option configures a subsetting operation.
type Option func(*options)

// WithLayoutClosure controls whether glyphs reachable through GSUB lookups are
// retained. Defaults to true.
func WithLayoutClosure(on bool) Option {
	return func(o *options) {
		o.layoutClosure = on
	}
}

// WithNotdefOutline controls whether the outline of glyph 0 (.notdef) is
// retained. Defaults to true.
func WithNotdefOutline(on bool) Option {
	return func(o *options) {
		o.notdefOutline = on
	}
}

// WithGlyphNames keeps glyph names in table 'post'. Defaults to false.
func WithGlyphNames(on bool) Option {
	return func(o *options) {
		o.glyphNames = on
	}
}

// WithDropTables replaces the list of tables to remove.
func WithDropTables(tags ...string) Option {
	return func(o *options) {
		o.dropTables = o.dropTables[:0]
		for _, t := range tags {
			o.dropTables = append(o.dropTables, ot.T(t))
		}
	}
}

// WithNameOverrides overwrites every 'name' record with one of the given name
// IDs after subsetting, on all platforms.
func WithNameOverrides(overrides map[uint16]string) Option {
	return func(o *options) {
		if len(overrides) > 0 {
			o.nameOverrides = maps.Clone(overrides)
		}
	}
}

func defaultOptions() *options {
	o := &options{layoutClosure: true, notdefOutline: true}
	for _, t := range DefaultDropTables {
		o.dropTables = append(o.dropTables, ot.T(t))
	}
	return o
}

// Subset loads the font at inputPath, restricts it to the glyphs reachable
// from codepoints and writes the result to outputPath.
//
// Errors of the font loader, of table rewriting and of writing the output are
// returned to the caller. A partially written output file is not removed.
func Subset(inputPath, outputPath string, codepoints []rune, opts ...Option) (Result, error) {
	f, err := fontload.LoadOpenTypeFont(inputPath)
	if err != nil {
		return Result{}, err
	}
	tracer().Infof("subsetting %s (%s) to %d codepoints", f.Fontname, inputPath, len(codepoints))
	data, err := SubsetFont(f, codepoints, opts...)
	if err != nil {
		return Result{}, fmt.Errorf("subsetting %s: %w", inputPath, err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return Result{}, err
	}
	info, err := os.Stat(outputPath)
	if err != nil {
		return Result{}, err
	}
	glyphs, err := CountMapped(data, codepoints)
	if err != nil {
		return Result{}, fmt.Errorf("re-reading %s: %w", outputPath, err)
	}
	return Result{Size: info.Size(), Glyphs: glyphs}, nil
}

// SubsetFont subsets a loaded font and returns the binary of the new font.
func SubsetFont(f *fontload.ScalableFont, codepoints []rune, opts ...Option) ([]byte, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	p, err := newPlan(f, codepoints, o)
	if err != nil {
		return nil, err
	}
	if err := p.closeOver(); err != nil {
		return nil, err
	}
	out, err := p.apply()
	if err != nil {
		return nil, err
	}
	if o.nameOverrides != nil {
		names, err := overrideNames(out.Table(ot.T("name")), o.nameOverrides)
		if err != nil {
			return nil, err
		}
		out.SetTable(ot.T("name"), names)
	}
	return Encode(out)
}

// CountMapped parses a font binary and counts the codepoints which are mapped
// to a glyph other than .notdef. For a subset font this is the size of its
// best character map.
func CountMapped(font []byte, codepoints []rune) (int, error) {
	f, err := sfnt.Parse(font)
	if err != nil {
		return 0, err
	}
	var buf sfnt.Buffer
	count := 0
	for _, r := range slices.Compact(slices.Sorted(slices.Values(codepoints))) {
		gid, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return 0, err
		}
		if gid != 0 {
			count++
		}
	}
	return count, nil
}

// Subsetter is the narrow interface through which the font subsetting
// collaborator is used.
type Subsetter interface {
	Subset(inputPath, outputPath string, codepoints []rune, nameOverrides map[uint16]string) (Result, error)
}

// Default is the Subsetter of this package, configured with fixed options.
type Default struct {
	Options []Option
}

var _ Subsetter = Default{}

// Subset calls Subset with the configured options and the name overrides.
func (d Default) Subset(inputPath, outputPath string, codepoints []rune, nameOverrides map[uint16]string) (Result, error) {
	opts := append(slices.Clone(d.Options), WithNameOverrides(nameOverrides))
	return Subset(inputPath, outputPath, codepoints, opts...)
}
