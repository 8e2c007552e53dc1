package subset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xivdyetools/fontsubset/internal/fontload"
	"github.com/xivdyetools/fontsubset/ot"
	"github.com/xivdyetools/fontsubset/otquery"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

type SubsetTestEnviron struct {
	suite.Suite
	teardown func()
	font     *fontload.ScalableFont
}

func TestSubset(t *testing.T) {
	suite.Run(t, new(SubsetTestEnviron))
}

func (env *SubsetTestEnviron) SetupSuite() {
	env.teardown = gotestingadapter.QuickConfig(env.T(), "fontsubset.subset")
}

func (env *SubsetTestEnviron) TearDownSuite() {
	env.teardown()
}

func (env *SubsetTestEnviron) SetupTest() {
	f, err := fontload.ParseOpenTypeFont(goregular.TTF)
	env.Require().NoError(err)
	env.font = f
}

func (env *SubsetTestEnviron) subset(runes []rune, opts ...Option) *fontload.ScalableFont {
	data, err := SubsetFont(env.font, runes, opts...)
	env.Require().NoError(err)
	out, err := fontload.ParseOpenTypeFont(data)
	env.Require().NoError(err, "subset font must parse")
	return out
}

func (env *SubsetTestEnviron) gid(f *fontload.ScalableFont, r rune) sfnt.GlyphIndex {
	gid, err := f.SFNT.GlyphIndex(nil, r)
	env.Require().NoError(err)
	return gid
}

func (env *SubsetTestEnviron) TestCharacterMap() {
	out := env.subset([]rune("ABC"))
	for _, r := range "ABC" {
		env.Equal(env.gid(env.font, r), env.gid(out, r), "glyph IDs are retained for %q", r)
		env.NotZero(env.gid(out, r))
	}
	env.Zero(env.gid(out, 'Z'))
	env.Zero(env.gid(out, 'a'))
	n, err := CountMapped(out.Binary, []rune("ABCZ"))
	env.NoError(err)
	env.Equal(3, n)
}

func (env *SubsetTestEnviron) TestUnmappedCodepointsAreIgnored() {
	out := env.subset([]rune{'A', 0x4E00, 0xAC00, 0x1F600})
	n, err := CountMapped(out.Binary, []rune{'A', 0x4E00, 0xAC00, 0x1F600})
	env.NoError(err)
	env.Equal(1, n)
}

func (env *SubsetTestEnviron) TestOutlines() {
	out := env.subset([]rune("A"))
	src, err := readGlyf(env.font.OT, env.font.SFNT.NumGlyphs())
	env.Require().NoError(err)
	dst, err := readGlyf(out.OT, out.SFNT.NumGlyphs())
	env.Require().NoError(err)
	env.Equal(env.font.SFNT.NumGlyphs(), out.SFNT.NumGlyphs(), "glyph count is retained")
	a := ot.GlyphIndex(env.gid(env.font, 'A'))
	z := ot.GlyphIndex(env.gid(env.font, 'Z'))
	env.NotEmpty(dst.glyph(a))
	env.True(bytes.HasPrefix(dst.glyph(a), src.glyph(a)))
	env.NotEmpty(src.glyph(z))
	env.Empty(dst.glyph(z))
	env.Equal(len(src.glyph(0)) > 0, len(dst.glyph(0)) > 0, ".notdef outline is kept")
	env.Less(len(out.OT.Table(ot.T("glyf"))), len(env.font.OT.Table(ot.T("glyf"))))
}

func (env *SubsetTestEnviron) TestNotdefOutlineDropped() {
	out := env.subset([]rune("A"), WithNotdefOutline(false))
	dst, err := readGlyf(out.OT, out.SFNT.NumGlyphs())
	env.Require().NoError(err)
	env.Empty(dst.glyph(0))
	env.NotZero(env.gid(out, 'A'))
}

func (env *SubsetTestEnviron) TestComposites() {
	var runes []rune
	for r := rune(0xC0); r <= 0xFF; r++ {
		runes = append(runes, r)
	}
	out := env.subset(runes)
	src, err := readGlyf(env.font.OT, env.font.SFNT.NumGlyphs())
	env.Require().NoError(err)
	dst, err := readGlyf(out.OT, out.SFNT.NumGlyphs())
	env.Require().NoError(err)
	for _, r := range runes {
		g := ot.GlyphIndex(env.gid(env.font, r))
		if g == 0 {
			continue
		}
		comps, err := src.components(g)
		env.Require().NoError(err)
		for _, c := range comps {
			env.True(bytes.HasPrefix(dst.glyph(c), src.glyph(c)), "component %d of %#U", c, r)
		}
	}
}

func (env *SubsetTestEnviron) TestTables() {
	env.font.OT.SetTable(ot.T("DSIG"), []byte{0, 0, 0, 1, 0, 0, 0, 0})
	out := env.subset([]rune("BC"))
	env.False(out.OT.HasTable(ot.T("DSIG")))
	for _, tag := range []string{"cmap", "head", "hhea", "hmtx", "maxp", "name", "post", "glyf", "loca"} {
		env.True(out.OT.HasTable(ot.T(tag)), "table %s", tag)
	}
	post := ot.Segm(out.OT.Table(ot.T("post")))
	env.Equal(postHeaderSize, post.Size())
	env.Equal(uint32(postVersion30), post.U32(0))
	if out.OT.HasTable(ot.T("OS/2")) {
		os2, ok := otquery.OS2Info(out.OT)
		env.Require().True(ok)
		env.Equal(uint16('B'), os2.FirstCharIndex)
		env.Equal(uint16('C'), os2.LastCharIndex)
	}
}

func (env *SubsetTestEnviron) TestGlyphNamesKept() {
	out := env.subset([]rune("A"), WithGlyphNames(true))
	env.Equal(env.font.OT.Table(ot.T("post")), out.OT.Table(ot.T("post")))
}

func (env *SubsetTestEnviron) TestNameOverrides() {
	srcNames := otquery.NameInfo(env.font.OT)
	out := env.subset([]rune("A"), WithNameOverrides(map[uint16]string{
		1: "Noto Sans KR",
		4: "Noto Sans KR Regular",
	}))
	n := 0
	for rec := range otquery.Records(out.OT.Table(ot.T("name"))) {
		switch rec.Name {
		case sfnt.NameIDFamily:
			env.Equal("Noto Sans KR", rec.Value, "platform %d", rec.Platform)
			n++
		case sfnt.NameIDFull:
			env.Equal("Noto Sans KR Regular", rec.Value, "platform %d", rec.Platform)
			n++
		}
	}
	env.Greater(n, 0)
	names := otquery.NameInfo(out.OT)
	env.Equal(srcNames[sfnt.NameIDPostScript], names[sfnt.NameIDPostScript])
	family, err := out.SFNT.Name(nil, sfnt.NameIDFamily)
	env.NoError(err)
	env.Equal("Noto Sans KR", family)
}

func (env *SubsetTestEnviron) TestChecksums() {
	data, err := SubsetFont(env.font, []rune("Hello"))
	env.Require().NoError(err)
	env.Equal(uint32(checkSumMagic), checksum(data))
	dir := ot.Segm(data)
	count := int(dir.U16(4))
	entrySelector := int(dir.U16(8))
	env.Equal(16<<entrySelector, int(dir.U16(6)))
	env.LessOrEqual(1<<entrySelector, count)
	env.Greater(2<<entrySelector, count)
	env.Equal(16*count-int(dir.U16(6)), int(dir.U16(10)))
	for i := 0; i < count; i++ {
		rec := dir[sfntHeaderSize+i*tableRecordSize:]
		tag := ot.Tag(rec.U32(0))
		table, err := dir.View(int(rec.U32(8)), int(rec.U32(12)))
		env.Require().NoError(err)
		if tag == ot.T("head") {
			b := bytes.Clone(table)
			b[8], b[9], b[10], b[11] = 0, 0, 0, 0
			table = b
		}
		env.Equal(checksum(table), rec.U32(4), "checksum of %s", tag)
		env.Zero(int(rec.U32(8))%4, "table %s is aligned", tag)
	}
}

func (env *SubsetTestEnviron) TestSubsetFile() {
	dir := env.T().TempDir()
	in := filepath.Join(dir, "Go-Regular.ttf")
	out := filepath.Join(dir, "Go-Subset.ttf")
	env.Require().NoError(os.WriteFile(in, goregular.TTF, 0o644))
	var subsetter Subsetter = Default{}
	res, err := subsetter.Subset(in, out, []rune("Hello, World!"), map[uint16]string{1: "Go Subset"})
	env.Require().NoError(err)
	info, err := os.Stat(out)
	env.Require().NoError(err)
	env.Equal(info.Size(), res.Size)
	env.Equal(len("Helo, Wrd!"), res.Glyphs)
	env.Less(res.Size, int64(len(goregular.TTF)))
}

func (env *SubsetTestEnviron) TestMissingInput() {
	_, err := Subset(filepath.Join(env.T().TempDir(), "missing.ttf"), "out.ttf", []rune("A"))
	env.Error(err)
	env.True(errors.Is(err, os.ErrNotExist))
}

// --- Composite closure -----------------------------------------------------

func simpleGlyph() []byte {
	return []byte{0, 1, 0, 0, 0, 0, 0, 10, 0, 10, 0, 0}
}

func compositeGlyph(comps ...uint16) []byte {
	w := ot.NewBuilder(32)
	w.U16(0xFFFF) // numberOfContours -1
	w.Write(make([]byte, 8))
	for i, c := range comps {
		flags := uint16(argsAreWords)
		if i < len(comps)-1 {
			flags |= moreComponents
		}
		if i == 0 {
			flags |= haveScale
		}
		w.U16(flags)
		w.U16(c)
		w.U32(0) // arguments
		if i == 0 {
			w.U16(0x4000)
		}
	}
	return w.Bytes()
}

func TestComponentClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.subset")
	defer teardown()
	//
	glyphs := [][]byte{
		simpleGlyph(),
		compositeGlyph(2, 3),
		simpleGlyph(),
		compositeGlyph(4),
		simpleGlyph(),
		simpleGlyph(),
	}
	glyf := &glyfTable{}
	for _, g := range glyphs {
		glyf.offsets = append(glyf.offsets, uint32(len(glyf.data)))
		glyf.data = append(glyf.data, g...)
	}
	glyf.offsets = append(glyf.offsets, uint32(len(glyf.data)))
	comps, err := glyf.components(1)
	require.NoError(t, err)
	assert.Equal(t, []ot.GlyphIndex{2, 3}, comps)
	//
	keep := newGlyphSet(len(glyphs))
	keep.add(1)
	require.NoError(t, glyf.componentClosure(keep))
	assert.Equal(t, []bool{false, true, true, true, true, false}, keep.keep)
	assert.Equal(t, 4, keep.len())
	//
	data, loca, long := glyf.subset(keep)
	assert.False(t, long)
	assert.Len(t, loca, 7*2)
	assert.Equal(t, uint16(0), ot.Segm(loca).U16(2), "glyph 0 is empty")
	assert.Equal(t, 0, len(data)%4)
}

func TestTruncatedComposite(t *testing.T) {
	b := compositeGlyph(2, 3)
	glyf := &glyfTable{data: b[:len(b)-8], offsets: []uint32{0, uint32(len(b) - 8)}}
	_, err := glyf.components(0)
	assert.Error(t, err)
}

func TestPatchHead(t *testing.T) {
	head := make([]byte, 54)
	head[8], head[9] = 0xAB, 0xCD
	patched, err := patchHead(head, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), ot.Segm(patched).U32(otquery.HeadCheckSumAdjustmentOffset))
	assert.Equal(t, uint16(1), ot.Segm(patched).U16(otquery.HeadIndexToLocFormatOffset))
	assert.Equal(t, byte(0xAB), head[8], "input is not modified")
	_, err = patchHead(head[:20], false)
	assert.Error(t, err)
}
