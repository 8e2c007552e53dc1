package otquery

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xivdyetools/fontsubset/internal/fontload"
	"github.com/xivdyetools/fontsubset/ot"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

func loadGoRegular(t *testing.T) *ot.Font {
	f, err := fontload.ParseOpenTypeFont(goregular.TTF)
	require.NoError(t, err)
	return f.OT
}

func TestNameInfo(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.otquery")
	defer teardown()
	//
	otf := loadGoRegular(t)
	names := NameInfo(otf)
	assert.Equal(t, "Go", names[sfnt.NameIDFamily])
	assert.Equal(t, "Regular", names[sfnt.NameIDSubfamily])
	n := 0
	for id, s := range NamesRange(otf) {
		assert.NotEmpty(t, s, "name %d", id)
		n++
	}
	assert.Greater(t, n, 0)
	assert.Empty(t, NameInfo(nil))
}

func TestHeadAndMaxP(t *testing.T) {
	otf := loadGoRegular(t)
	head, ok := HeadInfo(otf)
	require.True(t, ok)
	assert.Equal(t, uint32(HeadMagicNumber), head.MagicNumber)
	assert.NotZero(t, head.UnitsPerEm)
	maxp, ok := MaxPInfo(otf)
	require.True(t, ok)
	assert.True(t, maxp.IsTrueType())
	assert.Greater(t, int(maxp.NumGlyphs), 100)
	_, ok = HeadInfo(ot.NewFont(ot.FontTypeTrueType))
	assert.False(t, ok)
	_, ok = MaxPInfo(nil)
	assert.False(t, ok)
}

func TestFontType(t *testing.T) {
	otf := ot.NewFont(ot.FontTypeTrueType)
	assert.Equal(t, "TrueType", FontType(otf))
	otf.SetTable(ot.T("fvar"), []byte{0, 1})
	assert.Equal(t, "TrueType, variable", FontType(otf))
	assert.Equal(t, "OpenType (CFF)", FontType(ot.NewFont(ot.FontTypeCFF)))
}

func TestEncodeName(t *testing.T) {
	b, err := EncodeName(PlatformIDWindows, EncodingIDWindowsBMP, "한")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xD5, 0x5C}, b)
	b, err = EncodeName(PlatformIDMacintosh, EncodingIDMacRoman, "é")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x8E}, b)
	_, err = EncodeName(PlatformIDWindows, EncodingIDWindowsSymbol, "x")
	assert.Error(t, err)
	_, err = EncodeName(PlatformIDMacintosh, EncodingIDMacRoman, "한")
	assert.Error(t, err, "Mac Roman cannot represent Hangul")
}

func TestRecordsSkipsBrokenTables(t *testing.T) {
	n := 0
	for range Records([]byte{0, 0, 0, 5, 0, 6}) {
		n++
	}
	assert.Zero(t, n)
}
