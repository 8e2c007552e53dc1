package charstats

import (
	"bytes"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ascii() []rune {
	var runes []rune
	for r := rune(0x20); r <= 0x7E; r++ {
		runes = append(runes, r)
	}
	return runes
}

func TestGreetingScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.charstats")
	defer teardown()
	//
	stats := Compute(append(ascii(), 0x60A8, 0x597D, 0xC548, 0xB155))
	assert.Equal(t, 99, stats.Total)
	assert.Equal(t, 95, stats.Count("ASCII"))
	assert.Equal(t, 2, stats.Count("CJK Unified"))
	assert.Equal(t, 2, stats.Count("Hangul"))
	assert.Equal(t, 0, stats.Count("Katakana"))
	assert.Equal(t, 0, stats.Count("Hiragana"))
	assert.Equal(t, 0, stats.Other)
}

func TestBucketsSumToTotal(t *testing.T) {
	inputs := [][]rune{
		nil,
		ascii(),
		{'ア', 'あ', 'é', '€', 0x1F600, 0x09, 0x7F, 0x3040, 0x309F, 0x30A0, 0x30FF, 0x4E00, 0x9FFF, 0xAC00, 0xD7AF},
		{0x3400, 0xD7B0, 0x2E80},
	}
	for _, in := range inputs {
		stats := Compute(in)
		sum := stats.Other
		for _, n := range stats.Counts {
			sum += n
		}
		assert.Equal(t, stats.Total, sum, "buckets must add up for %v", in)
		assert.GreaterOrEqual(t, stats.Other, 0)
	}
}

func TestBlockBoundaries(t *testing.T) {
	stats := Compute([]rune{0x3040, 0x309F, 0x30A0, 0x30FF, 0x4E00, 0x9FFF, 0xAC00, 0xD7AF, 0x1F, 0x7F})
	assert.Equal(t, 2, stats.Count("Hiragana"))
	assert.Equal(t, 2, stats.Count("Katakana"))
	assert.Equal(t, 2, stats.Count("CJK Unified"))
	assert.Equal(t, 2, stats.Count("Hangul"))
	assert.Equal(t, 0, stats.Count("ASCII"))
	assert.Equal(t, 2, stats.Other)
}

func TestOtherSample(t *testing.T) {
	stats := Compute([]rune{'A', 'é', '€'})
	sample := stats.OtherSample(1)
	require.Len(t, sample, 1)
	assert.Equal(t, "U+00E9 LATIN SMALL LETTER E WITH ACUTE", sample[0])
	assert.Len(t, stats.OtherSample(10), 2)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	stats := Compute(append(ascii(), 'ア'))
	require.NoError(t, stats.Print(&buf))
	out := buf.String()
	assert.Contains(t, out, "Total codepoints: 96")
	assert.Contains(t, out, "Katakana")
	assert.Contains(t, out, "Other")
}
