package locale

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type CollectTestEnviron struct {
	suite.Suite
	core string
	bot  string
}

// listen for 'go test' command --> run test methods
func TestCollectFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.locale")
	defer teardown()
	suite.Run(t, new(CollectTestEnviron))
}

// run before each test method
func (env *CollectTestEnviron) SetupTest() {
	env.core = env.T().TempDir()
	env.bot = env.T().TempDir()
}

type recorder struct {
	loaded, skipped []string
}

func (r *recorder) Loaded(label, file string)  { r.loaded = append(r.loaded, label+" "+file) }
func (r *recorder) Skipped(label, file string) { r.skipped = append(r.skipped, label+" "+file) }

func (env *CollectTestEnviron) write(dir, name, content string) {
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
	env.Require().NoError(err)
}

func (env *CollectTestEnviron) sources() []Source {
	return []Source{{Label: "Core", Dir: env.core}, {Label: "Bot", Dir: env.bot}}
}

// --- Tests -----------------------------------------------------------------

func (env *CollectTestEnviron) TestGreetingScenario() {
	env.write(env.core, "zh.json", `{"greeting": "您好"}`)
	env.write(env.bot, "ko.json", `{"greeting": "안녕"}`)
	rec := &recorder{}
	set, err := Collect(env.sources(), []string{"zh", "ko"}, rec)
	env.Require().NoError(err)
	for _, r := range []rune{0x60A8, 0x597D, 0xC548, 0xB155} {
		env.True(set.Contains(r), "expected %#U in collected set", r)
	}
	env.Equal(int(ASCIILast-ASCIIFirst+1)+4, set.Len())
	env.Equal([]string{"Core zh.json", "Bot ko.json"}, rec.loaded)
	env.Equal([]string{"Core ko.json", "Bot zh.json"}, rec.skipped)
}

func (env *CollectTestEnviron) TestNestedStructures() {
	env.write(env.core, "ja.json", `{
		"dyes": [{"name": "ア", "tags": ["い", ["う"]]}],
		"count": 12, "flag": true, "none": null,
		"キー": "x"
	}`)
	set, err := Collect(env.sources(), []string{"ja"}, nil)
	env.Require().NoError(err)
	env.True(set.Contains('ア'))
	env.True(set.Contains('い'))
	env.True(set.Contains('う'))
	env.False(set.Contains('キ'), "object keys must not contribute")
	env.Equal(int(ASCIILast-ASCIIFirst+1)+3, set.Len())
}

func (env *CollectTestEnviron) TestMissingFilesAreSkipped() {
	rec := &recorder{}
	set, err := Collect(env.sources(), []string{"de", "fr"}, rec)
	env.Require().NoError(err)
	env.Len(rec.skipped, 4)
	env.Empty(rec.loaded)
	env.Equal(int(ASCIILast-ASCIIFirst+1), set.Len())
}

func (env *CollectTestEnviron) TestMalformedFileIsAnError() {
	env.write(env.bot, "fr.json", `{"broken": `)
	_, err := Collect(env.sources(), []string{"fr"}, nil)
	env.Error(err)
	env.Contains(err.Error(), "fr.json")
}

// --- Plain tests ------------------------------------------------------------

func TestEmptyDocumentsKeepASCII(t *testing.T) {
	set := NewCodepointSet()
	Walk(map[string]any{}, set)
	Walk([]any{}, set)
	Walk(nil, set)
	Walk(3.5, set)
	for r := ASCIIFirst; r <= ASCIILast; r++ {
		require.True(t, set.Contains(r), "expected %#U in seeded set", r)
	}
	assert.Equal(t, 95, set.Len())
}

func TestSortedAndUnion(t *testing.T) {
	a := NewCodepointSet()
	a.AddString("한")
	b := NewCodepointSet()
	b.AddString("漢")
	a.Union(b)
	sorted := a.Sorted()
	require.Len(t, sorted, 97)
	assert.Equal(t, ASCIIFirst, sorted[0])
	assert.Equal(t, '漢', sorted[95])
	assert.Equal(t, '한', sorted[96])
}
