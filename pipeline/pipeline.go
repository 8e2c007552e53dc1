/*
Package pipeline creates the CJK subset fonts of the Discord worker.

A run collects the codepoints of all locale files, reports statistics about
them and then subsets two fonts to these codepoints:

▪︎ Noto Sans SC, which has to be present in the fonts folder,

▪︎ Noto Sans KR, which is looked up under several file names and downloaded
if none of them exists. Its name records are normalized, as the source is a
variable font.

Outputs are written next to the sources. Nothing is rolled back if a later
step fails.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/npillmayer/schuko/tracing"
	"github.com/xivdyetools/fontsubset/charstats"
	"github.com/xivdyetools/fontsubset/internal/fetch"
	"github.com/xivdyetools/fontsubset/locale"
	"github.com/xivdyetools/fontsubset/subset"
)

// tracer writes to trace with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}

// ErrMissingPrimaryFont is returned if the Noto Sans SC source font does not
// exist. No output is written in this case.
var ErrMissingPrimaryFont = errors.New("primary font not found")

// Font file names within the fonts folder.
const (
	SCInput  = "NotoSansSC-Regular.ttf"
	SCOutput = "NotoSansSC-Subset.ttf"
	KROutput = "NotoSansKR-Subset.ttf"
)

// KRCandidates are the file names probed for the Noto Sans KR source, in
// order. A downloaded font is stored under the first one.
var KRCandidates = []string{
	"NotoSansKR-Variable.ttf",
	"NotoSansKR[wght].ttf",
	"NotoSansKR-Regular.ttf",
}

// KRNameFixes replace the names of the variable font's default instance.
var KRNameFixes = map[uint16]string{
	1: "Noto Sans KR",
	2: "Regular",
	4: "Noto Sans KR Regular",
	6: "NotoSansKR-Regular",
}

// DownloadFunc stores the resource at url in file dest and returns its size.
type DownloadFunc func(ctx context.Context, url, dest string) (int64, error)

// Deps are the collaborators of a run. Zero values are replaced by defaults:
// the subsetter of package subset, an HTTP download and standard output.
type Deps struct {
	Subsetter subset.Subsetter
	Download  DownloadFunc
	Out       io.Writer
}

func (deps Deps) withDefaults() Deps {
	if deps.Subsetter == nil {
		deps.Subsetter = subset.Default{}
	}
	if deps.Download == nil {
		deps.Download = func(ctx context.Context, url, dest string) (int64, error) {
			return fetch.Download(ctx, http.DefaultClient, url, dest)
		}
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	return deps
}

// Run executes the complete pipeline.
func Run(ctx context.Context, cfg Config, deps Deps) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	deps = deps.withDefaults()
	out := deps.Out
	//
	fmt.Fprintln(out, "Collecting characters from all locale files...")
	sources := []locale.Source{
		{Label: "Core", Dir: cfg.CoreLocalesDir},
		{Label: "Bot", Dir: cfg.BotLocalesDir},
	}
	set, err := locale.Collect(sources, cfg.Languages, progress{out})
	if err != nil {
		return err
	}
	codepoints := set.Sorted()
	stats := charstats.Compute(codepoints)
	if err := stats.Print(out); err != nil {
		return err
	}
	//
	scInput := filepath.Join(cfg.FontsDir, SCInput)
	if !exists(scInput) {
		fmt.Fprintf(out, "\nError: %s not found.\n", scInput)
		fmt.Fprintf(out, "Download Noto Sans SC Regular from: %s\n", SCFontGuideURL)
		return fmt.Errorf("%w: %s", ErrMissingPrimaryFont, scInput)
	}
	fmt.Fprintln(out, "\n--- Noto Sans SC ---")
	sc, err := subsetFont(out, deps.Subsetter, scInput, filepath.Join(cfg.FontsDir, SCOutput), codepoints, nil)
	if err != nil {
		return err
	}
	//
	krInput, found := findFirst(cfg.FontsDir, KRCandidates)
	if !found {
		fmt.Fprintln(out, "\nNoto Sans KR source not found. Downloading...")
		n, err := deps.Download(ctx, cfg.KRFontURL, krInput)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", krInput, err)
		}
		fmt.Fprintf(out, "Downloaded: %s\n", kib(n))
	}
	fmt.Fprintln(out, "\n--- Noto Sans KR ---")
	kr, err := subsetFont(out, deps.Subsetter, krInput, filepath.Join(cfg.FontsDir, KROutput), codepoints, KRNameFixes)
	if err != nil {
		return err
	}
	//
	fmt.Fprintf(out, "\nTotal CJK font overhead: %s\n", kib(sc.Size+kr.Size))
	fmt.Fprintln(out, "Done! Commit the updated subset files to the repository.")
	return nil
}

func subsetFont(out io.Writer, s subset.Subsetter, input, output string, codepoints []rune,
	names map[uint16]string) (subset.Result, error) {
	//
	info, err := os.Stat(input)
	if err != nil {
		return subset.Result{}, err
	}
	fmt.Fprintf(out, "Input: %s\n", kib(info.Size()))
	res, err := s.Subset(input, output, codepoints, names)
	if err != nil {
		return res, err
	}
	fmt.Fprintf(out, "Output: %s (%d glyphs)\n", kib(res.Size), res.Glyphs)
	tracer().Infof("wrote %s", output)
	return res, nil
}

// findFirst returns the path of the first existing file among names. If none
// exists, the path of the first name is returned.
func findFirst(dir string, names []string) (string, bool) {
	for _, name := range names {
		if p := filepath.Join(dir, name); exists(p) {
			return p, true
		}
	}
	return filepath.Join(dir, names[0]), false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func kib(n int64) string {
	return fmt.Sprintf("%.1f KiB", float64(n)/1024)
}

// progress reports locale files as they are collected.
type progress struct {
	out io.Writer
}

func (p progress) Loaded(label, file string) {
	fmt.Fprintf(p.out, "  %-4s %s: loaded\n", label, file)
}

func (p progress) Skipped(label, file string) {
	fmt.Fprintf(p.out, "  %-4s %s: not found (skipped)\n", label, file)
}
