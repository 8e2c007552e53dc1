package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
	"github.com/xivdyetools/fontsubset/internal/fontload"
	"github.com/xivdyetools/fontsubset/otquery"
	"github.com/xivdyetools/fontsubset/subset"
	"golang.org/x/image/font/sfnt"
)

func runFontCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setTraceLevel(mustFlagString(flags["trace"], "trace"))
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	f, err := fontload.LoadOpenTypeFont(fontPath)
	if err != nil {
		fatalf("cannot load font %s: %v", fontPath, err)
	}

	fmt.Printf("Path: %s\n", fontPath)
	fmt.Printf("Type: %s\n", otquery.FontType(f.OT))
	names := otquery.NameInfo(f.OT)
	for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDSubfamily, sfnt.NameIDFull,
		sfnt.NameIDPostScript, sfnt.NameIDVersion} {
		if s := names[id]; s != "" {
			fmt.Printf("Name %d: %s\n", id, s)
		}
	}
	if maxp, ok := otquery.MaxPInfo(f.OT); ok {
		fmt.Printf("Glyphs: %d\n", maxp.NumGlyphs)
	}
	if head, ok := otquery.HeadInfo(f.OT); ok {
		fmt.Printf("Units per em: %d\n", head.UnitsPerEm)
	}
	tags := f.OT.TableTags()
	fmt.Printf("Tables (%d):", len(tags))
	for _, tag := range tags {
		fmt.Printf(" %s", tag.String())
	}
	fmt.Println()

	text := optionalFlag(flags["text"], "text")
	if text == "" {
		return
	}
	mapped, err := subset.CountMapped(f.Binary, []rune(text))
	if err != nil {
		fatalf("cannot read character map: %v", err)
	}
	var missing []string
	var buf sfnt.Buffer
	for _, r := range text {
		if gid, err := f.SFNT.GlyphIndex(&buf, r); err == nil && gid == 0 {
			missing = append(missing, fmt.Sprintf("%U", r))
		}
	}
	fmt.Printf("Mapped: %d distinct characters\n", mapped)
	if len(missing) > 0 {
		pterm.Error.Printf("not mapped: %s\n", strings.Join(missing, " "))
	}
}
