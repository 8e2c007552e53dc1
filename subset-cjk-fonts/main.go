package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
	"github.com/xivdyetools/fontsubset/pipeline"
)

// tracer traces with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}

// tracerKeys lists the trace keys of all packages of this module.
var tracerKeys = []string{
	"fontsubset",
	"fontsubset.locale",
	"fontsubset.charstats",
	"fontsubset.subset",
	"fontsubset.fontload",
	"fontsubset.fetch",
	"fontsubset.ot",
	"fontsubset.otquery",
}

func main() {
	initDisplay()
	initTracing()

	commando.
		SetExecutableName("subset-cjk-fonts").
		SetVersion("v1.0.0").
		SetDescription("Creates subsets of the CJK fonts of the Discord worker, restricted to the characters of all locale files.")

	commando.
		Register(nil).
		AddFlag("root,r", "root folder of the Discord worker", commando.String, ".").
		AddFlag("core-locales", "locale folder of the core library (default <root>/../xivdyetools-core/src/data/locales)", commando.String, "-").
		AddFlag("bot-locales", "locale folder of the bot (default <root>/src/locales)", commando.String, "-").
		AddFlag("fonts,f", "folder of source and subset fonts (default <root>/src/fonts)", commando.String, "-").
		AddFlag("langs,l", "language codes of locale files, comma separated", commando.String, strings.Join(pipeline.DefaultLanguages, ",")).
		AddFlag("kr-url", "download location of the Noto Sans KR variable font", commando.String, pipeline.DefaultKRFontURL).
		AddFlag("trace,t", "trace level [Debug|Info|Error]", commando.String, "Error").
		SetAction(runSubsetCommand)

	commando.
		Register("font").
		SetDescription("Print names, glyph count and tables of a font, optionally checking which characters it maps.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "OpenType font file path", "").
		AddFlag("text,x", "characters to check against the font's character map", commando.String, "-").
		AddFlag("trace,t", "trace level [Debug|Info|Error]", commando.String, "Error").
		SetAction(runFontCommand)

	commando.Parse(nil)
}

func runSubsetCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setTraceLevel(mustFlagString(flags["trace"], "trace"))
	root, err := filepath.Abs(mustFlagString(flags["root"], "root"))
	if err != nil {
		fatalf("invalid --root: %v", err)
	}
	cfg := pipeline.DefaultConfig(root)
	if dir := optionalFlag(flags["core-locales"], "core-locales"); dir != "" {
		cfg.CoreLocalesDir = dir
	}
	if dir := optionalFlag(flags["bot-locales"], "bot-locales"); dir != "" {
		cfg.BotLocalesDir = dir
	}
	if dir := optionalFlag(flags["fonts"], "fonts"); dir != "" {
		cfg.FontsDir = dir
	}
	if cfg.Languages, err = pipeline.ParseLanguages(mustFlagString(flags["langs"], "langs")); err != nil {
		fatalf("invalid --langs: %v", err)
	}
	cfg.KRFontURL = mustFlagString(flags["kr-url"], "kr-url")
	tracer().Infof("worker root is %s", cfg.WorkerRoot)

	err = pipeline.Run(context.Background(), cfg, pipeline.Deps{})
	if errors.Is(err, pipeline.ErrMissingPrimaryFont) {
		pterm.Error.Println("Noto Sans SC is required, see above")
		os.Exit(1)
	} else if err != nil {
		fatalf("%v", err)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func initTracing() {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range tracerKeys {
		conf["trace."+key] = "Error"
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

func setTraceLevel(level string) {
	l := tracing.LevelError
	switch level {
	case "Debug":
		l = tracing.LevelDebug
	case "Info":
		l = tracing.LevelInfo
	case "Error":
	default:
		fatalf("invalid trace level: %s", level)
	}
	for _, key := range tracerKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
	tracer().Infof("Trace level is %s", level)
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return strings.TrimSpace(s)
}

// optionalFlag returns the value of a string flag, with "-" denoting an unset
// flag.
func optionalFlag(flag commando.FlagValue, name string) string {
	if s := mustFlagString(flag, name); s != "-" {
		return s
	}
	return ""
}

func fatalf(format string, args ...interface{}) {
	pterm.Error.Printf("subset-cjk-fonts: "+format+"\n", args...)
	os.Exit(1)
}
