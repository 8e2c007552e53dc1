package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// Default locations and sources.
const (
	DefaultKRFontURL = "https://github.com/google/fonts/raw/main/ofl/notosanskr/NotoSansKR%5Bwght%5D.ttf"
	SCFontGuideURL   = "https://fonts.google.com/noto/specimen/Noto+Sans+SC"
)

// DefaultLanguages are the locales of the worker which carry CJK text or
// accented Latin text.
var DefaultLanguages = []string{"ja", "ko", "zh", "de", "fr"}

// Config locates the inputs and outputs of a run.
type Config struct {
	WorkerRoot     string   // root folder of the Discord worker
	CoreLocalesDir string   // locale files of the core library (dye names etc.)
	BotLocalesDir  string   // locale files of the bot UI
	FontsDir       string   // source fonts and subset outputs
	Languages      []string // language codes, one locale file per code and directory
	KRFontURL      string   // download location of the Korean variable font
}

// DefaultConfig derives all locations from the worker root. The core library
// is expected as a sibling of the worker.
func DefaultConfig(workerRoot string) Config {
	projectRoot := filepath.Dir(workerRoot)
	return Config{
		WorkerRoot:     workerRoot,
		CoreLocalesDir: filepath.Join(projectRoot, "xivdyetools-core", "src", "data", "locales"),
		BotLocalesDir:  filepath.Join(workerRoot, "src", "locales"),
		FontsDir:       filepath.Join(workerRoot, "src", "fonts"),
		Languages:      append([]string(nil), DefaultLanguages...),
		KRFontURL:      DefaultKRFontURL,
	}
}

// Validate checks that all locations are set and every language code is a
// well-formed BCP 47 tag.
func (cfg Config) Validate() error {
	if cfg.FontsDir == "" || cfg.CoreLocalesDir == "" || cfg.BotLocalesDir == "" {
		return errors.New("configuration: locale and font directories must be set")
	}
	if cfg.KRFontURL == "" {
		return errors.New("configuration: download URL for Noto Sans KR must be set")
	}
	if len(cfg.Languages) == 0 {
		return errors.New("configuration: no languages given")
	}
	for _, code := range cfg.Languages {
		if _, err := language.Parse(code); err != nil {
			return fmt.Errorf("configuration: invalid language code %q: %w", code, err)
		}
	}
	return nil
}

// ParseLanguages splits a comma or space separated list of language codes.
func ParseLanguages(s string) ([]string, error) {
	codes := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(codes) == 0 {
		return nil, errors.New("empty language list")
	}
	for _, code := range codes {
		if _, err := language.Parse(code); err != nil {
			return nil, fmt.Errorf("invalid language code %q: %w", code, err)
		}
	}
	return codes, nil
}
