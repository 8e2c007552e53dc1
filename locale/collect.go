/*
Package locale collects the characters used by the localization files of the
Discord worker.

Locale documents are JSON files named after a language code, e.g. "ja.json",
located in one or more locale roots. Every string value of a document,
regardless of its nesting depth, contributes its characters to a
CodepointSet. Object keys and non-string values (numbers, booleans, null)
contribute nothing.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package locale

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsubset.locale'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.locale")
}

// Source is a directory holding one JSON document per language.
type Source struct {
	Label string // short name used in progress output, e.g. "Core"
	Dir   string
}

// Reporter receives progress for every locale file considered by Collect.
type Reporter interface {
	Loaded(label, file string)
	Skipped(label, file string)
}

// Collect loads `<dir>/<lang>.json` for every source and language, in that
// order, and returns the union of all characters found, seeded with printable
// ASCII. A missing file is reported and skipped. A file which exists but
// cannot be read or decoded is an error.
func Collect(sources []Source, langs []string, report Reporter) (*CodepointSet, error) {
	set := NewCodepointSet()
	for _, src := range sources {
		for _, lang := range langs {
			file := lang + ".json"
			path := filepath.Join(src.Dir, file)
			doc, err := Load(path)
			if errors.Is(err, fs.ErrNotExist) {
				tracer().Debugf("%s locale %s not found", src.Label, path)
				if report != nil {
					report.Skipped(src.Label, file)
				}
				continue
			} else if err != nil {
				return set, err
			}
			Walk(doc, set)
			tracer().Debugf("%s locale %s: %d codepoints so far", src.Label, path, set.Len())
			if report != nil {
				report.Loaded(src.Label, file)
			}
		}
	}
	return set, nil
}

// Load reads and decodes a single locale document.
func Load(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var doc any
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding locale file %s: %w", path, err)
	}
	return doc, nil
}

// Walk visits every string in a decoded JSON document and adds its characters
// to set.
func Walk(doc any, set *CodepointSet) {
	switch v := doc.(type) {
	case string:
		set.AddString(v)
	case map[string]any:
		for _, child := range v {
			Walk(child, set)
		}
	case []any:
		for _, child := range v {
			Walk(child, set)
		}
	}
}
