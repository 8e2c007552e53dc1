/*
Package otquery decodes selected OpenType tables into typed views.

Query functions work on the raw bytes of a table, as exposed by package `ot`,
and never modify them. A missing or truncated table is reported by a boolean
result, not by a panic.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package otquery

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontsubset.otquery'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.otquery")
}
