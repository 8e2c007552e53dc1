package ot

import "fmt"

// ErrorSeverity represents the severity level of a font format error.
type ErrorSeverity int

const (
	// SeverityCritical indicates a severe error that makes the font unusable or unreliable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates a significant error that may affect functionality but doesn't prevent usage.
	SeverityMajor
	// SeverityMinor indicates a minor issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// FontError represents an error encountered while reading or rewriting a table.
type FontError struct {
	Table    Tag           // The OpenType table where the error occurred (e.g., "glyf", "GSUB")
	Section  string        // Specific section within the table (e.g., "LookupList", "Coverage")
	Issue    string        // Human-readable description of the issue
	Severity ErrorSeverity // Severity level of the error
	Offset   uint32        // Byte offset in the table where the error occurred (0 if unknown)
}

// Error implements the error interface.
func (e FontError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s/%s at offset %d: %s", e.Severity, e.Table, e.Section, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", e.Severity, e.Table, e.Section, e.Issue)
}

// Errorf creates a critical FontError for a table section.
func Errorf(table Tag, section string, format string, args ...any) FontError {
	return FontError{
		Table:    table,
		Section:  section,
		Issue:    fmt.Sprintf(format, args...),
		Severity: SeverityCritical,
	}
}

// Warning creates a minor FontError. Warnings are traced by clients and do not
// stop processing.
func Warning(table Tag, section string, format string, args ...any) FontError {
	e := Errorf(table, section, format, args...)
	e.Severity = SeverityMinor
	return e
}
