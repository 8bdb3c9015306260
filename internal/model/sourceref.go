// Package model holds the data types shared by every log2src subsystem:
// source references, log templates, parsed log records, and the mappings
// the matcher produces between them.
package model

import "fmt"

// SourceRef identifies a single point in a source tree: the file, the
// 1-based line and column of a call site, and the name of its enclosing
// function, method, or (for top-level calls) module/file.
type SourceRef struct {
	SourcePath string `json:"sourcePath"`
	LineNumber int    `json:"lineNumber"`
	Column     int    `json:"column"`
	Name       string `json:"name"`
}

// UnresolvedName and UnresolvedLine are the sentinel values a SourceRef
// takes when a stack frame could not be resolved to a source location.
// spec.md §3 requires these over an unresolved sourcePath.
const (
	UnresolvedName = "???"
	UnresolvedLine = -1
)

// Unresolved reports a sentinel SourceRef anchored at sourcePath (which may
// itself be empty when even the file is unknown).
func Unresolved(sourcePath string) SourceRef {
	return SourceRef{
		SourcePath: sourcePath,
		LineNumber: UnresolvedLine,
		Column:     0,
		Name:       UnresolvedName,
	}
}

// IsResolved reports whether the reference names a real location.
func (s SourceRef) IsResolved() bool {
	return s.Name != UnresolvedName && s.LineNumber != UnresolvedLine
}

func (s SourceRef) String() string {
	return fmt.Sprintf("%s:%d:%d (%s)", s.SourcePath, s.LineNumber, s.Column, s.Name)
}
