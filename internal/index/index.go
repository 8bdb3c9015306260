// Package index implements the Template Index (spec.md §4.4): a
// literal-prefix-bucketed lookup over extracted log templates, with a
// dynamic-first fallback bucket for templates whose first segment is a
// placeholder.
//
// Lifecycle is create → populate → freeze → query → drop (spec.md §9,
// §5): build with New, populate with Add, call Freeze once extraction
// is complete, then Lookup/ByName are safe for concurrent readers.
package index

import (
	"sort"
	"strings"

	"github.com/atikulmunna/log2src/internal/model"
)

// Index holds templates bucketed for retrieval. The zero value is not
// usable; construct with New.
type Index struct {
	byPrefix     map[string][]*model.LogTemplate
	dynamicFirst []*model.LogTemplate
	byName       map[string][]*model.LogTemplate
	all          []*model.LogTemplate
	frozen       bool
}

// New returns an empty, unfrozen Index.
func New() *Index {
	return &Index{
		byPrefix: make(map[string][]*model.LogTemplate),
		byName:   make(map[string][]*model.LogTemplate),
	}
}

// Add registers a template. Add panics if called after Freeze — the
// index is populate-then-freeze, not append-while-read (spec.md §5).
func (idx *Index) Add(t *model.LogTemplate) {
	if idx.frozen {
		panic("index: Add called on a frozen Index")
	}
	if t.DynamicFirst() {
		idx.dynamicFirst = append(idx.dynamicFirst, t)
	} else {
		idx.byPrefix[t.LiteralPrefix] = append(idx.byPrefix[t.LiteralPrefix], t)
	}
	idx.byName[t.SrcRef.Name] = append(idx.byName[t.SrcRef.Name], t)
	idx.all = append(idx.all, t)
}

// AddAll registers every template in ts.
func (idx *Index) AddAll(ts []model.LogTemplate) {
	for i := range ts {
		idx.Add(&ts[i])
	}
}

// Freeze fixes bucket ordering and forbids further Add calls. Extraction
// fans out over a worker pool (internal/extract), so insertion order
// reflects goroutine scheduling, not source position — Freeze imposes
// the (sourcePath, lineNumber) ordering spec.md §4.4 requires of any
// derived/merged traversal by sorting every bucket once, up front,
// rather than re-sorting on every Lookup.
func (idx *Index) Freeze() {
	if idx.frozen {
		return
	}
	for k := range idx.byPrefix {
		sortByLocation(idx.byPrefix[k])
	}
	for k := range idx.byName {
		sortByLocation(idx.byName[k])
	}
	sortByLocation(idx.dynamicFirst)
	sortByLocation(idx.all)
	idx.frozen = true
}

func sortByLocation(ts []*model.LogTemplate) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := ts[i].SrcRef, ts[j].SrcRef
		if a.SourcePath != b.SourcePath {
			return a.SourcePath < b.SourcePath
		}
		return a.LineNumber < b.LineNumber
	})
}

// Lookup returns candidate templates for a record body: the bucket for
// the longest registered literal prefix of body, or — when no prefix
// matches — the dynamic-first bucket plus any template whose literal
// tokens occur as a substring of body (spec.md §4.4 step 2).
func (idx *Index) Lookup(body string) []*model.LogTemplate {
	if key, ok := idx.longestPrefixKey(body); ok {
		return idx.byPrefix[key]
	}

	seen := make(map[*model.LogTemplate]bool, len(idx.dynamicFirst))
	out := make([]*model.LogTemplate, 0, len(idx.dynamicFirst))
	for _, t := range idx.dynamicFirst {
		seen[t] = true
		out = append(out, t)
	}
	for _, t := range idx.all {
		if seen[t] {
			continue
		}
		if fingerprintSubstringMatch(t.StableFingerprint, body) {
			seen[t] = true
			out = append(out, t)
		}
	}
	if !idx.frozen {
		sortByLocation(out)
	}
	return out
}

func (idx *Index) longestPrefixKey(body string) (string, bool) {
	best := ""
	found := false
	for key := range idx.byPrefix {
		if key == "" || len(key) <= len(best) {
			continue
		}
		if strings.HasPrefix(body, key) {
			best, found = key, true
		}
	}
	return best, found
}

func fingerprintSubstringMatch(fingerprint, body string) bool {
	for _, tok := range strings.Split(fingerprint, "\x00") {
		if tok != "" && strings.Contains(body, tok) {
			return true
		}
	}
	return false
}

// ByName returns every template whose enclosing name (spec.md §3's
// SourceRef.name) equals name, in (sourcePath, lineNumber) order once
// frozen — the grouping the matcher's stack resolution (spec.md §4.5
// rules a-c) searches within.
func (idx *Index) ByName(name string) []*model.LogTemplate {
	return idx.byName[name]
}

// All returns every registered template, in (sourcePath, lineNumber)
// order once frozen.
func (idx *Index) All() []*model.LogTemplate {
	return idx.all
}

// Len reports how many templates are registered.
func (idx *Index) Len() int {
	return len(idx.all)
}
