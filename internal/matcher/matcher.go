// Package matcher implements the scoring match between a parsed log
// record and the Template Index (spec.md §4.5): literal/placeholder
// interleaving, the weighted acceptance score, and stack-trace frame
// resolution.
package matcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atikulmunna/log2src/internal/index"
	"github.com/atikulmunna/log2src/internal/model"
)

// Options tunes the acceptance threshold and stack-proximity window,
// both configurable per spec.md §4.5 ("defaults subject to tuning").
type Options struct {
	AcceptThreshold float64
	StackProximity  int

	// Verbose, when set, surfaces a mapping's acceptance score (spec.md
	// §7's verbose mode). Left false, Match never populates Score, so
	// the default JSON wire contract carries exactly srcRef/variables/stack.
	Verbose bool
}

// DefaultOptions returns spec.md §4.5's defaults: a 0.5 acceptance
// threshold and a ±5 line stack-proximity window.
func DefaultOptions() Options {
	return Options{AcceptThreshold: 0.5, StackProximity: 5}
}

// Matcher scores LogRecords against a frozen Index.
type Matcher struct {
	idx  *index.Index
	opts Options
	hint StackHinter
}

// StackHinter supplements stack resolution when a record carries no
// exception block at all (see WithCallGraphHints) — an enrichment beyond
// spec.md §4.5's own stack-resolution rules, never consulted when a
// record's Stack field is populated.
type StackHinter interface {
	Hint(srcRef model.SourceRef) []model.SourceRef
}

// New returns a Matcher over idx, which must already be frozen.
func New(idx *index.Index, opts Options) *Matcher {
	return &Matcher{idx: idx, opts: opts}
}

// WithCallGraphHints attaches a StackHinter used only when a matched
// record has no stack trace of its own (internal/callgraph's
// enrichment, supplementing spec.md rather than replacing it).
func (m *Matcher) WithCallGraphHints(h StackHinter) *Matcher {
	m.hint = h
	return m
}

// Match scores rec against every indexed candidate and returns the best
// mapping, or the Unmatched sentinel when no candidate clears the
// acceptance threshold.
func (m *Matcher) Match(rec model.LogRecord) model.LogMapping {
	candidates := m.idx.Lookup(rec.Body)

	var best *model.LogTemplate
	var bestVars map[string]string
	bestScore := -1.0

	for _, cand := range candidates {
		vars, score, ok := matchTemplate(cand, rec)
		if !ok {
			continue
		}
		if score > bestScore || (score == bestScore && lessCandidate(cand, best)) {
			best, bestVars, bestScore = cand, vars, score
		}
	}

	if best == nil || bestScore < m.opts.AcceptThreshold {
		return model.Unmatched()
	}

	mapping := model.LogMapping{
		SrcRef:    best.SrcRef,
		Variables: bestVars,
		Stack:     m.resolveStack(rec, best),
	}
	if m.opts.Verbose {
		mapping.Score = bestScore
	}
	return mapping
}

// lessCandidate breaks a score tie by lower sourcePath, then lower
// lineNumber (spec.md §4.5's tie-break).
func lessCandidate(a, b *model.LogTemplate) bool {
	if b == nil {
		return true
	}
	if a.SrcRef.SourcePath != b.SrcRef.SourcePath {
		return a.SrcRef.SourcePath < b.SrcRef.SourcePath
	}
	return a.SrcRef.LineNumber < b.SrcRef.LineNumber
}

// matchTemplate attempts the literal/placeholder interleaving match
// described in spec.md §4.5 and, on success, its weighted score.
func matchTemplate(t *model.LogTemplate, rec model.LogRecord) (map[string]string, float64, bool) {
	body := rec.Body
	segs := t.Segments

	pos := 0
	consumedLiteral := 0
	plausible := 0
	total := 0
	vars := make(map[string]string)
	argIdx := 0

	i := 0
	for i < len(segs) {
		seg := segs[i]
		if seg.Kind == model.LiteralSegment {
			// The first literal is searched for anywhere in the body, not
			// anchored at pos 0: an unanchored regex search (the ground
			// truth this mirrors) lets arbitrary prefix text precede the
			// first fixed fragment of a template.
			if i == 0 {
				rel := strings.Index(body[pos:], seg.Literal)
				if rel == -1 {
					return nil, 0, false
				}
				pos += rel
			} else if !strings.HasPrefix(body[pos:], seg.Literal) {
				return nil, 0, false
			}
			pos += len(seg.Literal)
			consumedLiteral += len(seg.Literal)
			i++
			continue
		}

		// seg is a placeholder. Bound its capture by the next literal, if
		// any; otherwise it consumes the remainder of the body.
		total++
		var captured string
		if i+1 < len(segs) && segs[i+1].Kind == model.LiteralSegment {
			nextLit := segs[i+1].Literal
			searchFrom := pos + 1
			if nextLit == "" {
				// A degenerate empty literal following a placeholder
				// can't bound anything; fail rather than loop.
				return nil, 0, false
			}
			if searchFrom > len(body) {
				return nil, 0, false
			}
			rel := strings.Index(body[searchFrom:], nextLit)
			if rel == -1 {
				return nil, 0, false
			}
			litStart := searchFrom + rel
			captured = body[pos:litStart]
			pos = litStart + len(nextLit)
			consumedLiteral += len(nextLit)
			i += 2
		} else {
			if pos >= len(body) {
				return nil, 0, false
			}
			captured = body[pos:]
			pos = len(body)
			i++
		}

		if len(captured) < 128 && !strings.Contains(captured, "\n") {
			plausible++
		}
		vars[variableName(seg.Placeholder, argIdx)] = captured
		argIdx++
	}

	// Trailing text after the last segment is left uncovered, the same
	// way the ground truth's unanchored search leaves it unmatched —
	// it counts against literalCoverage below rather than failing the
	// match outright.
	bodyLen := len(body)
	if bodyLen == 0 {
		bodyLen = 1
	}
	literalCoverage := float64(consumedLiteral) / float64(bodyLen)

	placeholderPlausibility := 1.0
	if total > 0 {
		placeholderPlausibility = float64(plausible) / float64(total)
	}

	levelAgreement := 0.0
	if rec.Level != "" && rec.Level == t.Level {
		levelAgreement = 1.0
	}

	score := 0.7*literalCoverage + 0.2*placeholderPlausibility + 0.1*levelAgreement
	return vars, score, true
}

// variableName keys a recovered value by its placeholder's captured
// expression when present, otherwise by positional name (spec.md §4.5
// "Variable naming").
func variableName(p model.Placeholder, argIdx int) string {
	if p.Captured != "" {
		return p.Captured
	}
	return fmt.Sprintf("arg%d", argIdx)
}

// resolveStack resolves every frame of rec's exception chain (and, when
// rec carries none, consults an attached StackHinter as a best-effort
// enrichment) into [][]model.SourceRef, outer cause first.
func (m *Matcher) resolveStack(rec model.LogRecord, matched *model.LogTemplate) [][]model.SourceRef {
	if rec.Stack == nil {
		if m.hint == nil {
			return [][]model.SourceRef{}
		}
		if hinted := m.hint.Hint(matched.SrcRef); len(hinted) > 0 {
			return [][]model.SourceRef{hinted}
		}
		return [][]model.SourceRef{}
	}

	chain := rec.Stack.Chain()
	out := make([][]model.SourceRef, 0, len(chain))
	for _, block := range chain {
		frames := make([]model.SourceRef, 0, len(block.Frames))
		for _, f := range block.Frames {
			frames = append(frames, m.resolveFrame(f))
		}
		out = append(out, frames)
	}
	return out
}

// resolveFrame implements spec.md §4.5's stack-resolution rules (a)-(c).
func (m *Matcher) resolveFrame(f model.Frame) model.SourceRef {
	candidates := m.idx.ByName(f.Method)

	var sameFile []*model.LogTemplate
	for _, c := range candidates {
		if f.File == "" || strings.HasSuffix(c.SrcRef.SourcePath, f.File) {
			sameFile = append(sameFile, c)
		}
	}
	if len(sameFile) == 0 {
		return model.Unresolved(f.File)
	}

	// (b) prefer call sites within the proximity window of the frame's
	// line, closest first.
	if f.Line > 0 {
		type candDist struct {
			t    *model.LogTemplate
			dist int
		}
		var within []candDist
		for _, c := range sameFile {
			d := c.SrcRef.LineNumber - f.Line
			if d < 0 {
				d = -d
			}
			if d <= m.opts.StackProximity {
				within = append(within, candDist{c, d})
			}
		}
		if len(within) > 0 {
			sort.SliceStable(within, func(i, j int) bool { return within[i].dist < within[j].dist })
			return within[0].t.SrcRef
		}
	}

	// (c) fall back to any call site in the same function.
	return sameFile[0].SrcRef
}
