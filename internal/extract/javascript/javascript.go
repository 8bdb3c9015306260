// Package javascript extracts log templates from JavaScript/TypeScript
// source, the back-tick template-literal placeholder family of spec.md
// §4.3 (`` logger.info(`${name} started`) ``). As with the java package, no
// JS-grammar binding exists in the reference corpus, so this extractor
// scans with regexes and a brace-balancing reader instead of a real
// parser — justified in DESIGN.md.
package javascript

import (
	"regexp"
	"strings"

	"github.com/atikulmunna/log2src/internal/model"
)

var levelNames = map[string]string{
	"trace": "TRACE",
	"debug": "DEBUG",
	"log":   "INFO",
	"info":  "INFO",
	"warn":  "WARN",
	"error": "ERROR",
}

// callPattern recognizes `<receiver>.<method>(` for console/log/logger
// receivers, mirroring the original's SourceLanguage::Javascript call-shape
// table (`_examples/original_source/src/lib.rs`).
var callPattern = regexp.MustCompile(`(?i)\b(console|log|logger)\s*\.\s*(log|debug|info|warn|error|trace)\s*\(`)

// funcPattern recognizes both classic function declarations and the
// arrow-function-assigned-to-const shape common in modern JS/TS.
var funcPattern = regexp.MustCompile(`(?:function\s+(\w+)\s*\(|(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s*)?\([^)]*\)\s*=>)`)

// Extractor implements extract.Extractor for JavaScript/TypeScript source.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Extract(src []byte, path string) ([]model.LogTemplate, error) {
	text := string(src)
	funcs := enclosingFunctions(text)

	var templates []model.LogTemplate
	for _, m := range callPattern.FindAllStringSubmatchIndex(text, -1) {
		openParen := m[1] - 1
		lit, _, ok := firstTemplateLiteral(text, openParen+1)
		if !ok {
			continue
		}

		level := levelNames[strings.ToLower(text[m[4]:m[5]])]
		segments := buildSegments(lit)

		line, col := lineCol(text, m[0])
		templates = append(templates, model.NewLogTemplate(model.SourceRef{
			SourcePath: path,
			LineNumber: line,
			Column:     col,
			Name:       enclosingName(funcs, m[0]),
		}, level, segments))
	}
	return templates, nil
}

// firstTemplateLiteral skips leading whitespace from pos and, if the next
// character opens a back-tick template literal, returns its inner text
// (the raw bytes between the back-ticks, `${...}` spans intact) and the
// index just past the closing back-tick.
func firstTemplateLiteral(text string, pos int) (string, int, bool) {
	i := pos
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
		i++
	}
	if i >= len(text) || text[i] != '`' {
		return "", 0, false
	}
	start := i + 1
	depth := 0
	for j := start; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '$':
			if j+1 < len(text) && text[j+1] == '{' {
				depth++
				j++
			}
		case '}':
			if depth > 0 {
				depth--
			}
		case '`':
			if depth == 0 {
				return text[start:j], j + 1, true
			}
		}
	}
	return "", 0, false
}

// buildSegments splits a template literal's raw text on `${...}` spans,
// each becoming a Named placeholder carrying the expression text verbatim.
func buildSegments(text string) []model.Segment {
	var segs []model.Segment
	var lit strings.Builder
	i := 0
	for i < len(text) {
		if text[i] == '\\' && i+1 < len(text) {
			lit.WriteByte(text[i])
			lit.WriteByte(text[i+1])
			i += 2
			continue
		}
		if text[i] == '$' && i+1 < len(text) && text[i+1] == '{' {
			if lit.Len() > 0 {
				segs = append(segs, model.Segment{Kind: model.LiteralSegment, Literal: lit.String()})
				lit.Reset()
			}
			expr, end := scanExpr(text, i+2)
			segs = append(segs, model.Segment{
				Kind: model.PlaceholderSegment,
				Placeholder: model.Placeholder{
					Kind:     model.Named,
					Raw:      "${" + expr + "}",
					Captured: capturedExpr(expr),
				},
			})
			i = end
			continue
		}
		lit.WriteByte(text[i])
		i++
	}
	if lit.Len() > 0 {
		segs = append(segs, model.Segment{Kind: model.LiteralSegment, Literal: lit.String()})
	}
	return segs
}

// scanExpr reads a balanced `{...}` expression starting just past its
// opening brace, returning the inner text and the index just past the
// matching close brace.
func scanExpr(text string, start int) (string, int) {
	depth := 1
	for j := start; j < len(text); j++ {
		switch text[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start:j], j + 1
			}
		}
	}
	return text[start:], len(text)
}

var identPattern = regexp.MustCompile(`^[A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)*$`)

func capturedExpr(raw string) string {
	raw = strings.TrimSpace(raw)
	if identPattern.MatchString(raw) {
		return raw
	}
	return model.TruncateCaptured(raw)
}

func lineCol(text string, pos int) (line, col int) {
	line = 1 + strings.Count(text[:pos], "\n")
	lastNL := strings.LastIndex(text[:pos], "\n")
	col = pos - lastNL
	return
}

type funcSpan struct {
	name  string
	start int
}

func enclosingFunctions(text string) []funcSpan {
	var spans []funcSpan
	for _, m := range funcPattern.FindAllStringSubmatchIndex(text, -1) {
		name := ""
		switch {
		case m[2] != -1:
			name = text[m[2]:m[3]]
		case m[4] != -1:
			name = text[m[4]:m[5]]
		}
		if name != "" {
			spans = append(spans, funcSpan{name: name, start: m[0]})
		}
	}
	return spans
}

func enclosingName(funcs []funcSpan, pos int) string {
	best := ""
	bestStart := -1
	for _, f := range funcs {
		if f.start <= pos && f.start > bestStart {
			best, bestStart = f.name, f.start
		}
	}
	if best == "" {
		return "<module>"
	}
	return best
}
