// Package java extracts log templates from Java source, the curly-brace
// interpolation family of spec.md §4.3 (slf4j/log4j-style `log.info("{}
// started", name)`). No tree-sitter (or other Java-grammar) binding exists
// in the reference corpus, so this extractor uses a small brace-balancing
// scanner instead of a real parser — justified in DESIGN.md — grounded on
// the same call-shape table the original Rust tool's tree-sitter query
// encoded (`_examples/original_source/src/lib.rs`'s SourceLanguage::Java).
package java

import (
	"regexp"
	"strings"

	"github.com/atikulmunna/log2src/internal/model"
)

var levelNames = map[string]string{
	"fine":  "TRACE",
	"trace": "TRACE",
	"debug": "DEBUG",
	"info":  "INFO",
	"warn":  "WARN",
	"error": "ERROR",
}

// callPattern recognizes `<receiver>.<method>(` where the receiver looks
// like a logger identifier, mirroring the original's
// `#match? @object-name "log(ger)?|LOG(GER)?"` constraint.
var callPattern = regexp.MustCompile(`(?i)\b(log|logger)\s*\.\s*(fine|debug|info|warn|trace|error)\s*\(`)

var funcPattern = regexp.MustCompile(`\b(?:[\w<>\[\],\s]+?)\s+(\w+)\s*\([^;{}]*\)\s*(?:throws[\w.,\s]+)?\{`)

// Extractor implements extract.Extractor for Java source files.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Extract(src []byte, path string) ([]model.LogTemplate, error) {
	text := string(src)
	funcs := enclosingFunctions(text)

	var templates []model.LogTemplate
	for _, m := range callPattern.FindAllStringSubmatchIndex(text, -1) {
		openParen := m[1] - 1 // index of the '(' just matched
		args, _, ok := splitArgs(text, openParen)
		if !ok || len(args) == 0 {
			continue
		}
		lit, ok := unquote(strings.TrimSpace(args[0]))
		if !ok {
			continue
		}

		level := levelNames[strings.ToLower(text[m[4]:m[5]])]
		segments := buildSegments(lit, args[1:])

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

// splitArgs scans a balanced argument list starting at the '(' index
// openParen, honoring quoted strings, and returns the raw argument texts
// plus the index just past the matching ')'.
func splitArgs(text string, openParen int) ([]string, int, bool) {
	if openParen >= len(text) || text[openParen] != '(' {
		return nil, 0, false
	}
	depth := 1
	var args []string
	var cur strings.Builder
	sawAny := false

	for i := openParen + 1; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			start := i
			i++
			for i < len(text) && text[i] != '"' {
				if text[i] == '\\' {
					i++
				}
				i++
			}
			if i < len(text) {
				cur.WriteString(text[start : i+1])
			}
		case c == '(':
			depth++
			cur.WriteByte(c)
		case c == ')':
			depth--
			if depth == 0 {
				if sawAny || cur.Len() > 0 {
					args = append(args, cur.String())
				}
				return trimAll(args), i + 1, true
			}
			cur.WriteByte(c)
		case c == ',' && depth == 1:
			args = append(args, cur.String())
			cur.Reset()
			sawAny = true
		default:
			cur.WriteByte(c)
		}
	}
	return nil, 0, false
}

func trimAll(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = strings.TrimSpace(a)
	}
	return out
}

func unquote(s string) (string, bool) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", false
	}
	inner := s[1 : len(s)-1]
	inner = strings.ReplaceAll(inner, `\"`, `"`)
	inner = strings.ReplaceAll(inner, `\\`, `\`)
	return inner, true
}

// placeholderPattern recognizes the three curly-brace shapes spec.md §4.3
// lists: bare "{}", named "{ident}", and named-with-spec "{ident:spec}".
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_]\w*)?(:[^{}]*)?\}`)

// buildSegments splits a slf4j-style format string on its placeholders and
// assigns each one a recovered variable name: a named placeholder keys off
// its own identifier, a bare or spec'd one off its corresponding trailing
// argument.
func buildSegments(text string, args []string) []model.Segment {
	var segs []model.Segment
	argIdx := 0
	pos := 0

	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if start > pos {
			segs = append(segs, model.Segment{Kind: model.LiteralSegment, Literal: text[pos:start]})
		}

		ident := ""
		if m[2] != -1 {
			ident = text[m[2]:m[3]]
		}
		hasSpec := m[4] != -1

		var p model.Placeholder
		switch {
		case ident != "":
			p = model.Placeholder{Kind: model.Named, Raw: text[start:end], Captured: ident}
		case hasSpec:
			p = model.Placeholder{Kind: model.FormatSpec, Raw: text[start:end], Captured: nextCaptured(args, &argIdx)}
		default:
			p = model.Placeholder{Kind: model.Positional, Raw: text[start:end], Captured: nextCaptured(args, &argIdx)}
		}
		segs = append(segs, model.Segment{Kind: model.PlaceholderSegment, Placeholder: p})
		pos = end
	}
	if pos < len(text) {
		segs = append(segs, model.Segment{Kind: model.LiteralSegment, Literal: text[pos:]})
	}
	return segs
}

// nextCaptured returns the call's next unconsumed argument expression, if
// any, advancing argIdx.
func nextCaptured(args []string, argIdx *int) string {
	captured := ""
	if *argIdx < len(args) {
		captured = capturedExpr(args[*argIdx])
	}
	*argIdx++
	return captured
}

// capturedExpr recognizes a plain identifier (including "this", per the
// original's test_extract_var_punctuation) verbatim, otherwise truncates
// the raw expression text.
var identPattern = regexp.MustCompile(`^(?:this|[A-Za-z_]\w*)$`)

func capturedExpr(raw string) string {
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

// enclosingFunctions finds every `name(...) {` method/function header and
// its byte offset, used to attribute a call site to its nearest preceding
// enclosing method.
type funcSpan struct {
	name  string
	start int
}

func enclosingFunctions(text string) []funcSpan {
	var spans []funcSpan
	for _, m := range funcPattern.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, funcSpan{name: text[m[2]:m[3]], start: m[0]})
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
