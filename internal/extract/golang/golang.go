// Package golang extracts log templates from Go source, the printf-style
// placeholder family of spec.md §4.3. Grounded on the standard library's
// go/parser+go/ast — there is no third-party Go-source parser anywhere in
// the reference corpus, and the standard library's own AST is the
// ecosystem-standard way any Go tool reads Go source (see DESIGN.md).
package golang

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strconv"
	"strings"

	"github.com/atikulmunna/log2src/internal/model"
)

// methodNames is the call-name table this extractor recognizes, generalizing
// the original's IDENTS_RS/IDENTS_JAVA tables (spec.md §4.3) to Go's common
// logging method names across log, slog, zap, and logrus-shaped APIs.
var methodNames = map[string]string{
	"Print":   "INFO",
	"Println": "INFO",
	"Printf":  "INFO",
	"Debug":   "DEBUG",
	"Debugf":  "DEBUG",
	"Info":    "INFO",
	"Infof":   "INFO",
	"Warn":    "WARN",
	"Warnf":   "WARN",
	"Warning": "WARN",
	"Error":   "ERROR",
	"Errorf":  "ERROR",
	"Fatal":   "FATAL",
	"Fatalf":  "FATAL",
	"Trace":   "TRACE",
	"Tracef":  "TRACE",
}

// Extractor implements extract.Extractor for Go source files.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Extract(src []byte, path string) ([]model.LogTemplate, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var templates []model.LogTemplate
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		level, ok := recognizedCall(call)
		if !ok {
			return true
		}
		lit := firstStringLiteral(call.Args)
		if lit == nil {
			return true
		}
		formatArgs := argsAfter(call.Args, lit)
		segments := buildSegments(lit.Value, formatArgs, fset)

		pos := fset.Position(call.Pos())
		srcRef := model.SourceRef{
			SourcePath: path,
			LineNumber: pos.Line,
			Column:     pos.Column,
			Name:       enclosingName(file, call),
		}
		templates = append(templates, model.NewLogTemplate(srcRef, level, segments))
		return true
	})
	return templates, nil
}

// recognizedCall reports whether call invokes a method in methodNames,
// either as pkg.Method(...) or receiver.Method(...); the receiver's
// static identity is not resolved (no type information is available from
// a syntax-only parse), which widens false positives exactly as spec.md
// §4.3 warns an extractor unable to determine the receiver does.
func recognizedCall(call *ast.CallExpr) (level string, ok bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	level, ok = methodNames[sel.Sel.Name]
	return level, ok
}

// firstStringLiteral returns the first plain string-literal argument, the
// call's format string.
func firstStringLiteral(args []ast.Expr) *ast.BasicLit {
	for _, a := range args {
		if lit, ok := a.(*ast.BasicLit); ok && lit.Kind == token.STRING {
			return lit
		}
	}
	return nil
}

// argsAfter returns the arguments following the format-string literal.
func argsAfter(args []ast.Expr, lit *ast.BasicLit) []ast.Expr {
	for i, a := range args {
		if a == ast.Expr(lit) {
			return args[i+1:]
		}
	}
	return nil
}

func buildSegments(quoted string, args []ast.Expr, fset *token.FileSet) []model.Segment {
	text, err := strconv.Unquote(quoted)
	if err != nil {
		text = strings.Trim(quoted, "`\"")
	}

	segs := splitPrintf(text)
	argIdx := 0
	for i := range segs {
		if segs[i].Kind != model.PlaceholderSegment {
			continue
		}
		if segs[i].Placeholder.Raw == "%%" {
			// Literal percent, not a real placeholder; demote to literal.
			segs[i] = model.Segment{Kind: model.LiteralSegment, Literal: "%"}
			continue
		}
		if argIdx < len(args) {
			segs[i].Placeholder.Captured = exprText(args[argIdx], fset)
		}
		argIdx++
	}
	return segs
}

// splitPrintf scans text for %-verbs, alternating Literal/Placeholder
// segments in order.
func splitPrintf(text string) []model.Segment {
	var segs []model.Segment
	var lit strings.Builder
	i := 0
	for i < len(text) {
		if text[i] != '%' {
			lit.WriteByte(text[i])
			i++
			continue
		}
		// Scan the verb: flags, width, precision, conversion char.
		j := i + 1
		for j < len(text) && strings.ContainsRune("-+# 0", rune(text[j])) {
			j++
		}
		for j < len(text) && text[j] >= '0' && text[j] <= '9' {
			j++
		}
		if j < len(text) && text[j] == '.' {
			j++
			for j < len(text) && text[j] >= '0' && text[j] <= '9' {
				j++
			}
		}
		if j >= len(text) {
			lit.WriteString(text[i:])
			i = len(text)
			break
		}
		verb := text[i : j+1]
		if lit.Len() > 0 {
			segs = append(segs, model.Segment{Kind: model.LiteralSegment, Literal: lit.String()})
			lit.Reset()
		}
		kind := model.Positional
		if len(verb) > 2 {
			kind = model.FormatSpec
		}
		segs = append(segs, model.Segment{
			Kind:        model.PlaceholderSegment,
			Placeholder: model.Placeholder{Kind: kind, Raw: verb},
		})
		i = j + 1
	}
	if lit.Len() > 0 {
		segs = append(segs, model.Segment{Kind: model.LiteralSegment, Literal: lit.String()})
	}
	return segs
}

// exprText renders arg's source text, capturing a plain identifier
// verbatim and any other expression as its printed text truncated to
// model.CapturedMaxLen (spec.md §4.3).
func exprText(arg ast.Expr, fset *token.FileSet) string {
	if id, ok := arg.(*ast.Ident); ok {
		return id.Name
	}
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, arg); err != nil {
		return ""
	}
	return model.TruncateCaptured(buf.String())
}

// enclosingName finds the nearest enclosing named function or method
// containing call; falls back to the file's package name for top-level
// calls (spec.md §3's SourceRef.name rule).
func enclosingName(file *ast.File, call *ast.CallExpr) string {
	var name string
	ast.Inspect(file, func(n ast.Node) bool {
		fn, ok := n.(*ast.FuncDecl)
		if !ok {
			return true
		}
		if fn.Pos() <= call.Pos() && call.Pos() < fn.End() {
			name = fn.Name.Name
		}
		return true
	})
	if name != "" {
		return name
	}
	return strings.TrimSuffix(file.Name.Name, ".go")
}
