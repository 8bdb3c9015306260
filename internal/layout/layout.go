// Package layout compiles a user-supplied layout pattern (spec.md §4.1)
// into a Layout that splits a raw log line into a model.LogRecord.
package layout

import (
	"regexp"
	"strings"

	"github.com/atikulmunna/log2src/internal/model"
)

// directive maps a {name} token in a layout pattern to the named capture
// group it compiles to and the LogRecord field it fills.
var directives = map[string]string{
	"{timestamp}": "timestamp",
	"{level}":     "level",
	"{thread}":    "thread",
	"{logger}":    "logger",
	"{message}":   "body",
}

// tokenPattern recognizes a directive, a run of whitespace, or a run of
// other literal characters, left to right.
var tokenPattern = regexp.MustCompile(`\{[a-z]+\}|\s+|[^{\s]+`)

// Layout is a compiled layout pattern: an anchored regular expression with
// named capture groups for whichever directives the pattern declared.
type Layout struct {
	re     *regexp.Regexp
	source string
}

// Compile builds a Layout from a pattern string. An empty pattern yields
// the Default layout. Returns an error (a Fatal-tier condition per
// spec.md §7) only when the generated regular expression fails to compile.
func Compile(pattern string) (*Layout, error) {
	if pattern == "" {
		return Default(), nil
	}

	var b strings.Builder
	b.WriteString(`^`)
	for _, tok := range tokenPattern.FindAllString(pattern, -1) {
		switch {
		case directives[tok] != "":
			group := directives[tok]
			if group == "body" {
				// The message directive consumes the remainder of the line.
				b.WriteString(`(?P<body>.*)`)
			} else if group == "timestamp" {
				// A date may be followed by a space-separated time of day.
				b.WriteString(`(?P<timestamp>\S+(?:\s\d{2}:\d{2}:\d{2}(?:[.,]\d+)?)?)`)
			} else {
				b.WriteString(`(?P<` + group + `>\S+)`)
			}
		case strings.TrimSpace(tok) == "" :
			b.WriteString(`\s+`)
		default:
			b.WriteString(regexp.QuoteMeta(tok))
		}
	}
	b.WriteString(`$`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, err
	}
	return &Layout{re: re, source: pattern}, nil
}

// defaultLevelAlt and defaultRe match an ISO-like timestamp, a level token (bracketed,
// bare, or a single-letter severity indicator), and the remainder of the
// line as body.
const defaultLevelAlt = `(?:\[(?P<level>[A-Za-z]+)\]|(?P<level2>[A-Z][A-Z]+)|(?P<level3>[FDIWE]))`

var defaultRe = regexp.MustCompile(
	`^(?P<timestamp>\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?Z?)\s+` +
		defaultLevelAlt + `\s+(?P<body>.*)$`,
)

// Default returns the layout used when the caller supplies no pattern.
func Default() *Layout {
	return &Layout{re: defaultRe, source: ""}
}

// Source returns the original pattern string Compile was called with.
func (l *Layout) Source() string { return l.source }

// Match splits line into a LogRecord. On a non-match the line is reported
// verbatim as Body with every other field left unset — this is not an
// error (spec.md §4.1).
func (l *Layout) Match(line string, lineNumber int) model.LogRecord {
	rec := model.LogRecord{Raw: line, LineNumber: lineNumber, Body: line}

	m := l.re.FindStringSubmatch(line)
	if m == nil {
		return rec
	}

	names := l.re.SubexpNames()
	for i, name := range names {
		if i == 0 || name == "" || m[i] == "" {
			continue
		}
		switch name {
		case "timestamp":
			rec.Timestamp = m[i]
		case "level", "level2", "level3":
			rec.Level = normalizeLevel(m[i])
		case "thread":
			rec.Thread = m[i]
		case "logger":
			rec.Logger = m[i]
		case "body":
			rec.Body = m[i]
		}
	}
	// The default layout leaves Body unset only if {message} equivalent
	// matched nothing; fall back to the raw line so body is never empty
	// for a matched record with no explicit {message} directive.
	if rec.Body == "" {
		rec.Body = line
	}
	return rec
}

func normalizeLevel(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "F", "FATAL", "CRITICAL", "CRIT":
		return "FATAL"
	case "E", "ERROR", "ERR":
		return "ERROR"
	case "W", "WARN", "WARNING":
		return "WARN"
	case "D", "DEBUG":
		return "DEBUG"
	case "T", "TRACE", "FINE":
		return "TRACE"
	case "I", "INFO":
		return "INFO"
	default:
		return strings.ToUpper(strings.TrimSpace(s))
	}
}
