package logrecord

import (
	"regexp"
	"strconv"

	"github.com/atikulmunna/log2src/internal/model"
)

// framePattern recognizes one stack-trace frame line for a host language
// and extracts class/method/file/line.
type framePattern struct {
	name string
	re   *regexp.Regexp
}

// causedByPrefixes are the literal prefixes (spec.md §4.2) that start a
// new ExceptionBlock in a chain. Only Java's "Caused by:" is listed.
var causedByPrefixes = []string{
	"Caused by:",
}

// framePatterns are tried in order; the first to match a line wins. A run
// of lines is a stack candidate if at least one line matches any of these.
var framePatterns = []framePattern{
	{ // Java: at a.b.Foo.bar(Foo.java:12)
		name: "java",
		re:   regexp.MustCompile(`^\s*at\s+(?:(?P<class>[\w.$]+)\.)?(?P<method>\w+|<init>|<clinit>)\((?P<file>[\w.$]+\.java)(?::(?P<line>\d+))?\)`),
	},
	{ // Go panic frames: package.Func(...)\n\tfile.go:12 +0x1a2
		name: "go",
		re:   regexp.MustCompile(`^\s*(?P<file>[\w./-]+\.go):(?P<line>\d+)(?:\s+\+0x[0-9a-f]+)?\s*$`),
	},
	{ // JavaScript/TypeScript: at Object.<anonymous> (file.js:12:5)
		name: "javascript",
		re:   regexp.MustCompile(`^\s*at\s+(?:(?P<method>[\w.$<>]+)\s+\()?(?P<file>[\w./-]+\.(?:js|ts)):(?P<line>\d+)(?::\d+)?\)?`),
	},
}

// exceptionHeaderPattern recognizes the header line that precedes a stack
// block: a name ending in "Exception"/"Error", at the end of the line or
// followed by ":" and an optional message.
var exceptionHeaderPattern = regexp.MustCompile(`(?:^|[\s.])([\w.$]*(?:Exception|Error))(?::\s*(.*))?$`)

// matchFrame tries every known pattern and returns the parsed frame, or
// ok=false if no pattern recognized the line.
func matchFrame(line string) (model.Frame, bool) {
	for _, fp := range framePatterns {
		m := fp.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		frame := model.Frame{}
		for i, name := range fp.re.SubexpNames() {
			if i == 0 || name == "" || m[i] == "" {
				continue
			}
			switch name {
			case "class":
				frame.ClassName = m[i]
			case "method":
				frame.Method = m[i]
			case "file":
				frame.File = m[i]
			case "line":
				if n, err := strconv.Atoi(m[i]); err == nil {
					frame.Line = n
				}
			}
		}
		return frame, true
	}
	return model.Frame{}, false
}

// isCausedBy reports whether line starts a chained-cause exception block.
func isCausedBy(line string) bool {
	for _, prefix := range causedByPrefixes {
		if len(line) >= len(prefix) && line[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
