// Package logrecord splits a raw log file into logical LogRecords
// (spec.md §4.2): one layout match starts a record, subsequent
// non-matching lines either continue its body or, when they look like a
// stack trace, are parsed into its ExceptionBlock chain.
package logrecord

import (
	"bufio"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/atikulmunna/log2src/internal/layout"
	"github.com/atikulmunna/log2src/internal/model"
)

// Window restricts record production to a 1-based, end-exclusive line
// range. A zero-value Window means "whole file".
type Window struct {
	Start int
	End   int
}

// InRange reports whether lineNumber falls in the window. End == 0 means
// unbounded.
func (w Window) InRange(lineNumber int) bool {
	if w.Start != 0 && lineNumber < w.Start {
		return false
	}
	if w.End != 0 && lineNumber >= w.End {
		return false
	}
	return true
}

// All returns a lazy sequence of records read from in, decomposed by l.
// The sequence makes a single pass over in: iterating it again continues
// from wherever the previous pass left the reader. Only records whose
// first line lies in win are yielded; a record that starts before
// win.Start is not yielded even when its continuation lines fall inside
// win. The scan reads on past win.End to the end of the file.
func All(in io.Reader, l *layout.Layout, win Window) iter.Seq[model.LogRecord] {
	return func(yield func(model.LogRecord) bool) {
		scan(in, l, win, yield)
	}
}

// AllString is All over the text buf. Each iteration reads buf from the
// start, so the sequence can be iterated more than once.
func AllString(buf string, l *layout.Layout, win Window) iter.Seq[model.LogRecord] {
	return func(yield func(model.LogRecord) bool) {
		scan(strings.NewReader(buf), l, win, yield)
	}
}

func scan(in io.Reader, l *layout.Layout, win Window, yield func(model.LogRecord) bool) {
	reader := bufio.NewReader(in)
	lineNo := 0

	var cur *model.LogRecord
	var curIsHeader bool // cur's own line was a genuine layout match, not a fallback
	var pending []string // lines since cur's header, not yet classified

	emit := func() bool {
		if cur == nil {
			return true
		}
		finalizeRecord(cur, pending)
		pending = nil
		ok := true
		if win.InRange(cur.LineNumber) {
			ok = yield(*cur)
		}
		cur = nil
		return ok
	}

	for {
		raw, err := readLine(reader)
		if raw == "" && err != nil {
			break
		}
		lineNo++
		line := strings.TrimRight(raw, "\r\n")
		line = strings.ToValidUTF8(line, string(utf8.RuneError))

		rec := l.Match(line, lineNo)
		isHeader := hasAnyStructuredField(rec)

		switch {
		case isHeader:
			if !emit() {
				return
			}
			cur, curIsHeader = &rec, true
		case cur != nil && curIsHeader:
			// A continuation candidate of a genuinely matched record:
			// classified later as body text or a stack-trace frame.
			pending = append(pending, line)
		default:
			// Either nothing is open, or the open record was itself a
			// fallback (unmatched) line — fallback lines never accept
			// continuations, so this line becomes its own record.
			if !emit() {
				return
			}
			cur, curIsHeader = &rec, false
		}

		if err != nil {
			break
		}
	}
	emit()
}

// hasAnyStructuredField reports whether the layout captured at least one
// field besides body, i.e. this line is a genuine record header rather
// than a line that merely failed to match at all (rec.Body == line with
// everything else unset also happens for a real non-matching line, which
// should continue the current record instead of starting a new one).
func hasAnyStructuredField(rec model.LogRecord) bool {
	return rec.Timestamp != "" || rec.Level != "" || rec.Thread != "" || rec.Logger != ""
}

// finalizeRecord classifies rec's pending trailer lines into body
// continuation and/or a resolved ExceptionBlock stack.
func finalizeRecord(rec *model.LogRecord, pending []string) {
	if len(pending) == 0 {
		return
	}

	stack, continuation := buildStack(pending)
	if len(continuation) > 0 {
		rec.Body += "\n" + strings.Join(continuation, "\n")
	}
	rec.Stack = stack
}

// readLine reads one line, returning it with its trailing delimiter
// stripped by the caller. The returned error is io.EOF once the final,
// possibly-unterminated line has been returned; a non-nil line is always
// delivered before the error it was read with.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	return line, err
}
