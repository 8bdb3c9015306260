package logrecord

import (
	"strings"

	"github.com/atikulmunna/log2src/internal/model"
)

// buildStack classifies a run of trailer lines following a matched record
// header. If at least one line matches a per-language frame pattern
// (spec.md §4.2's stack-trace heuristic), the run from its nearest
// preceding exception-header line onward is parsed into an
// ExceptionBlock chain; everything before that header, and the whole run
// if no frame ever matched, is returned as plain body continuation.
func buildStack(lines []string) (*model.ExceptionBlock, []string) {
	firstFrame := -1
	for i, l := range lines {
		if _, ok := matchFrame(l); ok {
			firstFrame = i
			break
		}
	}
	if firstFrame == -1 {
		return nil, lines
	}

	headerIdx := firstFrame - 1
	for headerIdx >= 0 && !exceptionHeaderPattern.MatchString(lines[headerIdx]) {
		headerIdx--
	}

	var continuation []string
	var header string
	start := firstFrame
	if headerIdx >= 0 {
		continuation = lines[:headerIdx]
		header = strings.TrimSpace(lines[headerIdx])
		start = headerIdx + 1
	} else {
		continuation = lines[:firstFrame]
	}

	root := &model.ExceptionBlock{Header: header}
	cur := root
	for i := start; i < len(lines); i++ {
		l := lines[i]
		switch {
		case isCausedBy(l):
			cause := &model.ExceptionBlock{Header: strings.TrimSpace(strings.TrimPrefix(l, "Caused by:"))}
			cur.Cause = cause
			cur = cause
		default:
			if f, ok := matchFrame(l); ok {
				cur.Frames = append(cur.Frames, f)
			}
			// Lines that are neither a frame nor a "Caused by:" header
			// (blank separators, "... N more" elision lines) are dropped;
			// they carry no source reference to resolve.
		}
	}

	return root, continuation
}
