package model

// Frame is one entry of a resolved or raw exception stack trace.
type Frame struct {
	ClassName string
	Method    string
	File      string
	Line      int // 0 when the frame carries no line number
}

// ExceptionBlock is an ordered chain of stack frames (innermost first),
// with an optional chained cause ("Caused by: ...").
type ExceptionBlock struct {
	Header string // the exception header line, e.g. "RuntimeException: outer"
	Frames []Frame
	Cause  *ExceptionBlock
}

// Chain flattens the cause chain into a slice, outer-first.
func (e *ExceptionBlock) Chain() []*ExceptionBlock {
	var out []*ExceptionBlock
	for b := e; b != nil; b = b.Cause {
		out = append(out, b)
	}
	return out
}

// LogRecord is one logical entry in a log file: a decomposition of one or
// more physical lines per the configured layout grammar. All structured
// fields besides Raw/LineNumber/Body are optional, so an unconfigured
// layout degrades gracefully to "everything is body".
type LogRecord struct {
	Raw        string
	LineNumber int
	Timestamp  string
	Level      string
	Thread     string
	Logger     string
	Body       string
	Stack      *ExceptionBlock
}

// HasTimestamp, HasLevel, HasThread and HasLogger report whether the
// named structured field was captured by the
// layout (as opposed to being the zero value because the layout never
// looked for it).
func (r LogRecord) HasTimestamp() bool { return r.Timestamp != "" }
func (r LogRecord) HasLevel() bool     { return r.Level != "" }
func (r LogRecord) HasThread() bool    { return r.Thread != "" }
func (r LogRecord) HasLogger() bool    { return r.Logger != "" }
