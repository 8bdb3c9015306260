package model

// LogMapping is the matcher's output for one log record: the recovered
// source reference, the recovered placeholder values, and any resolved
// stack-trace frame chains. An outer Stack length > 1 represents chained
// causes ("Caused by: ...").
type LogMapping struct {
	SrcRef    SourceRef         `json:"srcRef"`
	Variables map[string]string `json:"variables"`
	Stack     [][]SourceRef     `json:"stack"`

	// Score is surfaced only in verbose mode (spec.md §7); omitted from
	// the wire contract otherwise.
	Score float64 `json:"score,omitempty"`
}

// Unmatched is the sentinel mapping returned when no template scores above
// the acceptance threshold, or no candidate exists at all.
func Unmatched() LogMapping {
	return LogMapping{
		SrcRef:    Unresolved(""),
		Variables: map[string]string{},
		Stack:     [][]SourceRef{},
	}
}
