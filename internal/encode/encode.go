// Package encode implements the Result Encoder (spec.md §4.7): emitting
// LogMapping values as JSON in the exact field order the wire contract
// requires, one object per requested line or — for a single-line window
// — a bare object instead of a one-element sequence.
package encode

import (
	"encoding/json"
	"io"

	"github.com/atikulmunna/log2src/internal/model"
)

// JSONEncoder writes LogMapping values to a stream, the way
// internal/output/renderer.go's JSONRenderer writes log entries — one
// json.Encoder.Encode call per value, relying on encoding/json's
// already-stable declared-field order for srcRef/variables/stack.
type JSONEncoder struct {
	enc *json.Encoder
}

// NewJSONEncoder returns an encoder writing newline-delimited JSON to w.
func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{enc: json.NewEncoder(w)}
}

// Encode writes one mapping as a single JSON line.
func (e *JSONEncoder) Encode(mapping model.LogMapping) error {
	return e.enc.Encode(mapping)
}

// EncodeWindow writes mappings as spec.md §4.7 describes: a bare single
// object when there is exactly one, otherwise a newline-delimited
// sequence (including the zero-mapping case, which writes nothing).
func EncodeWindow(w io.Writer, mappings []model.LogMapping) error {
	if len(mappings) == 1 {
		raw, err := json.Marshal(mappings[0])
		if err != nil {
			return err
		}
		_, err = w.Write(append(raw, '\n'))
		return err
	}
	enc := NewJSONEncoder(w)
	for _, m := range mappings {
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return nil
}
