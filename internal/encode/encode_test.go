package encode

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/atikulmunna/log2src/internal/model"
)

func sampleMapping() model.LogMapping {
	return model.LogMapping{
		SrcRef:    model.SourceRef{SourcePath: "a.go", LineNumber: 3, Name: "foo"},
		Variables: map[string]string{"name": "alice"},
		Stack:     [][]model.SourceRef{},
	}
}

func TestEncodeWindowSingleMappingIsBareObject(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeWindow(&buf, []model.LogMapping{sampleMapping()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected a single trailing newline for a single-mapping window, got %q", buf.String())
	}

	var decoded model.LogMapping
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected valid JSON, got error: %v, body: %q", err, buf.String())
	}
	if decoded.SrcRef.Name != "foo" {
		t.Errorf("expected decoded srcRef.name 'foo', got %q", decoded.SrcRef.Name)
	}
}

func TestEncodeWindowMultipleMappingsIsNewlineDelimited(t *testing.T) {
	var buf bytes.Buffer
	mappings := []model.LogMapping{sampleMapping(), sampleMapping()}
	if err := EncodeWindow(&buf, mappings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSON lines, got %d: %q", len(lines), buf.String())
	}
	for _, line := range lines {
		var decoded model.LogMapping
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Errorf("expected each line to be valid JSON, got error: %v for line %q", err, line)
		}
	}
}

func TestEncodeFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(sampleMapping()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	srcRefIdx := strings.Index(buf.String(), `"srcRef"`)
	variablesIdx := strings.Index(buf.String(), `"variables"`)
	stackIdx := strings.Index(buf.String(), `"stack"`)
	if !(srcRefIdx < variablesIdx && variablesIdx < stackIdx) {
		t.Errorf("expected field order srcRef, variables, stack, got %q", buf.String())
	}
}
