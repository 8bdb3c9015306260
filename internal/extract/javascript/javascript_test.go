package javascript

import (
	"testing"

	"github.com/atikulmunna/log2src/internal/model"
)

const testSource = "function startWorker(name) {\n" +
	"  logger.info(`${name} started`);\n" +
	"}\n" +
	"\n" +
	"const processItem = (count, label) => {\n" +
	"  logger.debug(`processing ${count} items for ${label.toUpperCase()}`);\n" +
	"}\n"

func extractAll(t *testing.T) []model.LogTemplate {
	t.Helper()
	e := New()
	templates, err := e.Extract([]byte(testSource), "worker.js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return templates
}

func TestExtractFindsEveryCall(t *testing.T) {
	templates := extractAll(t)
	if len(templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(templates))
	}
}

func TestExtractEnclosingFunction(t *testing.T) {
	templates := extractAll(t)
	if templates[0].SrcRef.Name != "startWorker" {
		t.Errorf("expected enclosing name 'startWorker', got %q", templates[0].SrcRef.Name)
	}
	if templates[1].SrcRef.Name != "processItem" {
		t.Errorf("expected enclosing name 'processItem', got %q", templates[1].SrcRef.Name)
	}
}

func TestExtractNamedPlaceholder(t *testing.T) {
	templates := extractAll(t)
	placeholders := templates[0].Placeholders()
	if len(placeholders) != 1 {
		t.Fatalf("expected 1 placeholder, got %d", len(placeholders))
	}
	if placeholders[0].Captured != "name" {
		t.Errorf("expected captured 'name', got %q", placeholders[0].Captured)
	}
	if placeholders[0].Kind != model.Named {
		t.Errorf("expected Named placeholder kind, got %v", placeholders[0].Kind)
	}
}

func TestExtractExpressionPlaceholder(t *testing.T) {
	templates := extractAll(t)
	placeholders := templates[1].Placeholders()
	if len(placeholders) != 2 {
		t.Fatalf("expected 2 placeholders, got %d", len(placeholders))
	}
	if placeholders[0].Captured != "count" {
		t.Errorf("expected captured 'count', got %q", placeholders[0].Captured)
	}
	if placeholders[1].Captured != "label.toUpperCase()" {
		t.Errorf("expected captured expression verbatim, got %q", placeholders[1].Captured)
	}
}

func TestExtractDynamicFirst(t *testing.T) {
	templates := extractAll(t)
	if !templates[0].DynamicFirst() {
		t.Errorf("expected templates[0] to be dynamic-first")
	}
	if templates[1].DynamicFirst() {
		t.Errorf("expected templates[1] to have a literal prefix")
	}
	if templates[1].LiteralPrefix != "processing " {
		t.Errorf("expected literal prefix 'processing ', got %q", templates[1].LiteralPrefix)
	}
}

func TestExtractLevel(t *testing.T) {
	templates := extractAll(t)
	if templates[0].Level != "INFO" {
		t.Errorf("expected level INFO, got %q", templates[0].Level)
	}
	if templates[1].Level != "DEBUG" {
		t.Errorf("expected level DEBUG, got %q", templates[1].Level)
	}
}
