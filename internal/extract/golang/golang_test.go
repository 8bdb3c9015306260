package golang

import (
	"testing"

	"github.com/atikulmunna/log2src/internal/model"
)

const testSource = `package sample

import "log"

func main() {
	log.Print("starting up")
	for i := 0; i < 3; i++ {
		foo(i)
	}
}

func foo(i int) {
	nope(i, 2)
}

func nope(i int, j int) {
	log.Printf("this won't match i=%d; j=%d", i, j)
}
`

func extractAll(t *testing.T) []model.LogTemplate {
	t.Helper()
	e := New()
	templates, err := e.Extract([]byte(testSource), "sample.go")
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

	if templates[0].SrcRef.Name != "main" {
		t.Errorf("expected enclosing name 'main', got %q", templates[0].SrcRef.Name)
	}
	if templates[1].SrcRef.Name != "nope" {
		t.Errorf("expected enclosing name 'nope', got %q", templates[1].SrcRef.Name)
	}
}

func TestExtractCapturesIdentifierArgs(t *testing.T) {
	templates := extractAll(t)
	second := templates[1]

	placeholders := second.Placeholders()
	if len(placeholders) != 2 {
		t.Fatalf("expected 2 placeholders, got %d", len(placeholders))
	}
	if placeholders[0].Captured != "i" {
		t.Errorf("expected captured 'i', got %q", placeholders[0].Captured)
	}
	if placeholders[1].Captured != "j" {
		t.Errorf("expected captured 'j', got %q", placeholders[1].Captured)
	}
}

func TestExtractLiteralPrefix(t *testing.T) {
	templates := extractAll(t)
	if templates[0].LiteralPrefix != "starting up" {
		t.Errorf("expected literal prefix 'starting up', got %q", templates[0].LiteralPrefix)
	}
}

func TestExtractLevel(t *testing.T) {
	templates := extractAll(t)
	if templates[1].Level != "INFO" {
		t.Errorf("expected level INFO for Printf, got %q", templates[1].Level)
	}
}
