package logrecord

import (
	"testing"

	"github.com/atikulmunna/log2src/internal/layout"
	"github.com/atikulmunna/log2src/internal/model"
)

func collect(buf string, l *layout.Layout, win Window) []string {
	var bodies []string
	for rec := range AllString(buf, l, win) {
		bodies = append(bodies, rec.Body)
	}
	return bodies
}

func TestDefaultLayoutFallbackEveryLineIsARecord(t *testing.T) {
	buf := "hello\nwarning\nerror\nboom"
	bodies := collect(buf, layout.Default(), Window{})

	want := []string{"hello", "warning", "error", "boom"}
	if len(bodies) != len(want) {
		t.Fatalf("expected %d records, got %d: %v", len(want), len(bodies), bodies)
	}
	for i := range want {
		if bodies[i] != want[i] {
			t.Errorf("record %d: expected %q, got %q", i, want[i], bodies[i])
		}
	}
}

func TestSingleVariableRecord(t *testing.T) {
	buf := "2025-01-01 00:00:00 FINE basic foo: Hello from foo i=2"
	var recs []string
	for rec := range AllString(buf, layout.Default(), Window{}) {
		recs = append(recs, rec.Body)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0] != "basic foo: Hello from foo i=2" {
		t.Errorf("unexpected body: %q", recs[0])
	}
}

func TestWindowFiltersRecords(t *testing.T) {
	buf := "hello\nwarning\nerror\nboom"
	bodies := collect(buf, layout.Default(), Window{Start: 2, End: 3})

	if len(bodies) != 1 || bodies[0] != "warning" {
		t.Errorf("expected only 'warning', got %v", bodies)
	}
}

func TestExceptionChainWithCause(t *testing.T) {
	buf := "2025-01-01 00:00:00 ERROR failure\n" +
		"RuntimeException: outer\n" +
		"\tat a.b.Foo.bar(Foo.java:12)\n" +
		"\tat a.b.Foo.baz(Foo.java:30)\n" +
		"Caused by: IllegalStateException: inner\n" +
		"\tat a.b.Foo.qux(Foo.java:5)\n"

	var recs []model.LogRecord
	for rec := range AllString(buf, layout.Default(), Window{}) {
		recs = append(recs, rec)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	stack := recs[0].Stack
	if stack == nil {
		t.Fatal("expected a resolved stack")
	}
	chain := stack.Chain()
	if len(chain) != 2 {
		t.Fatalf("expected 2 chained blocks, got %d", len(chain))
	}
	if len(chain[0].Frames) != 2 {
		t.Errorf("expected 2 frames in outer block, got %d", len(chain[0].Frames))
	}
	if len(chain[1].Frames) != 1 {
		t.Errorf("expected 1 frame in cause block, got %d", len(chain[1].Frames))
	}
	if chain[1].Frames[0].Line != 5 {
		t.Errorf("expected cause frame line 5, got %d", chain[1].Frames[0].Line)
	}
}
