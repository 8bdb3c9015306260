package layout

import "testing"

func TestDefaultLayoutMatchesUppercaseLevel(t *testing.T) {
	l := Default()
	rec := l.Match("2025-01-01 00:00:00 FINE basic foo: Hello from foo i=2", 1)

	if rec.Timestamp != "2025-01-01 00:00:00" {
		t.Errorf("expected timestamp captured, got %q", rec.Timestamp)
	}
	if rec.Body != "basic foo: Hello from foo i=2" {
		t.Errorf("unexpected body: %q", rec.Body)
	}
}

func TestDefaultLayoutMatchesSingleLetterLevel(t *testing.T) {
	l := Default()
	rec := l.Match("2025-04-10T22:12:52Z I JvmPauseMonitor started", 1)

	if rec.Level != "INFO" {
		t.Errorf("expected normalized level INFO, got %q", rec.Level)
	}
}

func TestDefaultLayoutFallback(t *testing.T) {
	l := Default()
	rec := l.Match("no timestamp here at all", 1)

	if rec.Body != "no timestamp here at all" {
		t.Errorf("expected verbatim body on non-match, got %q", rec.Body)
	}
	if rec.Timestamp != "" || rec.Level != "" {
		t.Errorf("expected unset fields on non-match, got %+v", rec)
	}
}

func TestCompileCustomPattern(t *testing.T) {
	l, err := Compile("{timestamp} [{level}] {logger}: {message}")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	rec := l.Match("2025-04-10 22:12:52 [INFO] JvmPauseMonitor: Started", 1)
	if rec.Level != "INFO" {
		t.Errorf("expected level INFO, got %q", rec.Level)
	}
	if rec.Logger != "JvmPauseMonitor" {
		t.Errorf("expected logger captured, got %q", rec.Logger)
	}
	if rec.Body != "Started" {
		t.Errorf("expected body 'Started', got %q", rec.Body)
	}
}

func TestCompileCollapsesWhitespace(t *testing.T) {
	l, err := Compile("{timestamp}   {level}  {message}")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	// Single space between tokens, even though the pattern declared three.
	rec := l.Match("2025-01-01 INFO hello", 1)
	if rec.Body != "hello" {
		t.Errorf("expected body 'hello', got %q", rec.Body)
	}
}

func TestEmptyPatternUsesDefault(t *testing.T) {
	l, err := Compile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Source() != "" {
		t.Errorf("expected default layout source empty, got %q", l.Source())
	}
}
