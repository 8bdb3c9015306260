package index

import (
	"testing"

	"github.com/atikulmunna/log2src/internal/model"
)

func lit(s string) model.Segment { return model.Segment{Kind: model.LiteralSegment, Literal: s} }

func ph(captured string) model.Segment {
	return model.Segment{Kind: model.PlaceholderSegment, Placeholder: model.Placeholder{Kind: model.Positional, Raw: "%s", Captured: captured}}
}

func buildIndex() *Index {
	idx := New()
	t1 := model.NewLogTemplate(model.SourceRef{SourcePath: "b.go", LineNumber: 10, Name: "foo"}, "INFO",
		[]model.Segment{lit("starting up")})
	t2 := model.NewLogTemplate(model.SourceRef{SourcePath: "a.go", LineNumber: 5, Name: "bar"}, "INFO",
		[]model.Segment{lit("user "), ph("name"), lit(" logged in")})
	t3 := model.NewLogTemplate(model.SourceRef{SourcePath: "a.go", LineNumber: 20, Name: "bar"}, "WARN",
		[]model.Segment{ph("code"), lit(" retries exhausted")})
	idx.Add(&t1)
	idx.Add(&t2)
	idx.Add(&t3)
	idx.Freeze()
	return idx
}

func TestLookupExactPrefix(t *testing.T) {
	idx := buildIndex()
	got := idx.Lookup("starting up")
	if len(got) != 1 || got[0].SrcRef.LineNumber != 10 {
		t.Fatalf("expected the exact-prefix template, got %+v", got)
	}
}

func TestLookupLongestPrefix(t *testing.T) {
	idx := buildIndex()
	got := idx.Lookup("user alice logged in")
	if len(got) != 1 || got[0].LiteralPrefix != "user " {
		t.Fatalf("expected the 'user ' prefix template, got %+v", got)
	}
}

func TestLookupFallsBackToDynamicFirst(t *testing.T) {
	idx := buildIndex()
	got := idx.Lookup("totally unrelated body text")
	found := false
	for _, c := range got {
		if c.SrcRef.LineNumber == 20 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected dynamic-first candidate in fallback results, got %+v", got)
	}
}

func TestLookupFallbackSubstringMatch(t *testing.T) {
	idx := buildIndex()
	got := idx.Lookup("3 retries exhausted for job")
	found := false
	for _, c := range got {
		if c.SrcRef.LineNumber == 20 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected substring-matched candidate, got %+v", got)
	}
}

func TestByNameGroupsAndOrdersByLocation(t *testing.T) {
	idx := buildIndex()
	bars := idx.ByName("bar")
	if len(bars) != 2 {
		t.Fatalf("expected 2 templates named 'bar', got %d", len(bars))
	}
	if bars[0].SrcRef.LineNumber != 5 || bars[1].SrcRef.LineNumber != 20 {
		t.Errorf("expected ascending line order, got %d then %d", bars[0].SrcRef.LineNumber, bars[1].SrcRef.LineNumber)
	}
}

func TestAllOrderedBySourcePathThenLine(t *testing.T) {
	idx := buildIndex()
	all := idx.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(all))
	}
	if all[0].SrcRef.SourcePath != "a.go" || all[2].SrcRef.SourcePath != "b.go" {
		t.Errorf("expected a.go entries before b.go, got order %v", []string{all[0].SrcRef.SourcePath, all[1].SrcRef.SourcePath, all[2].SrcRef.SourcePath})
	}
}

func TestAddAfterFreezePanics(t *testing.T) {
	idx := buildIndex()
	defer func() {
		if recover() == nil {
			t.Errorf("expected Add after Freeze to panic")
		}
	}()
	extra := model.NewLogTemplate(model.SourceRef{SourcePath: "c.go", LineNumber: 1}, "INFO", nil)
	idx.Add(&extra)
}
