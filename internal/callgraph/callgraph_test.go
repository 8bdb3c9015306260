package callgraph

import (
	"testing"

	"github.com/atikulmunna/log2src/internal/model"
)

func ref(name string, line int) model.SourceRef {
	return model.SourceRef{SourcePath: "app.go", LineNumber: line, Name: name}
}

func TestContainsEdge(t *testing.T) {
	a := Edge{To: "foo"}
	b := Edge{To: "bar"}
	if containsEdge([]Edge{a}, b) {
		t.Errorf("did not expect bar to be contained")
	}
	if !containsEdge([]Edge{a, b}, b) {
		t.Errorf("expected bar to be contained")
	}
}

func TestFindPossiblePathsSimpleChain(t *testing.T) {
	g := &Graph{edges: []Edge{
		{To: "run", Via: ref("main", 1)},
		{To: "process", Via: ref("run", 5)},
		{To: "handle", Via: ref("process", 9)},
	}}

	paths := g.FindPossiblePaths(ref("handle", 20))
	if len(paths) != 1 {
		t.Fatalf("expected 1 path from the single main edge, got %d", len(paths))
	}
	path := paths[0]
	if len(path) != 3 {
		t.Fatalf("expected a 3-hop path, got %d: %+v", len(path), path)
	}
	if path[0].Name != "process" || path[2].Name != "main" {
		t.Errorf("expected path innermost (process) first and main last, got %+v", path)
	}
}

func TestHintReturnsShortestPath(t *testing.T) {
	g := &Graph{edges: []Edge{
		{To: "target", Via: ref("main", 1)},
		{To: "detour", Via: ref("main", 2)},
		{To: "target", Via: ref("detour", 3)},
	}}

	hint := g.Hint(ref("target", 0))
	if len(hint) != 1 {
		t.Fatalf("expected the direct 1-hop path to win, got %d: %+v", len(hint), hint)
	}
}

func TestHintNoPathReturnsNil(t *testing.T) {
	g := &Graph{}
	if hint := g.Hint(ref("anything", 0)); hint != nil {
		t.Errorf("expected nil hint for an empty graph, got %+v", hint)
	}
}
