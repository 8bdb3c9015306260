// Package callgraph builds a static call graph over Go source and walks
// it to suggest a likely call path from an entry point to a matched log
// call site. This supplements spec.md §4.5 rather than replacing it
// (internal/matcher only consults it when a record carries no stack
// trace of its own) — grounded on the original tool's
// `call_graph.rs`/`find_possible_paths` (`_examples/original_source/src/lib.rs`),
// generalized from a tree-sitter query over plain function calls to a
// go/ast walk since only Go source carries enough static structure in
// this corpus to build a call graph without a full type-checker.
package callgraph

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/atikulmunna/log2src/internal/model"
)

// Edge is one static call site: the callee's name (To) and the source
// reference of the call site itself, whose Name is the caller's
// enclosing function — mirroring the original's `Edge{ to, via }`.
type Edge struct {
	To  string
	Via model.SourceRef
}

// Graph is an unordered collection of call edges.
type Graph struct {
	edges []Edge
}

// Build walks every .go file under root (skipping excluded paths, the
// same doublestar patterns internal/extract and internal/store use) and
// records one edge per plain identifier call expression found inside a
// named function — selector calls (pkg.Fn, recv.Method) are skipped, as
// the original's query matched only bare `call_expression(identifier)`.
func Build(root string, exclude []string) (*Graph, error) {
	var edges []Edge
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != ".go" {
			return nil
		}
		if isExcluded(path, exclude) {
			return nil
		}
		fileEdges, ferr := edgesInFile(path)
		if ferr != nil {
			return nil // best-effort enrichment: a file that fails to parse just contributes no edges
		}
		edges = append(edges, fileEdges...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Graph{edges: edges}, nil
}

func edgesInFile(path string) ([]Edge, error) {
	fset := token.NewFileSet()
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file, err := parser.ParseFile(fset, path, src, 0)
	if err != nil {
		return nil, err
	}

	var edges []Edge
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			id, ok := call.Fun.(*ast.Ident)
			if !ok {
				return true
			}
			pos := fset.Position(call.Pos())
			edges = append(edges, Edge{
				To: id.Name,
				Via: model.SourceRef{
					SourcePath: path,
					LineNumber: pos.Line,
					Column:     pos.Column,
					Name:       fn.Name.Name,
				},
			})
			return true
		})
	}
	return edges, nil
}

// FindPossiblePaths walks the graph from every edge whose caller is
// named "main", depth-first, stopping a branch as soon as it reaches a
// call to target.Name, and returns each attempted path innermost-call
// first, outermost ("main") last — the same orientation
// model.ExceptionBlock.Frames uses for a real stack trace. A direct port
// of the original's `find_possible_paths` to Go's comparable structs in
// place of Rust's derived PartialEq/reference identity.
func (g *Graph) FindPossiblePaths(target model.SourceRef) [][]model.SourceRef {
	var mains []Edge
	for _, e := range g.edges {
		if e.Via.Name == "main" {
			mains = append(mains, e)
		}
	}

	var possible [][]model.SourceRef
	for _, main := range mains {
		stack := []Edge{main}
		visited := []Edge{main}

		for len(stack) > 0 {
			next := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if next.To == target.Name {
				break
			}

			for _, e := range g.edges {
				if e.Via.Name != next.To {
					continue
				}
				if containsEdge(visited, e) {
					continue
				}
				stack = append(stack, e)
				visited = append(visited, e)
			}
		}

		path := make([]model.SourceRef, len(visited))
		for i, e := range visited {
			path[len(visited)-1-i] = e.Via
		}
		possible = append(possible, path)
	}
	return possible
}

func containsEdge(visited []Edge, e Edge) bool {
	for _, v := range visited {
		if v == e {
			return true
		}
	}
	return false
}

// Hint implements matcher.StackHinter: it returns the shortest call path
// FindPossiblePaths discovered to target, or nil when the graph holds no
// route from any "main" to target at all.
func (g *Graph) Hint(target model.SourceRef) []model.SourceRef {
	paths := g.FindPossiblePaths(target)
	reaching := make(map[model.SourceRef]bool)
	for _, e := range g.edges {
		if e.To == target.Name {
			reaching[e.Via] = true
		}
	}
	var best []model.SourceRef
	for _, p := range paths {
		reached := false
		for _, r := range p {
			if reaching[r] {
				reached = true
				break
			}
		}
		if !reached {
			continue
		}
		if best == nil || (len(p) > 0 && len(p) < len(best)) {
			best = p
		}
	}
	return best
}

func isExcluded(path string, exclude []string) bool {
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
