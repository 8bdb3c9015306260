// Package extract defines the language-extractor contract (spec.md §4.3)
// and the registry that dispatches a source file to its extractor by file
// extension. New languages are new registrations; the matcher and index
// are language-agnostic (spec.md §9).
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/atikulmunna/log2src/internal/model"
)

// Extractor performs a minimal parse of one source file sufficient to
// locate logging-API call sites and read their literal arguments and
// placeholder expressions.
type Extractor interface {
	Extract(src []byte, path string) ([]model.LogTemplate, error)
}

// Registry maps a file extension (including the leading dot) to the
// Extractor responsible for it.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Extractor)}
}

// Register associates an Extractor with a file extension.
func (r *Registry) Register(ext string, e Extractor) {
	r.byExt[ext] = e
}

// For returns the Extractor registered for path's extension, if any.
func (r *Registry) For(path string) (Extractor, bool) {
	e, ok := r.byExt[filepath.Ext(path)]
	return e, ok
}

// FileWarning records a per-file parse failure. Indexing continues past
// these (spec.md §4.3, §7 "recoverable at file scope").
type FileWarning struct {
	Path string
	Err  error
}

func (w FileWarning) Error() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// Result is one worker's contribution: the templates it found and any
// per-file warnings encountered along the way.
type Result struct {
	Templates []model.LogTemplate
	Warnings  []FileWarning
}

// Walk extracts templates from every file under root whose extension is
// registered, skipping paths matched by any of exclude (doublestar glob
// patterns). File parses fan out over a bounded worker pool; each
// worker builds a private slice merged into the result under a single
// exclusive append at the end — spec.md §5's "no interleaved mutation."
// Cancellation is observed at file boundaries.
func (r *Registry) Walk(ctx context.Context, root string, exclude []string) (Result, error) {
	paths, err := r.discover(root, exclude)
	if err != nil {
		return Result{}, err
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(paths) {
		workers = len(paths)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string, len(paths))
	for _, p := range paths {
		jobs <- p
	}
	close(jobs)

	results := make([]Result, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			var local Result
			for path := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				r.extractOne(path, &local)
			}
			results[slot] = local
		}(i)
	}
	wg.Wait()

	var merged Result
	for _, res := range results {
		merged.Templates = append(merged.Templates, res.Templates...)
		merged.Warnings = append(merged.Warnings, res.Warnings...)
	}
	return merged, ctx.Err()
}

func (r *Registry) extractOne(path string, into *Result) {
	e, ok := r.For(path)
	if !ok {
		return
	}
	src, err := os.ReadFile(path)
	if err != nil {
		into.Warnings = append(into.Warnings, FileWarning{Path: path, Err: err})
		return
	}
	templates, err := e.Extract(src, path)
	if err != nil {
		into.Warnings = append(into.Warnings, FileWarning{Path: path, Err: err})
		return
	}
	into.Templates = append(into.Templates, templates...)
}

func (r *Registry) discover(root string, exclude []string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			return nil
		}
		if isExcluded(path, exclude) {
			return nil
		}
		if _, ok := r.For(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return paths, nil
}
