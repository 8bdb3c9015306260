// Package engine wires the Layout Grammar, Log Parser, language
// extractors, Template Index, Matcher, and State Store into the single
// orchestration spec.md's CLI contract needs: build an index once (from
// cache when possible), then map any number of log lines against it.
// Mirrors the original tool's `do_mappings` entry point
// (`_examples/original_source/src/lib.rs`), generalized from one-shot
// argument parsing into a reusable, buildable Engine.
package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/atikulmunna/log2src/internal/callgraph"
	"github.com/atikulmunna/log2src/internal/extract"
	"github.com/atikulmunna/log2src/internal/extract/golang"
	"github.com/atikulmunna/log2src/internal/extract/java"
	"github.com/atikulmunna/log2src/internal/extract/javascript"
	"github.com/atikulmunna/log2src/internal/index"
	"github.com/atikulmunna/log2src/internal/layout"
	"github.com/atikulmunna/log2src/internal/logrecord"
	"github.com/atikulmunna/log2src/internal/matcher"
	"github.com/atikulmunna/log2src/internal/model"
	"github.com/atikulmunna/log2src/internal/store"
)

// Config controls how an Engine builds its index and matches records.
// Zero-value fields take the defaults Build substitutes (see
// DefaultConfig).
type Config struct {
	// SourceRoots is ordered lowest-priority first; a file that exists
	// under more than one root (by path relative to its own root) is
	// indexed only from the last root that has it (spec.md §6's
	// "-d/--directory ... later roots shadow earlier ones").
	SourceRoots     []string
	Exclude         []string
	LayoutPattern   string // "" uses layout.Default()
	AcceptThreshold float64
	StackProximity  int
	StorePath       string // "" disables the state store entirely
	UseCallGraph    bool
	Verbose         bool // surfaces LogMapping.Score (spec.md §7)
}

// DefaultConfig returns a Config for a single sourceRoot with spec.md
// §4.5's default acceptance threshold and proximity window, and a state
// store at sourceRoot/.log2src.index (spec.md §6).
func DefaultConfig(sourceRoot string) Config {
	return Config{
		SourceRoots:     []string{sourceRoot},
		AcceptThreshold: matcher.DefaultOptions().AcceptThreshold,
		StackProximity:  matcher.DefaultOptions().StackProximity,
		StorePath:       filepath.Join(sourceRoot, ".log2src.index"),
	}
}

// Engine holds a frozen Template Index and the Matcher/Layout built over
// it, ready to map log records.
type Engine struct {
	idx    *index.Index
	mat    *matcher.Matcher
	layout *layout.Layout
}

// Build extracts (or loads from the state store) templates from every
// root in cfg.SourceRoots and returns a ready-to-use Engine.
func Build(ctx context.Context, cfg Config) (*Engine, error) {
	if len(cfg.SourceRoots) == 0 {
		return nil, fmt.Errorf("engine: at least one source root is required")
	}
	registry := newRegistry()

	digestExclude := cfg.Exclude
	if cfg.StorePath != "" {
		// The store file itself typically lives inside a source root;
		// exclude it so writing it doesn't perturb the very digest that
		// decides whether to rewrite it next run.
		digestExclude = append(append([]string{}, cfg.Exclude...), cfg.StorePath)
	}

	idx := index.New()
	cacheHit := false

	if cfg.StorePath != "" {
		digest, err := store.DigestAll(cfg.SourceRoots, digestExclude)
		if err != nil {
			return nil, fmt.Errorf("digesting source roots: %w", err)
		}
		if cached, ok := store.Load(cfg.StorePath, digest); ok {
			idx.AddAll(cached)
			cacheHit = true
		}
		if !cacheHit {
			templates, warnings, err := walkRoots(ctx, registry, cfg.SourceRoots, cfg.Exclude)
			if err != nil {
				return nil, err
			}
			logWarnings(warnings)
			idx.AddAll(templates)
			idx.Freeze()
			if err := store.Save(cfg.StorePath, digest, idx); err != nil {
				log.Printf("log2src: could not persist state store at %s: %v", cfg.StorePath, err)
			}
		} else {
			idx.Freeze()
		}
	} else {
		templates, warnings, err := walkRoots(ctx, registry, cfg.SourceRoots, cfg.Exclude)
		if err != nil {
			return nil, err
		}
		logWarnings(warnings)
		idx.AddAll(templates)
		idx.Freeze()
	}

	opts := matcher.DefaultOptions()
	if cfg.AcceptThreshold > 0 {
		opts.AcceptThreshold = cfg.AcceptThreshold
	}
	if cfg.StackProximity > 0 {
		opts.StackProximity = cfg.StackProximity
	}
	opts.Verbose = cfg.Verbose
	mat := matcher.New(idx, opts)

	if cfg.UseCallGraph {
		g, err := callgraph.Build(cfg.SourceRoots[len(cfg.SourceRoots)-1], cfg.Exclude)
		if err != nil {
			log.Printf("log2src: call graph disabled, could not build: %v", err)
		} else {
			mat = mat.WithCallGraphHints(g)
		}
	}

	lay, err := buildLayout(cfg.LayoutPattern)
	if err != nil {
		return nil, err
	}

	return &Engine{idx: idx, mat: mat, layout: lay}, nil
}

// walkRoots extracts templates from every root, processed highest-
// priority (last) root first, so an earlier root's file is skipped once
// a later root has already claimed the same root-relative path.
func walkRoots(ctx context.Context, registry *extract.Registry, roots, exclude []string) ([]model.LogTemplate, []extract.FileWarning, error) {
	claimed := make(map[string]bool)
	var templates []model.LogTemplate
	var warnings []extract.FileWarning

	for i := len(roots) - 1; i >= 0; i-- {
		root := roots[i]
		result, err := registry.Walk(ctx, root, exclude)
		if err != nil {
			return nil, nil, fmt.Errorf("walking %s: %w", root, err)
		}
		warnings = append(warnings, result.Warnings...)

		for _, t := range result.Templates {
			rel := relPath(root, t.SrcRef.SourcePath)
			if claimed[rel] {
				continue
			}
			templates = append(templates, t)
		}
		for _, t := range result.Templates {
			claimed[relPath(root, t.SrcRef.SourcePath)] = true
		}
	}
	return templates, warnings, nil
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

func logWarnings(warnings []extract.FileWarning) {
	for _, w := range warnings {
		log.Printf("log2src: skipping %s: %v", w.Path, w.Err)
	}
}

func buildLayout(pattern string) (*layout.Layout, error) {
	if pattern == "" {
		return layout.Default(), nil
	}
	return layout.Compile(pattern)
}

func newRegistry() *extract.Registry {
	r := extract.NewRegistry()
	r.Register(".go", golang.New())
	r.Register(".java", java.New())
	r.Register(".js", javascript.New())
	r.Register(".jsx", javascript.New())
	r.Register(".ts", javascript.New())
	r.Register(".tsx", javascript.New())
	return r
}

// Index exposes the engine's frozen Template Index, e.g. for diagnostics.
func (e *Engine) Index() *index.Index { return e.idx }

// MapReader reads every record whose first line lies in win from r and
// returns the matcher's mapping for each, in record order.
func (e *Engine) MapReader(r io.Reader, win logrecord.Window) []model.LogMapping {
	var mappings []model.LogMapping
	for rec := range logrecord.All(r, e.layout, win) {
		mappings = append(mappings, e.mat.Match(rec))
	}
	return mappings
}

// MapLine maps the single record at line within the full log content
// read from r — the one-line-window case spec.md §4.7 renders as a bare
// object rather than a sequence.
func (e *Engine) MapLine(r io.Reader, line int) model.LogMapping {
	mappings := e.MapReader(r, logrecord.Window{Start: line, End: line + 1})
	if len(mappings) == 0 {
		return model.Unmatched()
	}
	return mappings[0]
}
