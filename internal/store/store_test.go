package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atikulmunna/log2src/internal/index"
	"github.com/atikulmunna/log2src/internal/model"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, ".log2src.index")

	idx := index.New()
	tpl := model.NewLogTemplate(model.SourceRef{SourcePath: "a.go", LineNumber: 3, Name: "foo"}, "INFO",
		[]model.Segment{{Kind: model.LiteralSegment, Literal: "starting"}})
	idx.Add(&tpl)
	idx.Freeze()

	if err := Save(storePath, "digest-123", idx); err != nil {
		t.Fatalf("unexpected error saving: %v", err)
	}

	loaded, ok := Load(storePath, "digest-123")
	if !ok {
		t.Fatalf("expected a cache hit on matching digest")
	}
	if len(loaded) != 1 || loaded[0].SrcRef.Name != "foo" {
		t.Fatalf("expected the saved template to round-trip, got %+v", loaded)
	}
}

func TestLoadMismatchedDigestIsCacheMiss(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, ".log2src.index")

	idx := index.New()
	idx.Freeze()
	if err := Save(storePath, "digest-a", idx); err != nil {
		t.Fatalf("unexpected error saving: %v", err)
	}

	if _, ok := Load(storePath, "digest-b"); ok {
		t.Errorf("expected a cache miss on digest mismatch")
	}
}

func TestLoadMissingFileIsCacheMiss(t *testing.T) {
	if _, ok := Load(filepath.Join(t.TempDir(), "nope.index"), "anything"); ok {
		t.Errorf("expected a cache miss for a missing file")
	}
}

func TestLoadCorruptFileIsCacheMiss(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".log2src.index")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("unexpected error writing fixture: %v", err)
	}
	if _, ok := Load(path, "anything"); ok {
		t.Errorf("expected a cache miss for a corrupt file")
	}
}

func TestDigestIsDeterministicForSameTree(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a"), 0644); err != nil {
		t.Fatalf("unexpected error writing fixture: %v", err)
	}

	d1, err := Digest(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d2, err := Digest(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d1 != d2 {
		t.Errorf("expected identical digests for an unchanged tree, got %q vs %q", d1, d2)
	}
}

func TestDigestChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	if err := os.WriteFile(path, []byte("package a"), 0644); err != nil {
		t.Fatalf("unexpected error writing fixture: %v", err)
	}
	before, err := Digest(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.WriteFile(path, []byte("package a\n\nfunc init() {}"), 0644); err != nil {
		t.Fatalf("unexpected error rewriting fixture: %v", err)
	}
	after, err := Digest(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before == after {
		t.Errorf("expected digest to change when file content/size changes")
	}
}
