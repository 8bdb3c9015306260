// Package store persists the Template Index to a file next to the
// indexed source root, so a repeated `map`/`watch` run can skip
// re-extraction when nothing has changed (spec.md §4.6). The on-disk
// shape and atomic-write discipline follow internal/tailer/checkpoint.go's
// Save(), generalized from tailer offsets to templates plus a tree
// digest.
package store

import (
	"encoding/json"
	"log"
	"os"

	"github.com/atikulmunna/log2src/internal/index"
	"github.com/atikulmunna/log2src/internal/model"
)

// version guards against loading a store file written by an incompatible
// future or past layout; a mismatch is treated as a cache miss, never an
// error (spec.md §4.6 "corruption or version skew is not an error").
const version = 1

// fileData is the on-disk JSON structure.
type fileData struct {
	Version   int                `json:"version"`
	Digest    string             `json:"digest"`
	Templates []model.LogTemplate `json:"templates"`
}

// Load reads a store file at path and returns its templates when its
// digest matches liveDigest. Any failure to read, parse, or match —
// missing file, corrupt JSON, version skew, stale digest — is reported
// as (nil, false), never an error, so the caller always falls back to
// rebuilding the index from source. Corrupt JSON, version skew and a
// stale digest are logged; a missing or unreadable file is not.
func Load(path, liveDigest string) ([]model.LogTemplate, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("store: %s is corrupt, rebuilding: %v", path, err)
		return nil, false
	}
	if data.Version != version {
		log.Printf("store: %s is version %d, expected %d, rebuilding", path, data.Version, version)
		return nil, false
	}
	if data.Digest != liveDigest {
		log.Printf("store: %s is stale, rebuilding", path)
		return nil, false
	}
	return data.Templates, true
}

// Save writes the index's templates and digest to path atomically, via a
// temp file and os.Rename, exactly as checkpoint.go's Save() does.
func Save(path, digest string, idx *index.Index) error {
	all := idx.All()
	templates := make([]model.LogTemplate, len(all))
	for i, t := range all {
		templates[i] = *t
	}

	raw, err := json.MarshalIndent(fileData{
		Version:   version,
		Digest:    digest,
		Templates: templates,
	}, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
