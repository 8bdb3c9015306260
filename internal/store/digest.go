package store

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// fileStat is one (path, mtime, size) tuple contributing to a digest.
type fileStat struct {
	path    string
	mtimeNS int64
	size    int64
}

// Digest hashes the sorted (path, mtime-unixnano, size) tuple of every
// non-excluded file under root, so a live source tree can be compared
// against a previously stored one without re-extracting (spec.md §4.6).
func Digest(root string, exclude []string) (string, error) {
	var stats []fileStat
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if isExcluded(path, exclude) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		stats = append(stats, fileStat{path: path, mtimeNS: info.ModTime().UnixNano(), size: info.Size()})
		return nil
	})
	if err != nil {
		return "", err
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].path < stats[j].path })

	h := sha256.New()
	for _, s := range stats {
		h.Write([]byte(s.path))
		h.Write([]byte{0})
		writeInt64(h, s.mtimeNS)
		writeInt64(h, s.size)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestAll combines the per-root digests of roots into one hash,
// supporting spec.md §6's repeatable `-d` flag: a change under any
// source root invalidates the combined digest.
func DigestAll(roots []string, exclude []string) (string, error) {
	h := sha256.New()
	for _, root := range roots {
		d, err := Digest(root, exclude)
		if err != nil {
			return "", err
		}
		h.Write([]byte(d))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func isExcluded(path string, exclude []string) bool {
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func writeInt64(h io.Writer, v int64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
}
