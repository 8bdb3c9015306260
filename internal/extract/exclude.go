package extract

import "github.com/bmatcuk/doublestar/v4"

// isExcluded reports whether path matches any of the doublestar glob
// patterns in exclude, the same matching internal/store's Digest uses to
// skip paths under a source root.
func isExcluded(path string, exclude []string) bool {
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
