package transcript

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandGlobs expands file paths and glob patterns into a deduplicated,
// sorted list of export inputs. Glob matches are filtered to the two input
// types the pipeline accepts (.txt transcripts and .zip archives), so a
// pattern like "exports/*" never drags loose media files into a parse run.
// Literal paths and patterns that match nothing are returned as-is; the
// caller surfaces file-not-found errors with the original spelling.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			// Keep the original spelling for the error message downstream.
			add(pattern)
			continue
		}

		for _, match := range matches {
			if match == pattern || exportInput(match) {
				add(match)
			}
		}
	}

	sort.Strings(result)

	return result, nil
}

// exportInput reports whether a path names a file type the parse pipeline
// accepts.
func exportInput(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".zip":
		return true
	}
	return false
}
