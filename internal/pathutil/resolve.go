// Package pathutil provides path resolution and validation for
// user-configurable file locations.
package pathutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolveWithin resolves userPath relative to baseDir and verifies the
// result stays inside baseDir.
//
// A relative userPath is joined onto baseDir; an absolute userPath is
// accepted only if it already falls under baseDir. This keeps
// operator-supplied database paths from escaping the data directory
// via "../" segments.
//
// Returns an error if userPath is empty or whitespace-only, contains a
// null byte, or escapes baseDir after cleaning.
func ResolveWithin(baseDir, userPath string) (string, error) {
	trimmed := strings.TrimSpace(userPath)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty or whitespace-only")
	}
	if strings.Contains(userPath, "\x00") {
		return "", fmt.Errorf("path contains null byte")
	}

	base, err := filepath.Abs(filepath.Clean(baseDir))
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}

	candidate := trimmed
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(base, candidate)
	}
	candidate = filepath.Clean(candidate)

	rel, err := filepath.Rel(base, candidate)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes base directory: %s", userPath)
	}

	return candidate, nil
}
