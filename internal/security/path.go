// Package security confines tool-supplied paths to the working directory.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator checks that paths stay inside a root directory
type PathValidator struct {
	root string
}

// NewPathValidator creates a validator rooted at dir
func NewPathValidator(dir string) (*PathValidator, error) {
	if dir == "" {
		return nil, fmt.Errorf("root directory cannot be empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}

	return &PathValidator{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute root directory
func (v *PathValidator) Root() string {
	return v.root
}

// Resolve turns path into an absolute path inside the root. Relative paths
// are taken relative to the root.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.root, path)
	}
	abs := filepath.Clean(path)

	within, err := v.IsWithin(abs)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}

	return abs, nil
}

// IsWithin reports whether path, and its symlink target when it is a
// symlink, lie inside the root.
func (v *PathValidator) IsWithin(path string) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	abs = filepath.Clean(abs)

	target := abs
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		target = resolved
	}

	roots := []string{v.root}
	if resolved, err := filepath.EvalSymlinks(v.root); err == nil && resolved != v.root {
		roots = append(roots, resolved)
	}

	inside := func(p string) bool {
		for _, r := range roots {
			if p == r || strings.HasPrefix(p, r+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}

	return inside(abs) && inside(target), nil
}

// ResolveDirectory resolves dir like Resolve and creates it when missing
func (v *PathValidator) ResolveDirectory(dir string, perm os.FileMode) (string, error) {
	abs, err := v.Resolve(dir)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(abs, perm); err != nil {
			return "", fmt.Errorf("cannot create directory: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("cannot access directory: %w", err)
	case !info.IsDir():
		return "", fmt.Errorf("path is not a directory: %s", dir)
	}

	return abs, nil
}
