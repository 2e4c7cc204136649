// Package fs provides file system adapters for scanning and hashing source files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/gobwas/glob"
	"go.trai.ch/zerr"
)

// alwaysSkipped lists directory names that are never descended into.
var alwaysSkipped = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

// IgnoreSet matches entries against compiled glob patterns.
// A pattern matches when it matches either the entry name or its slash-separated path below the walk root.
type IgnoreSet struct {
	globs []glob.Glob
}

// NewIgnoreSet compiles patterns. '*' does not cross '/', '**' does.
func NewIgnoreSet(patterns []string) (*IgnoreSet, error) {
	set := &IgnoreSet{globs: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		g, err := glob.Compile(filepath.ToSlash(p), '/')
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid ignore pattern"), "pattern", p)
		}
		set.globs = append(set.globs, g)
	}
	return set, nil
}

// Match reports whether name or rel matches any pattern.
func (s *IgnoreSet) Match(name, rel string) bool {
	if s == nil {
		return false
	}
	for _, g := range s.globs {
		if g.Match(name) || g.Match(rel) {
			return true
		}
	}
	return false
}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file below root together with its directory entry.
// Symlinks are not followed. Unreadable subdirectories are skipped.
func (w *Walker) WalkFiles(root string, ignores *IgnoreSet) iter.Seq2[string, fs.DirEntry] {
	return func(yield func(string, fs.DirEntry) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return err
			}

			if path != root {
				if skip, action := w.shouldSkip(root, path, d, ignores); skip {
					return action
				}
			}

			if !d.Type().IsRegular() {
				return nil
			}

			if !yield(path, d) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// shouldSkip reports whether the entry is excluded, and the WalkDir action to take.
func (w *Walker) shouldSkip(root, path string, d fs.DirEntry, ignores *IgnoreSet) (bool, error) {
	name := d.Name()
	if d.IsDir() && alwaysSkipped[name] {
		return true, filepath.SkipDir
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	if ignores.Match(name, filepath.ToSlash(rel)) {
		if d.IsDir() {
			return true, filepath.SkipDir
		}
		return true, nil
	}
	return false, nil
}
