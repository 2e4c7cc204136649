package fs

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Scanner = (*Scanner)(nil)

// Scanner implements ports.Scanner over the local file system.
type Scanner struct {
	walker *Walker
}

// NewScanner creates a new Scanner.
func NewScanner(walker *Walker) *Scanner {
	return &Scanner{walker: walker}
}

// Scan walks every dir and reports matching files sorted by path.
// Paths are slash-normalized; modification times are Unix milliseconds.
func (s *Scanner) Scan(ctx context.Context, dirs, extensions, ignore []string) ([]domain.FileEntry, error) {
	ignores, err := NewIgnoreSet(ignore)
	if err != nil {
		return nil, err
	}

	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}

	seen := make(map[string]bool)
	var entries []domain.FileEntry
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to stat scan root"), "dir", dir)
		}

		for path, d := range s.walker.WalkFiles(dir, ignores) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if len(exts) > 0 && !exts[strings.ToLower(filepath.Ext(path))] {
				continue
			}
			p := domain.NormalizePath(path)
			if seen[p] {
				continue
			}
			info, err := d.Info()
			if err != nil {
				// Removed between listing and stat.
				continue
			}
			seen[p] = true
			entries = append(entries, domain.FileEntry{Path: p, MTime: info.ModTime().UnixMilli()})
		}
	}

	slices.SortFunc(entries, func(a, b domain.FileEntry) int {
		return strings.Compare(a.Path, b.Path)
	})
	return entries, nil
}
