// Package updater applies file-system changes to a resource graph incrementally.
package updater

import (
	"slices"
	"strings"

	"go.trai.ch/assetmap/internal/core/domain"
)

// Diff compares a scan against graph. A path is changed when it has no live resource
// or its resource is older than the scanned mtime. Live resources missing from the scan
// are deleted. The result holds one change per path, sorted by path.
func Diff(graph *domain.ResourceGraph, files []domain.FileEntry) []*domain.Change {
	seen := make(map[string]struct{}, len(files))
	var changes []*domain.Change

	for _, f := range files {
		p := domain.NormalizePath(f.Path)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		old := graph.GetByPath(p)
		if old != nil && old.Core().MTime >= f.MTime {
			continue
		}
		changes = append(changes, &domain.Change{Path: p, MTime: f.MTime, OldResource: old})
	}

	for _, r := range graph.All() {
		p := r.Core().Path
		if _, ok := seen[p]; ok {
			continue
		}
		changes = append(changes, &domain.Change{Path: p, MTime: r.Core().MTime, Deleted: true, OldResource: r})
	}

	sortChanges(changes)
	return changes
}

func sortChanges(changes []*domain.Change) {
	slices.SortFunc(changes, func(a, b *domain.Change) int {
		return strings.Compare(a.Path, b.Path)
	})
}
