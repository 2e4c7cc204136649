package updater

import (
	"context"
	"regexp"
	"strings"

	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
)

// Cascade reloads the changed configurations claimed by loader and marks every scanned
// file beneath an affected root as changed. Affected roots are the old roots of modified
// and deleted configurations plus the new roots of created and modified ones.
// Reloaded configurations are stored in Change.NewResource.
func Cascade(
	ctx context.Context,
	graph *domain.ResourceGraph,
	changes []*domain.Change,
	files []domain.FileEntry,
	loader ports.Loader,
) ([]*domain.Change, error) {
	if loader == nil {
		return changes, nil
	}

	var roots []string
	for _, c := range changes {
		if !loader.MatchPath(c.Path) {
			continue
		}
		if !c.Deleted {
			r, err := loader.LoadFromPath(ctx, c.Path, nil)
			if err != nil {
				return nil, err
			}
			c.NewResource = r
		}
		if old, ok := c.OldResource.(*domain.ProjectConfig); ok {
			roots = append(roots, old.Roots()...)
		}
		if replacement, ok := c.NewResource.(*domain.ProjectConfig); ok {
			roots = append(roots, replacement.Roots()...)
		}
	}
	if len(roots) == 0 {
		return changes, nil
	}

	pattern := RootPattern(roots)
	changed := make(map[string]struct{}, len(changes))
	for _, c := range changes {
		changed[c.Path] = struct{}{}
	}
	for _, f := range files {
		p := domain.NormalizePath(f.Path)
		if _, ok := changed[p]; ok || !pattern.MatchString(p) {
			continue
		}
		changed[p] = struct{}{}
		changes = append(changes, &domain.Change{Path: p, MTime: f.MTime, OldResource: graph.GetByPath(p)})
	}

	sortChanges(changes)
	return changes, nil
}

// relativeRoot matches the start of any relative path that does not leave ".".
const relativeRoot = `\.\.[^/]|\.[^./]|[^./]`

// RootPattern builds ^(?:root1/|root2/|...) over the quoted roots.
// The root "." matches every relative path beneath it, as domain.IsWithin does.
func RootPattern(roots []string) *regexp.Regexp {
	alts := make([]string, 0, len(roots))
	seen := make(map[string]struct{}, len(roots))
	for _, r := range roots {
		r = strings.TrimSuffix(r, "/")
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		if r == "." {
			alts = append(alts, relativeRoot)
			continue
		}
		alts = append(alts, regexp.QuoteMeta(r)+"/")
	}
	return regexp.MustCompile(`^(?:` + strings.Join(alts, "|") + `)`)
}
