package domain

import (
	"go.trai.ch/zerr"
)

// FormatVersion is the layout version of PersistedGraph.
const FormatVersion = "1"

// PersistedGraph is the cache representation of a ResourceGraph.
// Objects never holds configurations; those are kept in Configurations so a warm
// run can tell an unchanged descriptor from an edited one and cascade from its old roots.
type PersistedGraph struct {
	Version        string   `json:"version"`
	Objects        []Record `json:"objects"`
	Configurations []Record `json:"configurations,omitempty"`
}

// CacheVersion combines the format version with a fingerprint of the loader configuration.
func CacheVersion(loaderFingerprint string) string {
	return FormatVersion + "-" + loaderFingerprint
}

// ToPersisted flattens every resource of g, sorted by path. Configurations go to
// the descriptor table.
func ToPersisted(g *ResourceGraph, version string) (*PersistedGraph, error) {
	all := g.All()
	p := &PersistedGraph{Version: version, Objects: make([]Record, 0, len(all))}
	for _, r := range all {
		rec, err := ToRecord(r)
		if err != nil {
			return nil, err
		}
		if r.Kind().Persistent() {
			p.Objects = append(p.Objects, rec)
		} else {
			p.Configurations = append(p.Configurations, rec)
		}
	}
	return p, nil
}

// FromPersisted rebuilds a graph from p.
// It returns nil, nil when p is nil or was written with a different version.
func FromPersisted(p *PersistedGraph, version string, opts ...GraphOption) (*ResourceGraph, error) {
	if p == nil || p.Version != version {
		return nil, nil
	}
	g := NewResourceGraph(opts...)
	for _, rec := range p.Objects {
		r, err := FromRecord(rec)
		if err != nil {
			return nil, zerr.Wrap(err, ErrCacheReadFailed.Error())
		}
		if !r.Kind().Persistent() {
			continue
		}
		if err := g.Add(r); err != nil {
			return nil, zerr.Wrap(err, ErrCacheReadFailed.Error())
		}
	}
	for _, rec := range p.Configurations {
		if rec.Type != KindProjectConfig {
			return nil, zerr.With(zerr.Wrap(ErrUnknownKind, ErrCacheReadFailed.Error()), "kind", string(rec.Type))
		}
		r, err := FromRecord(rec)
		if err != nil {
			return nil, zerr.Wrap(err, ErrCacheReadFailed.Error())
		}
		if err := g.Add(r); err != nil {
			return nil, zerr.Wrap(err, ErrCacheReadFailed.Error())
		}
	}
	return g, nil
}
