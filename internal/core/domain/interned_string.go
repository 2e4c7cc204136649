package domain

import (
	"strings"
	"unique"
)

// InternedString is a canonicalized string handle. Path segments repeat heavily
// across a tree, so the trie keys its children by handle.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// String returns the underlying string value.
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
}

// InternSegments splits a normalized slash path into interned segments.
// "." and "" have no segments.
func InternSegments(p string) []InternedString {
	if p == "." || p == "" {
		return nil
	}
	parts := strings.Split(p, "/")
	segs := make([]InternedString, len(parts))
	for i, part := range parts {
		segs[i] = NewInternedString(part)
	}
	return segs
}
