package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Kind identifies the variant of a Resource.
type Kind string

const (
	// KindModule is a script module.
	KindModule Kind = "module"
	// KindStylesheet is a CSS stylesheet.
	KindStylesheet Kind = "stylesheet"
	// KindImage is a raster or vector image.
	KindImage Kind = "image"
	// KindFont is a web font file.
	KindFont Kind = "font"
	// KindProjectConfig is a project descriptor governing a set of directories.
	KindProjectConfig Kind = "project"
)

// Kinds lists every resource kind in a stable order.
var Kinds = []Kind{KindModule, KindStylesheet, KindImage, KindFont, KindProjectConfig}

// ParseKind converts a string into a Kind, failing for names outside the enumeration.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", zerr.With(ErrUnknownKind, "kind", s)
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Persistent reports whether resources of this kind are written to the object list
// of the graph cache. Project configurations go to its descriptor table instead.
func (k Kind) Persistent() bool {
	return k != KindProjectConfig
}
