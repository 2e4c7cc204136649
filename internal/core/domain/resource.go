package domain

import (
	"encoding/json"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Resource is one parsed unit representing a scanned file.
// The concrete type is selected by Kind.
type Resource interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Core returns the header shared by every kind. Callers may read it freely
	// but must not change Path or ID of a resource that is live in a graph.
	Core() *Base
	// Dependencies returns the typed references this resource requires.
	Dependencies() []Ref
	// MarshalFields encodes the kind-specific fields for transport and persistence.
	MarshalFields() ([]byte, error)
	// UnmarshalFields decodes the kind-specific fields produced by MarshalFields.
	UnmarshalFields(data []byte) error
}

// Base is the header embedded in every resource kind.
type Base struct {
	Path  string
	ID    string
	MTime int64
}

// Core returns the header itself.
func (b *Base) Core() *Base {
	return b
}

// Ref is a typed reference to a resource id.
type Ref struct {
	Kind Kind
	ID   string
}

// String returns the referenced id.
func (r Ref) String() string {
	return r.ID
}

// NormalizePath cleans p and converts it to forward slashes.
func NormalizePath(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

// Module is a script module resource.
type Module struct {
	Base
	RequiredModules []string
	RequiredCSS     []string
	// Provided is set when the id was declared by the file itself rather than derived from its path.
	Provided bool
}

type moduleFields struct {
	RequiredModules []string `json:"requiredModules,omitempty"`
	RequiredCSS     []string `json:"requiredCSS,omitempty"`
	Provided        bool     `json:"provided,omitempty"`
}

// NewModule creates a module whose id defaults to its path.
func NewModule(p string, mtime int64) *Module {
	p = NormalizePath(p)
	return &Module{Base: Base{Path: p, ID: p, MTime: mtime}}
}

// Kind returns KindModule.
func (m *Module) Kind() Kind { return KindModule }

// Dependencies returns required modules followed by required stylesheets.
func (m *Module) Dependencies() []Ref {
	refs := make([]Ref, 0, len(m.RequiredModules)+len(m.RequiredCSS))
	for _, id := range m.RequiredModules {
		refs = append(refs, Ref{Kind: KindModule, ID: id})
	}
	for _, id := range m.RequiredCSS {
		refs = append(refs, Ref{Kind: KindStylesheet, ID: id})
	}
	return refs
}

// MarshalFields encodes the module-specific fields.
func (m *Module) MarshalFields() ([]byte, error) {
	return json.Marshal(moduleFields{
		RequiredModules: m.RequiredModules,
		RequiredCSS:     m.RequiredCSS,
		Provided:        m.Provided,
	})
}

// UnmarshalFields decodes the module-specific fields.
func (m *Module) UnmarshalFields(data []byte) error {
	var f moduleFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	m.RequiredModules = f.RequiredModules
	m.RequiredCSS = f.RequiredCSS
	m.Provided = f.Provided
	return nil
}

// Stylesheet is a CSS resource.
type Stylesheet struct {
	Base
	RequiredCSS []string
}

type stylesheetFields struct {
	RequiredCSS []string `json:"requiredCSS,omitempty"`
}

// NewStylesheet creates a stylesheet whose id defaults to its path.
func NewStylesheet(p string, mtime int64) *Stylesheet {
	p = NormalizePath(p)
	return &Stylesheet{Base: Base{Path: p, ID: p, MTime: mtime}}
}

// Kind returns KindStylesheet.
func (s *Stylesheet) Kind() Kind { return KindStylesheet }

// Dependencies returns the imported stylesheets.
func (s *Stylesheet) Dependencies() []Ref {
	refs := make([]Ref, 0, len(s.RequiredCSS))
	for _, id := range s.RequiredCSS {
		refs = append(refs, Ref{Kind: KindStylesheet, ID: id})
	}
	return refs
}

// MarshalFields encodes the stylesheet-specific fields.
func (s *Stylesheet) MarshalFields() ([]byte, error) {
	return json.Marshal(stylesheetFields{RequiredCSS: s.RequiredCSS})
}

// UnmarshalFields decodes the stylesheet-specific fields.
func (s *Stylesheet) UnmarshalFields(data []byte) error {
	var f stylesheetFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	s.RequiredCSS = f.RequiredCSS
	return nil
}

// Image is an image resource.
type Image struct {
	Base
	Width  int
	Height int
	Hash   string
}

type imageFields struct {
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Hash   string `json:"hash,omitempty"`
}

// NewImage creates an image whose id defaults to its path.
func NewImage(p string, mtime int64) *Image {
	p = NormalizePath(p)
	return &Image{Base: Base{Path: p, ID: p, MTime: mtime}}
}

// Kind returns KindImage.
func (i *Image) Kind() Kind { return KindImage }

// Dependencies returns nil; images are leaves.
func (i *Image) Dependencies() []Ref { return nil }

// MarshalFields encodes the image-specific fields.
func (i *Image) MarshalFields() ([]byte, error) {
	return json.Marshal(imageFields{Width: i.Width, Height: i.Height, Hash: i.Hash})
}

// UnmarshalFields decodes the image-specific fields.
func (i *Image) UnmarshalFields(data []byte) error {
	var f imageFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	i.Width, i.Height, i.Hash = f.Width, f.Height, f.Hash
	return nil
}

// Font is a web font resource.
type Font struct {
	Base
	Format string
	Hash   string
}

type fontFields struct {
	Format string `json:"format,omitempty"`
	Hash   string `json:"hash,omitempty"`
}

// NewFont creates a font whose id defaults to its path.
func NewFont(p string, mtime int64) *Font {
	p = NormalizePath(p)
	return &Font{Base: Base{Path: p, ID: p, MTime: mtime}}
}

// Kind returns KindFont.
func (f *Font) Kind() Kind { return KindFont }

// Dependencies returns nil; fonts are leaves.
func (f *Font) Dependencies() []Ref { return nil }

// MarshalFields encodes the font-specific fields.
func (f *Font) MarshalFields() ([]byte, error) {
	return json.Marshal(fontFields{Format: f.Format, Hash: f.Hash})
}

// UnmarshalFields decodes the font-specific fields.
func (f *Font) UnmarshalFields(data []byte) error {
	var ff fontFields
	if err := json.Unmarshal(data, &ff); err != nil {
		return err
	}
	f.Format, f.Hash = ff.Format, ff.Hash
	return nil
}

// newResource returns an empty resource of the given kind.
func newResource(k Kind) (Resource, bool) {
	switch k {
	case KindModule:
		return &Module{}, true
	case KindStylesheet:
		return &Stylesheet{}, true
	case KindImage:
		return &Image{}, true
	case KindFont:
		return &Font{}, true
	case KindProjectConfig:
		return &ProjectConfig{}, true
	default:
		return nil, false
	}
}

// SortByPath orders resources by path in place.
func SortByPath(resources []Resource) {
	slices.SortFunc(resources, func(a, b Resource) int {
		return strings.Compare(a.Core().Path, b.Core().Path)
	})
}
