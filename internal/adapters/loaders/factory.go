package loaders

import (
	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LoaderFactory = (*Factory)(nil)

// Factory builds loaders by name.
type Factory struct {
	hasher ports.Hasher
}

// NewFactory creates a new Factory.
func NewFactory(hasher ports.Hasher) *Factory {
	return &Factory{hasher: hasher}
}

// Build returns one loader per descriptor, preserving order.
func (f *Factory) Build(descriptors []domain.LoaderDescriptor) ([]ports.Loader, error) {
	loaders := make([]ports.Loader, 0, len(descriptors))
	for _, desc := range descriptors {
		l, err := f.build(desc)
		if err != nil {
			return nil, err
		}
		loaders = append(loaders, l)
	}
	return loaders, nil
}

func (f *Factory) build(desc domain.LoaderDescriptor) (ports.Loader, error) {
	switch domain.Kind(desc.Name) {
	case domain.KindProjectConfig:
		return NewProjectLoader(desc)
	case domain.KindModule:
		return NewModuleLoader(desc)
	case domain.KindStylesheet:
		return NewStylesheetLoader(desc)
	case domain.KindImage:
		return NewImageLoader(desc, f.hasher)
	case domain.KindFont:
		return NewFontLoader(desc, f.hasher)
	default:
		return nil, zerr.With(domain.ErrUnknownLoader, "loader", desc.Name)
	}
}
