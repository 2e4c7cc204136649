package loaders

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"  // registers the GIF decoder
	_ "image/jpeg" // registers the JPEG decoder
	_ "image/png"  // registers the PNG decoder
	"path"
	"strings"

	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
)

// DefaultImageExtensions are claimed when the descriptor lists none.
var DefaultImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"}

// decodable lists the extensions whose dimensions are read from the file header.
var decodable = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

// ImageLoader records image dimensions and content hashes.
type ImageLoader struct {
	base
	hasher ports.Hasher
}

// NewImageLoader creates an image loader from desc.
func NewImageLoader(desc domain.LoaderDescriptor, hasher ports.Hasher) (*ImageLoader, error) {
	b, err := newBase(domain.KindImage, desc, DefaultImageExtensions)
	if err != nil {
		return nil, err
	}
	return &ImageLoader{base: b, hasher: hasher}, nil
}

// LoadFromPath reads the image header at p.
func (l *ImageLoader) LoadFromPath(ctx context.Context, p string, cfg *domain.ProjectConfig) (domain.Resource, error) {
	data, mtime, err := readFile(ctx, p)
	if err != nil {
		return nil, err
	}

	img := domain.NewImage(p, mtime)
	img.ID = resolveID(img.Path, cfg, false)

	if decodable[strings.ToLower(path.Ext(p))] {
		conf, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, parseError(err, p)
		}
		img.Width, img.Height = conf.Width, conf.Height
	}

	hash, err := l.hasher.ComputeFileHash(p)
	if err != nil {
		return nil, err
	}
	img.Hash = hash
	return img, nil
}
