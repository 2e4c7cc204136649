package ports

import (
	"context"

	"go.trai.ch/assetmap/internal/core/domain"
)

// Scanner lists the candidate files of the source tree.
//
//go:generate go run go.uber.org/mock/mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type Scanner interface {
	// Scan walks dirs and returns every regular file whose extension is in extensions.
	// Entries matching an ignore pattern are skipped. An empty extensions list matches every file.
	Scan(ctx context.Context, dirs, extensions, ignore []string) ([]domain.FileEntry, error)
}
