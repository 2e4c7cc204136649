package ports

// Hasher defines the interface for computing content hashes.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash returns the hex encoded hash of the file content at path.
	ComputeFileHash(path string) (string, error)
	// Fingerprint returns a stable hash of the given parts.
	Fingerprint(parts ...string) string
}
