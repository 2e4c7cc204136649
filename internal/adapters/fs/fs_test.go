package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetmap/internal/adapters/fs"
	"go.trai.ch/assetmap/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_WalkFiles(t *testing.T) {
	// tmp/
	//   .git/config
	//   node_modules/lib/index.js
	//   ignored/file
	//   src/main.js
	//   README.md
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), "git config")
	writeFile(t, filepath.Join(tmpDir, "node_modules", "lib", "index.js"), "module.exports = 1")
	writeFile(t, filepath.Join(tmpDir, "ignored", "file"), "ignored content")
	writeFile(t, filepath.Join(tmpDir, "src", "main.js"), "export {}")
	writeFile(t, filepath.Join(tmpDir, "README.md"), "# Readme")

	ignores, err := fs.NewIgnoreSet([]string{"ignored"})
	require.NoError(t, err)

	files := make(map[string]bool)
	for path := range fs.NewWalker().WalkFiles(tmpDir, ignores) {
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files[filepath.ToSlash(rel)] = true
	}

	assert.False(t, files[".git/config"], "expected .git/config to be skipped")
	assert.False(t, files["node_modules/lib/index.js"], "expected node_modules to be skipped")
	assert.False(t, files["ignored/file"], "expected ignored/file to be skipped")
	assert.True(t, files["src/main.js"])
	assert.True(t, files["README.md"])
}

func TestWalker_SkipsSymlinks(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "real.js")
	writeFile(t, target, "export {}")
	if err := os.Symlink(target, filepath.Join(tmpDir, "link.js")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	var names []string
	for path := range fs.NewWalker().WalkFiles(tmpDir, nil) {
		names = append(names, filepath.Base(path))
	}
	assert.Equal(t, []string{"real.js"}, names)
}

func TestIgnoreSet_Match(t *testing.T) {
	set, err := fs.NewIgnoreSet([]string{"*.min.js", "vendor", "src/**/generated/*"})
	require.NoError(t, err)

	tests := []struct {
		name, rel string
		want      bool
	}{
		{"app.min.js", "src/app.min.js", true},
		{"app.js", "src/app.js", false},
		{"vendor", "lib/vendor", true},
		{"a.js", "src/x/y/generated/a.js", true},
		{"a.js", "lib/generated/a.js", false},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Match(tt.name, tt.rel))
		})
	}
}

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "src", "b.js"), "b")
	writeFile(t, filepath.Join(tmpDir, "src", "a.JS"), "a")
	writeFile(t, filepath.Join(tmpDir, "src", "style.css"), "body {}")
	writeFile(t, filepath.Join(tmpDir, "src", "notes.txt"), "skip")
	writeFile(t, filepath.Join(tmpDir, "src", "app.min.js"), "skip")

	mtime := time.UnixMilli(1_700_000_000_000)
	require.NoError(t, os.Chtimes(filepath.Join(tmpDir, "src", "b.js"), mtime, mtime))

	scanner := fs.NewScanner(fs.NewWalker())
	src := filepath.Join(tmpDir, "src")
	entries, err := scanner.Scan(context.Background(), []string{src, src}, []string{".js", ".css"}, []string{"*.min.js"})
	require.NoError(t, err)

	base := domain.NormalizePath(src)
	require.Len(t, entries, 3)
	assert.Equal(t, base+"/a.JS", entries[0].Path)
	assert.Equal(t, base+"/b.js", entries[1].Path)
	assert.Equal(t, int64(1_700_000_000_000), entries[1].MTime)
	assert.Equal(t, base+"/style.css", entries[2].Path)
}

func TestScanner_Scan_MissingRoot(t *testing.T) {
	scanner := fs.NewScanner(fs.NewWalker())
	_, err := scanner.Scan(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat scan root")
}

func TestScanner_Scan_Canceled(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.js"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fs.NewScanner(fs.NewWalker()).Scan(ctx, []string{tmpDir}, nil, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHasher_ComputeFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hasher_test")
	writeFile(t, path, "hello world")

	hasher := fs.NewHasher()

	hash1, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.Len(t, hash1, 16)

	// Verify determinism
	hash2, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2)

	writeFile(t, path, "hello there")
	hash3, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.NotEqual(t, hash1, hash3)

	_, err = hasher.ComputeFileHash(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestHasher_Fingerprint(t *testing.T) {
	hasher := fs.NewHasher()
	assert.Equal(t, hasher.Fingerprint("a", "b"), hasher.Fingerprint("a", "b"))
	assert.NotEqual(t, hasher.Fingerprint("ab", "c"), hasher.Fingerprint("a", "bc"))
	assert.NotEqual(t, hasher.Fingerprint(), hasher.Fingerprint(""))
}
