package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetmap/cmd/assetmap/commands"
	"go.trai.ch/assetmap/internal/adapters/cas"
	"go.trai.ch/assetmap/internal/adapters/config"
	"go.trai.ch/assetmap/internal/adapters/fs"
	"go.trai.ch/assetmap/internal/adapters/loaders"
	"go.trai.ch/assetmap/internal/adapters/logger"
	"go.trai.ch/assetmap/internal/adapters/telemetry"
	"go.trai.ch/assetmap/internal/app"
	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/assetmap/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newCLI(t *testing.T) (*commands.CLI, *bytes.Buffer) {
	t.Helper()
	log := logger.New()
	log.SetOutput(io.Discard)
	hasher := fs.NewHasher()
	a := app.New(
		config.NewLoader(log),
		loaders.NewFactory(hasher),
		fs.NewScanner(fs.NewWalker()),
		hasher,
		map[string]ports.GraphStore{app.BackendJSON: cas.NewStore()},
		nil,
		telemetry.NewNoOp(),
		log,
	)
	cli := commands.New(a)
	var out bytes.Buffer
	cli.SetOutput(&out)
	return cli, &out
}

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		config.DefaultFilename: "version: \"1\"\n",
		"src/main.js":          "import './util';\n",
		"src/util.js":          "export default 1;\n",
	}
	for rel, content := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return root
}

func TestUpdate(t *testing.T) {
	root := writeProject(t)
	cli, out := newCLI(t)

	cli.SetArgs([]string{"update", "-c", root})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "2 resources")
	assert.Contains(t, out.String(), "cache written to")

	cli, out = newCLI(t)
	cli.SetArgs([]string{"update", "-c", root, "--in-process"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "cache up to date")
}

func TestUpdate_MissingConfig(t *testing.T) {
	cli, _ := newCLI(t)
	cli.SetArgs([]string{"update", "-c", filepath.Join(t.TempDir(), "missing.yaml")})
	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigReadFailed.Error())
}

func TestQuery(t *testing.T) {
	root := writeProject(t)
	cli, _ := newCLI(t)
	cli.SetArgs([]string{"update", "-c", root})
	require.NoError(t, cli.Execute(context.Background()))

	mainPath := domain.NormalizePath(filepath.Join(root, "src", "main.js"))
	utilPath := domain.NormalizePath(filepath.Join(root, "src", "util.js"))

	t.Run("by path", func(t *testing.T) {
		cli, out := newCLI(t)
		cli.SetArgs([]string{"query", "-c", root, "--path", "src/main.js"})
		require.NoError(t, cli.Execute(context.Background()))
		assert.Contains(t, out.String(), "module")
		assert.Contains(t, out.String(), mainPath)
		assert.Contains(t, out.String(), "-> "+utilPath)
	})

	t.Run("json", func(t *testing.T) {
		cli, out := newCLI(t)
		cli.SetArgs([]string{"query", "-c", root, "--type", "module", "--json"})
		require.NoError(t, cli.Execute(context.Background()))

		var records []domain.Record
		require.NoError(t, json.Unmarshal(out.Bytes(), &records))
		require.Len(t, records, 2)
		assert.Equal(t, mainPath, records[0].Path)
		assert.Equal(t, domain.KindModule, records[0].Type)
	})

	t.Run("no match", func(t *testing.T) {
		cli, out := newCLI(t)
		cli.SetArgs([]string{"query", "-c", root, "--type", "module", "--id", "nope"})
		require.NoError(t, cli.Execute(context.Background()))
		assert.Contains(t, out.String(), "no matching resources")
	})

	t.Run("path excludes type", func(t *testing.T) {
		cli, _ := newCLI(t)
		cli.SetArgs([]string{"query", "-c", root, "--path", "src/main.js", "--type", "module"})
		require.Error(t, cli.Execute(context.Background()))
	})
}

func TestVerboseHook(t *testing.T) {
	cli, _ := newCLI(t)
	var verbose bool
	cli.SetVerboseHook(func(v bool) { verbose = v })
	cli.SetArgs([]string{"version", "-v"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, verbose)
}

func TestVersion(t *testing.T) {
	cli, out := newCLI(t)
	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "assetmap version")
}

func TestRoot_Help(t *testing.T) {
	cli, out := newCLI(t)
	cli.SetArgs([]string{"--help"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "update")
	assert.NotContains(t, out.String(), "worker")
}

func TestUpdate_Unloaded(t *testing.T) {
	ctrl := gomock.NewController(t)
	settings := mocks.NewMockSettingsLoader(ctrl)
	settings.EXPECT().Load("assetmap.yaml").Return(nil, domain.ErrConfigParseFailed)

	a := app.New(settings, nil, nil, nil, nil, nil, telemetry.NewNoOp(), mocks.NewMockLogger(ctrl))
	cli := commands.New(a)
	cli.SetOutput(io.Discard)
	cli.SetArgs([]string{"update", "-c", "assetmap.yaml"})
	require.ErrorIs(t, cli.Execute(context.Background()), domain.ErrConfigParseFailed)
}
