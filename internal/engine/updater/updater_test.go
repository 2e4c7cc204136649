package updater_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetmap/internal/adapters/loaders"
	"go.trai.ch/assetmap/internal/adapters/logger"
	"go.trai.ch/assetmap/internal/adapters/telemetry"
	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/assetmap/internal/core/ports/mocks"
	"go.trai.ch/assetmap/internal/engine/dispatcher"
	"go.trai.ch/assetmap/internal/engine/updater"
	"go.uber.org/mock/gomock"
)

func quietLogger() *logger.Logger {
	l := logger.New()
	l.SetOutput(io.Discard)
	return l
}

func changeOps(changes []*domain.Change) map[string]domain.ChangeOp {
	ops := make(map[string]domain.ChangeOp, len(changes))
	for _, c := range changes {
		ops[c.Path] = c.Op()
	}
	return ops
}

func TestDiff(t *testing.T) {
	g := domain.NewResourceGraph()
	require.NoError(t, g.Add(domain.NewModule("/r/a.js", 100)))
	require.NoError(t, g.Add(domain.NewModule("/r/b.js", 100)))

	t.Run("create and delete", func(t *testing.T) {
		changes := updater.Diff(g, []domain.FileEntry{{Path: "/r/a.js", MTime: 100}, {Path: "/r/c.js", MTime: 200}})
		require.Len(t, changes, 2)
		assert.Equal(t, "/r/b.js", changes[0].Path)
		assert.Equal(t, domain.OpDelete, changes[0].Op())
		assert.Equal(t, "/r/c.js", changes[1].Path)
		assert.Equal(t, domain.OpCreate, changes[1].Op())
	})

	t.Run("unchanged scan is idempotent", func(t *testing.T) {
		changes := updater.Diff(g, []domain.FileEntry{{Path: "/r/a.js", MTime: 100}, {Path: "/r/b.js", MTime: 100}})
		assert.Empty(t, changes)
	})

	t.Run("newer mtime is a modification", func(t *testing.T) {
		changes := updater.Diff(g, []domain.FileEntry{{Path: "/r/a.js", MTime: 150}, {Path: "/r/b.js", MTime: 90}})
		require.Len(t, changes, 1)
		assert.Equal(t, domain.OpModify, changes[0].Op())
		assert.Same(t, g.GetByPath("/r/a.js"), changes[0].OldResource)
		assert.Equal(t, int64(150), changes[0].MTime)
	})

	t.Run("duplicate scan entries", func(t *testing.T) {
		changes := updater.Diff(g, []domain.FileEntry{
			{Path: "/r/a.js", MTime: 100}, {Path: "/r/b.js", MTime: 100},
			{Path: "/r/d.js", MTime: 1}, {Path: "/r/d.js", MTime: 1},
		})
		require.Len(t, changes, 1)
	})
}

func TestRootPattern(t *testing.T) {
	re := updater.RootPattern([]string{"/a/b.c", "/x/y/", "/a/b.c"})

	assert.True(t, re.MatchString("/a/b.c/file.js"))
	assert.True(t, re.MatchString("/x/y/z/file.js"))
	assert.False(t, re.MatchString("/a/bxc/file.js"))
	assert.False(t, re.MatchString("/a/b.cd/file.js"))
	assert.False(t, re.MatchString("/a/b.c"))
	assert.False(t, re.MatchString("/prefix/a/b.c/file.js"))

	t.Run("relative root", func(t *testing.T) {
		re := updater.RootPattern([]string{"."})
		for _, p := range []string{"lib/x.js", "x.js", ".hidden/x.js", "..x/y.js"} {
			assert.True(t, re.MatchString(p), p)
			assert.Equal(t, domain.IsWithin(p, "."), re.MatchString(p), p)
		}
		for _, p := range []string{"/abs/x.js", "../x.js", ".", ".."} {
			assert.False(t, re.MatchString(p), p)
		}
	})
}

func writeFile(t *testing.T, p, content string, mtime time.Time) domain.FileEntry {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	require.NoError(t, os.Chtimes(p, mtime, mtime))
	return domain.FileEntry{Path: domain.NormalizePath(p), MTime: mtime.UnixMilli()}
}

func TestCascade(t *testing.T) {
	root := t.TempDir()
	base := time.UnixMilli(1_700_000_000_000)

	cfgPath := domain.NormalizePath(filepath.Join(root, "pkg", "project.json"))
	oldCfg := domain.NewProjectConfig(cfgPath, base.UnixMilli(), domain.ProjectDescriptor{Name: "pkg", Roots: []string{"lib"}})
	x := domain.NewModule(filepath.Join(root, "pkg", "lib", "x.js"), base.UnixMilli())
	y := domain.NewModule(filepath.Join(root, "other", "y.js"), base.UnixMilli())

	g := domain.NewResourceGraph()
	for _, r := range []domain.Resource{oldCfg, x, y} {
		require.NoError(t, g.Add(r))
	}

	files := []domain.FileEntry{
		writeFile(t, cfgPath, `{"name": "pkg", "roots": ["lib"]}`, base.Add(time.Second)),
		{Path: x.Path, MTime: x.MTime},
		{Path: y.Path, MTime: y.MTime},
	}

	projectLoader, err := loaders.NewProjectLoader(domain.LoaderDescriptor{Name: "project"})
	require.NoError(t, err)

	changes := updater.Diff(g, files)
	require.Len(t, changes, 1)

	changes, err = updater.Cascade(context.Background(), g, changes, files, projectLoader)
	require.NoError(t, err)

	ops := changeOps(changes)
	assert.Equal(t, map[string]domain.ChangeOp{cfgPath: domain.OpModify, x.Path: domain.OpModify}, ops)
	for _, c := range changes {
		if c.Path == cfgPath {
			assert.IsType(t, &domain.ProjectConfig{}, c.NewResource)
		} else {
			assert.Nil(t, c.NewResource)
		}
	}
}

func TestCascade_DeletedConfiguration(t *testing.T) {
	cfg := domain.NewProjectConfig("/r/pkg/project.json", 1, domain.ProjectDescriptor{})
	x := domain.NewModule("/r/pkg/x.js", 1)
	g := domain.NewResourceGraph()
	require.NoError(t, g.Add(cfg))
	require.NoError(t, g.Add(x))

	ctrl := gomock.NewController(t)
	l := mocks.NewMockLoader(ctrl)
	l.EXPECT().MatchPath(gomock.Any()).DoAndReturn(func(p string) bool {
		return filepath.Base(p) == "project.json"
	}).AnyTimes()

	files := []domain.FileEntry{{Path: x.Path, MTime: 1}}
	changes, err := updater.Cascade(context.Background(), g, updater.Diff(g, files), files, l)
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.ChangeOp{cfg.Path: domain.OpDelete, x.Path: domain.OpModify}, changeOps(changes))
}

func TestCascade_CreatedConfiguration(t *testing.T) {
	root := t.TempDir()
	base := time.UnixMilli(1_700_000_000_000)

	x := domain.NewModule(filepath.Join(root, "pkg", "lib", "x.js"), base.UnixMilli())
	y := domain.NewModule(filepath.Join(root, "pkg", "y.js"), base.UnixMilli())
	g := domain.NewResourceGraph()
	require.NoError(t, g.Add(x))
	require.NoError(t, g.Add(y))

	cfgPath := domain.NormalizePath(filepath.Join(root, "pkg", "project.json"))
	files := []domain.FileEntry{
		writeFile(t, cfgPath, `{"name": "app", "roots": ["lib"]}`, base),
		{Path: x.Path, MTime: x.MTime},
		{Path: y.Path, MTime: y.MTime},
	}

	projectLoader, err := loaders.NewProjectLoader(domain.LoaderDescriptor{Name: "project"})
	require.NoError(t, err)

	changes, err := updater.Cascade(context.Background(), g, updater.Diff(g, files), files, projectLoader)
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.ChangeOp{cfgPath: domain.OpCreate, x.Path: domain.OpModify}, changeOps(changes))
}

func TestCascade_ReloadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := mocks.NewMockLoader(ctrl)
	l.EXPECT().MatchPath("/r/project.json").Return(true)
	l.EXPECT().LoadFromPath(gomock.Any(), "/r/project.json", nil).Return(nil, domain.ErrLoaderParse)

	changes := []*domain.Change{{Path: "/r/project.json", MTime: 2}}
	_, err := updater.Cascade(context.Background(), domain.NewResourceGraph(), changes, nil, l)
	require.ErrorIs(t, err, domain.ErrLoaderParse)
}

type fixture struct {
	root    string
	loaders []ports.Loader
	graph   *domain.ResourceGraph
	orch    *updater.Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := domain.NormalizePath(t.TempDir())
	settings := domain.DefaultSettings(root)
	built, err := loaders.NewFactory(nil).Build(settings.Loaders[:3])
	require.NoError(t, err)

	g := domain.NewResourceGraph()
	d := dispatcher.New(built, quietLogger(), dispatcher.Options{MaxOpenFiles: 4})
	return &fixture{
		root:    root,
		loaders: built,
		graph:   g,
		orch:    updater.New(g, built, d, telemetry.NewNoOp(), quietLogger()),
	}
}

func (f *fixture) path(rel string) string {
	return f.root + "/" + rel
}

func TestOrchestrator_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	files := []domain.FileEntry{
		writeFile(t, f.path("pkg/project.json"), `{"name": "app", "roots": ["src"]}`, base),
		writeFile(t, f.path("pkg/src/main.js"), "import util from './util';\nimport './main.css';\n", base),
		writeFile(t, f.path("pkg/src/util.js"), "export default 1;\n", base),
		writeFile(t, f.path("pkg/src/main.css"), "@import './base.css';\n", base),
		writeFile(t, f.path("pkg/src/base.css"), "body {}\n", base),
		writeFile(t, f.path("pkg/README.txt"), "hi", base),
	}

	res, err := f.orch.Update(ctx, files)
	require.NoError(t, err)
	assert.Equal(t, updater.PhaseDone, f.orch.Phase())
	assert.True(t, res.Changed())
	assert.Equal(t, 5, res.Added)
	assert.Equal(t, []string{f.path("pkg/README.txt")}, res.Skipped)
	assert.Equal(t, 5, f.graph.Len())

	main, ok := f.graph.Get(domain.KindModule, "app/main").(*domain.Module)
	require.True(t, ok)
	assert.Equal(t, []string{"app/util"}, main.RequiredModules)
	assert.Equal(t, []string{"app/main.css"}, main.RequiredCSS)
	css, ok := f.graph.Get(domain.KindStylesheet, "app/main.css").(*domain.Stylesheet)
	require.True(t, ok)
	assert.Equal(t, []string{"app/base.css"}, css.RequiredCSS)
	require.NoError(t, domain.ValidateGraph(f.graph))

	t.Run("second run is a no-op", func(t *testing.T) {
		res, err := f.orch.Update(ctx, files)
		require.NoError(t, err)
		assert.Len(t, res.Changes, 1)
		assert.Equal(t, []string{f.path("pkg/README.txt")}, res.Skipped)
		assert.False(t, res.Changed())
	})

	t.Run("configuration change cascades", func(t *testing.T) {
		next := append([]domain.FileEntry(nil), files...)
		next[0] = writeFile(t, f.path("pkg/project.json"), `{"name": "web", "roots": ["src"]}`, base.Add(time.Minute))

		res, err := f.orch.Update(ctx, next)
		require.NoError(t, err)
		assert.Equal(t, 5, res.Modified)
		assert.NotNil(t, f.graph.Get(domain.KindModule, "web/main"))
		assert.Nil(t, f.graph.Get(domain.KindModule, "app/main"))
		files = next
	})

	t.Run("deletion", func(t *testing.T) {
		next := make([]domain.FileEntry, 0, len(files))
		for _, e := range files {
			if e.Path != f.path("pkg/src/base.css") {
				next = append(next, e)
			}
		}
		res, err := f.orch.Update(ctx, next)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Removed)
		assert.Nil(t, f.graph.GetByPath(f.path("pkg/src/base.css")))
		require.ErrorIs(t, domain.ValidateGraph(f.graph), domain.ErrDanglingReference)
	})
}

func TestOrchestrator_NewDescriptorCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	x := writeFile(t, f.path("pkg/lib/x.js"), "export default 1;\n", base)
	_, err := f.orch.Update(ctx, []domain.FileEntry{x})
	require.NoError(t, err)
	assert.NotNil(t, f.graph.Get(domain.KindModule, f.path("pkg/lib/x.js")))

	files := []domain.FileEntry{
		writeFile(t, f.path("pkg/project.json"), `{"name": "app", "roots": ["lib"]}`, base),
		x,
	}
	res, err := f.orch.Update(ctx, files)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Modified)

	require.NotNil(t, f.graph.ConfigurationFor(x.Path))
	assert.NotNil(t, f.graph.Get(domain.KindModule, "app/x"))
	assert.Nil(t, f.graph.Get(domain.KindModule, f.path("pkg/lib/x.js")))
}

func TestOrchestrator_WarmCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	files := []domain.FileEntry{
		writeFile(t, f.path("pkg/project.json"), `{"name": "app", "roots": ["lib"]}`, base),
		writeFile(t, f.path("pkg/lib/x.js"), "export default 1;\n", base),
	}
	_, err := f.orch.Update(ctx, files)
	require.NoError(t, err)
	require.NotNil(t, f.graph.Get(domain.KindModule, "app/x"))

	// restore simulates a later run starting from the cache.
	restore := func(t *testing.T, g *domain.ResourceGraph) (*domain.ResourceGraph, *updater.Orchestrator) {
		t.Helper()
		p, err := domain.ToPersisted(g, "v")
		require.NoError(t, err)
		warm, err := domain.FromPersisted(p, "v")
		require.NoError(t, err)
		require.NotNil(t, warm)
		d := dispatcher.New(f.loaders, quietLogger(), dispatcher.Options{MaxOpenFiles: 4})
		return warm, updater.New(warm, f.loaders, d, telemetry.NewNoOp(), quietLogger())
	}

	warm, orch := restore(t, f.graph)
	res, err := orch.Update(ctx, files)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	assert.False(t, res.Changed())

	files[0] = writeFile(t, f.path("pkg/project.json"), `{"name": "web", "roots": ["lib"]}`, base.Add(time.Minute))
	warm, orch = restore(t, warm)
	res, err = orch.Update(ctx, files)
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.ChangeOp{
		f.path("pkg/project.json"): domain.OpModify,
		f.path("pkg/lib/x.js"):     domain.OpModify,
	}, changeOps(res.Changes))
	assert.NotNil(t, warm.Get(domain.KindModule, "web/x"))
	assert.Nil(t, warm.Get(domain.KindModule, "app/x"))
}

func TestOrchestrator_FailureLeavesGraphUntouched(t *testing.T) {
	existing := domain.NewModule("/r/a.js", 1)
	g := domain.NewResourceGraph()
	require.NoError(t, g.Add(existing))
	before := append([]domain.Resource(nil), g.All()...)

	ctrl := gomock.NewController(t)
	analyzer := NewMockAnalyzer(ctrl)
	analyzer.EXPECT().Analyze(gomock.Any(), []string{"/r/a.js", "/r/b.js"}, gomock.Any()).Return(nil, domain.ErrLoaderParse)

	orch := updater.New(g, nil, analyzer, telemetry.NewNoOp(), quietLogger())
	_, err := orch.Update(context.Background(), []domain.FileEntry{{Path: "/r/a.js", MTime: 2}, {Path: "/r/b.js", MTime: 1}})
	require.ErrorIs(t, err, domain.ErrLoaderParse)
	assert.Equal(t, updater.PhaseAnalyze, orch.Phase())
	assert.Equal(t, before, g.All())
	assert.Same(t, existing, g.GetByPath("/r/a.js"))
}

func TestOrchestrator_DuplicateID(t *testing.T) {
	g := domain.NewResourceGraph()
	require.NoError(t, g.Add(&domain.Module{Base: domain.Base{Path: "/r/a.js", ID: "shared", MTime: 1}}))

	ctrl := gomock.NewController(t)
	analyzer := NewMockAnalyzer(ctrl)
	analyzer.EXPECT().Analyze(gomock.Any(), []string{"/r/b.js"}, gomock.Any()).Return(&domain.AnalysisResult{
		Resources: []domain.Resource{&domain.Module{Base: domain.Base{Path: "/r/b.js", ID: "shared", MTime: 1}}},
	}, nil)

	orch := updater.New(g, nil, analyzer, telemetry.NewNoOp(), quietLogger())
	_, err := orch.Update(context.Background(), []domain.FileEntry{{Path: "/r/a.js", MTime: 1}, {Path: "/r/b.js", MTime: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrDuplicateID.Error())
}

func TestOrchestrator_RecordsPhases(t *testing.T) {
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)

	var calls []any
	for _, phase := range []updater.Phase{
		updater.PhaseDiff, updater.PhaseConfigCascade, updater.PhaseAnalyze, updater.PhaseMerge, updater.PhasePostProcess,
	} {
		calls = append(calls, tel.EXPECT().Record(gomock.Any(), string(phase)).DoAndReturn(
			func(ctx context.Context, _ string) (context.Context, ports.Vertex) { return ctx, vertex },
		))
	}
	gomock.InOrder(calls...)
	vertex.EXPECT().Complete(nil).Times(5)

	orch := updater.New(domain.NewResourceGraph(), nil, NewMockAnalyzer(ctrl), tel, quietLogger())
	res, err := orch.Update(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, res.Changed())
}

func TestOrchestrator_PostProcessFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := mocks.NewMockLoader(ctrl)
	l.EXPECT().Kind().Return(domain.KindModule).AnyTimes()
	l.EXPECT().Name().Return("module").AnyTimes()
	l.EXPECT().MatchPath(gomock.Any()).Return(true).AnyTimes()
	l.EXPECT().PostProcess(gomock.Any(), gomock.Any(), gomock.Len(1)).Return(assert.AnError)

	analyzer := NewMockAnalyzer(ctrl)
	analyzer.EXPECT().Analyze(gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.AnalysisResult{
		Resources: []domain.Resource{domain.NewModule("/r/a.js", 1)},
	}, nil)

	orch := updater.New(domain.NewResourceGraph(), []ports.Loader{l}, analyzer, telemetry.NewNoOp(), quietLogger())
	_, err := orch.Update(context.Background(), []domain.FileEntry{{Path: "/r/a.js", MTime: 1}})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, updater.PhasePostProcess, orch.Phase())
}
