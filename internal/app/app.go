// Package app implements the application layer for assetmap.
package app

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/assetmap/internal/adapters/worker" //nolint:depguard // Wired in app layer
	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/assetmap/internal/engine/dispatcher"
	"go.trai.ch/assetmap/internal/engine/updater"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	settings  ports.SettingsLoader
	factory   ports.LoaderFactory
	scanner   ports.Scanner
	hasher    ports.Hasher
	stores    map[string]ports.GraphStore
	spawner   ports.WorkerSpawner
	telemetry ports.Telemetry
	logger    ports.Logger
}

// New creates a new App instance. stores maps cache backend names to graph stores.
func New(
	settings ports.SettingsLoader,
	factory ports.LoaderFactory,
	scanner ports.Scanner,
	hasher ports.Hasher,
	stores map[string]ports.GraphStore,
	spawner ports.WorkerSpawner,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		settings:  settings,
		factory:   factory,
		scanner:   scanner,
		hasher:    hasher,
		stores:    stores,
		spawner:   spawner,
		telemetry: telemetry,
		logger:    log,
	}
}

// UpdateOptions configuration for the Update method.
type UpdateOptions struct {
	// ConfigPath is the settings file or the directory containing it.
	ConfigPath string
	// NoCache ignores the persisted graph and rebuilds from scratch.
	NoCache bool
	// InProcess disables worker processes.
	InProcess bool
}

// UpdateReport summarizes one update cycle.
type UpdateReport struct {
	Resources int
	Changes   int
	Added     int
	Modified  int
	Removed   int
	Skipped   []string
	// Cold is set when no usable cached graph was found.
	Cold bool
	// Saved is set when the cache was written.
	Saved     bool
	CachePath string
	Duration  time.Duration
}

// session is the per-invocation state shared by Update and Query.
type session struct {
	settings *domain.Settings
	loaders  []ports.Loader
	store    ports.GraphStore
	version  string
}

func (a *App) open(configPath string) (*session, error) {
	settings, err := a.settings.Load(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	loaders, err := a.factory.Build(settings.Loaders)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build loaders")
	}
	store, ok := a.stores[settings.CacheBackend]
	if !ok {
		return nil, zerr.With(domain.ErrUnknownCacheBackend, "backend", settings.CacheBackend)
	}
	version, err := a.cacheVersion(settings)
	if err != nil {
		return nil, err
	}
	return &session{settings: settings, loaders: loaders, store: store, version: version}, nil
}

// cacheVersion ties the cache to the loader configuration and the alias table.
func (a *App) cacheVersion(settings *domain.Settings) (string, error) {
	loaders, err := json.Marshal(settings.Loaders)
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode loader configuration")
	}
	aliases, err := json.Marshal(settings.Aliases)
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode alias table")
	}
	return domain.CacheVersion(a.hasher.Fingerprint(string(loaders), string(aliases))), nil
}

// loadGraph returns the cached graph, or nil when it is missing, stale or unreadable.
func (a *App) loadGraph(ctx context.Context, s *session) *domain.ResourceGraph {
	ctx, vertex := a.telemetry.Record(ctx, "load cache")
	persisted, err := s.store.Load(ctx, s.settings.CacheFile())
	if err != nil {
		vertex.Complete(err)
		a.logger.Warn("ignoring unreadable graph cache", "path", s.settings.CacheFile(), "error", err.Error())
		return nil
	}
	g, err := domain.FromPersisted(persisted, s.version, s.settings.GraphOptions()...)
	if err != nil {
		vertex.Complete(err)
		a.logger.Warn("ignoring corrupt graph cache", "path", s.settings.CacheFile(), "error", err.Error())
		return nil
	}
	if g != nil {
		vertex.Cached()
	}
	vertex.Complete(nil)
	return g
}

func extensions(loaders []ports.Loader) []string {
	var exts []string
	for _, l := range loaders {
		exts = append(exts, l.Extensions()...)
	}
	slices.Sort(exts)
	return slices.Compact(exts)
}

// Update runs one incremental update cycle and persists the graph when it changed.
func (a *App) Update(ctx context.Context, opts UpdateOptions) (*UpdateReport, error) {
	start := time.Now()
	s, err := a.open(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	var graph *domain.ResourceGraph
	if !opts.NoCache {
		graph = a.loadGraph(ctx, s)
	}
	cold := graph == nil
	if cold {
		graph = domain.NewResourceGraph(s.settings.GraphOptions()...)
	}

	scanCtx, vertex := a.telemetry.Record(ctx, "scan")
	files, err := a.scanner.Scan(scanCtx, s.settings.RootDirs(), extensions(s.loaders), s.settings.ScanIgnore())
	vertex.Complete(err)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to scan roots")
	}
	a.logger.Debug("scan finished", "files", len(files), "cold", cold)

	dopts := dispatcher.Options{
		MaxOpenFiles: s.settings.MaxOpenFiles,
		MaxProcesses: s.settings.MaxProcesses,
	}
	if !opts.InProcess {
		dopts.Spawner = a.spawner
	}
	d := dispatcher.New(s.loaders, a.logger, dopts)
	res, err := updater.New(graph, s.loaders, d, a.telemetry, a.logger).Update(ctx, files)
	if err != nil {
		return nil, err
	}

	if s.settings.CheckCycles {
		if err := domain.ValidateGraph(graph); err != nil {
			return nil, err
		}
	}

	report := &UpdateReport{
		Resources: graph.Len(),
		Changes:   len(res.Changes),
		Added:     res.Added,
		Modified:  res.Modified,
		Removed:   res.Removed,
		Skipped:   res.Skipped,
		Cold:      cold,
		CachePath: s.settings.CacheFile(),
	}
	if res.Changed() || cold {
		if err := a.save(ctx, s, graph); err != nil {
			return nil, err
		}
		report.Saved = true
	}
	report.Duration = time.Since(start)
	return report, nil
}

func (a *App) save(ctx context.Context, s *session, graph *domain.ResourceGraph) error {
	ctx, vertex := a.telemetry.Record(ctx, "save cache")
	persisted, err := domain.ToPersisted(graph, s.version)
	if err == nil {
		err = s.store.Save(ctx, s.settings.CacheFile(), persisted)
	}
	vertex.Complete(err)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", s.settings.CacheFile())
	}
	a.logger.Debug("graph cache saved", "path", s.settings.CacheFile(), "objects", len(persisted.Objects))
	return nil
}

// QueryOptions selects resources from the persisted graph.
// Path takes precedence over Kind and ID. An empty query returns every resource.
type QueryOptions struct {
	ConfigPath string
	Kind       string
	ID         string
	Path       string
}

// Query answers a lookup against the persisted graph.
func (a *App) Query(ctx context.Context, opts QueryOptions) ([]domain.Resource, error) {
	s, err := a.open(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	graph := a.loadGraph(ctx, s)
	if graph == nil {
		return nil, zerr.With(domain.ErrCacheReadFailed, "reason", "graph cache is missing or stale, run update first")
	}

	if opts.Path != "" {
		p := opts.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(s.settings.Dir, p)
		}
		if r := graph.GetByPath(p); r != nil {
			return []domain.Resource{r}, nil
		}
		return nil, nil
	}

	if opts.Kind == "" {
		if opts.ID != "" {
			return nil, zerr.New("querying by id requires a resource type")
		}
		return graph.All(), nil
	}
	kind, err := domain.ParseKind(opts.Kind)
	if err != nil {
		return nil, err
	}
	if opts.ID == "" {
		return graph.GetAllByType(kind), nil
	}
	if r := graph.Get(kind, opts.ID); r != nil {
		return []domain.Resource{r}, nil
	}
	return nil, nil
}

// ServeWorker runs the analysis worker protocol over in and out until the dispatcher
// sends exit or closes the stream.
func (a *App) ServeWorker(ctx context.Context, in io.Reader, out io.WriteCloser) error {
	conn := worker.NewStdioConn(in, out)
	defer func() { _ = conn.Close() }()
	return dispatcher.ServeWorker(ctx, conn, a.factory, a.logger)
}
