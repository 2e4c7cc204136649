package updater

import (
	"context"
	"sync"

	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Phase is one step of an update cycle.
type Phase string

// Phases run strictly in this order.
const (
	PhaseIdle          Phase = "idle"
	PhaseDiff          Phase = "diff"
	PhaseConfigCascade Phase = "configCascade"
	PhaseAnalyze       Phase = "analyze"
	PhaseMerge         Phase = "merge"
	PhasePostProcess   Phase = "postProcess"
	PhaseDone          Phase = "done"
)

// Analyzer loads a set of paths. dispatcher.Dispatcher satisfies it.
//
//go:generate go run go.uber.org/mock/mockgen -destination=mock_analyzer_test.go -package=updater_test . Analyzer
type Analyzer interface {
	Analyze(ctx context.Context, paths []string, trie *domain.ConfigurationTrie) (*domain.AnalysisResult, error)
}

// Result summarizes one update cycle.
type Result struct {
	Changes  []*domain.Change
	Skipped  []string
	Added    int
	Modified int
	Removed  int
}

// Changed reports whether the cycle touched the graph.
func (r *Result) Changed() bool {
	return len(r.Changes) > len(r.Skipped)
}

// Orchestrator drives one graph through diff, configCascade, analyze, merge and postProcess.
type Orchestrator struct {
	graph     *domain.ResourceGraph
	loaders   []ports.Loader
	analyzer  Analyzer
	telemetry ports.Telemetry
	logger    ports.Logger

	mu    sync.Mutex
	phase Phase
}

// New creates an orchestrator over graph. loaders are in registration order.
func New(
	graph *domain.ResourceGraph,
	loaders []ports.Loader,
	analyzer Analyzer,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		graph:     graph,
		loaders:   loaders,
		analyzer:  analyzer,
		telemetry: telemetry,
		logger:    logger,
		phase:     PhaseIdle,
	}
}

// Graph returns the graph being updated.
func (o *Orchestrator) Graph() *domain.ResourceGraph {
	return o.graph
}

// Phase returns the phase currently running.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

func (o *Orchestrator) enter(p Phase) {
	o.mu.Lock()
	o.phase = p
	o.mu.Unlock()
}

// configLoader returns the first registered loader producing project configurations.
func (o *Orchestrator) configLoader() ports.Loader {
	for _, l := range o.loaders {
		if l.Kind() == domain.KindProjectConfig {
			return l
		}
	}
	return nil
}

// loaderFor returns the first registered loader claiming p.
func (o *Orchestrator) loaderFor(p string) ports.Loader {
	for _, l := range o.loaders {
		if l.MatchPath(p) {
			return l
		}
	}
	return nil
}

// runPhase records phase as a telemetry vertex around fn.
func (o *Orchestrator) runPhase(ctx context.Context, phase Phase, fn func(ctx context.Context) error) error {
	o.enter(phase)
	ctx, vertex := o.telemetry.Record(ctx, string(phase))
	o.logger.Debug("phase started", "phase", string(phase))
	err := fn(ctx)
	vertex.Complete(err)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "update phase failed"), "phase", string(phase))
	}
	o.logger.Debug("phase finished", "phase", string(phase))
	return nil
}

// Update applies the difference between files and the graph.
// Any failure before the merge phase leaves the graph untouched.
func (o *Orchestrator) Update(ctx context.Context, files []domain.FileEntry) (*Result, error) {
	res := &Result{}
	var changes []*domain.Change

	steps := []struct {
		phase Phase
		fn    func(ctx context.Context) error
	}{
		{PhaseDiff, func(context.Context) error {
			changes = Diff(o.graph, files)
			return nil
		}},
		{PhaseConfigCascade, func(ctx context.Context) error {
			var err error
			changes, err = Cascade(ctx, o.graph, changes, files, o.configLoader())
			return err
		}},
		{PhaseAnalyze, func(ctx context.Context) error {
			skipped, err := o.analyze(ctx, changes)
			res.Skipped = skipped
			return err
		}},
		{PhaseMerge, func(context.Context) error {
			return o.merge(changes, res)
		}},
		{PhasePostProcess, func(ctx context.Context) error {
			return o.postProcess(ctx, changes)
		}},
	}

	for _, step := range steps {
		if err := o.runPhase(ctx, step.phase, step.fn); err != nil {
			return nil, err
		}
	}
	o.enter(PhaseDone)

	res.Changes = changes
	o.logger.Info("graph updated",
		"changes", len(changes),
		"added", res.Added,
		"modified", res.Modified,
		"removed", res.Removed,
		"skipped", len(res.Skipped),
	)
	return res, nil
}

// snapshotTrie indexes the configurations that will be live once changes are merged.
func (o *Orchestrator) snapshotTrie(changes []*domain.Change) *domain.ConfigurationTrie {
	replaced := make(map[string]struct{})
	var reloaded []*domain.ProjectConfig
	for _, c := range changes {
		if _, ok := c.OldResource.(*domain.ProjectConfig); ok {
			replaced[c.Path] = struct{}{}
		}
		if cfg, ok := c.NewResource.(*domain.ProjectConfig); ok {
			reloaded = append(reloaded, cfg)
		}
	}
	var configs []*domain.ProjectConfig
	for _, cfg := range o.graph.Configurations() {
		if _, ok := replaced[cfg.Path]; !ok {
			configs = append(configs, cfg)
		}
	}
	return domain.NewConfigurationTrie(append(configs, reloaded...))
}

// analyze loads every changed path that was not already reloaded and returns the skipped paths.
func (o *Orchestrator) analyze(ctx context.Context, changes []*domain.Change) ([]string, error) {
	var paths []string
	byPath := make(map[string]*domain.Change, len(changes))
	for _, c := range changes {
		if c.Deleted || c.NewResource != nil {
			continue
		}
		paths = append(paths, c.Path)
		byPath[c.Path] = c
	}
	if len(paths) == 0 {
		return nil, nil
	}

	result, err := o.analyzer.Analyze(ctx, paths, o.snapshotTrie(changes))
	if err != nil {
		return nil, err
	}
	for _, r := range result.Resources {
		if c, ok := byPath[r.Core().Path]; ok {
			c.NewResource = r
		}
	}
	return result.Skipped, nil
}

// merge applies deletions, then modifications, then additions.
func (o *Orchestrator) merge(changes []*domain.Change, res *Result) error {
	for _, c := range changes {
		if c.Op() == domain.OpDelete {
			o.graph.Remove(c.OldResource)
			res.Removed++
		}
	}

	var replacements []domain.Resource
	for _, c := range changes {
		if c.Op() != domain.OpModify {
			continue
		}
		o.graph.Remove(c.OldResource)
		if c.NewResource == nil {
			res.Removed++
			continue
		}
		replacements = append(replacements, c.NewResource)
	}
	for _, r := range replacements {
		if err := o.graph.Add(r); err != nil {
			return err
		}
		res.Modified++
	}

	for _, c := range changes {
		if c.Op() != domain.OpCreate || c.NewResource == nil {
			continue
		}
		if err := o.graph.Add(c.NewResource); err != nil {
			return err
		}
		res.Added++
	}
	return nil
}

// postProcess hands every new resource to the hook of the first loader claiming its path.
func (o *Orchestrator) postProcess(ctx context.Context, changes []*domain.Change) error {
	groups := make(map[ports.Loader][]domain.Resource)
	var order []ports.Loader
	for _, c := range changes {
		if c.Deleted || c.NewResource == nil {
			continue
		}
		l := o.loaderFor(c.Path)
		if l == nil {
			continue
		}
		if _, ok := groups[l]; !ok {
			order = append(order, l)
		}
		groups[l] = append(groups[l], c.NewResource)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, l := range order {
		subset := groups[l]
		g.Go(func() error {
			if err := l.PostProcess(gctx, o.graph, subset); err != nil {
				return zerr.With(zerr.Wrap(err, "post-process failed"), "loader", l.Name())
			}
			return nil
		})
	}
	return g.Wait()
}
