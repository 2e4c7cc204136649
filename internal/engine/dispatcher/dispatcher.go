// Package dispatcher fans resource analysis out to goroutines or worker processes.
package dispatcher

import (
	"context"
	"fmt"
	"slices"

	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
)

// Options bounds the parallelism of an analysis run.
type Options struct {
	// MaxOpenFiles is the number of analyses kept in flight per process.
	MaxOpenFiles int
	// MaxProcesses caps the number of worker processes.
	MaxProcesses int
	// Spawner starts workers. Multi-process mode is disabled when nil.
	Spawner ports.WorkerSpawner
}

// Dispatcher routes paths to the first matching loader and collects the parsed resources.
type Dispatcher struct {
	loaders []ports.Loader
	logger  ports.Logger
	opts    Options
}

// New creates a dispatcher over loaders, in registration order.
func New(loaders []ports.Loader, logger ports.Logger, opts Options) *Dispatcher {
	if opts.MaxOpenFiles <= 0 {
		opts.MaxOpenFiles = domain.DefaultMaxOpenFiles
	}
	if opts.MaxProcesses <= 0 {
		opts.MaxProcesses = 1
	}
	return &Dispatcher{loaders: loaders, logger: logger, opts: opts}
}

// WorkerCount returns the number of workers a run over n paths would use; 0 means in-process.
func (d *Dispatcher) WorkerCount(n int) int {
	if d.opts.Spawner == nil {
		return 0
	}
	batches := n / d.opts.MaxOpenFiles
	if batches <= 1 {
		return 0
	}
	return min(d.opts.MaxProcesses, batches)
}

// Analyze loads every path with the loader that claims it.
// Paths no loader claims are reported as skipped.
func (d *Dispatcher) Analyze(ctx context.Context, paths []string, trie *domain.ConfigurationTrie) (*domain.AnalysisResult, error) {
	var (
		res *domain.AnalysisResult
		err error
	)
	if workers := d.WorkerCount(len(paths)); workers > 0 {
		d.logger.Debug("analyzing in worker processes", "paths", len(paths), "workers", workers)
		res, err = d.analyzeRemote(ctx, paths, trie, workers)
	} else {
		d.logger.Debug("analyzing in process", "paths", len(paths), "max_open_files", d.opts.MaxOpenFiles)
		res, err = d.analyzeLocal(ctx, paths, trie)
	}
	if err != nil {
		return nil, err
	}
	domain.SortByPath(res.Resources)
	slices.Sort(res.Skipped)
	if vertex, ok := ports.VertexFromContext(ctx); ok {
		vertex.Log(domain.LogLevelInfo, fmt.Sprintf("%d loaded, %d skipped", len(res.Resources), len(res.Skipped)))
	}
	return res, nil
}

// Match returns the first loader claiming p, or nil.
func (d *Dispatcher) Match(p string) ports.Loader {
	for _, l := range d.loaders {
		if l.MatchPath(p) {
			return l
		}
	}
	return nil
}

type outcome struct {
	path     string
	resource domain.Resource
	err      error
}

type runState struct {
	ctx       context.Context
	d         *Dispatcher
	trie      *domain.ConfigurationTrie
	queue     []string
	active    int
	resultsCh chan outcome
	result    *domain.AnalysisResult
	err       error
}

func (d *Dispatcher) analyzeLocal(ctx context.Context, paths []string, trie *domain.ConfigurationTrie) (*domain.AnalysisResult, error) {
	state := &runState{
		ctx:       ctx,
		d:         d,
		trie:      trie,
		queue:     paths,
		resultsCh: make(chan outcome, d.opts.MaxOpenFiles),
		result:    &domain.AnalysisResult{},
	}

	for {
		state.schedule()
		if state.active == 0 {
			break
		}
		state.handle(<-state.resultsCh)
	}

	if state.err != nil {
		return nil, state.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return state.result, nil
}

func (state *runState) stopped() bool {
	return state.err != nil || state.ctx.Err() != nil
}

// schedule starts analyses until the ceiling is reached or the queue is empty.
func (state *runState) schedule() {
	for len(state.queue) > 0 && state.active < state.d.opts.MaxOpenFiles && !state.stopped() {
		p := state.queue[0]
		state.queue = state.queue[1:]

		loader := state.d.Match(p)
		if loader == nil {
			state.result.Skipped = append(state.result.Skipped, p)
			continue
		}

		state.active++
		go func(p string, l ports.Loader) {
			r, err := l.LoadFromPath(state.ctx, p, state.trie.FindConfiguration(p))
			state.resultsCh <- outcome{path: p, resource: r, err: err}
		}(p, loader)
	}
}

func (state *runState) handle(res outcome) {
	state.active--
	if res.err != nil {
		if state.err == nil {
			state.err = res.err
		}
		return
	}
	if state.err == nil {
		state.result.Resources = append(state.result.Resources, res.resource)
	}
}
