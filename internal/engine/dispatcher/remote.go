package dispatcher

import (
	"context"
	"sync"

	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// chunkPool hands out the paths not yet assigned to a worker.
type chunkPool struct {
	mu      sync.Mutex
	queue   []string
	workers int
	limit   int
}

// size is min(limit, ceil(remaining/workers)).
func (p *chunkPool) size() int {
	remaining := len(p.queue)
	return min(p.limit, (remaining+p.workers-1)/p.workers)
}

// deal assigns the first chunk of every worker round-robin.
func (p *chunkPool) deal() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()

	size := p.size()
	chunks := make([][]string, p.workers)
	for i := range chunks {
		chunks[i] = make([]string, 0, size)
	}
	n := min(len(p.queue), size*p.workers)
	for i, path := range p.queue[:n] {
		chunks[i%p.workers] = append(chunks[i%p.workers], path)
	}
	p.queue = p.queue[n:]
	return chunks
}

// next returns the following chunk, or nil once the pool is drained.
func (p *chunkPool) next() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return nil
	}
	n := p.size()
	chunk := p.queue[:n:n]
	p.queue = p.queue[n:]
	return chunk
}

type collector struct {
	mu     sync.Mutex
	result domain.AnalysisResult
}

func (c *collector) add(msg *domain.WorkerMessage) error {
	resources, err := domain.FromRecords(msg.Resources)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.Resources = append(c.result.Resources, resources...)
	c.result.Skipped = append(c.result.Skipped, msg.Skipped...)
	return nil
}

func (d *Dispatcher) analyzeRemote(
	ctx context.Context,
	paths []string,
	trie *domain.ConfigurationTrie,
	workers int,
) (*domain.AnalysisResult, error) {
	descriptors := make([]domain.LoaderDescriptor, 0, len(d.loaders))
	for _, l := range d.loaders {
		descriptors = append(descriptors, l.Descriptor())
	}
	task, err := domain.NewTaskDescriptor(descriptors, trie, d.opts.MaxOpenFiles)
	if err != nil {
		return nil, err
	}

	pool := &chunkPool{queue: paths, workers: workers, limit: d.opts.MaxOpenFiles}
	first := pool.deal()
	out := &collector{}

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range first {
		g.Go(func() error {
			if err := d.runWorker(gctx, task, chunk, pool, out); err != nil {
				return zerr.With(zerr.Wrap(err, "analysis worker stopped"), "worker", i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out.result, nil
}

// runWorker drives one worker through task, chunk* and exit.
func (d *Dispatcher) runWorker(
	ctx context.Context,
	task *domain.TaskDescriptor,
	chunk []string,
	pool *chunkPool,
	out *collector,
) error {
	conn, err := d.opts.Spawner.Spawn(ctx)
	if err != nil {
		return zerr.Wrap(err, domain.ErrWorkerFailed.Error())
	}
	defer func() { _ = conn.Close() }()

	msg := &domain.WorkerMessage{Type: domain.MessageTask, Task: task, Paths: chunk}
	for {
		reply, err := roundTrip(ctx, conn, msg)
		if err != nil {
			return err
		}
		if reply.Type != domain.MessageResult {
			return zerr.With(domain.ErrWorkerProtocol, "type", string(reply.Type))
		}
		if reply.Error != "" {
			return zerr.Wrap(zerr.New(reply.Error), domain.ErrWorkerFailed.Error())
		}
		if err := out.add(reply); err != nil {
			return err
		}

		next := pool.next()
		if next == nil {
			break
		}
		msg = &domain.WorkerMessage{Type: domain.MessageChunk, Paths: next}
	}

	reply, err := roundTrip(ctx, conn, &domain.WorkerMessage{Type: domain.MessageExit})
	if err != nil {
		return err
	}
	if reply.Type != domain.MessageExitAck {
		return zerr.With(domain.ErrWorkerProtocol, "type", string(reply.Type))
	}
	return nil
}

func roundTrip(ctx context.Context, conn ports.WorkerConn, msg *domain.WorkerMessage) (*domain.WorkerMessage, error) {
	data, err := domain.EncodeMessage(msg)
	if err != nil {
		return nil, err
	}
	if err := conn.Send(ctx, data); err != nil {
		return nil, zerr.Wrap(err, domain.ErrWorkerFailed.Error())
	}
	data, err = conn.Recv(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWorkerFailed.Error())
	}
	return domain.DecodeMessage(data)
}
