// Package worker provides the transports used to run analysis workers.
package worker

import (
	"context"
	"io"
	"sync"

	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/zerr"
)

// ServeFunc runs the worker side of a connection until the worker exits.
type ServeFunc func(ctx context.Context, conn ports.WorkerConn) error

var _ ports.WorkerSpawner = (*LocalSpawner)(nil)

// LocalSpawner runs workers as goroutines connected through byte channels.
type LocalSpawner struct {
	serve ServeFunc
}

// NewLocalSpawner creates a spawner that runs serve for every worker.
func NewLocalSpawner(serve ServeFunc) *LocalSpawner {
	return &LocalSpawner{serve: serve}
}

// Spawn starts a worker goroutine and returns the dispatcher's end of the pipe.
func (s *LocalSpawner) Spawn(ctx context.Context) (ports.WorkerConn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	toWorker := make(chan []byte, 1)
	fromWorker := make(chan []byte, 1)
	parentDone := make(chan struct{})
	childDone := make(chan struct{})

	child := &chanConn{in: toWorker, out: fromWorker, done: childDone, peer: parentDone}
	parent := &chanConn{in: fromWorker, out: toWorker, done: parentDone, peer: childDone, peerConn: child}

	go func() {
		err := s.serve(ctx, child)
		child.closeWithError(err)
	}()
	return parent, nil
}

// chanConn is one end of an in-memory worker pipe.
type chanConn struct {
	in   <-chan []byte
	out  chan<- []byte
	done chan struct{}
	peer chan struct{}

	// peerConn is set on the dispatcher end to surface the worker's exit error.
	peerConn *chanConn

	once sync.Once
	mu   sync.Mutex
	err  error
}

// Send delivers a copy of msg to the other end.
func (c *chanConn) Send(ctx context.Context, msg []byte) error {
	buf := append([]byte(nil), msg...)
	select {
	case c.out <- buf:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return io.ErrClosedPipe
	case <-c.peer:
		return c.peerError(io.ErrClosedPipe)
	}
}

// Recv waits for the next message. It returns io.EOF once the other end closed.
func (c *chanConn) Recv(ctx context.Context) ([]byte, error) {
	select {
	case msg := <-c.in:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, io.ErrClosedPipe
	case <-c.peer:
		// Drain anything sent before the peer closed.
		select {
		case msg := <-c.in:
			return msg, nil
		default:
			return nil, c.peerError(io.EOF)
		}
	}
}

// Close closes this end of the pipe.
func (c *chanConn) Close() error {
	c.closeWithError(nil)
	return nil
}

func (c *chanConn) closeWithError(err error) {
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *chanConn) peerError(fallback error) error {
	if c.peerConn == nil {
		return fallback
	}
	c.peerConn.mu.Lock()
	defer c.peerConn.mu.Unlock()
	if c.peerConn.err != nil {
		return zerr.Wrap(c.peerConn.err, "worker exited")
	}
	return fallback
}
