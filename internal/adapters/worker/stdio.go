package worker

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.WorkerConn = (*StdioConn)(nil)

type line struct {
	data []byte
	err  error
}

// StdioConn exchanges newline-delimited messages over a reader and a writer.
// Messages must not contain raw newlines; compact JSON never does.
type StdioConn struct {
	w     io.WriteCloser
	wmu   sync.Mutex
	lines chan line
	done  chan struct{}
	once  sync.Once
}

// NewStdioConn starts reading lines from r. Messages are written to w.
func NewStdioConn(r io.Reader, w io.WriteCloser) *StdioConn {
	c := &StdioConn{
		w:     w,
		lines: make(chan line),
		done:  make(chan struct{}),
	}
	go c.readLoop(bufio.NewReader(r))
	return c
}

// readLoop closes lines once r is exhausted.
func (c *StdioConn) readLoop(r *bufio.Reader) {
	for {
		data, err := r.ReadBytes('\n')
		data = bytes.TrimRight(data, "\r\n")
		if len(data) > 0 {
			select {
			case c.lines <- line{data: data}:
			case <-c.done:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				select {
				case c.lines <- line{err: err}:
				case <-c.done:
					return
				}
			}
			close(c.lines)
			return
		}
	}
}

// Send writes msg followed by a newline.
func (c *StdioConn) Send(ctx context.Context, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bytes.IndexByte(msg, '\n') >= 0 {
		return zerr.New("message contains a newline")
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	buf := make([]byte, 0, len(msg)+1)
	buf = append(append(buf, msg...), '\n')
	if _, err := c.w.Write(buf); err != nil {
		return zerr.Wrap(err, "failed to write worker message")
	}
	return nil
}

// Recv returns the next line. It returns io.EOF when the reader is exhausted.
func (c *StdioConn) Recv(ctx context.Context) ([]byte, error) {
	select {
	case l, ok := <-c.lines:
		if !ok {
			return nil, io.EOF
		}
		if l.err != nil {
			return nil, zerr.Wrap(l.err, "failed to read worker message")
		}
		return l.data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, io.ErrClosedPipe
	}
}

// Close closes the writer and stops delivering lines.
func (c *StdioConn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.w.Close()
	})
	return err
}
