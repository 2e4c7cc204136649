package worker_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetmap/internal/adapters/worker"
	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/assetmap/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func echo(ctx context.Context, conn ports.WorkerConn) error {
	for {
		msg, err := conn.Recv(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := conn.Send(ctx, bytes.ToUpper(msg)); err != nil {
			return err
		}
	}
}

func TestLocalSpawner_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := worker.NewLocalSpawner(echo).Spawn(ctx)
	require.NoError(t, err)
	defer conn.Close() //nolint:errcheck // test cleanup

	for _, msg := range []string{"task", "chunk"} {
		require.NoError(t, conn.Send(ctx, []byte(msg)))
		got, err := conn.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, bytes.ToUpper([]byte(msg)), got)
	}
}

func TestLocalSpawner_WorkerExit(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Run("clean exit reads as EOF", func(t *testing.T) {
		conn, err := worker.NewLocalSpawner(func(ctx context.Context, c ports.WorkerConn) error {
			return c.Send(ctx, []byte("bye"))
		}).Spawn(ctx)
		require.NoError(t, err)

		got, err := conn.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte("bye"), got)

		_, err = conn.Recv(ctx)
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("failure is surfaced", func(t *testing.T) {
		conn, err := worker.NewLocalSpawner(func(context.Context, ports.WorkerConn) error {
			return assert.AnError
		}).Spawn(ctx)
		require.NoError(t, err)

		_, err = conn.Recv(ctx)
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestLocalSpawner_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := worker.NewLocalSpawner(echo).Spawn(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func TestStdioConn(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	in := bytes.NewBufferString("{\"type\":\"task\"}\n\n{\"type\":\"exit\"}")
	var out bytes.Buffer
	conn := worker.NewStdioConn(in, nopWriteCloser{&out})

	got, err := conn.Recv(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"task"}`, string(got))

	got, err = conn.Recv(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"exit"}`, string(got))

	_, err = conn.Recv(ctx)
	require.ErrorIs(t, err, io.EOF)

	require.NoError(t, conn.Send(ctx, []byte(`{"type":"exit_ack"}`)))
	assert.Equal(t, "{\"type\":\"exit_ack\"}\n", out.String())

	require.Error(t, conn.Send(ctx, []byte("a\nb")))
	require.NoError(t, conn.Close())
}

func TestStdioConn_RecvHonorsContext(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close() //nolint:errcheck // test cleanup
	conn := worker.NewStdioConn(r, nopWriteCloser{io.Discard})
	defer conn.Close() //nolint:errcheck // test cleanup

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := conn.Recv(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProcessSpawner(t *testing.T) {
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	spawner, err := worker.NewProcessSpawner(log, worker.WithCommand(cat), worker.WithStderr(io.Discard))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := spawner.Spawn(ctx)
	require.NoError(t, err)

	require.NoError(t, conn.Send(ctx, []byte(`{"type":"task","paths":["a.js"]}`)))
	got, err := conn.Recv(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"task","paths":["a.js"]}`, string(got))

	require.NoError(t, conn.Close())
}

func TestProcessSpawner_MissingExecutable(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	spawner, err := worker.NewProcessSpawner(log, worker.WithCommand("/nonexistent/assetmap"))
	require.NoError(t, err)

	_, err = spawner.Spawn(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis worker failed")
}
