package ports

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=worker.go -destination=mocks/mock_worker.go -package=mocks

// WorkerConn is a bidirectional message channel to an analysis worker.
// Every message is an opaque, self-contained byte payload.
type WorkerConn interface {
	Send(ctx context.Context, msg []byte) error
	Recv(ctx context.Context) ([]byte, error)
	Close() error
}

// WorkerSpawner starts analysis workers.
type WorkerSpawner interface {
	Spawn(ctx context.Context) (WorkerConn, error)
}
