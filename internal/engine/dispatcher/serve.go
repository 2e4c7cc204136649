package dispatcher

import (
	"context"
	"errors"
	"io"

	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/zerr"
)

// ServeWorker runs the worker side of the protocol on conn until it receives exit
// or the connection closes.
func ServeWorker(ctx context.Context, conn ports.WorkerConn, factory ports.LoaderFactory, logger ports.Logger) error {
	var (
		d    *Dispatcher
		trie *domain.ConfigurationTrie
	)
	for {
		data, err := conn.Recv(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		msg, err := domain.DecodeMessage(data)
		if err != nil {
			return err
		}

		switch msg.Type {
		case domain.MessageTask:
			d, trie, err = prepare(msg.Task, factory, logger)
			if err != nil {
				_ = reply(ctx, conn, &domain.WorkerMessage{Type: domain.MessageResult, Error: err.Error()})
				return err
			}
		case domain.MessageChunk:
			if d == nil {
				return zerr.With(domain.ErrWorkerProtocol, "reason", "chunk before task")
			}
		case domain.MessageExit:
			return reply(ctx, conn, &domain.WorkerMessage{Type: domain.MessageExitAck})
		default:
			return zerr.With(domain.ErrWorkerProtocol, "type", string(msg.Type))
		}

		logger.Debug("worker analyzing chunk", "paths", len(msg.Paths))
		if err := reply(ctx, conn, analyzeChunk(ctx, d, msg.Paths, trie)); err != nil {
			return err
		}
	}
}

func prepare(
	task *domain.TaskDescriptor,
	factory ports.LoaderFactory,
	logger ports.Logger,
) (*Dispatcher, *domain.ConfigurationTrie, error) {
	if task == nil {
		return nil, nil, zerr.With(domain.ErrWorkerProtocol, "reason", "task message without descriptor")
	}
	loaders, err := factory.Build(task.Loaders)
	if err != nil {
		return nil, nil, err
	}
	trie, err := task.Trie()
	if err != nil {
		return nil, nil, err
	}
	return New(loaders, logger, Options{MaxOpenFiles: task.MaxOpenFiles}), trie, nil
}

func analyzeChunk(ctx context.Context, d *Dispatcher, paths []string, trie *domain.ConfigurationTrie) *domain.WorkerMessage {
	res, err := d.Analyze(ctx, paths, trie)
	if err != nil {
		return &domain.WorkerMessage{Type: domain.MessageResult, Error: err.Error()}
	}
	records, err := domain.ToRecords(res.Resources)
	if err != nil {
		return &domain.WorkerMessage{Type: domain.MessageResult, Error: err.Error()}
	}
	return &domain.WorkerMessage{Type: domain.MessageResult, Resources: records, Skipped: res.Skipped}
}

func reply(ctx context.Context, conn ports.WorkerConn, msg *domain.WorkerMessage) error {
	data, err := domain.EncodeMessage(msg)
	if err != nil {
		return err
	}
	return conn.Send(ctx, data)
}
