package domain

import (
	"encoding/json"

	"go.trai.ch/zerr"
)

// MessageType tags a WorkerMessage.
type MessageType string

const (
	// MessageTask carries the task descriptor and the first chunk of paths.
	MessageTask MessageType = "task"
	// MessageChunk carries another chunk of paths.
	MessageChunk MessageType = "chunk"
	// MessageResult carries the outcome of one chunk.
	MessageResult MessageType = "result"
	// MessageExit asks a worker to stop.
	MessageExit MessageType = "exit"
	// MessageExitAck confirms a worker stopped.
	MessageExitAck MessageType = "exit_ack"
)

// TaskDescriptor is everything a worker needs to rebuild the analysis environment.
type TaskDescriptor struct {
	Loaders        []LoaderDescriptor `json:"loaders"`
	Configurations []Record           `json:"configurations,omitempty"`
	MaxOpenFiles   int                `json:"maxOpenFiles"`
}

// WorkerMessage is one message exchanged with an analysis worker.
type WorkerMessage struct {
	Type      MessageType     `json:"type"`
	Task      *TaskDescriptor `json:"task,omitempty"`
	Paths     []string        `json:"paths,omitempty"`
	Resources []Record        `json:"resources,omitempty"`
	Skipped   []string        `json:"skipped,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// EncodeMessage serializes msg.
func EncodeMessage(msg *WorkerMessage) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrWorkerProtocol.Error()), "type", string(msg.Type))
	}
	return data, nil
}

// DecodeMessage parses a message produced by EncodeMessage.
func DecodeMessage(data []byte) (*WorkerMessage, error) {
	var msg WorkerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, zerr.Wrap(err, ErrWorkerProtocol.Error())
	}
	if msg.Type == "" {
		return nil, zerr.With(ErrWorkerProtocol, "reason", "missing message type")
	}
	return &msg, nil
}

// NewTaskDescriptor snapshots the loaders and configurations of one analysis run.
func NewTaskDescriptor(loaders []LoaderDescriptor, trie *ConfigurationTrie, maxOpenFiles int) (*TaskDescriptor, error) {
	configs := trie.Configurations()
	resources := make([]Resource, 0, len(configs))
	for _, c := range configs {
		resources = append(resources, c)
	}
	records, err := ToRecords(resources)
	if err != nil {
		return nil, err
	}
	return &TaskDescriptor{Loaders: loaders, Configurations: records, MaxOpenFiles: maxOpenFiles}, nil
}

// Trie rebuilds the configuration trie carried by the descriptor.
func (d *TaskDescriptor) Trie() (*ConfigurationTrie, error) {
	configs := make([]*ProjectConfig, 0, len(d.Configurations))
	for _, rec := range d.Configurations {
		r, err := FromRecord(rec)
		if err != nil {
			return nil, err
		}
		c, ok := r.(*ProjectConfig)
		if !ok {
			return nil, zerr.With(ErrWorkerProtocol, "unexpected_kind", string(rec.Type))
		}
		configs = append(configs, c)
	}
	return NewConfigurationTrie(configs), nil
}
