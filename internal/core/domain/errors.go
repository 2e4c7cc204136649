package domain

import "go.trai.ch/zerr"

var (
	// ErrDuplicateID is returned when two live resources of the same kind bucket share an id.
	ErrDuplicateID = zerr.New("duplicate resource id")

	// ErrDuplicatePath is returned when a resource is added for a path that already has a live resource.
	ErrDuplicatePath = zerr.New("duplicate resource path")

	// ErrDanglingReference is returned when a dependency edge targets an id that is not in the graph.
	ErrDanglingReference = zerr.New("dangling dependency reference")

	// ErrCycleDetected is returned when a cycle is detected in the resource dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrLoaderRead is returned when a loader cannot read a file.
	ErrLoaderRead = zerr.New("failed to read resource")

	// ErrLoaderParse is returned when a loader cannot parse a file.
	ErrLoaderParse = zerr.New("failed to parse resource")

	// ErrUnknownKind is returned when a resource kind name is not part of the enumeration.
	ErrUnknownKind = zerr.New("unknown resource kind")

	// ErrUnknownLoader is returned when a loader descriptor names a loader that is not registered.
	ErrUnknownLoader = zerr.New("unknown loader")

	// ErrWorkerFailed is returned when an analysis worker reports a failure or dies.
	ErrWorkerFailed = zerr.New("analysis worker failed")

	// ErrWorkerProtocol is returned when a worker message is malformed or out of sequence.
	ErrWorkerProtocol = zerr.New("unexpected worker message")

	// ErrConfigReadFailed is returned when the settings file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the settings file cannot be parsed or is invalid.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrCacheReadFailed is returned when the persisted graph cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read graph cache")

	// ErrCacheWriteFailed is returned when the persisted graph cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write graph cache")

	// ErrUnknownCacheBackend is returned when the configured cache backend is not available.
	ErrUnknownCacheBackend = zerr.New("unknown cache backend")
)
