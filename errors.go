package scratch

import "errors"

// Common errors returned by the engine's command surface. The render
// callback itself never fails; only commands report status.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid engine configuration")

	// ErrClosed indicates a command issued after Close.
	ErrClosed = errors.New("engine closed")

	// ErrNoStream indicates a stream command on an engine that was built
	// without an output stream.
	ErrNoStream = errors.New("no output stream configured")

	// ErrNoTracks indicates a track command with an empty track list.
	ErrNoTracks = errors.New("no music tracks configured")

	// ErrNoSamples indicates a platter command with an empty sample list.
	ErrNoSamples = errors.New("no platter samples configured")
)
