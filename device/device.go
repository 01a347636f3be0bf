// Package device adapts platform audio outputs to the scratch engine's
// render callback. The production backend wraps malgo (miniaudio); a
// headless backend drives the callback from a ticker for tests and CI.
package device

import "errors"

// RenderFunc fills out with numFrames*channels interleaved float32 samples.
// It is invoked once per hardware buffer on the audio thread and must not
// block or allocate.
type RenderFunc func(out []float32, numFrames, channels int)

// Stream is one opened audio output. Start and Stop are idempotent; Close
// releases the underlying device and makes further calls fail.
type Stream interface {
	// Start begins periodic render callbacks.
	Start() error

	// Stop pauses callbacks without releasing the device.
	Stop() error

	// Close stops the stream and releases the device.
	Close() error

	// SampleRate returns the stream's sample rate in Hz.
	SampleRate() int

	// Channels returns the stream's interleaved channel count.
	Channels() int
}

// Config holds stream parameters. Zero values select the defaults.
type Config struct {
	// SampleRate in Hz. Default 44100.
	SampleRate int

	// Channels is the output channel count. Default 2 (stereo).
	Channels int

	// BufferFrames is the preferred callback period in frames. Default 256
	// (~5.8 ms at 44.1 kHz). Smaller periods lower latency at the cost of
	// callback overhead.
	BufferFrames int
}

// Stream parameter defaults.
const (
	defaultSampleRate   = 44100
	defaultChannels     = 2
	defaultBufferFrames = 256
)

func (c *Config) applyDefaults() {
	if c.SampleRate <= 0 {
		c.SampleRate = defaultSampleRate
	}
	if c.Channels <= 0 {
		c.Channels = defaultChannels
	}
	if c.BufferFrames <= 0 {
		c.BufferFrames = defaultBufferFrames
	}
}

// Errors returned by stream implementations.
var (
	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("device: stream closed")

	// ErrNilRender indicates a stream opened without a render callback.
	ErrNilRender = errors.New("device: nil render callback")
)
