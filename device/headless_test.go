package device

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOpenHeadless_Defaults verifies zero-value config resolution.
func TestOpenHeadless_Defaults(t *testing.T) {
	s, err := OpenHeadless(Config{}, func([]float32, int, int) {})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, defaultSampleRate, s.SampleRate())
	assert.Equal(t, defaultChannels, s.Channels())
}

// TestOpenHeadless_NilRender verifies the nil-callback guard.
func TestOpenHeadless_NilRender(t *testing.T) {
	s, err := OpenHeadless(Config{}, nil)
	assert.ErrorIs(t, err, ErrNilRender)
	assert.Nil(t, s)
}

// TestHeadless_CallbackCadence verifies that the render callback fires with
// the configured geometry at roughly buffer cadence.
func TestHeadless_CallbackCadence(t *testing.T) {
	const (
		sampleRate   = 48000
		bufferFrames = 480 // 10 ms periods
		channels     = 2
	)

	var calls atomic.Int64
	var badGeometry atomic.Bool

	s, err := OpenHeadless(Config{
		SampleRate:   sampleRate,
		Channels:     channels,
		BufferFrames: bufferFrames,
	}, func(out []float32, frames, ch int) {
		if frames != bufferFrames || ch != channels || len(out) != bufferFrames*channels {
			badGeometry.Store(true)
		}
		calls.Add(1)
	})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Start())
	time.Sleep(120 * time.Millisecond)
	require.NoError(t, s.Stop())

	got := calls.Load()
	assert.False(t, badGeometry.Load(), "callback saw wrong buffer geometry")
	assert.Greater(t, got, int64(5), "expected several 10ms periods in 120ms")

	// no callbacks after Stop
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, got, calls.Load())
}

// TestHeadless_Lifecycle verifies idempotent start/stop and closed errors.
func TestHeadless_Lifecycle(t *testing.T) {
	s, err := OpenHeadless(Config{BufferFrames: 64}, func([]float32, int, int) {})
	require.NoError(t, err)

	require.NoError(t, s.Start())
	require.NoError(t, s.Start(), "double start is a no-op")
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop(), "double stop is a no-op")

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "double close is a no-op")

	assert.ErrorIs(t, s.Start(), ErrStreamClosed)
	assert.ErrorIs(t, s.Stop(), ErrStreamClosed)
}
