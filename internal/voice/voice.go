// Package voice implements the playback voice: one decoded clip plus its
// mutable playback cursor, rate source and loop policy, rendered through the
// windowed-sinc kernel table.
//
// All playback state lives in independently atomic scalars so the control
// thread can mutate it while the audio thread renders. The fields are
// eventually consistent with each other: the render loop may observe a rate
// from one command and a playing flag from another for at most one buffer's
// worth of frames, which is inaudible. The one exception is Load, which the
// caller must serialize against Render of the same voice.
package voice

import (
	"math"
	"sync/atomic"

	"github.com/tphakala/simd/f32"

	"github.com/tphakala/go-scratch-engine/internal/atomicx"
	"github.com/tphakala/go-scratch-engine/internal/kernel"
	"github.com/tphakala/go-scratch-engine/internal/pcm"
)

// silentRateEpsilon is the shared-rate magnitude below which a render call
// short-circuits: the platter is effectively stopped, so there is nothing
// audible to compute and the cursor stays put.
const silentRateEpsilon = 1e-5

// RateSource selects how a voice derives its per-frame playback rate.
type RateSource int32

const (
	// RateFixedUnity plays the clip at its natural speed.
	RateFixedUnity RateSource = iota

	// RateFollowShared re-reads the engine-wide target rate every output
	// frame, so scratch motion is reflected with minimal latency.
	RateFollowShared
)

// Voice owns one clip and its playback state. Create voices once at engine
// init and reuse them across loads.
type Voice struct {
	table  *kernel.Table
	shared *atomicx.Float64 // engine-wide target rate, may be nil

	buf        atomic.Pointer[pcm.Buffer]
	position   atomicx.Float64
	playing    atomic.Bool
	loop       atomic.Bool
	rateSource atomic.Int32

	// play-once-then-loop-silently policy: the intro plays forward once,
	// then switches itself to looping
	playOnce   atomic.Bool
	playedOnce atomic.Bool

	// window is the per-frame tap gather buffer. Preallocated so the render
	// path never allocates.
	window []float32

	// path of the most recent successful load, for diagnostics. Written and
	// read on the command thread only.
	path string
}

// New creates a stopped, empty voice rendering through table. shared is the
// engine-wide target rate the voice follows in RateFollowShared mode; pass
// nil for voices that only ever play at unity.
func New(table *kernel.Table, shared *atomicx.Float64) *Voice {
	return &Voice{
		table:  table,
		shared: shared,
		window: make([]float32, table.Taps()),
	}
}

// Load swaps in a freshly decoded buffer and resets all playback fields to
// their stopped defaults. Not safe to call while a Render of this voice is
// in flight; the engine's command layer serializes the two.
func (v *Voice) Load(buf *pcm.Buffer, path string) {
	v.playing.Store(false)
	v.position.Store(0)
	v.loop.Store(false)
	v.rateSource.Store(int32(RateFixedUnity))
	v.playOnce.Store(false)
	v.playedOnce.Store(false)
	v.buf.Store(buf)
	v.path = path
}

// Buffer returns the current clip, which may be nil or empty after a failed
// load.
func (v *Voice) Buffer() *pcm.Buffer { return v.buf.Load() }

// Path returns the resolved path of the last successful load.
func (v *Voice) Path() string { return v.path }

// Playing reports whether the voice is audible.
func (v *Voice) Playing() bool { return v.playing.Load() }

// SetPlaying starts or stops the voice.
func (v *Voice) SetPlaying(p bool) { v.playing.Store(p) }

// Looping reports whether the cursor wraps at the clip edges.
func (v *Voice) Looping() bool { return v.loop.Load() }

// SetLooping enables or disables wrapping at the clip edges.
func (v *Voice) SetLooping(l bool) { v.loop.Store(l) }

// Source returns the voice's current rate source.
func (v *Voice) Source() RateSource { return RateSource(v.rateSource.Load()) }

// SetSource switches the voice between fixed-unity and shared-rate playback.
func (v *Voice) SetSource(s RateSource) { v.rateSource.Store(int32(s)) }

// SetPlayOnceThenLoop arms or disarms the intro policy: play forward once,
// then loop silently. Arming clears the played-once latch.
func (v *Voice) SetPlayOnceThenLoop(on bool) {
	v.playOnce.Store(on)
	if on {
		v.playedOnce.Store(false)
	}
}

// PlayOnceThenLoop reports whether the intro policy is armed.
func (v *Voice) PlayOnceThenLoop() bool { return v.playOnce.Load() }

// PlayedOnce reports whether an armed intro has completed its forward pass.
func (v *Voice) PlayedOnce() bool { return v.playedOnce.Load() }

// Position returns the continuous playback cursor in frames.
func (v *Voice) Position() float64 { return v.position.Load() }

// SetPosition moves the playback cursor.
func (v *Voice) SetPosition(p float64) { v.position.Store(p) }

// Render writes numFrames interpolated, volume-scaled frames into dst,
// additively: callers pre-zero the buffer, and an early stop leaves the
// remaining frames at whatever dst already held.
//
// dst must hold at least numFrames*outChannels samples. The routine never
// allocates, blocks or panics; any out-of-range fetch resolves to silence.
func (v *Voice) Render(dst []float32, numFrames, outChannels int, volume float32) {
	buf := v.buf.Load()
	if !v.playing.Load() || buf.Empty() || outChannels <= 0 || numFrames <= 0 {
		return
	}
	if len(dst) < numFrames*outChannels {
		return
	}

	followShared := v.Source() == RateFollowShared && v.shared != nil
	if followShared && math.Abs(v.shared.Load()) < silentRateEpsilon {
		return
	}

	pos := v.position.Load()
	total := float64(buf.Frames)
	taps := v.table.Taps()
	centerOffset := v.table.CenterOffset()

	for i := range numFrames {
		if pos >= total || pos < 0 {
			next, cont := v.resolveBoundary(pos, total)
			if !cont {
				v.position.Store(next)
				return
			}
			pos = next
		}

		rate := 1.0
		if followShared {
			rate = v.shared.Load()
		}

		base := int(math.Floor(pos))
		frac := pos - math.Floor(pos)
		row := v.table.Row(frac)
		start := base - centerOffset
		looping := v.loop.Load()

		for ch := range outChannels {
			for k := range taps {
				v.window[k] = v.fetch(buf, start+k, ch, looping)
			}
			dst[i*outChannels+ch] += f32.DotProductUnsafe(row, v.window) * volume
		}

		pos += rate
	}

	// Resolve a crossing that happened on the final advance so callers see
	// the stop (or the play-once transition) without waiting for the next
	// callback.
	if pos >= total || pos < 0 {
		pos, _ = v.resolveBoundary(pos, total)
	}
	v.position.Store(pos)
}

// resolveBoundary handles a cursor outside [0, totalFrames). It returns the
// corrected position and whether rendering may continue.
func (v *Voice) resolveBoundary(pos, total float64) (float64, bool) {
	if v.playOnce.Load() && !v.playedOnce.Load() {
		// The intro just finished its forward pass: latch it and start
		// looping (silently, at whatever volume the mixer applies).
		v.playedOnce.Store(true)
		v.loop.Store(true)
		return 0, true
	}
	if v.loop.Load() {
		wrapped := math.Mod(pos, total)
		if wrapped < 0 {
			wrapped += total
		}
		return wrapped, true
	}
	v.playing.Store(false)
	return pos, false
}

// fetch returns the source sample for an arbitrary, possibly out-of-range
// frame index: wrapped when looping, clamped otherwise.
func (v *Voice) fetch(buf *pcm.Buffer, frame, channel int, looping bool) float32 {
	if looping {
		frame %= buf.Frames
		if frame < 0 {
			frame += buf.Frames
		}
	} else {
		if frame < 0 {
			frame = 0
		} else if frame >= buf.Frames {
			frame = buf.Frames - 1
		}
	}
	return buf.At(frame, channel)
}
