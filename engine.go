package scratch

import (
	"fmt"
	"io/fs"
	"log"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/tphakala/go-scratch-engine/device"
	"github.com/tphakala/go-scratch-engine/internal/atomicx"
	"github.com/tphakala/go-scratch-engine/internal/codec"
	"github.com/tphakala/go-scratch-engine/internal/kernel"
	"github.com/tphakala/go-scratch-engine/internal/pcm"
	"github.com/tphakala/go-scratch-engine/internal/voice"
)

// Engine owns the platter and music voices, their shared rate/volume state,
// and the optional output stream. Construct it once with New, tear it down
// with Close; every command in between is safe from any goroutine
// concurrently with rendering.
type Engine struct {
	logger *log.Logger
	assets fs.FS
	table  *kernel.Table

	platter *voice.Voice
	music   *voice.Voice

	// Cross-thread scalar state. Each field is independently atomic; the
	// render thread may combine values from different commands, which is
	// acceptable because the staleness window is one hardware buffer.
	targetRate   atomicx.Float64
	sensitivity  atomicx.Float64
	unityNorm    atomicx.Float64
	faderVolume  atomicx.Float64
	masterVolume atomicx.Float64
	fingerDown   atomic.Bool

	// mu serializes commands that load assets or touch the path lists and
	// stream. It is never taken on the render path.
	mu           sync.Mutex
	platterPaths []string
	musicPaths   []string
	platterIndex int
	musicIndex   int
	stream       device.Stream
	closed       bool
}

// New builds an engine from cfg, opening the output stream when
// cfg.OpenStream is set. The returned engine is stopped and silent until
// StartStream and a load command.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	e := &Engine{
		logger:       cfg.Logger,
		assets:       cfg.Assets,
		table:        kernel.Shared(),
		platterPaths: slices.Clone(cfg.PlatterSamples),
		musicPaths:   slices.Clone(cfg.MusicTracks),
	}
	e.platter = voice.New(e.table, &e.targetRate)
	e.music = voice.New(e.table, nil)

	e.targetRate.Store(1.0)
	e.sensitivity.Store(cfg.ScratchSensitivity)
	e.unityNorm.Store(cfg.UnityNormalization)
	e.faderVolume.Store(0)
	e.masterVolume.Store(cfg.MasterVolume)

	if cfg.OpenStream != nil {
		stream, err := cfg.OpenStream(e.Render)
		if err != nil {
			return nil, fmt.Errorf("opening output stream: %w", err)
		}
		e.stream = stream
		e.logger.Printf("engine: stream opened (%d Hz, %d ch)", stream.SampleRate(), stream.Channels())
	}

	return e, nil
}

// Close stops and releases the output stream. Subsequent commands return
// ErrClosed; a render already in flight finishes against the old state.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	e.platter.SetPlaying(false)
	e.music.SetPlaying(false)

	if e.stream != nil {
		if err := e.stream.Close(); err != nil {
			e.logger.Printf("engine: closing stream: %v", err)
			return err
		}
	}
	return nil
}

// StartStream begins audio callbacks. Failures are logged and returned; the
// stream stays in its prior state.
func (e *Engine) StartStream() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.stream == nil {
		return ErrNoStream
	}
	if err := e.stream.Start(); err != nil {
		e.logger.Printf("engine: stream start failed: %v", err)
		return err
	}
	e.logger.Printf("engine: stream started")
	return nil
}

// StopStream pauses audio callbacks without releasing the device.
func (e *Engine) StopStream() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.stream == nil {
		return ErrNoStream
	}
	if err := e.stream.Stop(); err != nil {
		e.logger.Printf("engine: stream stop failed: %v", err)
		return err
	}
	e.logger.Printf("engine: stream stopped")
	return nil
}

// LoadIntro loads basePath onto the platter voice and arms the intro
// policy: play forward once at unity rate, then loop silently until the
// fader brings it back. The fader volume is forced to zero so the UI can
// fade the looping platter in.
//
// If basePath is not in the configured sample list, the list's first entry
// is used instead (or basePath itself when the list is empty).
func (e *Engine) LoadIntro(basePath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	idx := slices.Index(e.platterPaths, basePath)
	if idx < 0 {
		if len(e.platterPaths) == 0 {
			e.platterPaths = append(e.platterPaths, basePath)
		} else {
			e.logger.Printf("engine: intro path %q not in sample list, using index 0", basePath)
		}
		idx = 0
	}
	e.platterIndex = idx

	if err := e.loadVoiceLocked(e.platter, e.platterPaths[idx]); err != nil {
		return err
	}

	e.platter.SetPlayOnceThenLoop(true)
	e.platter.SetPlaying(true)
	e.targetRate.Store(1.0)
	e.faderVolume.Store(0)
	e.logger.Printf("engine: intro %q loaded, will play once then loop", e.platter.Path())
	return nil
}

// NextPlatterSample advances the platter sample cursor (wrapping at the end
// of the list) and starts the next sample looping at unity rate.
func (e *Engine) NextPlatterSample() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if len(e.platterPaths) == 0 {
		return ErrNoSamples
	}

	e.platterIndex = (e.platterIndex + 1) % len(e.platterPaths)
	if err := e.loadVoiceLocked(e.platter, e.platterPaths[e.platterIndex]); err != nil {
		return err
	}

	e.platter.SetLooping(true)
	e.platter.SetPlaying(true)
	e.targetRate.Store(1.0)
	e.logger.Printf("engine: platter sample %q loaded", e.platter.Path())
	return nil
}

// PlayTrack starts the current music track. If that track is already
// playing it restarts from the beginning without reloading.
func (e *Engine) PlayTrack() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.playTrackLocked()
}

func (e *Engine) playTrackLocked() error {
	if len(e.musicPaths) == 0 {
		return ErrNoTracks
	}
	if e.musicIndex < 0 || e.musicIndex >= len(e.musicPaths) {
		e.musicIndex = 0
	}
	basePath := e.musicPaths[e.musicIndex]

	if e.music.Playing() && resolvesTo(e.music.Path(), basePath) {
		e.music.SetPosition(0)
		e.logger.Printf("engine: track %q already playing, restarting", e.music.Path())
		return nil
	}

	if err := e.loadVoiceLocked(e.music, basePath); err != nil {
		return err
	}
	e.music.SetPlaying(true)
	e.logger.Printf("engine: track %q playing", e.music.Path())
	return nil
}

// StopTrack silences the music voice. The loaded track and its position are
// kept.
func (e *Engine) StopTrack() {
	e.music.SetPlaying(false)
	e.logger.Printf("engine: track stopped")
}

// NextTrackAndPlay advances the track cursor (wrapping) and plays the next
// track.
func (e *Engine) NextTrackAndPlay() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if len(e.musicPaths) == 0 {
		return ErrNoTracks
	}
	e.musicIndex = (e.musicIndex + 1) % len(e.musicPaths)
	return e.playTrackLocked()
}

// NextTrackKeepState advances the track cursor and loads the next track,
// resuming playback only if the music voice was already playing.
func (e *Engine) NextTrackKeepState() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if len(e.musicPaths) == 0 {
		return ErrNoTracks
	}

	wasPlaying := e.music.Playing()
	e.musicIndex = (e.musicIndex + 1) % len(e.musicPaths)

	if err := e.loadVoiceLocked(e.music, e.musicPaths[e.musicIndex]); err != nil {
		return err
	}
	e.music.SetPlaying(wasPlaying)
	e.logger.Printf("engine: track %q loaded, playing=%v", e.music.Path(), wasPlaying)
	return nil
}

// loadVoiceLocked decodes basePath into v. A failed load leaves the voice
// holding an empty buffer, so subsequent renders are silent rather than
// replaying stale audio.
func (e *Engine) loadVoiceLocked(v *voice.Voice, basePath string) error {
	if e.assets == nil {
		v.Load(&pcm.Buffer{}, basePath)
		e.logger.Printf("engine: no asset source, cannot load %q", basePath)
		return fmt.Errorf("loading %q: no asset source", basePath)
	}

	buf, resolved, err := codec.Load(e.assets, basePath)
	if err != nil {
		v.Load(&pcm.Buffer{}, basePath)
		e.logger.Printf("engine: load %q failed: %v", basePath, err)
		return fmt.Errorf("loading %q: %w", basePath, err)
	}

	v.Load(buf, resolved)
	e.logger.Printf("engine: loaded %q (%d frames, %d ch, %d Hz)",
		resolved, buf.Frames, buf.Channels, buf.SampleRate)
	return nil
}

// resolvesTo reports whether a resolved asset path came from basePath.
func resolvesTo(resolved, basePath string) bool {
	return resolved == basePath || resolved == basePath+".mp3" || resolved == basePath+".wav"
}

// SetFaderVolume sets the platter fader volume, clamped to [0, 1].
func (e *Engine) SetFaderVolume(v float64) {
	e.faderVolume.Store(clampVolume(v))
}

// SetMasterVolume sets the music/master volume, clamped to [0, 1].
func (e *Engine) SetMasterVolume(v float64) {
	e.masterVolume.Store(clampVolume(v))
}

// FaderVolume returns the current platter fader volume.
func (e *Engine) FaderVolume() float64 { return e.faderVolume.Load() }

// MasterVolume returns the current music/master volume.
func (e *Engine) MasterVolume() float64 { return e.masterVolume.Load() }

// SetSensitivity updates the scratch sensitivity for subsequent input.
func (e *Engine) SetSensitivity(s float64) {
	e.sensitivity.Store(s)
}

// SetUnityNormalization updates the input-units-per-unity-rate factor.
// Non-positive values are ignored.
func (e *Engine) SetUnityNormalization(n float64) {
	if n <= 0 {
		e.logger.Printf("engine: ignoring non-positive unity normalization %v", n)
		return
	}
	e.unityNorm.Store(n)
}

// TargetRate returns the current engine-wide target playback rate.
func (e *Engine) TargetRate() float64 { return e.targetRate.Load() }

// ScratchInput feeds one control update from the UI at frame cadence.
//
// While active (finger down), value is the raw angular delta of the drag.
// After release, the UI's physics loop keeps calling with active=false and
// the current coasting rate until the platter settles. Either way the
// platter voice follows the engine-wide target rate from here on.
//
// Lock-free: safe to call at 60 Hz concurrently with rendering.
func (e *Engine) ScratchInput(active bool, value float64) {
	e.fingerDown.Store(active)

	if e.platter.Buffer().Empty() {
		if active {
			e.logger.Printf("engine: scratch input on unloaded platter")
		}
		e.platter.SetSource(voice.RateFixedUnity)
		return
	}

	e.platter.SetSource(voice.RateFollowShared)

	rate, playing := deriveRate(active, value, e.sensitivity.Load(), e.unityNorm.Load())
	e.platter.SetPlaying(playing)
	e.targetRate.Store(rate)
}

// ReleaseTouch marks the finger as lifted and leaves the platter following
// the engine-wide rate, so the coasting updates that follow take effect
// immediately.
func (e *Engine) ReleaseTouch() {
	e.fingerDown.Store(false)
	if !e.platter.Buffer().Empty() {
		e.platter.SetSource(voice.RateFollowShared)
	}
}

// Render is the audio-device callback: it zeroes out and mixes both voices
// into it. Runs on the real-time thread; never blocks, locks or allocates.
//
// The platter normally renders at the fader volume. During the intro's
// first forward pass (policy armed, not yet looped, finger up, voice still
// at fixed unity rate) it renders at the master volume instead, so the
// intro is audible before the user ever touches the fader.
func (e *Engine) Render(out []float32, numFrames, channels int) {
	if channels <= 0 || numFrames <= 0 {
		return
	}
	if max := len(out) / channels; numFrames > max {
		numFrames = max
	}
	for i := range out[:numFrames*channels] {
		out[i] = 0
	}

	platterVol := e.faderVolume.Load()
	if e.platter.PlayOnceThenLoop() && !e.platter.PlayedOnce() &&
		!e.fingerDown.Load() && e.platter.Source() == voice.RateFixedUnity {
		platterVol = e.masterVolume.Load()
	}
	e.platter.Render(out, numFrames, channels, float32(platterVol))

	if e.music.Playing() {
		e.music.Render(out, numFrames, channels, float32(e.masterVolume.Load()))
	}
}
