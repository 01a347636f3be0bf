// Package scratch implements the real-time audio engine behind a turntable
// scratching simulator: a UI layer drags a virtual vinyl platter, and the
// engine renders continuously variable-speed audio (forward, backward,
// stopped, fast, slow) from fixed-rate PCM clips, glitch-free, inside a
// hard-real-time audio callback.
//
// # Features
//
//   - Band-limited fractional-position resampling using a precomputed
//     Kaiser-windowed sinc kernel table (aliasing-free variable-rate playback)
//   - Two mixed voices: a scratchable platter voice and an independent
//     music-track voice
//   - Lock-free control: rates, volumes and playback flags are atomic
//     scalars, so UI commands never block the audio thread
//   - "Play intro once, then loop silently" platter policy with
//     fader-controlled re-entry
//   - Touch/coast rate derivation with sensitivity and unity-normalization
//     configuration
//   - WAV and MP3 asset loading with extension fallback
//   - Pure Go engine core with no CGO dependencies
//
// # Quick Start
//
//	eng, err := scratch.New(scratch.Config{
//	    Assets:         os.DirFS("assets"),
//	    PlatterSamples: []string{"sounds/haahhh", "sounds/sample1"},
//	    MusicTracks:    []string{"tracks/trackA"},
//	    OpenStream: func(render device.RenderFunc) (device.Stream, error) {
//	        return device.Open(device.Config{}, render)
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	if err := eng.StartStream(); err != nil {
//	    log.Fatal(err)
//	}
//	eng.LoadIntro("sounds/haahhh")
//
//	// UI thread, ~60 Hz while the finger is down:
//	eng.ScratchInput(true, angleDeltaDegrees)
//
//	// On release, the platter follows the physics loop's coasting rate:
//	eng.ReleaseTouch()
//	eng.ScratchInput(false, coastingRate)
//
// # Architecture
//
// The engine owns two playback voices. Each voice renders through a shared
// windowed-sinc kernel table: for every output frame the fractional cursor
// position selects one of 1024 precomputed coefficient rows, a 16-tap
// convolution window is gathered from the clip (wrapping when looping,
// clamping otherwise), and the dot product lands in the output buffer.
//
//	UI commands ──► atomic rate/volume/flag state ──► audio callback
//	                                                    │
//	                              Voice.Render ◄── kernel.Table row lookup
//
// # Thread Safety
//
// Commands are safe to call from any goroutine concurrently with rendering.
// Cross-field consistency is deliberately relaxed: the render thread may
// combine, say, a rate from one command with a playing flag from the next
// for at most one hardware buffer, which is inaudible. Asset loads are the
// exception and are serialized internally against the command surface.
package scratch
