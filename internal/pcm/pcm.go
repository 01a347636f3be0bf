// Package pcm defines the decoded audio clip type shared between the codec
// layer and the playback voices.
package pcm

// Buffer holds one decoded clip as interleaved float32 samples.
//
// A Buffer is immutable once built: loads replace the whole Buffer rather
// than mutating it in place, which lets the render thread keep reading an
// old Buffer while a new one is being swapped in.
type Buffer struct {
	// Data is the interleaved sample data, Frames*Channels values in [-1, 1].
	Data []float32

	// Channels is the number of interleaved channels (≥1).
	Channels int

	// Frames is the number of sample frames.
	Frames int

	// SampleRate is the clip's native sample rate in Hz.
	SampleRate int
}

// Empty reports whether the buffer holds no audio.
func (b *Buffer) Empty() bool {
	return b == nil || b.Frames == 0 || b.Channels == 0 || len(b.Data) == 0
}

// At returns the sample at the given frame and channel, or 0 when the
// indices fall outside the buffer. Channel indices wrap modulo Channels so
// a mono clip can feed a stereo output.
func (b *Buffer) At(frame, channel int) float32 {
	if b.Empty() || frame < 0 || frame >= b.Frames {
		return 0
	}
	idx := frame*b.Channels + channel%b.Channels
	if idx < 0 || idx >= len(b.Data) {
		return 0
	}
	return b.Data[idx]
}
