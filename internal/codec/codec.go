// Package codec decodes audio assets into the interleaved float32 clips the
// playback voices consume. WAV is handled by go-audio/wav, MP3 by go-mp3.
//
// The engine core treats this package as its codec collaborator: it hands in
// raw bytes plus an extension hint and gets back channel count, frame count,
// sample rate and samples, or an error it can log and turn into silence.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/tphakala/go-scratch-engine/internal/pcm"
)

// Recognized asset extensions.
const (
	extWAV = ".wav"
	extMP3 = ".mp3"
)

const (
	// mp3BytesPerFrame is go-mp3's fixed output frame size: 16-bit little
	// endian samples, always two channels.
	mp3BytesPerFrame = 4
	mp3Channels      = 2

	// int16Scale converts signed 16-bit PCM to [-1, 1).
	int16Scale = 1.0 / 32768.0

	defaultBitDepth = 16
)

// Errors returned by the codec layer.
var (
	// ErrUnsupported indicates data with no recognized decoder.
	ErrUnsupported = errors.New("codec: unsupported audio format")

	// ErrNotFound indicates that no candidate path of a base path decoded.
	ErrNotFound = errors.New("codec: no decodable asset for path")
)

// Decode decodes raw audio bytes using the extension hint (".wav" or
// ".mp3", case-insensitive).
func Decode(data []byte, ext string) (*pcm.Buffer, error) {
	switch strings.ToLower(ext) {
	case extWAV:
		return decodeWAV(data)
	case extMP3:
		return decodeMP3(data)
	default:
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupported, ext)
	}
}

// Load resolves basePath against fsys the way the engine expects: the exact
// path is tried first when it already carries a recognized extension, then
// basePath+".mp3", then basePath+".wav". The first decodable candidate wins.
// Returns the decoded clip and the path that resolved.
func Load(fsys fs.FS, basePath string) (*pcm.Buffer, string, error) {
	var candidates []string
	if ext := strings.ToLower(filepath.Ext(basePath)); ext == extWAV || ext == extMP3 {
		candidates = append(candidates, basePath)
	}
	candidates = append(candidates, basePath+extMP3, basePath+extWAV)

	var firstErr error
	for _, path := range candidates {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		buf, err := Decode(data, filepath.Ext(path))
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return buf, path, nil
	}

	if firstErr != nil {
		return nil, "", fmt.Errorf("%w: %q (%v)", ErrNotFound, basePath, firstErr)
	}
	return nil, "", fmt.Errorf("%w: %q", ErrNotFound, basePath)
}

// decodeWAV decodes integer PCM WAV data and scales it to [-1, 1] by the
// source bit depth.
func decodeWAV(data []byte) (*pcm.Buffer, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV data", ErrUnsupported)
	}

	intBuf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding WAV: %w", err)
	}

	channels := intBuf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%w: WAV reports %d channels", ErrUnsupported, channels)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 {
		bitDepth = defaultBitDepth
	}
	scale := 1.0 / float32(int64(1)<<(bitDepth-1))

	samples := make([]float32, len(intBuf.Data))
	for i, s := range intBuf.Data {
		samples[i] = float32(s) * scale
	}

	return &pcm.Buffer{
		Data:       samples,
		Channels:   channels,
		Frames:     len(samples) / channels,
		SampleRate: intBuf.Format.SampleRate,
	}, nil
}

// decodeMP3 decodes MP3 data. go-mp3 always emits 16-bit stereo.
func decodeMP3(data []byte) (*pcm.Buffer, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("reading MP3 stream: %w", err)
	}

	frames := len(raw) / mp3BytesPerFrame
	samples := make([]float32, frames*mp3Channels)
	for f := range frames {
		base := f * mp3BytesPerFrame
		left := int16(binary.LittleEndian.Uint16(raw[base:]))
		right := int16(binary.LittleEndian.Uint16(raw[base+2:]))
		samples[f*mp3Channels] = float32(left) * int16Scale
		samples[f*mp3Channels+1] = float32(right) * int16Scale
	}

	return &pcm.Buffer{
		Data:       samples,
		Channels:   mp3Channels,
		Frames:     frames,
		SampleRate: decoder.SampleRate(),
	}, nil
}
