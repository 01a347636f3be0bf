package device

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
)

// bytesPerFloat32 is the wire size of one float32 sample in the device
// buffer.
const bytesPerFloat32 = 4

// malgoStream plays through a miniaudio playback device. The float32
// samples produced by the render callback are serialized little-endian into
// the device's byte buffer.
type malgoStream struct {
	cfg    Config
	render RenderFunc

	ctx    *malgo.AllocatedContext
	device *malgo.Device

	// scratch is the reusable float32 staging buffer for the data callback.
	// Sized at open from the period hint; regrown only if the device asks
	// for a larger period than it advertised.
	scratch []float32

	mu      sync.Mutex
	started bool
	closed  bool
}

// Open opens a low-latency float32 playback stream that invokes render once
// per hardware period.
func Open(cfg Config, render RenderFunc) (Stream, error) {
	if render == nil {
		return nil, ErrNilRender
	}
	cfg.applyDefaults()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("device: init context: %w", err)
	}

	s := &malgoStream{
		cfg:     cfg,
		render:  render,
		ctx:     ctx,
		scratch: make([]float32, cfg.BufferFrames*cfg.Channels),
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(cfg.BufferFrames)
	deviceConfig.PerformanceProfile = malgo.LowLatency

	dev, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: s.data,
	})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("device: init playback device: %w", err)
	}
	s.device = dev

	return s, nil
}

// data is the miniaudio callback. It renders into the staging buffer and
// re-serializes to little-endian float32 bytes, mirroring how the engine's
// render path expects plain float32 frames.
func (s *malgoStream) data(out, _ []byte, frameCount uint32) {
	frames := int(frameCount)
	need := frames * s.cfg.Channels
	if len(s.scratch) < need {
		s.scratch = make([]float32, need)
	}
	buf := s.scratch[:need]

	s.render(buf, frames, s.cfg.Channels)

	o := out[:0]
	for _, f := range buf {
		o = binary.LittleEndian.AppendUint32(o, math.Float32bits(f))
	}
}

func (s *malgoStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	if s.started {
		return nil
	}
	if err := s.device.Start(); err != nil {
		return fmt.Errorf("device: start: %w", err)
	}
	s.started = true
	return nil
}

func (s *malgoStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	if !s.started {
		return nil
	}
	if err := s.device.Stop(); err != nil {
		return fmt.Errorf("device: stop: %w", err)
	}
	s.started = false
	return nil
}

func (s *malgoStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.started = false
	s.device.Uninit()
	err := s.ctx.Uninit()
	s.ctx.Free()
	if err != nil {
		return fmt.Errorf("device: uninit context: %w", err)
	}
	return nil
}

func (s *malgoStream) SampleRate() int { return s.cfg.SampleRate }

func (s *malgoStream) Channels() int { return s.cfg.Channels }
