package device

import (
	"sync"
	"time"
)

// headlessStream drives the render callback from a wall-clock ticker at
// buffer cadence, discarding the audio. It exists for tests, CI and
// benchmarking on machines without an audio device.
type headlessStream struct {
	cfg    Config
	render RenderFunc
	buf    []float32

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	started bool
	closed  bool
}

// OpenHeadless opens a stream that invokes render at the same cadence a real
// device would, into a discarded buffer.
func OpenHeadless(cfg Config, render RenderFunc) (Stream, error) {
	if render == nil {
		return nil, ErrNilRender
	}
	cfg.applyDefaults()
	return &headlessStream{
		cfg:    cfg,
		render: render,
		buf:    make([]float32, cfg.BufferFrames*cfg.Channels),
	}, nil
}

func (s *headlessStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	if s.started {
		return nil
	}

	interval := time.Duration(s.cfg.BufferFrames) * time.Second / time.Duration(s.cfg.SampleRate)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(interval, s.stop, s.done)
	s.started = true
	return nil
}

func (s *headlessStream) run(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.render(s.buf, s.cfg.BufferFrames, s.cfg.Channels)
		}
	}
}

func (s *headlessStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	return s.stopLocked()
}

func (s *headlessStream) stopLocked() error {
	if !s.started {
		return nil
	}
	close(s.stop)
	<-s.done
	s.started = false
	return nil
}

func (s *headlessStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	_ = s.stopLocked()
	s.closed = true
	return nil
}

func (s *headlessStream) SampleRate() int { return s.cfg.SampleRate }

func (s *headlessStream) Channels() int { return s.cfg.Channels }
