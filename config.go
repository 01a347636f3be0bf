package scratch

import (
	"fmt"
	"io"
	"io/fs"
	"log"

	"github.com/tphakala/go-scratch-engine/device"
)

// Config holds engine construction parameters. Zero-valued fields select the
// documented defaults.
type Config struct {
	// Assets is the store the codec layer resolves sample paths against
	// (typically os.DirFS of an asset directory, or an embed.FS). May be nil,
	// in which case every load fails to silence.
	Assets fs.FS

	// PlatterSamples is the ordered list of scratchable sample base paths.
	// The next-sample command cycles through it.
	PlatterSamples []string

	// MusicTracks is the ordered list of background track base paths.
	MusicTracks []string

	// ScratchSensitivity scales normalized angular input into playback
	// rate. Default 0.17.
	ScratchSensitivity float64

	// UnityNormalization is the input units that map to unity playback
	// rate while scratching. Default 1.0 (raw input feeds the sensitivity
	// scale directly).
	UnityNormalization float64

	// MasterVolume is the initial music/master volume in [0, 1].
	// Default 0.9. The platter fader always starts at 0 and is raised by
	// the UI's fader control.
	MasterVolume float64

	// OpenStream, when set, is called once during New to open the output
	// stream with the engine's render callback. Leave nil to drive Render
	// manually (tests, offline rendering).
	OpenStream func(render device.RenderFunc) (device.Stream, error)

	// Logger receives command and stream diagnostics. Nil discards them.
	Logger *log.Logger
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ScratchSensitivity < 0 {
		return fmt.Errorf("%w: scratch sensitivity must not be negative", ErrInvalidConfig)
	}

	if c.UnityNormalization < 0 {
		return fmt.Errorf("%w: unity normalization must not be negative", ErrInvalidConfig)
	}

	if c.MasterVolume < minVolume || c.MasterVolume > maxVolume {
		return fmt.Errorf("%w: master volume must be in [%v, %v]", ErrInvalidConfig, minVolume, maxVolume)
	}

	return nil
}

// applyDefaults fills zero-valued fields in place.
func (c *Config) applyDefaults() {
	if c.ScratchSensitivity == 0 {
		c.ScratchSensitivity = DefaultScratchSensitivity
	}
	if c.UnityNormalization == 0 {
		c.UnityNormalization = DefaultUnityNormalization
	}
	if c.MasterVolume == 0 {
		c.MasterVolume = DefaultMasterVolume
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
}
