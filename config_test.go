package scratch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero_value_is_valid", Config{}, false},
		{"explicit_values", Config{ScratchSensitivity: 0.2, UnityNormalization: 2.5, MasterVolume: 0.5}, false},
		{"negative_sensitivity", Config{ScratchSensitivity: -0.1}, true},
		{"negative_normalization", Config{UnityNormalization: -1}, true},
		{"volume_above_one", Config{MasterVolume: 1.5}, true},
		{"volume_below_zero", Config{MasterVolume: -0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()

	assert.Equal(t, DefaultScratchSensitivity, cfg.ScratchSensitivity)
	assert.Equal(t, DefaultUnityNormalization, cfg.UnityNormalization)
	assert.Equal(t, DefaultMasterVolume, cfg.MasterVolume)
	require.NotNil(t, cfg.Logger)
}

func TestConfig_DefaultsPreserveExplicitValues(t *testing.T) {
	cfg := Config{ScratchSensitivity: 0.5, UnityNormalization: 3.0, MasterVolume: 0.25}
	cfg.applyDefaults()

	assert.Equal(t, 0.5, cfg.ScratchSensitivity)
	assert.Equal(t, 3.0, cfg.UnityNormalization)
	assert.Equal(t, 0.25, cfg.MasterVolume)
}
