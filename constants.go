package scratch

// Scratch input constants
const (
	// MaxPlaybackRate bounds the touch-derived playback rate in either
	// direction. Four times normal speed covers any realistic hand motion.
	MaxPlaybackRate = 4.0

	// MovementThreshold is the angular-delta magnitude below which a held
	// finger counts as pinching the platter still rather than dragging it.
	MovementThreshold = 0.001

	// coastingRateEpsilon is the coasting-rate magnitude below which the
	// platter voice is considered stopped.
	coastingRateEpsilon = 1e-5

	// unityNormalizationEpsilon guards the division by the unity
	// normalization factor; below it the raw input is used directly.
	unityNormalizationEpsilon = 1e-9
)

// Configuration defaults
const (
	// DefaultScratchSensitivity maps angular input to playback rate.
	DefaultScratchSensitivity = 0.17

	// DefaultUnityNormalization is the input units per unity playback rate.
	// 1.0 feeds the raw angular delta straight into the sensitivity scale.
	DefaultUnityNormalization = 1.0

	// DefaultMasterVolume is the initial music/master volume.
	DefaultMasterVolume = 0.9
)

// Volume limits
const (
	minVolume = 0.0
	maxVolume = 1.0
)
