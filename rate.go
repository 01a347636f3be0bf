package scratch

import "math"

// deriveRate turns one scratch-input update into a target playback rate and
// a play/pause decision for the platter voice.
//
// While the finger is down, input is a raw per-step angular delta: deltas
// above the movement threshold are normalized by unityNorm (skipped when the
// factor is effectively zero), scaled by sensitivity and clamped to
// ±MaxPlaybackRate; a held-but-still finger pins the platter silent at rate
// zero.
//
// With the finger up, input is already a normalized coasting rate supplied
// by the UI's physics loop and passes straight through; the voice plays
// whenever that rate is audibly non-zero.
func deriveRate(touchActive bool, input, sensitivity, unityNorm float64) (rate float64, playing bool) {
	if touchActive {
		if math.Abs(input) <= MovementThreshold {
			return 0, false
		}
		normalized := input
		if math.Abs(unityNorm) > unityNormalizationEpsilon {
			normalized = input / unityNorm
		}
		return clampRate(normalized * sensitivity), true
	}

	return input, math.Abs(input) > coastingRateEpsilon
}

func clampRate(r float64) float64 {
	if r > MaxPlaybackRate {
		return MaxPlaybackRate
	}
	if r < -MaxPlaybackRate {
		return -MaxPlaybackRate
	}
	return r
}

func clampVolume(v float64) float64 {
	if v < minVolume {
		return minVolume
	}
	if v > maxVolume {
		return maxVolume
	}
	return v
}
