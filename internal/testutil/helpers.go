// Package testutil provides reusable test helper functions for scratch engine tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	// RowGainTolerance is the allowed deviation of a kernel row's
	// coefficient sum from unity.
	RowGainTolerance = 1e-4
	// RenderTolerance covers float32 accumulation error in rendered audio.
	RenderTolerance = 1e-4
)

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertNoNaNOrInf32 verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf32(t *testing.T, s []float32, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(f, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertRowGain verifies that the sum of a coefficient row equals the expected gain.
func AssertRowGain(t *testing.T, row []float32, expectedGain, tolerance float64) bool {
	t.Helper()
	var sum float64
	for _, c := range row {
		sum += float64(c)
	}
	return assert.InDelta(t, expectedGain, sum, tolerance,
		"row gain = %f, want %f", sum, expectedGain)
}

// AssertAllZero32 verifies that every element of the slice is exactly zero.
func AssertAllZero32(t *testing.T, s []float32, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v != 0 {
			return assert.Fail(t, "non-zero sample",
				"s[%d]=%f, want 0", i, v)
		}
	}
	return true
}

// ConstantBuffer returns an interleaved buffer of the given frame and
// channel count with every sample set to value.
func ConstantBuffer(frames, channels int, value float32) []float32 {
	buf := make([]float32, frames*channels)
	for i := range buf {
		buf[i] = value
	}
	return buf
}

// RampBuffer returns an interleaved buffer where frame f carries the value
// base+f on every channel. Handy for verifying cursor arithmetic.
func RampBuffer(frames, channels int, base float32) []float32 {
	buf := make([]float32, frames*channels)
	for f := range frames {
		for c := range channels {
			buf[f*channels+c] = base + float32(f)
		}
	}
	return buf
}
