// Package kernel builds and stores the windowed-sinc interpolation table
// used for fractional-position resampling.
//
// The table maps a sub-sample offset in [0, 1), quantized to a fixed number
// of subdivision steps, to a row of convolution coefficients. Each row is a
// Kaiser-windowed sinc sampled at that fractional offset and normalized to
// unit DC gain, so interpolation neither boosts nor attenuates the signal
// regardless of phase.
package kernel

import (
	"math"
	"sync"

	"github.com/tphakala/simd/f32"

	"github.com/tphakala/go-scratch-engine/internal/mathutil"
)

const (
	// DefaultSubdivisionSteps is the fractional-offset resolution of the
	// shared table. 1024 steps keeps phase-quantization error below the
	// float32 noise floor for audio-rate material.
	DefaultSubdivisionSteps = 1024

	// DefaultTapCount is the convolution window length of the shared table.
	DefaultTapCount = 16

	// DefaultBeta is the Kaiser window shape parameter of the shared table.
	// β=8 trades main-lobe width against sidelobe level sensibly for a
	// 16-tap kernel.
	DefaultBeta = 8.0

	// sincZeroThreshold guards the sinc singularity at x=0.
	sincZeroThreshold = 1e-10

	// normalizationEpsilon is the minimum raw coefficient-sum magnitude for
	// which a row is rescaled to unit gain. Rows below it stay unnormalized
	// to avoid division blow-up.
	normalizationEpsilon = 1e-6

	minTapCount = 2
)

// Table is an immutable matrix of interpolation coefficients:
// SubdivisionSteps rows of TapCount taps, stored flat row-major.
// Once built it is safe for concurrent reads from any thread.
type Table struct {
	coeffs []float32
	steps  int
	taps   int
}

var (
	sharedOnce  sync.Once
	sharedTable *Table
)

// Shared returns the process-wide default table, building it on first use.
// Subsequent calls return the same table.
func Shared() *Table {
	sharedOnce.Do(func() {
		sharedTable = New(DefaultSubdivisionSteps, DefaultTapCount, DefaultBeta)
	})
	return sharedTable
}

// New builds a table with the given subdivision resolution, tap count and
// Kaiser β. Degenerate dimensions are raised to the minimum usable values so
// construction cannot fail.
func New(steps, taps int, beta float64) *Table {
	if steps < 1 {
		steps = 1
	}
	if taps < minTapCount {
		taps = minTapCount
	}

	t := &Table{
		coeffs: make([]float32, steps*taps),
		steps:  steps,
		taps:   taps,
	}

	// The window span maps tap indices linearly onto [-1, 1].
	alpha := float64(taps-1) / 2.0
	i0Beta := mathutil.BesselI0(beta)
	center := taps/2 - 1

	for j := range steps {
		f := float64(j) / float64(steps)
		row := t.coeffs[j*taps : (j+1)*taps]

		for i := range taps {
			// Distance from the interpolation point to this tap.
			sincPoint := float64(i-center) - f

			var sinc float64
			if math.Abs(sincPoint) < sincZeroThreshold {
				sinc = 1.0
			} else {
				arg := math.Pi * sincPoint
				sinc = math.Sin(arg) / arg
			}

			weight := mathutil.KaiserWeight((float64(i)-alpha)/alpha, beta, i0Beta)
			row[i] = float32(sinc * weight)
		}

		sum := f32.Sum(row)
		if math.Abs(float64(sum)) > normalizationEpsilon {
			f32.Scale(row, row, 1.0/sum)
		}
	}

	return t
}

// Row returns the coefficient row for the given fractional offset in [0, 1).
// Out-of-range offsets clamp to the nearest valid row. The returned slice
// aliases the table and must not be modified.
func (t *Table) Row(frac float64) []float32 {
	bucket := int(frac * float64(t.steps))
	if bucket < 0 {
		bucket = 0
	} else if bucket >= t.steps {
		bucket = t.steps - 1
	}
	return t.coeffs[bucket*t.taps : (bucket+1)*t.taps]
}

// Steps returns the number of subdivision rows.
func (t *Table) Steps() int { return t.steps }

// Taps returns the convolution window length.
func (t *Table) Taps() int { return t.taps }

// CenterOffset returns how many frames the first tap of the window sits
// before the integer base index of the interpolation position.
func (t *Table) CenterOffset() int { return t.taps/2 - 1 }
