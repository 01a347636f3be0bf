// Command analyze-kernel inspects the windowed-sinc kernel table: per-row DC
// gain after normalization and the magnitude response of the underlying
// continuous kernel.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tphakala/go-scratch-engine/internal/kernel"
)

const (
	// Rows to display in detail
	maxRowsToShow = 8

	// Frequencies (cycles per source sample) probed in the response table.
	// 0.5 is the source Nyquist.
	maxProbeFrequency = 2.0
	probeStep         = 0.125
)

func main() {
	var (
		steps = flag.Int("steps", kernel.DefaultSubdivisionSteps, "Fractional subdivision steps")
		taps  = flag.Int("taps", kernel.DefaultTapCount, "Taps per row")
		beta  = flag.Float64("beta", kernel.DefaultBeta, "Kaiser window beta")
	)
	flag.Parse()

	table := kernel.New(*steps, *taps, *beta)

	fmt.Println("=== Kernel Table ===")
	fmt.Printf("  Steps: %d\n", table.Steps())
	fmt.Printf("  Taps:  %d\n", table.Taps())
	fmt.Printf("  Beta:  %g\n", *beta)
	fmt.Printf("  Center offset: %d\n\n", table.CenterOffset())

	analyzeRowGains(table)
	analyzeResponse(table)
}

// analyzeRowGains sums each row and reports how far the normalized gains
// stray from unity.
func analyzeRowGains(table *kernel.Table) {
	fmt.Println("Row DC gain (first rows):")

	minGain, maxGain := math.Inf(1), math.Inf(-1)
	for s := range table.Steps() {
		row := table.Row(float64(s) / float64(table.Steps()))

		var gain float64
		for _, c := range row {
			gain += float64(c)
		}
		if gain < minGain {
			minGain = gain
		}
		if gain > maxGain {
			maxGain = gain
		}
		if s < maxRowsToShow {
			fmt.Printf("  Row %4d: %.10f\n", s, gain)
		}
	}

	fmt.Printf("  ... (%d more rows)\n", table.Steps()-maxRowsToShow)
	fmt.Printf("\nGain range: [%.10f, %.10f], spread %.3e\n\n",
		minGain, maxGain, maxGain-minGain)
}

// analyzeResponse reconstructs the continuous kernel from the table rows
// (the rows are its polyphase decomposition) and prints its magnitude
// response relative to DC.
func analyzeResponse(table *kernel.Table) {
	steps := table.Steps()
	taps := table.Taps()

	// dense[i] samples the kernel at steps points per source sample, in
	// ascending time order.
	dense := make([]float64, steps*taps)
	for s := range steps {
		row := table.Row(float64(s) / float64(steps))
		for k := range taps {
			dense[k*steps+(steps-1-s)] = float64(row[k])
		}
	}

	fft := fourier.NewFFT(len(dense))
	coeffs := fft.Coefficients(nil, dense)

	dc := cmplx.Abs(coeffs[0])
	if dc == 0 {
		fmt.Println("Degenerate kernel: zero DC response")
		return
	}

	fmt.Println("Magnitude response (relative to DC):")
	fmt.Println("  freq (cycles/sample)    dB")
	for f := 0.0; f <= maxProbeFrequency; f += probeStep {
		// bin b covers cyclic frequency b/len per dense sample, which is
		// b*steps/len cycles per source sample
		bin := int(math.Round(f * float64(len(dense)) / float64(steps)))
		if bin >= len(coeffs) {
			break
		}
		db := 20 * math.Log10(cmplx.Abs(coeffs[bin])/dc)
		fmt.Printf("  %6.3f              %8.2f\n", f, db)
	}
}
