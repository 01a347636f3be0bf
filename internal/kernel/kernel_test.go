package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-scratch-engine/internal/testutil"
)

const (
	testSteps = 128
	testTaps  = 16
	testBeta  = 8.0
)

// TestNew_Dimensions verifies row count and row length.
func TestNew_Dimensions(t *testing.T) {
	tests := []struct {
		name      string
		steps     int
		taps      int
		wantSteps int
		wantTaps  int
	}{
		{"default_shape", testSteps, testTaps, testSteps, testTaps},
		{"two_taps", 64, 2, 64, 2},
		{"degenerate_steps", 0, 8, 1, 8},
		{"degenerate_taps", 32, 1, 32, minTapCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab := New(tt.steps, tt.taps, testBeta)

			assert.Equal(t, tt.wantSteps, tab.Steps())
			assert.Equal(t, tt.wantTaps, tab.Taps())
			assert.Len(t, tab.coeffs, tt.wantSteps*tt.wantTaps)
		})
	}
}

// TestNew_RowGain verifies that every subdivision row sums to unity.
func TestNew_RowGain(t *testing.T) {
	tab := New(testSteps, testTaps, testBeta)

	for j := range testSteps {
		frac := float64(j) / float64(testSteps)
		row := tab.Row(frac)

		require.Len(t, row, testTaps)
		testutil.AssertRowGain(t, row, 1.0, testutil.RowGainTolerance)
		testutil.AssertNoNaNOrInf32(t, row)
	}
}

// TestNew_PhaseZeroIsIdentity verifies that the zero-offset row passes a
// sample through unchanged: the tap aligned with the base index is 1 and
// all others vanish (the sinc zero crossings land on integers).
func TestNew_PhaseZeroIsIdentity(t *testing.T) {
	tab := New(testSteps, testTaps, testBeta)
	row := tab.Row(0)

	for i, c := range row {
		if i == tab.CenterOffset() {
			assert.InDelta(t, 1.0, float64(c), 1e-6, "center tap")
		} else {
			assert.InDelta(t, 0.0, float64(c), 1e-6, "tap %d", i)
		}
	}
}

// TestNew_TwoTapBox verifies the trivial 2-tap kernel used by the playback
// scenario tests: at phase zero it reduces to a box picking the base frame.
func TestNew_TwoTapBox(t *testing.T) {
	tab := New(64, 2, testBeta)
	row := tab.Row(0)

	require.Len(t, row, 2)
	assert.InDelta(t, 1.0, float64(row[0]), 1e-6)
	assert.InDelta(t, 0.0, float64(row[1]), 1e-6)
	assert.Equal(t, 0, tab.CenterOffset())
}

// TestRow_Clamping verifies bucket clamping at both ends.
func TestRow_Clamping(t *testing.T) {
	tab := New(testSteps, testTaps, testBeta)

	first := tab.Row(0)
	last := tab.Row(float64(testSteps-1) / float64(testSteps))

	assert.Same(t, &first[0], &tab.Row(-0.5)[0], "negative offset should clamp to first row")
	assert.Same(t, &last[0], &tab.Row(1.0)[0], "offset 1.0 should clamp to last row")
	assert.Same(t, &last[0], &tab.Row(2.0)[0], "offset beyond range should clamp to last row")
}

// TestShared_Idempotent verifies that repeated Shared calls return the same
// table object with the default shape.
func TestShared_Idempotent(t *testing.T) {
	a := Shared()
	b := Shared()

	assert.Same(t, a, b)
	assert.Equal(t, DefaultSubdivisionSteps, a.Steps())
	assert.Equal(t, DefaultTapCount, a.Taps())
}

// TestShared_ConcurrentAccess exercises first-use construction from many
// goroutines at once.
func TestShared_ConcurrentAccess(t *testing.T) {
	const goroutines = 16
	results := make(chan *Table, goroutines)

	for range goroutines {
		go func() {
			results <- Shared()
		}()
	}

	first := <-results
	for range goroutines - 1 {
		assert.Same(t, first, <-results)
	}
}

// BenchmarkNew benchmarks full table construction at the default shape.
func BenchmarkNew(b *testing.B) {
	for b.Loop() {
		_ = New(DefaultSubdivisionSteps, DefaultTapCount, DefaultBeta)
	}
}

// BenchmarkRow benchmarks the per-frame row lookup.
func BenchmarkRow(b *testing.B) {
	tab := New(DefaultSubdivisionSteps, DefaultTapCount, DefaultBeta)
	frac := 0.37
	b.ResetTimer()
	for b.Loop() {
		_ = tab.Row(frac)
	}
}
