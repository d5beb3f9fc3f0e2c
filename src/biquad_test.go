package lvmfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestBiquadPeakingUnityAtBypassGain(t *testing.T) {
	c := peakingCoeffs(44100, 1000, 0, 1.0)
	var s biquadState
	for i := 0; i < 64; i++ {
		out := s.process(c, 1.0)
		if i > 8 {
			assert.InDelta(t, 1.0, out, 1e-6, "0dB peaking filter should settle to unity gain")
		}
	}
}

func TestBiquadSettledAfterSilence(t *testing.T) {
	c := peakingCoeffs(44100, 1000, 12, 1.0)
	var s biquadState
	s.process(c, 1.0)
	assert.False(t, s.settled(biquadTapThreshold), "state should hold energy right after an impulse")

	for i := 0; i < 10000; i++ {
		s.process(c, 0)
	}
	assert.True(t, s.settled(biquadTapThreshold), "state should decay to near-zero after enough silence")
}

func TestBiquadBankPerChannelIndependence(t *testing.T) {
	bank := newBiquadBank(2)
	c := peakingCoeffs(44100, 200, 6, 0.7)

	bank.ch[0].process(c, 1.0)
	// Channel 1 never driven; it must stay settled while channel 0 doesn't.
	assert.True(t, bank.ch[1].settled(biquadTapThreshold))
	assert.False(t, bank.ch[0].settled(biquadTapThreshold))
}

// TestBiquadBoundedInputBoundedOutput is a property test: for any finite,
// bounded-magnitude input sequence through a peaking filter with a
// moderate gain, the filter never produces NaN/Inf.
func TestBiquadBoundedInputBoundedOutput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fs := rapid.SampledFrom([]int{8000, 44100, 48000, 192000}).Draw(t, "fs")
		centre := rapid.Float64Range(20, float64(fs)/2-1).Draw(t, "centre")
		gain := rapid.Float64Range(-15, 15).Draw(t, "gain")
		q := rapid.Float64Range(0.25, 12).Draw(t, "q")

		c := peakingCoeffs(fs, centre, gain, q)
		var s biquadState
		n := rapid.IntRange(1, 128).Draw(t, "n")
		for i := 0; i < n; i++ {
			x := rapid.Float64Range(-1, 1).Draw(t, "x")
			y := s.process(c, x)
			assert.False(t, isNaNOrInf(y), "biquad output must stay finite")
		}
	})
}

func isNaNOrInf(v float64) bool {
	return v != v || v > 1e300 || v < -1e300
}
