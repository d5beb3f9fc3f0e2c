package lvmfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPSATracksLoudBand(t *testing.T) {
	m := newPSA()
	m.reconfigure(44100, PeakDecayMedium)
	m.setEnabled(true)

	buf := sineBlock(910, 44100, 1, 4096, 0.8)
	m.observe(buf, 4096, 1)

	peaks := m.Peaks()
	maxPeak := 0.0
	maxIdx := -1
	for i, p := range peaks {
		if p > maxPeak {
			maxPeak = p
			maxIdx = i
		}
	}
	assert.Equal(t, 2, maxIdx, "the 910Hz band should register the strongest peak for a 910Hz tone")
}

func TestPSADisabledNeverObserves(t *testing.T) {
	m := newPSA()
	m.reconfigure(44100, PeakDecayLow)
	m.setEnabled(false)

	buf := sineBlock(1000, 44100, 1, 1024, 0.9)
	m.observe(buf, 1024, 1)

	for _, p := range m.Peaks() {
		assert.Equal(t, 0.0, p)
	}
}

func TestPSADecaySpeedOrdering(t *testing.T) {
	assert.Greater(t, psaDecayHalfLifeMs[PeakDecayLow], psaDecayHalfLifeMs[PeakDecayMedium])
	assert.Greater(t, psaDecayHalfLifeMs[PeakDecayMedium], psaDecayHalfLifeMs[PeakDecayHigh])
}
