package lvmfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSMonoSignalUnaffected(t *testing.T) {
	m := newCS()
	m.reconfigure(44100, 2, CSParams{Enabled: true, ReverbLevel: 50, EffectLevel: 10})
	m.setEnabled(true, 4410)

	// Identical left/right -> zero side signal -> CS has nothing to widen.
	buf := sineBlock(1000, 44100, 2, 512, 0.4)
	out := append([]float32(nil), buf...)
	m.process(out, 512)

	for f := 0; f < 512; f++ {
		assert.InDelta(t, out[2*f], out[2*f+1], 1e-4, "mono-sourced stereo should stay centre-panned through CS")
	}
}

func TestCSDisabledPassesThrough(t *testing.T) {
	m := newCS()
	m.reconfigure(44100, 2, CSParams{Enabled: false, ReverbLevel: 50, EffectLevel: 10})

	buf := sineBlock(1000, 44100, 2, 128, 0.4)
	out := append([]float32(nil), buf...)
	m.process(out, 128)
	assert.Equal(t, buf, out)
}

func TestCSReverbLevelZeroStillRunsHRTF(t *testing.T) {
	m := newCS()
	m.reconfigure(44100, 2, CSParams{Enabled: true, ReverbLevel: 0, EffectLevel: 10})
	m.setEnabled(true, 4410)

	buf := make([]float32, 512)
	for f := 0; f < 256; f++ {
		buf[2*f] = 0.5
		buf[2*f+1] = -0.5
	}
	out := append([]float32(nil), buf...)
	m.process(out, 256)
	assert.NotEqual(t, buf, out, "a wide stereo signal should still be shaped by the HRTF stage even with reverb send at zero")
}
