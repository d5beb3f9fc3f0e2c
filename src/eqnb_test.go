package lvmfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEQNBFlatBandsPassSineUnchanged(t *testing.T) {
	m := newEQNB()
	m.reconfigure(44100, 2, []EQBand{{CentreHz: 1000, GainMilliDB: 0, Q: 100}})
	m.setEnabled(true, 1000)

	buf := sineBlock(1000, 44100, 2, 512, 0.5)
	out := append([]float32(nil), buf...)
	m.process(out, 512)

	// Settle past the filter's transient, then compare RMS rather than
	// sample-for-sample (phase shifts slightly even at 0dB gain).
	assert.InDelta(t, rms(buf[256:]), rms(out[256:]), 0.01)
}

func TestEQNBDrainsTailThenGoesInactive(t *testing.T) {
	m := newEQNB()
	m.reconfigure(48000, 1, []EQBand{{CentreHz: 200, GainMilliDB: 1200, Q: 100}})
	m.setEnabled(true, 2400)

	buf := impulseBlock(1, 256, 1.0)
	m.process(buf, 256)
	assert.True(t, m.active)

	m.setEnabled(false, 2400)
	silence := make([]float32, 256)
	for i := 0; i < 50; i++ {
		m.process(silence, 256)
	}
	assert.False(t, m.active, "module should go inactive once its tail has drained")
}

func TestEQNBNoBandsIsNoOp(t *testing.T) {
	m := newEQNB()
	m.reconfigure(44100, 2, nil)
	m.setEnabled(true, 100)

	buf := sineBlock(500, 44100, 2, 64, 0.3)
	out := append([]float32(nil), buf...)
	m.process(out, 64)
	assert.Equal(t, buf, out)
}
