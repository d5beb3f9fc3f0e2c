package lvmfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDBEBoostsLowFrequencyMoreThanHigh(t *testing.T) {
	m := newDBE()
	m.reconfigure(44100, 1, 66, 9.0, false)
	m.setEnabled(true, 4410)

	low := sineBlock(60, 44100, 1, 2048, 0.2)
	high := sineBlock(8000, 44100, 1, 2048, 0.2)

	lowOut := append([]float32(nil), low...)
	highOut := append([]float32(nil), high...)
	m.process(lowOut, 2048)
	m.resetState()
	m.process(highOut, 2048)

	assert.Greater(t, rms(lowOut[512:]), rms(low[512:]), "bass boost should raise low-frequency RMS")
	assert.InDelta(t, rms(high[512:]), rms(highOut[512:]), rms(high[512:])*0.2, "bass boost shouldn't meaningfully touch treble")
}

func TestDBEHPFRemovesDC(t *testing.T) {
	m := newDBE()
	m.reconfigure(44100, 1, 55, 0, true)
	m.setEnabled(true, 4410)

	buf := make([]float32, 4096)
	for i := range buf {
		buf[i] = 0.3 // pure DC offset
	}
	m.process(buf, 4096)
	assert.Less(t, maxAbs(buf[2048:]), 0.05, "HPF should eventually null out a DC input")
}
