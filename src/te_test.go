package lvmfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTEDisabledBelowMinRate(t *testing.T) {
	m := newTE()
	m.reconfigure(22050, 2, 6.0)
	m.setEnabled(22050, 6.0, OperatingOn)
	assert.False(t, m.active, "TE must never activate below TrebleBoostMinRate")
}

func TestTEDisabledAtZeroLevel(t *testing.T) {
	m := newTE()
	m.reconfigure(44100, 2, 0)
	m.setEnabled(44100, 0, OperatingOn)
	assert.False(t, m.active, "TE must stay off at level <= 0 even above the min rate")
}

func TestTEInstantaneousBypassHasNoTailDrain(t *testing.T) {
	m := newTE()
	m.reconfigure(44100, 2, 6.0)
	m.setEnabled(44100, 6.0, OperatingOn)
	assert.True(t, m.active)

	m.setEnabled(44100, 6.0, OperatingOff)
	assert.False(t, m.active, "TE bypass must be instantaneous, unlike EQNB/DBE/CS's drain")
}

func TestTEBoostsHighFrequency(t *testing.T) {
	m := newTE()
	m.reconfigure(44100, 1, 8.0)
	m.setEnabled(44100, 8.0, OperatingOn)

	high := sineBlock(10000, 44100, 1, 1024, 0.2)
	out := append([]float32(nil), high...)
	m.process(out, 1024)

	assert.Greater(t, rms(out[256:]), rms(high[256:]))
}
