package lvmfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVCZeroDBZeroBalanceIsUnity(t *testing.T) {
	m := newVC()
	m.reconfigure(44100, 2)
	m.setTargets(0, 0, 0)
	m.setEnabled(true, 44100)

	for i := range m.smoothers {
		m.smoothers[i].setImmediate(1.0)
	}

	buf := sineBlock(1000, 44100, 2, 256, 0.5)
	out := append([]float32(nil), buf...)
	m.process(out, 256)
	assert.Equal(t, buf, out)
}

func TestVCBalanceSweepAttenuatesOppositeChannel(t *testing.T) {
	m := newVC()
	m.reconfigure(44100, 2)
	m.setTargets(0, -96, 0)
	m.setEnabled(true, 44100)

	buf := sineBlock(1000, 44100, 2, 200000, 0.5)
	out := append([]float32(nil), buf...)
	m.process(out, 200000)

	left := make([]float32, 0, 100000)
	right := make([]float32, 0, 100000)
	for f := 180000; f < 200000; f++ {
		left = append(left, out[2*f])
		right = append(right, out[2*f+1])
	}

	ratio := rms(right) / rms(left)
	expected := dBToLinear(float64(-96*16) / 100)
	assert.InDelta(t, expected, ratio, 0.02, "right channel should be attenuated to 10^(-96*16/100/20) at balance=-96")
}

func TestVCHeadroomPreAttenuatesVolume(t *testing.T) {
	m := newVC()
	m.reconfigure(44100, 1)
	m.setTargets(0, 0, 1200) // 12dB headroom
	m.setEnabled(true, 44100)
	for i := range m.smoothers {
		m.smoothers[i].setImmediate(m.smoothers[i].target)
	}

	buf := sineBlock(1000, 44100, 1, 256, 0.5)
	out := append([]float32(nil), buf...)
	m.process(out, 256)

	assert.InDelta(t, rms(buf)*dBToLinear(-12), rms(out), rms(buf)*0.05)
}

func TestVCDrainsTailThenInactive(t *testing.T) {
	m := newVC()
	m.reconfigure(44100, 1)
	m.setTargets(-10, 0, 0)
	m.setEnabled(true, 4410)

	buf := sineBlock(1000, 44100, 1, 256, 0.5)
	m.process(buf, 256)
	assert.True(t, m.active)

	m.setEnabled(false, 4410)
	silence := make([]float32, 256)
	for i := 0; i < 50; i++ {
		m.process(silence, 256)
	}
	assert.False(t, m.active)
}
