package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:	Volume and balance control (VC), spec.md §4.2/§4.4: a
 *		per-channel linear gain ramped click-free toward its
 *		target via the mixer primitive in mixer.go. Volume applies
 *		to every channel; balance only ever separates channels 0
 *		(left) and 1 (right) - channels beyond that carry volume
 *		alone, matching LVM_Control.c's stereo-only balance split.
 *
 *------------------------------------------------------------------*/

type vcModule struct {
	active   bool
	fs       int
	channels int

	smoothers []gainSmoother

	headroomLinear float64

	exitCountdown int
}

func newVC() *vcModule {
	return &vcModule{headroomLinear: 1.0}
}

// reconfigure rebuilds the per-channel smoothers for a new sample rate or
// channel count, preserving each smoother's current gain so a reconfigure
// mid-ramp doesn't click.
func (m *vcModule) reconfigure(fs int, channels int) {
	tc := mixerTimeConstantSec(fs)

	prev := m.smoothers
	m.smoothers = make([]gainSmoother, channels)
	for c := range m.smoothers {
		m.smoothers[c] = newGainSmoother(tc, fs)
		if c < len(prev) {
			m.smoothers[c].setImmediate(prev[c].current)
		}
	}

	m.fs = fs
	m.channels = channels
}

// setTargets recomputes per-channel target gains from volume (dB),
// balance (dB), and the instance headroom (1/100 dB, always >= 0, applied
// as that much attenuation), per spec.md §4.4's volume/balance/headroom
// combination.
func (m *vcModule) setTargets(volumeDB int, balanceDB int, headroomMilliDB int) {
	m.headroomLinear = dBToLinear(-float64(headroomMilliDB) / 100)
	volGain := splitVolume(volumeDB) * m.headroomLinear
	left, right := balanceGains(balanceDB)

	for c := range m.smoothers {
		switch c {
		case 0:
			m.smoothers[c].setTarget(volGain * left)
		case 1:
			m.smoothers[c].setTarget(volGain * right)
		default:
			m.smoothers[c].setTarget(volGain)
		}
	}
}

func (m *vcModule) setEnabled(enabled bool, tailSamples int) {
	if m.active && !enabled {
		m.exitCountdown = tailSamples
	}
	m.active = enabled || m.exitCountdown > 0
}

// allAtTarget reports whether every channel's smoother has settled onto its
// target gain, used by process to decide when a disabled VC has finished
// draining.
func (m *vcModule) allAtTarget() bool {
	for i := range m.smoothers {
		if !m.smoothers[i].atTarget() {
			return false
		}
	}
	return true
}

// process ramps every channel toward its target gain one sample at a time
// and reports whether any channel's smoother reached its target this block.
func (m *vcModule) process(buf []float32, nFrames int) MixerCallback {
	if !m.active {
		return MixerNoEvent
	}

	callback := MixerNoEvent
	for f := 0; f < nFrames; f++ {
		for c := 0; c < m.channels; c++ {
			gain, cb := m.smoothers[c].step()
			if cb == MixerTargetReached {
				callback = MixerTargetReached
			}
			idx := f*m.channels + c
			buf[idx] = float32(float64(buf[idx]) * gain)
		}
	}

	if m.exitCountdown > 0 {
		m.exitCountdown -= nFrames
		if m.exitCountdown <= 0 {
			m.exitCountdown = 0
			if m.allAtTarget() {
				m.active = false
			} else {
				// Still ramping: keep draining and check again next block.
				m.exitCountdown = 1
			}
		}
	}

	return callback
}
