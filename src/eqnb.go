package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:	N-band parametric equalizer (EQNB), spec.md §4.2: a
 *		cascade of peaking biquads, one per configured band,
 *		applied identically to every channel.
 *
 *------------------------------------------------------------------*/

type eqBandStage struct {
	coeffs BiquadCoeffs
	state  biquadBank
}

type eqnbModule struct {
	active  bool
	fs      int
	channels int
	stages  []eqBandStage
	exitCountdown int
}

func newEQNB() *eqnbModule {
	return &eqnbModule{}
}

// reconfigure rebuilds the per-band biquad coefficients from the current
// sample rate and band list; called from Bundle.Apply on every apply.
func (m *eqnbModule) reconfigure(fs int, channels int, bands []EQBand) {
	m.fs = fs
	m.channels = channels

	if cap(m.stages) >= len(bands) {
		m.stages = m.stages[:len(bands)]
	} else {
		m.stages = make([]eqBandStage, len(bands))
	}

	for i, b := range bands {
		q := float64(b.Q) / 100
		gain := float64(b.GainMilliDB) / 100
		m.stages[i].coeffs = peakingCoeffs(fs, float64(b.CentreHz), gain, q)
		m.stages[i].state.resize(channels)
	}
}

func (m *eqnbModule) resetState() {
	for i := range m.stages {
		m.stages[i].state.reset()
	}
}

func (m *eqnbModule) setEnabled(enabled bool, tailSamples int) {
	if m.active && !enabled {
		m.exitCountdown = tailSamples
	}
	m.active = enabled || m.exitCountdown > 0
}

// process runs one block of interleaved float samples through the band
// cascade in place.
func (m *eqnbModule) process(buf []float32, nFrames int) {
	if !m.active || len(m.stages) == 0 {
		return
	}

	for _, stage := range m.stages {
		for f := 0; f < nFrames; f++ {
			for c := 0; c < m.channels; c++ {
				idx := f*m.channels + c
				buf[idx] = float32(stage.state.ch[c].process(stage.coeffs, float64(buf[idx])))
			}
		}
	}

	if m.exitCountdown > 0 {
		m.exitCountdown -= nFrames
		if m.exitCountdown <= 0 {
			m.exitCountdown = 0
			if m.allSettled() {
				m.active = false
			}
		}
	}
}

func (m *eqnbModule) allSettled() bool {
	for i := range m.stages {
		if !m.stages[i].state.settled(biquadTapThreshold) {
			return false
		}
	}
	return true
}
