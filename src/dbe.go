package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:	Dynamic bass enhancer (DBE), spec.md §4.2: a low-shelf
 *		boost centred at one of {55, 66, 78, 90} Hz, with an
 *		optional pre-HPF to prevent sub-bass bloat.
 *
 *------------------------------------------------------------------*/

type dbeModule struct {
	active  bool
	fs      int
	channels int

	hpfEnabled bool
	hpf        BiquadCoeffs
	hpfState   biquadBank

	shelf      BiquadCoeffs
	shelfState biquadBank

	exitCountdown int
}

func newDBE() *dbeModule {
	return &dbeModule{}
}

// dbeHPFCutoffHz is a fixed pre-HPF cutoff well below any configured centre
// frequency, just enough to strip DC/sub-sonic content before the shelf
// boost so the boost can't bloat into inaudible sub-bass energy.
const dbeHPFCutoffHz = 30.0

// dbeShelfSlope matches the shelf slope used by TE's highShelfCoeffs,
// kept as a named constant since both modules share the RBJ shelf form.
const dbeShelfSlope = 1.0

func (m *dbeModule) reconfigure(fs int, channels int, centreHz int, gainDB float64, hpfEnabled bool) {
	m.fs = fs
	m.channels = channels
	m.hpfEnabled = hpfEnabled

	m.shelf = lowShelfCoeffs(fs, float64(centreHz), gainDB, dbeShelfSlope)
	m.shelfState.resize(channels)

	if hpfEnabled {
		m.hpf = onePoleHighpassCoeffs(fs, dbeHPFCutoffHz)
		m.hpfState.resize(channels)
	}
}

func (m *dbeModule) resetState() {
	m.shelfState.reset()
	m.hpfState.reset()
}

func (m *dbeModule) setEnabled(enabled bool, tailSamples int) {
	if m.active && !enabled {
		m.exitCountdown = tailSamples
	}
	m.active = enabled || m.exitCountdown > 0
}

func (m *dbeModule) process(buf []float32, nFrames int) {
	if !m.active {
		return
	}

	for f := 0; f < nFrames; f++ {
		for c := 0; c < m.channels; c++ {
			idx := f*m.channels + c
			x := float64(buf[idx])
			if m.hpfEnabled {
				x = m.hpfState.ch[c].process(m.hpf, x)
			}
			x = m.shelfState.ch[c].process(m.shelf, x)
			buf[idx] = float32(x)
		}
	}

	if m.exitCountdown > 0 {
		m.exitCountdown -= nFrames
		if m.exitCountdown <= 0 {
			m.exitCountdown = 0
			if m.shelfState.settled(biquadTapThreshold) {
				m.active = false
			}
		}
	}
}
