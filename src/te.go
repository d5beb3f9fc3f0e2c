package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:	Treble enhancer (TE), spec.md §4.2: a high-shelf boost
 *		enabled only when fs >= TrebleBoostMinRate AND level > 0
 *		AND operating mode is on. Tail policy is instantaneous
 *		bypass (no drain counter), unlike every other module.
 *
 *------------------------------------------------------------------*/

// TrebleBoostMinRate is the minimum sample rate at which TE may be active,
// per spec.md §4.1's apply algorithm ("recompute treble-boost coefficients
// iff ... sample-rate ... changed").
const TrebleBoostMinRate = 32000

// trebleShelfCentreHz is the fixed corner frequency of TE's high-shelf.
const trebleShelfCentreHz = 8000.0

const trebleShelfSlope = 1.0

type teModule struct {
	active bool
	fs     int
	channels int

	coeffs BiquadCoeffs
	state  biquadBank
}

func newTE() *teModule {
	return &teModule{}
}

func (m *teModule) reconfigure(fs int, channels int, gainDB float64) {
	m.fs = fs
	m.channels = channels
	m.coeffs = highShelfCoeffs(fs, trebleShelfCentreHz, gainDB, trebleShelfSlope)
	m.state.resize(channels)
}

func (m *teModule) resetState() {
	m.state.reset()
}

// setEnabled applies the three-way AND gate from spec.md §4.1's module
// table: TE is only ever active when all of fs, level, and operating mode
// agree, and bypass is instantaneous - no drain countdown.
func (m *teModule) setEnabled(fs int, levelDB float64, operating OperatingMode) {
	m.active = fs >= TrebleBoostMinRate && levelDB > 0 && operating == OperatingOn
}

func (m *teModule) process(buf []float32, nFrames int) {
	if !m.active {
		return
	}
	for f := 0; f < nFrames; f++ {
		for c := 0; c < m.channels; c++ {
			idx := f*m.channels + c
			buf[idx] = float32(m.state.ch[c].process(m.coeffs, float64(buf[idx])))
		}
	}
}
