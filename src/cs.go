package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:	Concert-Surround virtualizer (CS), spec.md §4.2: mid/side
 *		decomposition, an HRTF-approximating biquad applied to the
 *		side channel, and a reverb-like comb whose send level is
 *		scaled by reverb_level. Operates on stereo-promoted float;
 *		mono input is treated as side-silent (passthrough).
 *
 *------------------------------------------------------------------*/

// csHRTFCentreHz/csHRTFQ approximate the broad shelf-and-notch shape a real
// head-related transfer function imposes on the side signal - a single
// peaking stage rather than the teacher's measured-coefficient tables,
// which spec.md §1 puts out of scope.
const (
	csHRTFCentreHz = 3000.0
	csHRTFQ        = 0.7

	csCombDelaySamplesAt44k = 441 // ~10ms at 44.1kHz, scaled by fs at reconfigure
	csCombFeedback          = 0.35

	csMinEffectLevel = 0
)

type csModule struct {
	active   bool
	fs       int
	channels int

	hrtf      BiquadCoeffs
	hrtfState biquadState // side channel only

	comb       []float64
	combPos    int
	combFeedback float64
	reverbSend float64

	effectGain float64

	exitCountdown int
}

func newCS() *csModule {
	return &csModule{}
}

func (m *csModule) reconfigure(fs int, channels int, p CSParams) {
	m.fs = fs
	m.channels = channels

	gainDB := float64(p.EffectLevel-csMinEffectLevel) / 10
	m.hrtf = peakingCoeffs(fs, csHRTFCentreHz, gainDB, csHRTFQ)

	delay := csCombDelaySamplesAt44k * fs / 44100
	if delay < 1 {
		delay = 1
	}
	if cap(m.comb) >= delay {
		m.comb = m.comb[:delay]
	} else {
		m.comb = make([]float64, delay)
	}
	m.combFeedback = csCombFeedback
	m.reverbSend = float64(p.ReverbLevel) / 100
	m.effectGain = dBToLinear(gainDB)
}

func (m *csModule) resetState() {
	m.hrtfState.reset()
	for i := range m.comb {
		m.comb[i] = 0
	}
	m.combPos = 0
}

func (m *csModule) setEnabled(enabled bool, tailSamples int) {
	if m.active && !enabled {
		m.exitCountdown = tailSamples
	}
	m.active = enabled || m.exitCountdown > 0
}

// process operates on interleaved stereo-promoted float: for each frame it
// decomposes channels 0/1 into mid/side, runs the HRTF biquad and comb on
// the side signal, then recomposes left/right. Channels beyond the first
// two pass through untouched (CS is a stereo-field effect only).
func (m *csModule) process(buf []float32, nFrames int) {
	if !m.active || m.channels < 2 || len(m.comb) == 0 {
		return
	}

	for f := 0; f < nFrames; f++ {
		base := f * m.channels
		l := float64(buf[base])
		r := float64(buf[base+1])

		mid := (l + r) / 2
		side := (l - r) / 2

		side = m.hrtfState.process(m.hrtf, side)

		tap := m.comb[m.combPos]
		combOut := side + tap*m.combFeedback
		m.comb[m.combPos] = side + tap*m.combFeedback*m.reverbSend
		m.combPos++
		if m.combPos >= len(m.comb) {
			m.combPos = 0
		}

		side = combOut * m.effectGain

		buf[base] = float32(mid + side)
		buf[base+1] = float32(mid - side)
	}

	if m.exitCountdown > 0 {
		m.exitCountdown -= nFrames
		if m.exitCountdown <= 0 {
			m.exitCountdown = 0
			if m.hrtfState.settled(biquadTapThreshold) {
				m.active = false
			}
		}
	}
}
