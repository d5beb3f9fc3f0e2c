package lvmfx

import "math"

/*------------------------------------------------------------------
 *
 * Purpose:	Peak-spectrum analyzer (PSA), spec.md §4.2: observes the
 *		post-VC signal through a small bank of band-split peak
 *		envelope followers, one of three configurable decay
 *		speeds. It is a side-observer only - it never writes to
 *		the audio buffer, and per spec.md's module table its tail
 *		policy is N/A (no drain countdown; it simply stops
 *		observing the instant it's disabled).
 *
 *------------------------------------------------------------------*/

// psaBandCentresHz splits the spectrum into a small fixed set of observation
// bands; five bands is enough for a coarse peak-meter without requiring an
// FFT on the hot path.
var psaBandCentresHz = [5]float64{60, 230, 910, 3600, 14000}

// psaDecayHalfLifeMs maps each PeakDecaySpeed to an envelope half-life,
// matching the ordering low < medium < high from spec.md §3.
var psaDecayHalfLifeMs = [3]float64{1500, 750, 300}

// psaBandQ sets each band's bandpass selectivity - narrow enough that
// adjacent bands (roughly an octave to two octaves apart) don't bleed into
// each other for a single dominant tone, wide enough to still track
// broadband program material sensibly.
const psaBandQ = 2.0

type psaBand struct {
	coeffs BiquadCoeffs
	state  biquadState
	peak   float64
	decay  float64
}

type psaModule struct {
	active bool
	fs     int

	bands []psaBand
}

func newPSA() *psaModule {
	return &psaModule{}
}

func (m *psaModule) reconfigure(fs int, speed PeakDecaySpeed) {
	m.fs = fs

	halfLifeMs := psaDecayHalfLifeMs[speed]
	decay := math.Pow(2, -1.0/(halfLifeMs*float64(fs)/1000))

	if cap(m.bands) >= len(psaBandCentresHz) {
		m.bands = m.bands[:len(psaBandCentresHz)]
	} else {
		m.bands = make([]psaBand, len(psaBandCentresHz))
	}
	for i, hz := range psaBandCentresHz {
		m.bands[i].coeffs = bandpassCoeffs(fs, hz, psaBandQ)
		m.bands[i].decay = decay
	}
}

func (m *psaModule) resetState() {
	for i := range m.bands {
		m.bands[i].state.reset()
		m.bands[i].peak = 0
	}
}

// setEnabled has no tail policy - PSA is a pure observer, so disabling it
// takes effect immediately with no drain.
func (m *psaModule) setEnabled(enabled bool) {
	m.active = enabled
}

// observe runs the (already fully processed, post-VC) block through each
// band's envelope follower without modifying buf.
func (m *psaModule) observe(buf []float32, nFrames int, channels int) {
	if !m.active || len(m.bands) == 0 {
		return
	}

	for f := 0; f < nFrames; f++ {
		var mono float64
		base := f * channels
		for c := 0; c < channels; c++ {
			mono += float64(buf[base+c])
		}
		mono /= float64(channels)

		for b := range m.bands {
			band := &m.bands[b]
			y := band.state.process(band.coeffs, mono)
			rectified := absF(y)
			if rectified > band.peak {
				band.peak = rectified
			} else {
				band.peak *= band.decay
			}
		}
	}
}

// Peaks returns the current per-band peak levels, linear scale, one entry
// per band in psaBandCentresHz order.
func (m *psaModule) Peaks() []float64 {
	out := make([]float64, len(m.bands))
	for i := range m.bands {
		out[i] = m.bands[i].peak
	}
	return out
}
