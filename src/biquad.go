package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:	Direct-form-I biquad, the primitive every effect module
 *		with an IIR stage (EQNB, DBE, CS, TE) is built from.
 *
 * Description:	Coefficients come from the generator functions in
 *		coeffgen.go, which each module calls with its sample
 *		rate and effect level when it is reconfigured; this file
 *		only holds per-channel delay
 *		state and the canonical transfer-function evaluation,
 *		same separation of concerns as the teacher's gen_lowpass
 *		(coefficient generation) versus the demodulator's filter
 *		apply loop (state + evaluation) in dsp.go / demod.go.
 *
 *------------------------------------------------------------------*/

// BiquadCoeffs holds one set of direct-form-I biquad coefficients,
// normalized so a0 == 1.
type BiquadCoeffs struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// biquadState is the per-channel delay line for one direct-form-I biquad.
type biquadState struct {
	x1, x2 float64
	y1, y2 float64
}

func (s *biquadState) reset() {
	*s = biquadState{}
}

// process runs one sample through the filter; Direct Form I:
// y[n] = b0*x[n] + b1*x[n-1] + b2*x[n-2] - a1*y[n-1] - a2*y[n-2]
func (s *biquadState) process(c BiquadCoeffs, x float64) float64 {
	y := c.B0*x + c.B1*s.x1 + c.B2*s.x2 - c.A1*s.y1 - c.A2*s.y2

	s.x2, s.x1 = s.x1, x
	s.y2, s.y1 = s.y1, y

	return y
}

// settled reports whether the filter's stored energy has decayed below a
// bit-threshold, used by the per-module tail-drain policy in spec.md §4.2.
func (s *biquadState) settled(threshold float64) bool {
	return absF(s.x1) < threshold && absF(s.x2) < threshold &&
		absF(s.y1) < threshold && absF(s.y2) < threshold
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// biquadBank is a per-channel array of biquad states sharing one
// coefficient set - one cascade stage applied identically to every
// channel, per the EQNB/DBE/TE contract in spec.md §4.2.
type biquadBank struct {
	ch []biquadState
}

func newBiquadBank(channels int) biquadBank {
	return biquadBank{ch: make([]biquadState, channels)}
}

func (b *biquadBank) resize(channels int) {
	if cap(b.ch) >= channels {
		b.ch = b.ch[:channels]
		for i := range b.ch {
			b.ch[i].reset()
		}
		return
	}
	b.ch = make([]biquadState, channels)
}

func (b *biquadBank) reset() {
	for i := range b.ch {
		b.ch[i].reset()
	}
}

func (b *biquadBank) settled(threshold float64) bool {
	for i := range b.ch {
		if !b.ch[i].settled(threshold) {
			return false
		}
	}
	return true
}

// biquadTapThreshold is the bit-threshold used by settled(); chosen well
// below one 16-bit LSB (1/32768) so a drained tail is inaudible even after
// the 16-bit lowering described in spec.md §9.
const biquadTapThreshold = 1e-6
