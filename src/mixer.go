package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:	Per-channel scalar gain with a smoothed target - the
 *		"mixer primitive" of spec.md §2 item 3. Used directly by
 *		VC (volume/balance) and indirectly wherever a module
 *		needs a click-free transition between two gains.
 *
 *------------------------------------------------------------------*/

// MixerCallback is raised when a smoother's current value settles onto its
// target, matching the "volume reached unity" callback surface in
// spec.md §4.1.
type MixerCallback int

const (
	MixerNoEvent MixerCallback = iota
	MixerTargetReached
)

// gainSmoother is a one-pole follower: current moves toward target each
// sample by a fixed fraction set from a time constant, as described in
// spec.md §4.2's "Volume smoother" and grounded on the same RC shape as the
// teacher's window-function biquad normalization in dsp.go, repurposed here
// for time-domain smoothing rather than frequency-domain shaping.
type gainSmoother struct {
	current float64
	target  float64
	coeff   float64 // one-pole feedback coefficient, 0 < coeff < 1
	epsilon float64
}

// newGainSmoother derives the one-pole coefficient from a time constant in
// seconds and the sample rate, matching "default ~= 1024/fs seconds" in
// spec.md §4.2.
func newGainSmoother(timeConstantSec float64, fs int) gainSmoother {
	return gainSmoother{
		current: 1.0,
		target:  1.0,
		coeff:   onePoleCoeff(timeConstantSec, fs),
		epsilon: 1e-5,
	}
}

func onePoleCoeff(timeConstantSec float64, fs int) float64 {
	if timeConstantSec <= 0 || fs <= 0 {
		return 0
	}
	// Standard exponential-smoothing time-constant-to-coefficient mapping:
	// after timeConstantSec seconds the step response reaches ~63%.
	samples := timeConstantSec * float64(fs)
	if samples < 1 {
		return 0
	}
	return 1.0 / samples
}

func (g *gainSmoother) setTarget(target float64) {
	g.target = target
}

func (g *gainSmoother) setImmediate(value float64) {
	g.current = value
	g.target = value
}

// step advances the smoother by one sample and returns the current gain
// plus any callback raised this sample.
func (g *gainSmoother) step() (float64, MixerCallback) {
	diff := g.target - g.current
	if absF(diff) <= g.epsilon {
		if g.current != g.target {
			g.current = g.target
			return g.current, MixerTargetReached
		}
		return g.current, MixerNoEvent
	}
	g.current += diff * g.coeff
	return g.current, MixerNoEvent
}

func (g *gainSmoother) atTarget() bool {
	return absF(g.target-g.current) <= g.epsilon
}

// LVM_VC_MIXER_TIME_SAMPLES is the balance/volume mixer's smoother time
// constant expressed in samples (spec.md §4.2's "default ~= 1024/fs
// seconds"); divide by fs to get the seconds value newGainSmoother wants.
const LVM_VC_MIXER_TIME_SAMPLES = 1024.0

func mixerTimeConstantSec(fs int) float64 {
	if fs <= 0 {
		return 0
	}
	return LVM_VC_MIXER_TIME_SAMPLES / float64(fs)
}
