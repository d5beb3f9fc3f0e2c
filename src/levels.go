package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:	dB <-> linear conversion and the volume/balance gain
 *		calculation of spec.md §4.4, grounded bit-for-bit on
 *		LVM_SetVolume / the balance block of LVM_Control.c's
 *		ApplyNewSettings (around LVC_Mixer_SetTarget).
 *
 *------------------------------------------------------------------*/

import "math"

// dBToLinear converts whole or fractional dB to a linear amplitude scalar.
func dBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// linearToDB is the inverse of dBToLinear; callers passing 0 get -Inf, so
// guard before logging it.
func linearToDB(linear float64) float64 {
	if linear <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(linear)
}

// splitVolume decomposes a non-positive whole-dB volume into a 6 dB shift
// count and a 0-5 dB table offset, then returns the linear gain -
// grounded on LVM_SetVolume's "dBOffset = (-Volume) % 6; dBShifts =
// Volume / -6" followed by a binary divide per shift.
func splitVolume(volumeDB int) float64 {
	if volumeDB > 0 {
		volumeDB = 0
	}
	shifts := (-volumeDB) / 6
	offset := (-volumeDB) % 6

	gain := sixStepGainTable[offset]
	for i := 0; i < shifts; i++ {
		gain /= 2
	}
	return gain
}

// balanceGains returns the (left, right) linear gains for a balance value
// in [-96, 96] dB, matching the three-way split in LVM_Control.c's
// ApplyNewSettings: negative balance attenuates right, positive attenuates
// left, zero holds both at unity. The "<< 4" in the original is a
// multiply-by-16 on the dB value, which dB_to_LinFloat then takes in 1/100
// dB (mB) units, so the *16 result is divided by 100 before the
// dB-to-linear lookup.
func balanceGains(balanceDB int) (left, right float64) {
	switch {
	case balanceDB < 0:
		return 1.0, dBToLinear(float64(balanceDB*16) / 100)
	case balanceDB > 0:
		return dBToLinear(float64(-balanceDB*16) / 100), 1.0
	default:
		return 1.0, 1.0
	}
}
