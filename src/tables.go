package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:	Immutable lookup tables (none indexed by sample rate;
 *		biquad coefficients are computed in coeffgen.go). These are the
 *		bit-exact tables from the original LVM reverb
 *		(android_10/reverb/LVREV_Api.c) plus the dB<->linear and
 *		preset tables spec.md §6 names.
 *
 *------------------------------------------------------------------*/

// levelArray maps a combined-level mB value (clamped below by index 0's
// threshold of -12000 mB) to an internal 0..100 level index, per
// spec.md §4.3 and grounded bit-for-bit on ReverbConvertLevel in
// android_10/reverb/LVREV_Api.c.
var levelArray = [101]int16{
	-12000, -4000, -3398, -3046, -2796, -2603, -2444, -2310, -2194, -2092,
	-2000, -1918, -1842, -1773, -1708, -1648, -1592, -1540, -1490, -1443,
	-1398, -1356, -1316, -1277, -1240, -1205, -1171, -1138, -1106, -1076,
	-1046, -1018, -990, -963, -938, -912, -888, -864, -841, -818,
	-796, -775, -754, -734, -714, -694, -675, -656, -638, -620,
	-603, -585, -568, -552, -536, -520, -504, -489, -474, -459,
	-444, -430, -416, -402, -388, -375, -361, -348, -335, -323,
	-310, -298, -286, -274, -262, -250, -239, -228, -216, -205,
	-194, -184, -173, -162, -152, -142, -132, -121, -112, -102,
	-92, -82, -73, -64, -54, -45, -36, -27, -18, -9,
	0,
}

// convertReverbLevel maps a combined level in mB to the 0..100 index
// levelArray represents, matching ReverbConvertLevel's linear scan.
func convertReverbLevel(combinedMB int) int {
	for i, v := range levelArray {
		if int16(combinedMB) <= v {
			return i
		}
	}
	return len(levelArray) - 1
}

type lpfPair struct {
	RoomHF int16
	LPFHz  int16
}

// lpfArray maps room-HF-level mB to an LPF cutoff in Hz, bit-exact with
// LPFArray in android_10/reverb/LVREV_Api.c.
var lpfArray = [97]lpfPair{
	{-10000, 50}, {-5000, 50}, {-4000, 50}, {-3000, 158}, {-2000, 502},
	{-1000, 1666}, {-900, 1897}, {-800, 2169}, {-700, 2496}, {-600, 2895},
	{-500, 3400}, {-400, 4066}, {-300, 5011}, {-200, 6537}, {-100, 9826},
	{-99, 9881}, {-98, 9937}, {-97, 9994}, {-96, 10052}, {-95, 10111},
	{-94, 10171}, {-93, 10231}, {-92, 10293}, {-91, 10356}, {-90, 10419},
	{-89, 10484}, {-88, 10549}, {-87, 10616}, {-86, 10684}, {-85, 10753},
	{-84, 10823}, {-83, 10895}, {-82, 10968}, {-81, 11042}, {-80, 11117},
	{-79, 11194}, {-78, 11272}, {-77, 11352}, {-76, 11433}, {-75, 11516},
	{-74, 11600}, {-73, 11686}, {-72, 11774}, {-71, 11864}, {-70, 11955},
	{-69, 12049}, {-68, 12144}, {-67, 12242}, {-66, 12341}, {-65, 12443},
	{-64, 12548}, {-63, 12654}, {-62, 12763}, {-61, 12875}, {-60, 12990},
	{-59, 13107}, {-58, 13227}, {-57, 13351}, {-56, 13477}, {-55, 13607},
	{-54, 13741}, {-53, 13878}, {-52, 14019}, {-51, 14164}, {-50, 14313},
	{-49, 14467}, {-48, 14626}, {-47, 14789}, {-46, 14958}, {-45, 15132},
	{-44, 15312}, {-43, 15498}, {-42, 15691}, {-41, 15890}, {-40, 16097},
	{-39, 16311}, {-38, 16534}, {-37, 16766}, {-36, 17007}, {-35, 17259},
	{-34, 17521}, {-33, 17795}, {-32, 18081}, {-31, 18381}, {-30, 18696},
	{-29, 19027}, {-28, 19375}, {-27, 19742}, {-26, 20129}, {-25, 20540},
	{-24, 20976}, {-23, 21439}, {-22, 21934}, {-21, 22463}, {-20, 23031},
	{-19, 23643}, {-18, 23999},
}

// convertRoomHFLevel maps a room-HF-level mB value to an LPF cutoff in Hz,
// matching ReverbConvertHfLevel's linear scan (which only walks the first
// 96 entries, leaving the 97th as the scan's natural fallback).
func convertRoomHFLevel(hfLevelMB int) int {
	for i := 0; i < len(lpfArray)-1; i++ {
		if int16(hfLevelMB) <= lpfArray[i].RoomHF {
			return int(lpfArray[i].LPFHz)
		}
	}
	return int(lpfArray[len(lpfArray)-1].LPFHz)
}

// ReverbPreset selects one of the seven frozen parameter rows in
// spec.md §6.
type ReverbPreset int

const (
	PresetNone ReverbPreset = iota
	PresetSmallRoom
	PresetMediumRoom
	PresetLargeRoom
	PresetMediumHall
	PresetLargeHall
	PresetPlate
	numReverbPresets
)

// ReverbProperties is the ten-field properties struct from spec.md §6 -
// the PROPERTIES parameter and the row shape of the preset table.
type ReverbProperties struct {
	RoomLevelMB       int16
	RoomHFLevelMB     int16
	DecayTimeMs       uint32
	DecayHFRatioPM    int16
	ReflectionsMB     int16 // accepted, no effect
	ReflectionsDelay  uint32 // ms, accepted, no effect
	ReverbLevelMB     int16
	ReverbDelay       uint32 // ms, accepted, no effect
	DiffusionPM       int16
	DensityPM         int16
}

// reverbPresets is the bit-exact preset table from spec.md §6, grounded on
// sReverbPresets in android_10/reverb/LVREV_Api.c.
var reverbPresets = [numReverbPresets]ReverbProperties{
	PresetNone:       {0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	PresetSmallRoom:  {-400, -600, 1100, 830, -400, 5, 500, 10, 1000, 1000},
	PresetMediumRoom: {-400, -600, 1300, 830, -1000, 20, -200, 20, 1000, 1000},
	PresetLargeRoom:  {-400, -600, 1500, 830, -1600, 5, -1000, 40, 1000, 1000},
	PresetMediumHall: {-400, -600, 1800, 700, -1300, 15, -800, 30, 1000, 1000},
	PresetLargeHall:  {-400, -600, 1800, 700, -2000, 30, -1400, 60, 1000, 1000},
	PresetPlate:      {-400, -200, 1300, 900, 0, 2, 0, 10, 1000, 750},
}

// Constants from spec.md §6.
const (
	ReverbSendLevel   = 0.75
	ReverbUnitVolume  = 1.0
	MaxReverbLevelMB  = 2000
	MaxT60Ms          = 7000
	MaxInternalBlock  = 256
	MaxDelayLineLen   = 16384
)

// sixStepGainTable is the precomputed table of six linear gains indexed by
// the 0-5 dB offset described in spec.md §4.4's volume split; each step is
// one dB, dBToLinear(0..-5).
var sixStepGainTable = [6]float64{
	dBToLinear(0), dBToLinear(-1), dBToLinear(-2),
	dBToLinear(-3), dBToLinear(-4), dBToLinear(-5),
}

// dBLinTableMinDB / dBLinTableMaxDB bound the precomputed whole-dB->linear
// table built at package init. Immutable after init, unlike a lazily-filled
// cache, so it stays safe for concurrent SetControl calls across instances
// (spec.md §5: "no global mutable state").
const (
	dBLinTableMinDB = -200
	dBLinTableMaxDB = 20
)

var dBLinTable [dBLinTableMaxDB - dBLinTableMinDB + 1]float64

func init() {
	for i := range dBLinTable {
		dBLinTable[i] = dBToLinear(float64(i + dBLinTableMinDB))
	}
}

// dBLinLookup quantizes a whole-dB value against the precomputed table
// rather than calling math.Pow on every control-rate update, mirroring the
// original's avoidance of floating-point pow in control-rate code (see
// SPEC_FULL.md's "SUPPLEMENTED FEATURES"). Out-of-range values fall back to
// the exact formula.
func dBLinLookup(wholeDB int) float64 {
	idx := wholeDB - dBLinTableMinDB
	if idx < 0 || idx >= len(dBLinTable) {
		return dBToLinear(float64(wholeDB))
	}
	return dBLinTable[idx]
}
