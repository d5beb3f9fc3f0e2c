package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:	Shared data model for the effect bundle and the
 *		reverberator: sample formats, channel layouts, and the
 *		control-parameter block. The return-code enumeration
 *		from the C original lives in errors.go.
 *
 *------------------------------------------------------------------*/

// SampleRate is one of the enumerated rates the engine accepts. Values are
// enum ordinals (indices into sampleRateHz), not the Hz value itself; use
// Hz() to get the frequency.
type SampleRate int

const (
	SampleRate8000 SampleRate = iota
	SampleRate11025
	SampleRate12000
	SampleRate16000
	SampleRate22050
	SampleRate24000
	SampleRate32000
	SampleRate44100
	SampleRate48000
	SampleRate88200
	SampleRate96000
	SampleRate176400
	SampleRate192000
	numSampleRates
)

var sampleRateHz = [numSampleRates]int{
	8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000,
	88200, 96000, 176400, 192000,
}

// Hz returns the sample rate in Hz, or 0 if the enum value is out of range.
func (sr SampleRate) Hz() int {
	if sr < 0 || sr >= numSampleRates {
		return 0
	}
	return sampleRateHz[sr]
}

// SampleRateFromHz maps a frequency to its enum, reporting ok=false for any
// rate outside the supported set in spec.md §3.
func SampleRateFromHz(hz int) (SampleRate, bool) {
	for i, v := range sampleRateHz {
		if v == hz {
			return SampleRate(i), true
		}
	}
	return 0, false
}

// SourceFormat describes the channel topology of the input stream.
type SourceFormat int

const (
	FormatMono SourceFormat = iota
	FormatMonoInStereo
	FormatStereo
	FormatMultichannel
)

// SpeakerType is carried in the control block; a change makes Apply
// recompute the TE coefficients, but no CS or TE coefficient depends on it.
type SpeakerType int

const (
	SpeakerHeadphones SpeakerType = iota
	SpeakerExHeadphones
	SpeakerBuiltIn
	SpeakerMobileSpeaker
)

// OperatingMode is the top-level bundle on/off switch.
type OperatingMode int

const (
	OperatingOff OperatingMode = iota
	OperatingOn
)

// AccessMode controls how Process writes to the caller's output buffer.
type AccessMode int

const (
	AccessWrite AccessMode = iota
	AccessAccumulate
)

// PeakDecaySpeed selects one of three PSA envelope time constants.
type PeakDecaySpeed int

const (
	PeakDecayLow PeakDecaySpeed = iota
	PeakDecayMedium
	PeakDecayHigh
)

// EQBand is one parametric-EQ band, validated against spec.md §3:
// centre in [20, fs/2), gain in [-15,+15] dB, Q in [25,1200] (Q*100).
type EQBand struct {
	CentreHz int
	GainMilliDB int // gain in 1/100 dB, so the dB range becomes [-1500,1500]
	Q int            // Q * 100, range [25,1200]
}

// ChannelMask is a bitmask over channel positions; canonical masks for N
// channels are (1<<N)-1, per spec.md §6.
type ChannelMask uint32

// CSParams configures the Concert-Surround virtualizer.
type CSParams struct {
	Enabled     bool
	ReverbLevel int // 0-100
	EffectLevel int // >= csMinEffectLevel
}

// EQParams configures the N-band parametric equalizer.
type EQParams struct {
	Enabled bool
	Bands   []EQBand
}

// DBEParams configures the dynamic bass enhancer.
type DBEParams struct {
	Enabled     bool
	EffectLevel int
	CentreHz    int // one of 55, 66, 78, 90
	HPFEnabled  bool
}

// TEParams configures the treble shelf enhancer.
type TEParams struct {
	Enabled     bool
	EffectLevel int
}

// VolumeParams configures the volume/balance control. Both fields are whole
// dB, matching the original's LVM_VC_EffectLevel/Balance parameter units;
// §4.4's balance-to-gain formula (balance * 16) depends on this being
// unscaled dB, not millibel.
type VolumeParams struct {
	EffectLevelDB int // <= 0
	BalanceDB     int // [-96, 96]
}

// PSAParams configures the peak-spectrum analyzer.
type PSAParams struct {
	Enabled    bool
	DecaySpeed PeakDecaySpeed
}

// ControlParams is the full control-parameter block from spec.md §3. Two
// copies of this struct are held by Bundle: active and pending.
type ControlParams struct {
	Mode         OperatingMode
	SampleRate   SampleRate
	Format       SourceFormat
	ChannelCount int
	ChannelMask  ChannelMask
	Speaker      SpeakerType

	CS  CSParams
	EQ  EQParams
	DBE DBEParams
	TE  TEParams
	VC  VolumeParams
	PSA PSAParams
}

// clone performs the deep copy spec.md §3 requires of band-definition
// lists: the caller's slice may be freed or reused the instant SetControl
// returns, so nothing may alias it.
func (p ControlParams) clone() ControlParams {
	out := p
	if p.EQ.Bands != nil {
		out.EQ.Bands = append([]EQBand(nil), p.EQ.Bands...)
	}
	return out
}

// HeadroomEntry is one frequency-range -> offset entry of the headroom
// block described in spec.md §3.
type HeadroomEntry struct {
	LowHz, HighHz int
	OffsetMilliDB int
}

// HeadroomParams is the full headroom block, deep-copied on Set like
// ControlParams.EQ.Bands.
type HeadroomParams struct {
	Entries []HeadroomEntry
}

func (p HeadroomParams) clone() HeadroomParams {
	out := p
	if p.Entries != nil {
		out.Entries = append([]HeadroomEntry(nil), p.Entries...)
	}
	return out
}
