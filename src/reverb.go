package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:	Reverberator, spec.md §4.3: a standalone Schroeder/Moorer
 *		late-reflection engine with its own control/process
 *		surface, consumed as either an insert effect (stereo in,
 *		wet+dry stereo out) or an auxiliary effect (mono send in,
 *		pure wet stereo out).
 *
 * Description:	LVREV_Api.c (the retrieval pack's reverb reference) is
 *		the parameter-surface and control-flow contract this file
 *		follows bit-for-bit (defaults, preset table, mB/per-mille
 *		mappings, tail-drain arithmetic); the pack does not carry
 *		the late-reflection engine's internal comb/allpass network,
 *		so the engine itself below is the standard Schroeder/Moorer
 *		topology (four parallel damped comb filters feeding two
 *		series allpass stages) that family of designs is built
 *		from, sized by T60/density/diffusion/HF-damping the way
 *		LVREV_Api.c's parameter mapping feeds them.
 *
 *------------------------------------------------------------------*/

import "math"

// ReverbParamID enumerates the bit-exact parameter IDs of spec.md §6.
type ReverbParamID int

const (
	ParamRoomLevel ReverbParamID = iota
	ParamRoomHFLevel
	ParamDecayTime
	ParamDecayHFRatio
	ParamReflectionsLevel
	ParamReflectionsDelay
	ParamReverbLevel
	ParamReverbDelay
	ParamDiffusion
	ParamDensity
	ParamProperties
	ParamPreset
)

// ReverbIOMode selects the reverberator's two distinct I/O shapes, modeled
// as a field rather than a runtime branch inside the inner DSP loop per
// spec.md §9's "do not expose the distinction as runtime branches".
type ReverbIOMode int

const (
	ReverbInsert ReverbIOMode = iota
	ReverbAuxiliary
)

type reverbVolumeMode int

const (
	volumeOff reverbVolumeMode = iota
	volumeFlat
	volumeRamp
)

// combTuningAt44k / allpassTuningAt44k are Freeverb-style prime-ish delay
// lengths in samples at a 44.1kHz reference rate, scaled by fs/44100 at
// SetConfig; this is the canonical Schroeder/Moorer building block spec.md
// §4.3 names without pinning exact lengths.
var combTuningAt44k = [4]int{1557, 1617, 1491, 1422}
var allpassTuningAt44k = [2]int{225, 556}

type combFilter struct {
	buf      []float64
	pos      int
	feedback float64
	damp1    float64
	damp2    float64
	filterState float64
}

func (c *combFilter) resize(length int) {
	if cap(c.buf) >= length {
		c.buf = c.buf[:length]
	} else {
		c.buf = make([]float64, length)
	}
	c.pos = 0
}

func (c *combFilter) reset() {
	for i := range c.buf {
		c.buf[i] = 0
	}
	c.filterState = 0
	c.pos = 0
}

func (c *combFilter) process(x float64) float64 {
	out := c.buf[c.pos]
	c.filterState = out*c.damp2 + c.filterState*c.damp1
	c.buf[c.pos] = x + c.filterState*c.feedback
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

type allpassFilter struct {
	buf      []float64
	pos      int
	feedback float64
}

func (a *allpassFilter) resize(length int) {
	if cap(a.buf) >= length {
		a.buf = a.buf[:length]
	} else {
		a.buf = make([]float64, length)
	}
	a.pos = 0
}

func (a *allpassFilter) reset() {
	for i := range a.buf {
		a.buf[i] = 0
	}
	a.pos = 0
}

func (a *allpassFilter) process(x float64) float64 {
	bufOut := a.buf[a.pos]
	y := -x + bufOut
	a.buf[a.pos] = x + bufOut*a.feedback
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return y
}

// reverbEngineChannel is one complete comb-bank + allpass-chain network;
// the reverberator runs two of these (left/right) with slightly offset
// tunings so the stereo field doesn't collapse to mono.
type reverbEngineChannel struct {
	combs    [4]combFilter
	allpass  [2]allpassFilter
}

func (e *reverbEngineChannel) resize(fs int, stereoOffset int) {
	for i := range e.combs {
		length := combTuningAt44k[i]*fs/44100 + stereoOffset
		if length < 1 {
			length = 1
		}
		e.combs[i].resize(length)
	}
	for i := range e.allpass {
		length := allpassTuningAt44k[i]*fs/44100 + stereoOffset
		if length < 1 {
			length = 1
		}
		e.allpass[i].resize(length)
		e.allpass[i].feedback = 0.5
	}
}

func (e *reverbEngineChannel) reset() {
	for i := range e.combs {
		e.combs[i].reset()
	}
	for i := range e.allpass {
		e.allpass[i].reset()
	}
}

func (e *reverbEngineChannel) setTuning(feedback, damp1, damp2 float64) {
	for i := range e.combs {
		e.combs[i].feedback = feedback
		e.combs[i].damp1 = damp1
		e.combs[i].damp2 = damp2
	}
}

func (e *reverbEngineChannel) process(x float64) float64 {
	var out float64
	for i := range e.combs {
		out += e.combs[i].process(x)
	}
	for i := range e.allpass {
		out = e.allpass[i].process(out)
	}
	return out
}

// ReverbProperties (the ten-field PROPERTIES parameter struct) is defined
// in tables.go alongside the preset table it shares its shape with.

type reverbState int

const (
	reverbUninitialized reverbState = iota
	reverbInitialized
	reverbActive
	reverbDraining
)

// Reverberator is a standalone effect instance, independent of Bundle, per
// spec.md §2 item 6.
type Reverberator struct {
	mode     ReverbIOMode
	fs       int
	channels int

	state reverbState

	left, right reverbEngineChannel
	lpf         biquadState
	lpfCoeffs   BiquadCoeffs
	hpf         biquadState
	hpfCoeffs   BiquadCoeffs

	roomLevelMB   int16
	roomHFLevelMB int16
	decayTimeMs   uint32
	decayHFRatioPM int16
	reverbLevelMB int16
	diffusionPM   int16
	densityPM     int16

	enabled bool
	preset       ReverbPreset
	nextPreset   ReverbPreset
	presetMode   bool
	presetPending bool

	samplesToExit int

	volLeft, volRight         float64
	prevVolLeft, prevVolRight float64
	volumeMode                reverbVolumeMode

	scratchIn  []float64
	scratchOut []float64
}

// NewReverberator allocates a reverberator in its uninitialized state; call
// Init before SetConfig/Process.
func NewReverberator() *Reverberator {
	return &Reverberator{}
}

// Init sets the defaults from spec.md §4.3: T60 1490ms, HF damping level
// 21, density 100, roomsize 100, HPF 50Hz, LPF 23999Hz, level 0, unity
// volumes, volume-mode flat - bit-exact with LVREV_Api.c's Reverb_init.
func (r *Reverberator) Init() error {
	r.roomLevelMB = -6000
	r.roomHFLevelMB = 0
	r.decayTimeMs = 1490
	r.decayHFRatioPM = 21 * 20
	r.reverbLevelMB = -6000
	r.diffusionPM = 1000
	r.densityPM = 1000
	r.enabled = false
	r.volLeft, r.volRight = 1.0, 1.0
	r.prevVolLeft, r.prevVolRight = 1.0, 1.0
	r.volumeMode = volumeFlat
	r.state = reverbInitialized
	r.presetMode = false
	return nil
}

// SetConfig validates and applies the I/O shape, per spec.md §4.3: input
// channels must be mono iff auxiliary, stereo iff insert; output is always
// stereo; input and output sample rates must match (enforced by the
// caller passing one fs); format is float in the primary path (the only
// path this package implements).
func (r *Reverberator) SetConfig(fs int, mode ReverbIOMode) error {
	if fs <= 0 {
		return newError(OutOfRange, "sample rate %d invalid", fs)
	}
	r.mode = mode
	r.fs = fs
	if mode == ReverbAuxiliary {
		r.channels = 1
	} else {
		r.channels = 2
	}

	r.left.resize(fs, 0)
	r.right.resize(fs, 23) // slight detune keeps the stereo field from collapsing
	r.lpf.reset()
	r.hpf.reset()
	r.left.reset()
	r.right.reset()

	r.recomputeEngineTuning()
	r.recomputeFilters()
	r.samplesToExit = int(r.decayTimeMs) * fs / 1000
	return nil
}

func (r *Reverberator) recomputeEngineTuning() {
	damping := float64(r.decayHFRatioPM) / 20 / 1000
	density := float64(r.diffusionPM) / 10 / 1000
	roomSize := ((float64(r.densityPM) * 99) / 1000) + 1

	t60Samples := float64(r.decayTimeMs) * float64(r.fs) / 1000
	// Per-comb feedback derived from the classic Schroeder relation so the
	// bank's energy decays to -60dB after t60Samples, scaled by room size.
	avgCombLen := float64(combTuningAt44k[0]+combTuningAt44k[1]+combTuningAt44k[2]+combTuningAt44k[3]) / 4 * float64(r.fs) / 44100
	feedback := math.Pow(10, -3*avgCombLen/math.Max(t60Samples, avgCombLen))
	feedback *= roomSize / 100
	if feedback > 0.98 {
		feedback = 0.98
	}

	damp1 := clampFloat(damping, 0, 0.9)
	damp2 := 1 - damp1

	r.left.setTuning(feedback, damp1, damp2)
	r.right.setTuning(feedback, damp1, damp2)
	for i := range r.left.allpass {
		r.left.allpass[i].feedback = clampFloat(density, 0.1, 0.9)
		r.right.allpass[i].feedback = clampFloat(density, 0.1, 0.9)
	}
}

func (r *Reverberator) recomputeFilters() {
	lpfHz := float64(convertRoomHFLevel(int(r.roomHFLevelMB)))
	if lpfHz <= 0 {
		lpfHz = 23999
	}
	if lpfHz > float64(r.fs)/2-1 {
		lpfHz = float64(r.fs)/2 - 1
	}
	// Second-order Butterworth lowpass (RBJ cookbook LPF, Q = 1/sqrt(2)).
	w0 := 2 * math.Pi * lpfHz / float64(r.fs)
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / math.Sqrt2
	r.lpfCoeffs = normalize((1-cosW0)/2, 1-cosW0, (1-cosW0)/2, 1+alpha, -2*cosW0, 1-alpha)
	r.hpfCoeffs = onePoleHighpassCoeffs(r.fs, 50)
}

// combinedLevelGain derives the linear send gain from room+reverb level in
// mB, per spec.md §4.3's LevelArray mapping.
func (r *Reverberator) combinedLevelGain() float64 {
	combined := int(r.roomLevelMB) + int(r.reverbLevelMB) - MaxReverbLevelMB
	idx := convertReverbLevel(combined)
	return float64(idx) / 100
}

func clampMB(v int) int16 {
	return int16(clampInt(v, -12000, 12000))
}

// SetParameter validates and applies one reverb parameter, per spec.md §6.
func (r *Reverberator) SetParameter(id ReverbParamID, value int64) error {
	switch id {
	case ParamRoomLevel:
		r.roomLevelMB = clampMB(int(value))
	case ParamRoomHFLevel:
		r.roomHFLevelMB = clampMB(int(value))
		r.recomputeFilters()
	case ParamDecayTime:
		ms := value
		if ms < 1 {
			ms = 1
		}
		if ms > MaxT60Ms {
			ms = MaxT60Ms
		}
		r.decayTimeMs = uint32(ms)
		r.samplesToExit = int(r.decayTimeMs) * r.fs / 1000
		r.recomputeEngineTuning()
	case ParamDecayHFRatio:
		r.decayHFRatioPM = int16(value)
		r.recomputeEngineTuning()
	case ParamReflectionsLevel, ParamReflectionsDelay, ParamReverbDelay:
		// Accepted, no effect - spec.md §4.3's parameter set explicitly
		// lists these as accept-but-ignore.
	case ParamReverbLevel:
		r.reverbLevelMB = clampMB(int(value))
	case ParamDiffusion:
		r.diffusionPM = int16(value)
		r.recomputeEngineTuning()
	case ParamDensity:
		r.densityPM = int16(value)
		r.recomputeEngineTuning()
	case ParamPreset:
		if !r.presetMode {
			return newError(InvalidArgument, "preset parameter set outside preset mode")
		}
		p := ReverbPreset(value)
		if p < 0 || p >= numReverbPresets {
			return newError(OutOfRange, "preset %d out of range", value)
		}
		// Deferred per spec.md §9: picked up at the start of the next
		// process call, never mid-block.
		r.nextPreset = p
		r.presetPending = true
	default:
		return newError(InvalidArgument, "unknown reverb parameter id %d", id)
	}
	return nil
}

// GetParameter returns the current value of one parameter. PRESET is
// re-entrant per spec.md §8 property 5: it reflects nextPreset even before
// the next process call picks it up.
func (r *Reverberator) GetParameter(id ReverbParamID) (int64, error) {
	switch id {
	case ParamRoomLevel:
		return int64(r.roomLevelMB), nil
	case ParamRoomHFLevel:
		return int64(r.roomHFLevelMB), nil
	case ParamDecayTime:
		return int64(r.decayTimeMs), nil
	case ParamDecayHFRatio:
		return int64(r.decayHFRatioPM), nil
	case ParamReflectionsLevel, ParamReflectionsDelay, ParamReverbDelay:
		return 0, nil
	case ParamReverbLevel:
		return int64(r.reverbLevelMB), nil
	case ParamDiffusion:
		return int64(r.diffusionPM), nil
	case ParamDensity:
		return int64(r.densityPM), nil
	case ParamPreset:
		if !r.presetMode {
			return 0, newError(InvalidArgument, "preset parameter read outside preset mode")
		}
		return int64(r.nextPreset), nil
	}
	return 0, newError(InvalidArgument, "unknown reverb parameter id %d", id)
}

// SetProperties/GetProperties handle the PROPERTIES struct parameter as one
// call, per spec.md §6.
func (r *Reverberator) SetProperties(p ReverbProperties) error {
	if err := r.SetParameter(ParamRoomLevel, int64(p.RoomLevelMB)); err != nil {
		return err
	}
	if err := r.SetParameter(ParamRoomHFLevel, int64(p.RoomHFLevelMB)); err != nil {
		return err
	}
	if err := r.SetParameter(ParamDecayTime, int64(p.DecayTimeMs)); err != nil {
		return err
	}
	if err := r.SetParameter(ParamDecayHFRatio, int64(p.DecayHFRatioPM)); err != nil {
		return err
	}
	if err := r.SetParameter(ParamReverbLevel, int64(p.ReverbLevelMB)); err != nil {
		return err
	}
	if err := r.SetParameter(ParamDiffusion, int64(p.DiffusionPM)); err != nil {
		return err
	}
	return r.SetParameter(ParamDensity, int64(p.DensityPM))
}

func (r *Reverberator) GetProperties() ReverbProperties {
	return ReverbProperties{
		RoomLevelMB:    r.roomLevelMB,
		RoomHFLevelMB:  r.roomHFLevelMB,
		DecayTimeMs:    r.decayTimeMs,
		DecayHFRatioPM: r.decayHFRatioPM,
		ReverbLevelMB:  r.reverbLevelMB,
		DiffusionPM:    r.diffusionPM,
		DensityPM:      r.densityPM,
	}
}

// EnablePresetMode switches the reverberator into preset-driven parameter
// control (PRESET becomes settable/gettable; direct parameter IDs still
// work but a preset load overwrites them).
func (r *Reverberator) EnablePresetMode() {
	r.presetMode = true
}

// SetEnabled toggles the engine's enabled flag; disabling starts the
// tail-drain per spec.md §4.3's state machine.
func (r *Reverberator) SetEnabled(enabled bool) {
	if r.enabled && !enabled {
		r.samplesToExit = int(r.decayTimeMs) * r.fs / 1000
		r.state = reverbDraining
	}
	if !r.enabled && enabled {
		r.state = reverbActive
	}
	r.enabled = enabled
}

func (r *Reverberator) loadPendingPreset() {
	if !r.presetPending {
		return
	}
	r.presetPending = false
	r.preset = r.nextPreset
	if r.preset == PresetNone {
		return
	}
	props := reverbPresets[r.preset]
	r.roomLevelMB = props.RoomLevelMB
	r.roomHFLevelMB = props.RoomHFLevelMB
	r.decayTimeMs = props.DecayTimeMs
	r.decayHFRatioPM = props.DecayHFRatioPM
	r.reverbLevelMB = props.ReverbLevelMB
	r.diffusionPM = props.DiffusionPM
	r.densityPM = props.DensityPM
	r.samplesToExit = int(r.decayTimeMs) * r.fs / 1000
	r.recomputeEngineTuning()
	r.recomputeFilters()
}

// Process runs one block, per spec.md §4.3's process algorithm. in is mono
// (auxiliary) or stereo (insert) interleaved float; out is always stereo
// interleaved float, nFrames frames.
func (r *Reverberator) Process(in []float32, out []float32, nFrames int, access AccessMode) error {
	r.loadPendingPreset()

	if need := nFrames * 2; cap(r.scratchOut) < need {
		r.scratchOut = make([]float64, need)
	}
	scratchOut := r.scratchOut[:nFrames*2]

	draining := !r.enabled && r.samplesToExit > 0
	if !r.enabled && !draining {
		return ErrNoData
	}

	if need := nFrames * 2; cap(r.scratchIn) < need {
		r.scratchIn = make([]float64, need)
	}
	scratchIn := r.scratchIn[:nFrames*2]

	if !r.enabled && draining {
		for i := range scratchIn {
			scratchIn[i] = 0
		}
	} else if r.mode == ReverbAuxiliary {
		for f := 0; f < nFrames; f++ {
			v := float64(in[f])
			scratchIn[2*f] = v
			scratchIn[2*f+1] = v
		}
	} else {
		for f := 0; f < nFrames*2; f++ {
			scratchIn[f] = float64(in[f]) * ReverbSendLevel
		}
	}

	if r.preset != PresetNone || !r.presetMode {
		levelGain := r.combinedLevelGain()
		for f := 0; f < nFrames; f++ {
			l := r.hpf.process(r.hpfCoeffs, scratchIn[2*f])
			rr := r.hpf.process(r.hpfCoeffs, scratchIn[2*f+1])

			wetL := r.left.process(l) * levelGain
			wetR := r.right.process(rr) * levelGain

			wetL = r.lpf.process(r.lpfCoeffs, wetL)
			wetR = r.lpf.process(r.lpfCoeffs, wetR)

			scratchOut[2*f] = wetL
			scratchOut[2*f+1] = wetR
		}
	} else {
		for i := range scratchOut {
			scratchOut[i] = 0
		}
	}

	if r.mode == ReverbInsert {
		for f := 0; f < nFrames; f++ {
			scratchOut[2*f] += float64(in[2*f])
			scratchOut[2*f+1] += float64(in[2*f+1])
		}
	}

	r.applyVolume(scratchOut, nFrames)

	switch access {
	case AccessAccumulate:
		for i := 0; i < nFrames*2; i++ {
			out[i] += float32(scratchOut[i])
		}
	default:
		for i := 0; i < nFrames*2; i++ {
			out[i] = float32(scratchOut[i])
		}
	}

	if !r.enabled {
		r.samplesToExit -= nFrames
		if r.samplesToExit <= 0 {
			r.samplesToExit = 0
			r.state = reverbInitialized
		}
	}

	return nil
}

// applyVolume implements the three volume modes of spec.md §4.3 step 6:
// off applies no gain, flat applies the current gain with no ramp (and
// then switches to ramp mode for subsequent blocks), ramp linearly
// interpolates from previous to current across the block.
func (r *Reverberator) applyVolume(buf []float64, nFrames int) {
	switch r.volumeMode {
	case volumeOff:
		return
	case volumeFlat:
		for f := 0; f < nFrames; f++ {
			buf[2*f] *= r.volLeft
			buf[2*f+1] *= r.volRight
		}
		r.prevVolLeft, r.prevVolRight = r.volLeft, r.volRight
		r.volumeMode = volumeRamp
	case volumeRamp:
		for f := 0; f < nFrames; f++ {
			t := float64(f) / float64(nFrames)
			gl := r.prevVolLeft + (r.volLeft-r.prevVolLeft)*t
			gr := r.prevVolRight + (r.volRight-r.prevVolRight)*t
			buf[2*f] *= gl
			buf[2*f+1] *= gr
		}
		r.prevVolLeft, r.prevVolRight = r.volLeft, r.volRight
	}
}

// SetVolume sets the target left/right linear gains. A block in ramp mode
// interpolates from the previous gains to these; a block in flat mode applies
// them without a ramp and switches the mode to ramp. Init sets flat, so only
// the first block after Init is flat (the asymmetry noted in spec.md §9's
// "Open questions"); calling SetVolume while the mode is off switches it to
// flat.
func (r *Reverberator) SetVolume(left, right float64) {
	r.volLeft, r.volRight = left, right
	if r.volumeMode == volumeOff {
		r.volumeMode = volumeFlat
		r.prevVolLeft, r.prevVolRight = left, right
	}
}
