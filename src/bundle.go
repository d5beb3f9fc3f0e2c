package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:	Bundle controller, spec.md §4.1: the top-level instance
 *		holding active/pending control blocks, a dirty generation
 *		counter, and handles to every effect module. Mediates
 *		SetControl / ApplyNewSettings / Process exactly as
 *		described there.
 *
 * Description:	The source's "plain flag and copy-under-retry" becomes,
 *		here, a monotonic generation counter read with
 *		acquire/release ordering (sync/atomic) around a
 *		mutex-guarded pending block: the mutex gives memory
 *		safety for the slice-bearing EQ band list that a bare
 *		flag can't in Go, while the generation check before/after
 *		the snapshot preserves the source's bounded-retry
 *		staleness semantics rather than silently trusting the
 *		mutex alone. Five retries, as specified.
 *
 *------------------------------------------------------------------*/

import (
	"sync"
	"sync/atomic"
)

const applyMaxRetries = 5

// maxHeadroomEntries bounds the headroom block, per spec.md §4.1's
// "clamped to a configured max band count".
const maxHeadroomEntries = 8

// maxEQBands bounds the equalizer band list, per spec.md §3's "band count
// <= configured max".
const maxEQBands = 12

// Bundle is one instance of the effect chain: EQNB -> DBE -> CS -> TE -> VC,
// with PSA observing the post-VC signal. Not safe for concurrent Process
// calls; SetControl/SetHeadroom may be called from one other goroutine
// concurrently with Process, per spec.md §5.
type Bundle struct {
	mu      sync.Mutex
	pending ControlParams
	headroomPending HeadroomParams
	generation atomic.Uint64

	active   ControlParams
	headroom HeadroomParams

	eqnb *eqnbModule
	dbe  *dbeModule
	cs   *csModule
	te   *teModule
	vc   *vcModule
	psa  *psaModule

	scratch []float32

	haveActive bool
	appliedGen uint64
}

// NewBundle allocates and default-initializes every sub-module, per
// spec.md §4.1's create operation. There is no partial-allocation failure
// path in Go (sub-allocations can't fail independently the way a C memory
// table's can), so this never returns an error; the signature is kept
// error-free to say so plainly rather than carry a dead return value.
func NewBundle() *Bundle {
	b := &Bundle{
		eqnb: newEQNB(),
		dbe:  newDBE(),
		cs:   newCS(),
		te:   newTE(),
		vc:   newVC(),
		psa:  newPSA(),
	}
	b.pending.SampleRate = SampleRate44100
	b.pending.ChannelCount = 2
	b.pending.Mode = OperatingOff
	b.pending.Format = FormatStereo
	return b
}

func validateControl(p ControlParams) error {
	if p.ChannelCount < 1 || p.ChannelCount > 8 {
		return newError(OutOfRange, "channel count %d out of [1,8]", p.ChannelCount)
	}
	if p.SampleRate < 0 || p.SampleRate >= numSampleRates {
		return newError(OutOfRange, "sample rate enum %d invalid", p.SampleRate)
	}
	if len(p.EQ.Bands) > maxEQBands {
		return newError(OutOfRange, "eq band count %d exceeds max %d", len(p.EQ.Bands), maxEQBands)
	}
	fs := p.SampleRate.Hz()
	for _, band := range p.EQ.Bands {
		if band.CentreHz < 20 || band.CentreHz >= fs/2 {
			return newError(OutOfRange, "eq band centre %d Hz out of [20,fs/2)", band.CentreHz)
		}
		if band.GainMilliDB < -1500 || band.GainMilliDB > 1500 {
			return newError(OutOfRange, "eq band gain %d out of [-1500,1500]", band.GainMilliDB)
		}
		if band.Q < 25 || band.Q > 1200 {
			return newError(OutOfRange, "eq band Q %d out of [25,1200]", band.Q)
		}
	}
	if p.DBE.CentreHz != 55 && p.DBE.CentreHz != 66 && p.DBE.CentreHz != 78 && p.DBE.CentreHz != 90 {
		return newError(OutOfRange, "dbe centre %d not one of {55,66,78,90}", p.DBE.CentreHz)
	}
	if p.CS.EffectLevel < csMinEffectLevel {
		return newError(OutOfRange, "cs effect level %d below minimum", p.CS.EffectLevel)
	}
	if p.CS.ReverbLevel < 0 || p.CS.ReverbLevel > 100 {
		return newError(OutOfRange, "cs reverb level %d out of [0,100]", p.CS.ReverbLevel)
	}
	if p.VC.EffectLevelDB > 0 {
		return newError(OutOfRange, "volume %d dB must be <= 0", p.VC.EffectLevelDB)
	}
	if p.VC.BalanceDB < -96 || p.VC.BalanceDB > 96 {
		return newError(OutOfRange, "balance %d dB out of [-96,96]", p.VC.BalanceDB)
	}
	return nil
}

// SetControl validates and, on success, deep-copies params into the
// pending block and bumps the generation counter. Invalid submissions
// leave pending (and therefore active, after the next apply) untouched,
// satisfying the "validation atomicity" property from spec.md §8.
func (b *Bundle) SetControl(params ControlParams) error {
	if err := validateControl(params); err != nil {
		return err
	}
	b.mu.Lock()
	b.pending = params.clone()
	b.mu.Unlock()
	b.generation.Add(1)
	return nil
}

// GetControl returns the pending view, per spec.md §4.1 ("a set followed
// immediately by a get is consistent").
func (b *Bundle) GetControl() ControlParams {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending.clone()
}

func (b *Bundle) SetHeadroom(h HeadroomParams) error {
	if len(h.Entries) > maxHeadroomEntries {
		h.Entries = h.Entries[:maxHeadroomEntries]
	}
	b.mu.Lock()
	b.headroomPending = h.clone()
	b.mu.Unlock()
	b.generation.Add(1)
	return nil
}

func (b *Bundle) GetHeadroom() HeadroomParams {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.headroomPending.clone()
}

// Apply reconciles pending into active and reconfigures every module, per
// spec.md §4.1's apply algorithm. Safe to call with no intervening
// SetControl (idempotent - property 2 in spec.md §8): a second call with
// the generation unchanged just reapplies the same active values.
func (b *Bundle) Apply() error {
	var snapshot ControlParams
	var headroomSnapshot HeadroomParams
	var stableGen uint64

	for attempt := 0; attempt < applyMaxRetries; attempt++ {
		before := b.generation.Load()
		b.mu.Lock()
		snapshot = b.pending.clone()
		headroomSnapshot = b.headroomPending.clone()
		b.mu.Unlock()
		after := b.generation.Load()
		stableGen = after
		if before == after {
			break
		}
		// Fifth attempt still torn: accept the last snapshot anyway, per
		// spec.md §5's "the design tolerates one mixed-generation block".
	}
	b.appliedGen = stableGen

	formatChanged := !b.haveActive || snapshot.Format != b.active.Format ||
		snapshot.ChannelCount != b.active.ChannelCount

	prevFs := b.active.SampleRate.Hz()
	teRelevantChanged := !b.haveActive ||
		snapshot.SampleRate != b.active.SampleRate ||
		snapshot.TE.EffectLevel != b.active.TE.EffectLevel ||
		snapshot.TE.Enabled != b.active.TE.Enabled ||
		snapshot.Mode != b.active.Mode ||
		snapshot.Speaker != b.active.Speaker

	b.active = snapshot
	b.headroom = headroomSnapshot
	b.haveActive = true

	fs := snapshot.SampleRate.Hz()
	channels := snapshot.ChannelCount

	if formatChanged {
		b.eqnb.resetState()
		b.dbe.resetState()
		b.cs.resetState()
		b.te.resetState()
		b.vc.reconfigure(fs, channels)
	}

	b.eqnb.reconfigure(fs, channels, snapshot.EQ.Bands)
	b.eqnb.setEnabled(snapshot.Mode == OperatingOn && snapshot.EQ.Enabled, eqnbTailSamples(fs))

	b.dbe.reconfigure(fs, channels, snapshot.DBE.CentreHz, float64(snapshot.DBE.EffectLevel)/100, snapshot.DBE.HPFEnabled)
	b.dbe.setEnabled(snapshot.Mode == OperatingOn && snapshot.DBE.Enabled, dbeTailSamples(fs))

	b.cs.reconfigure(fs, channels, snapshot.CS)
	b.cs.setEnabled(snapshot.Mode == OperatingOn && snapshot.CS.Enabled, csTailSamples(fs))

	if teRelevantChanged {
		b.te.reconfigure(fs, channels, float64(snapshot.TE.EffectLevel)/100)
	}
	b.te.setEnabled(fs, float64(snapshot.TE.EffectLevel)/100, snapshot.Mode)

	headroomMilliDB := computeHeadroomMilliDB(snapshot.EQ.Bands, b.headroom.Entries)
	vcNeedsReconfigure := !formatChanged && (channels != len(b.vc.smoothers) || prevFs != fs)
	if vcNeedsReconfigure {
		b.vc.reconfigure(fs, channels)
	}
	b.vc.setTargets(snapshot.VC.EffectLevelDB, snapshot.VC.BalanceDB, headroomMilliDB)
	b.vc.setEnabled(snapshot.Mode == OperatingOn, vcTailSamples(fs))

	b.psa.reconfigure(fs, snapshot.PSA.DecaySpeed)
	b.psa.setEnabled(snapshot.Mode == OperatingOn && snapshot.PSA.Enabled)

	return nil
}

// PSAPeaks returns the peak-spectrum analyzer's current per-band peak
// levels (linear, post-VC), one entry per psaBandCentresHz once Apply has
// run (empty before that). Safe to call whether or not the PSA is enabled;
// a disabled PSA stops updating, so its bands read zero if it never observed
// a block and otherwise keep their last values.
func (b *Bundle) PSAPeaks() []float64 {
	return b.psa.Peaks()
}

// ApplyNewSettings is the explicit, caller-invokable form of apply named in
// spec.md §4.1 ("called implicitly by process"); Process calls Apply
// itself when dirty, so this exists for callers that want to force
// reconciliation ahead of the next block.
func (b *Bundle) ApplyNewSettings() error {
	return b.Apply()
}

func eqnbTailSamples(fs int) int  { return fs / 20 }
func dbeTailSamples(fs int) int   { return fs / 10 }
func csTailSamples(fs int) int    { return fs / 5 }
func vcTailSamples(fs int) int    { return fs }

// Process runs one block through the fixed chain EQNB -> DBE -> CS -> TE ->
// VC, with PSA observing the post-VC result, per spec.md §4.1. in and out
// are interleaved float samples; len(in)/channels and len(out)/channels
// must both equal nFrames.
func (b *Bundle) Process(in []float32, out []float32, nFrames int, access AccessMode) error {
	if !b.haveActive || b.generation.Load() != b.appliedGen {
		if err := b.Apply(); err != nil {
			return err
		}
	}

	channels := b.active.ChannelCount
	need := nFrames * channels
	if cap(b.scratch) < need {
		b.scratch = make([]float32, need)
	}
	scratch := b.scratch[:need]
	copy(scratch, in[:need])

	b.eqnb.process(scratch, nFrames)
	b.dbe.process(scratch, nFrames)
	b.cs.process(scratch, nFrames)
	b.te.process(scratch, nFrames)
	b.vc.process(scratch, nFrames)
	b.psa.observe(scratch, nFrames, channels)

	switch access {
	case AccessAccumulate:
		for i := 0; i < need; i++ {
			out[i] += scratch[i]
		}
	default:
		copy(out[:need], scratch)
	}

	return nil
}
