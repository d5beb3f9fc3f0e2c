package lvmfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverbPresetPingDecaysToSilence(t *testing.T) {
	r := NewReverberator()
	require.NoError(t, r.Init())
	r.EnablePresetMode()
	require.NoError(t, r.SetConfig(48000, ReverbInsert))
	require.NoError(t, r.SetParameter(ParamPreset, int64(PresetLargeHall)))
	r.SetEnabled(true)

	in := make([]float32, 256*2)
	in[0], in[1] = 1.0, 1.0
	out := make([]float32, 256*2)
	require.NoError(t, r.Process(in, out, 256, AccessWrite))

	silence := make([]float32, 256*2)
	remaining := 2*1800*48 - 256 // run two full T60s so the -60dB design point clears the -80dB check below
	for remaining > 0 {
		n := 256
		if remaining < n {
			n = remaining
		}
		buf := make([]float32, n*2)
		_ = r.Process(silence[:n*2], buf, n, AccessWrite)
		remaining -= n
	}

	finalBuf := make([]float32, 256*2)
	_ = r.Process(silence, finalBuf, 256, AccessWrite)
	assert.LessOrEqual(t, maxAbs(finalBuf), 1e-4, "reverb tail should have decayed below -80dBFS after two T60s (3600ms) at 48kHz")
}

func TestReverbNeverEnabledDrainsSilenceThenReportsNoData(t *testing.T) {
	r := NewReverberator()
	require.NoError(t, r.Init())
	require.NoError(t, r.SetConfig(44100, ReverbInsert))
	// SetConfig seeds the full decay budget into samplesToExit regardless
	// of whether the effect was ever enabled; a reverb that is never
	// switched on still "drains" that budget (with zeroed engine input)
	// before Process starts reporting no-data.
	in := sineBlock(1000, 44100, 2, 256, 0.5)
	out := make([]float32, len(in))
	require.NoError(t, r.Process(in, out, 256, AccessWrite))
	assert.Equal(t, in, out, "a reverb that was never enabled must not fabricate wet signal from a never-armed engine: insert mode passes only the dry input through")

	for {
		err := r.Process(in, out, 256, AccessWrite)
		if err != nil {
			assert.ErrorIs(t, err, ErrNoData)
			return
		}
	}
}

func TestReverbDrainExitCountsExpectedFrames(t *testing.T) {
	r := NewReverberator()
	require.NoError(t, r.Init())
	require.NoError(t, r.SetConfig(44100, ReverbInsert))
	require.NoError(t, r.SetParameter(ParamDecayTime, 500))
	r.SetEnabled(true)

	in := sineBlock(200, 44100, 2, 256, 0.3)
	out := make([]float32, len(in))
	require.NoError(t, r.Process(in, out, 256, AccessWrite))

	r.SetEnabled(false)

	silence := make([]float32, 256*2)
	buf := make([]float32, 256*2)
	frames := 0
	for {
		err := r.Process(silence, buf, 256, AccessWrite)
		if err != nil {
			break
		}
		frames += 256
	}

	expected := (int(r.decayTimeMs)*44100/1000 + 255) / 256 * 256
	assert.InDelta(t, expected, frames, 256, "drain should exit within one block of T60*fs/1000")
}

func TestReverbPresetReentrancy(t *testing.T) {
	r := NewReverberator()
	require.NoError(t, r.Init())
	r.EnablePresetMode()
	require.NoError(t, r.SetConfig(44100, ReverbInsert))

	require.NoError(t, r.SetParameter(ParamPreset, int64(PresetPlate)))
	got, err := r.GetParameter(ParamPreset)
	require.NoError(t, err)
	assert.Equal(t, int64(PresetPlate), got, "PRESET must read back immediately, before the next process call applies it")
}

func TestReverbAuxiliaryModeOutputsPureWet(t *testing.T) {
	r := NewReverberator()
	require.NoError(t, r.Init())
	require.NoError(t, r.SetConfig(44100, ReverbAuxiliary))
	r.SetEnabled(true)

	in := make([]float32, 256)
	in[0] = 1.0
	out := make([]float32, 256*2)
	require.NoError(t, r.Process(in, out, 256, AccessWrite))
	// Auxiliary mode never adds dry input back in; verify the output isn't
	// simply the input echoed into both channels unmodified.
	assert.NotEqual(t, float32(1.0), out[0])
}

func TestReverbSendLevelInvarianceUnderDoubling(t *testing.T) {
	mk := func() *Reverberator {
		r := NewReverberator()
		_ = r.Init()
		_ = r.SetConfig(44100, ReverbInsert)
		r.SetEnabled(true)
		return r
	}

	a := mk()
	require.NoError(t, a.SetParameter(ParamReverbLevel, -1000))
	inA := sineBlock(500, 44100, 2, 512, 0.2)
	outA := make([]float32, len(inA))
	require.NoError(t, a.Process(inA, outA, 512, AccessWrite))

	b := mk()
	require.NoError(t, b.SetParameter(ParamReverbLevel, -1000))
	inB := sineBlock(500, 44100, 2, 512, 0.4)
	outB := make([]float32, len(inB))
	require.NoError(t, b.Process(inB, outB, 512, AccessWrite))

	// Every stage on this path (send scaling, comb/allpass engine, filters,
	// dry sum, flat first-block volume) is linear, so doubled input doubles
	// the output.
	assert.InDelta(t, rms(outB), rms(outA)*2, rms(outA)*0.5)
}
