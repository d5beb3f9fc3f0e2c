package lvmfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func baseControl() ControlParams {
	return ControlParams{
		Mode:         OperatingOn,
		SampleRate:   SampleRate44100,
		Format:       FormatStereo,
		ChannelCount: 2,
		CS:           CSParams{Enabled: false, ReverbLevel: 0, EffectLevel: 0},
		EQ:           EQParams{Enabled: false},
		DBE:          DBEParams{Enabled: false, CentreHz: 55},
		TE:           TEParams{Enabled: false},
		VC:           VolumeParams{EffectLevelDB: 0, BalanceDB: 0},
		PSA:          PSAParams{Enabled: false},
	}
}

// Property 1: validation atomicity. An invalid SetControl must leave the
// pending (and therefore active) block exactly as it was.
func TestBundleValidationAtomicity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := NewBundle()
		good := baseControl()
		require.NoError(t, b.SetControl(good))
		before := b.GetControl()

		bad := good
		bad.ChannelCount = rapid.IntRange(9, 100).Draw(t, "bad channels")
		err := b.SetControl(bad)
		assert.Error(t, err)

		after := b.GetControl()
		assert.Equal(t, before, after, "rejected SetControl must not mutate pending state")
	})
}

// Property 2: apply idempotence. Calling Apply a second time with no
// intervening SetControl reproduces the same active state.
func TestBundleApplyIdempotence(t *testing.T) {
	b := NewBundle()
	require.NoError(t, b.SetControl(baseControl()))
	require.NoError(t, b.Apply())
	first := b.active

	require.NoError(t, b.Apply())
	second := b.active

	assert.Equal(t, first, second)
}

// Property 3: bypass round-trip. With operating mode off, Process in write
// mode is a channel-preserving copy.
func TestBundleBypassRoundTrip(t *testing.T) {
	b := NewBundle()
	p := baseControl()
	p.Mode = OperatingOff
	require.NoError(t, b.SetControl(p))

	in := sineBlock(1000, 44100, 2, 256, 0.5)
	out := make([]float32, len(in))
	require.NoError(t, b.Process(in, out, 256, AccessWrite))

	assert.Equal(t, in, out)
}

// Property 4: silence in, silence out. With any parameter set but zero
// input, the bundle's output settles to exactly zero.
func TestBundleSilenceInSilenceOut(t *testing.T) {
	b := NewBundle()
	p := baseControl()
	p.EQ = EQParams{Enabled: true, Bands: []EQBand{{CentreHz: 1000, GainMilliDB: 800, Q: 100}}}
	p.DBE = DBEParams{Enabled: true, CentreHz: 66, EffectLevel: 500}
	require.NoError(t, b.SetControl(p))

	in := make([]float32, 256*2)
	out := make([]float32, 256*2)
	for i := 0; i < 50; i++ {
		require.NoError(t, b.Process(in, out, 256, AccessWrite))
	}
	assert.Equal(t, float64(0), maxAbs(out), "bundle must settle to exact silence on sustained zero input")
}

func TestBundleAccumulateModeAdds(t *testing.T) {
	b := NewBundle()
	p := baseControl()
	require.NoError(t, b.SetControl(p))

	in := sineBlock(500, 44100, 2, 128, 0.2)
	out := make([]float32, len(in))
	for i := range out {
		out[i] = 0.1
	}
	require.NoError(t, b.Process(in, out, 128, AccessAccumulate))

	for i := range in {
		assert.InDelta(t, in[i]+0.1, out[i], 1e-5)
	}
}

func TestHeadroomLimiterScenario(t *testing.T) {
	entries := []HeadroomEntry{{LowHz: 20, HighHz: 4999, OffsetMilliDB: 0}}
	bands := []EQBand{{CentreHz: 60, GainMilliDB: 1200, Q: 96}}
	got := computeHeadroomMilliDB(bands, entries)
	assert.Equal(t, 1200, got, "a +12dB band with zero offset should derive 12dB of headroom")
}
