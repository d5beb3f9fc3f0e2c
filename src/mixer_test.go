package lvmfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestGainSmootherReachesTargetAndRaisesCallback(t *testing.T) {
	g := newGainSmoother(1024.0/44100, 44100)
	g.setTarget(0.5)

	var lastCallback MixerCallback
	for i := 0; i < 200000; i++ {
		_, cb := g.step()
		if cb == MixerTargetReached {
			lastCallback = cb
			break
		}
	}
	assert.Equal(t, MixerTargetReached, lastCallback, "smoother must eventually report target reached")
	assert.True(t, g.atTarget())
}

func TestGainSmootherImmediateSetSkipsRamp(t *testing.T) {
	g := newGainSmoother(1024.0/44100, 44100)
	g.setImmediate(0.25)
	assert.True(t, g.atTarget())
	v, cb := g.step()
	assert.Equal(t, MixerNoEvent, cb, "a smoother already at target shouldn't re-fire the callback")
	assert.InDelta(t, 0.25, v, 1e-9)
}

func TestMixerTimeConstantScalesWithSampleRate(t *testing.T) {
	tc48 := mixerTimeConstantSec(48000)
	tc96 := mixerTimeConstantSec(96000)
	assert.InDelta(t, tc48, tc96*2, 1e-9, "doubling fs should halve the time constant in seconds")
}

// TestGainSmootherMonotonicApproach is a property test: a smoother chasing
// a fixed target from a fixed start never overshoots it.
func TestGainSmootherMonotonicApproach(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fs := rapid.IntRange(8000, 192000).Draw(t, "fs")
		target := rapid.Float64Range(0, 2).Draw(t, "target")

		g := newGainSmoother(1024.0/float64(fs), fs)
		g.setImmediate(1.0)
		g.setTarget(target)

		increasing := target > 1.0
		for i := 0; i < 100000; i++ {
			v, cb := g.step()
			if increasing {
				assert.LessOrEqual(t, v, target+1e-9)
			} else {
				assert.GreaterOrEqual(t, v, target-1e-9)
			}
			if cb == MixerTargetReached {
				break
			}
		}
	})
}
