package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigLimitsDefaultsWhenUnset(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultLimits(), cfg.Limits())
}

func TestConfigLimitsAppliesOverrides(t *testing.T) {
	cfg := Config{MinPulseSamples: 4, MaxGapRatio: 20}
	lim := cfg.Limits()

	assert.Equal(t, 4, lim.PDMinPulseSamples)
	assert.Equal(t, 20, lim.PDMaxGapRatio)
	// Fields left unset in Config still fall back to the design defaults.
	assert.Equal(t, PDMinGapMS, lim.PDMinGapMS)
	assert.Equal(t, PDMaxGapMS, lim.PDMaxGapMS)
	assert.Equal(t, PDMinPulses, lim.PDMinPulses)
}

// TestDetectorLimitsOverrideGlitchThreshold shows a Detector actually
// honouring a narrowed glitch threshold: a 5-sample pulse that the default
// PDMinPulseSamples=10 would discard as spurious is kept as a real pulse
// once Limits.PDMinPulseSamples is overridden down to 4.
func TestDetectorLimitsOverrideGlitchThreshold(t *testing.T) {
	idleLen := 25000
	env := concatI16(constant(200, idleLen), constant(4000, 5), constant(200, 3000))
	fm := make([]int16, len(env))

	var def Detector
	packets := drain(&def, env, fm, 250000, 0)
	assert.Empty(t, packets, "a 5-sample pulse should be a glitch under the default threshold")

	custom := Detector{Limits: Limits{PDMinPulseSamples: 4}}
	packets = drain(&custom, env, fm, 250000, 0)
	if assert.Len(t, packets, 1) {
		assert.Equal(t, uint32(5), packets[0].Pulse[0])
	}
}
