package pulse

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func constant(v int16, n int) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func concatI16(parts ...[]int16) []int16 {
	var out []int16
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// drain feeds the whole envelope/fm stream through d, calling Detect
// repeatedly with the same slices (matching the reference implementation's
// resumable-cursor contract) until the chunk is exhausted, and returns a
// copy of every emitted packet.
func drain(d *Detector, envelope, fm []int16, sampleRate uint32, levelLimit int16) []Buffer {
	var out []Buffer
	var ook, fsk Buffer
	for {
		switch d.Detect(envelope, fm, levelLimit, sampleRate, 0, &ook, &fsk) {
		case NoPacket:
			return out
		case OOKPacket:
			out = append(out, ook)
		case FSKPacket:
			out = append(out, fsk)
		}
	}
}

// TestDetectorNoise covers S1: pure noise never produces a packet and the
// level estimators stay within their bounds.
func TestDetectorNoise(t *testing.T) {
	src := rand.New(rand.NewSource(1))
	n := 50000
	envelope := make([]int16, n)
	for i := range envelope {
		envelope[i] = int16(50 + src.Intn(101)) // uniform [50,150]
	}
	fm := make([]int16, n)

	var d Detector
	packets := drain(&d, envelope, fm, 250000, 0)

	assert.Empty(t, packets)
	assert.Equal(t, OOKMinHighLevel, d.highEstimate)
	assert.GreaterOrEqual(t, d.lowEstimate, 0)
	assert.LessOrEqual(t, d.lowEstimate, 500)
}

// TestDetectorSinglePulse covers S2.
func TestDetectorSinglePulse(t *testing.T) {
	idleLen := 25000
	envelope := concatI16(constant(200, idleLen), constant(4000, 200), constant(200, 30000))
	fm := make([]int16, len(envelope))

	var d Detector
	packets := drain(&d, envelope, fm, 250000, 0)

	require.Len(t, packets, 1)
	p := packets[0]
	assert.Equal(t, 1, p.NumPulses)
	assert.Equal(t, uint32(200), p.Pulse[0])
	assert.Equal(t, uint64(idleLen), p.Offset)
	assert.Equal(t, uint32(2501), p.Gap[0])

	c := Analyze(&p, 250000)
	assert.Equal(t, ModSinglePulse, c.Modulation)
}

// TestDetectorPPM covers S3.
func TestDetectorPPM(t *testing.T) {
	var env []int16
	env = append(env, constant(200, 25000)...)
	for i := 0; i < 20; i++ {
		env = append(env, constant(4000, 250)...)
		if i < 19 {
			gap := 500
			if i%2 == 1 {
				gap = 1000
			}
			env = append(env, constant(200, gap)...)
		}
	}
	env = append(env, constant(200, 3000)...)
	fm := make([]int16, len(env))

	var d Detector
	packets := drain(&d, env, fm, 250000, 0)
	require.Len(t, packets, 1)

	p := packets[0]
	assert.Equal(t, 20, p.NumPulses)

	c := Analyze(&p, 250000)
	require.Equal(t, ModPPM, c.Modulation)
	assert.InDelta(t, 750, c.ShortLimit, 5)
	assert.Greater(t, c.LongLimit, 1000)
}

// TestDetectorPWM covers S4.
func TestDetectorPWM(t *testing.T) {
	var env []int16
	env = append(env, constant(200, 25000)...)
	for i := 0; i < 16; i++ {
		width := 200
		if i%2 == 1 {
			width = 600
		}
		env = append(env, constant(4000, width)...)
		if i < 15 {
			env = append(env, constant(200, 400)...)
		}
	}
	env = append(env, constant(200, 30000)...) // end gap must exceed PDMaxGapRatio*600
	fm := make([]int16, len(env))

	var d Detector
	packets := drain(&d, env, fm, 250000, 0)
	require.Len(t, packets, 1)

	p := packets[0]
	assert.Equal(t, 16, p.NumPulses)

	c := Analyze(&p, 250000)
	require.Equal(t, ModPWMFixedGap, c.Modulation)
	assert.InDelta(t, 400, c.ShortLimit, 5)
}

// TestDetectorManchester covers S5.
func TestDetectorManchester(t *testing.T) {
	type symbol struct{ pulse, gap int }
	symbols := []symbol{{250, 250}, {250, 500}, {500, 250}, {500, 500}}

	var env []int16
	env = append(env, constant(200, 25000)...)
	const total = 32
	for i := 0; i < total; i++ {
		s := symbols[i%len(symbols)]
		env = append(env, constant(4000, s.pulse)...)
		if i < total-1 {
			env = append(env, constant(200, s.gap)...)
		}
	}
	env = append(env, constant(200, 30000)...) // end gap must exceed PDMaxGapRatio*500
	fm := make([]int16, len(env))

	var d Detector
	packets := drain(&d, env, fm, 250000, 0)
	require.Len(t, packets, 1)

	p := packets[0]
	assert.Equal(t, total, p.NumPulses)

	c := Analyze(&p, 250000)
	require.Equal(t, ModManchesterZerobit, c.Modulation)
	assert.Equal(t, 250, c.ShortLimit)
}

// TestDetectorFSKPCM covers S6: a single long OOK pulse whose FM channel
// carries alternating runs of 1x/2x/3x unit-width dwells, which is what
// the PCM-NRZ rule is actually built to recognise.
func TestDetectorFSKPCM(t *testing.T) {
	const unit = 125
	runs := []int{1, 2, 3}
	const numSymbols = 48 // enough dwell transitions that committed FSK pairs clear PDMinPulses

	var fm []int16
	sign := int16(1)
	for i := 0; i < numSymbols; i++ {
		width := runs[i%len(runs)] * unit
		v := int16(5000)
		if sign < 0 {
			v = -5000
		}
		fm = append(fm, constant(v, width)...)
		sign = -sign
	}

	idleLen := 25000
	env := concatI16(constant(200, idleLen), constant(4000, len(fm)), constant(200, 3000))
	// The FM channel holds its last tone after the burst, so the samples
	// fed to the FSK sub-detector during gap-start add no extra symbol.
	fullFM := concatI16(make([]int16, idleLen), fm, constant(fm[len(fm)-1], 3000))

	var d Detector
	packets := drain(&d, env, fullFM, 250000, 0)
	require.Len(t, packets, 1)

	c := Analyze(&packets[0], 250000)
	require.Equal(t, ModPCMNRZ, c.Modulation)
	assert.Equal(t, unit, c.ShortLimit)
	assert.Equal(t, unit, c.LongLimit)
}

// TestDetectorGlitchSuppression covers S7: a genuine 500-sample pulse with
// a single spurious 3-sample dip must appear as one 500-sample pulse.
func TestDetectorGlitchSuppression(t *testing.T) {
	idleLen := 25000
	env := concatI16(
		constant(200, idleLen),
		constant(4000, 250), // first half of the pulse
		constant(200, 3),    // spurious dip, shorter than PDMinPulseSamples
		constant(4000, 247), // second half of the pulse
		constant(200, 9000), // real end of packet: over PDMaxGapRatio*500
	)
	fm := make([]int16, len(env))

	var d Detector
	packets := drain(&d, env, fm, 250000, 0)

	require.Len(t, packets, 1)
	assert.Equal(t, 1, packets[0].NumPulses)
	assert.Equal(t, uint32(500), packets[0].Pulse[0])
}

// TestDetectorPropertiesHold checks pulse-count bounds, offset monotonicity,
// minimum-width, and level-estimate boundedness against randomized streams.
func TestDetectorPropertiesHold(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1000, 20000).Draw(t, "n")
		sampleRate := uint32(rapid.SampleOf([]int{250000, 1000000}).Draw(t, "sampleRate"))

		envelope := make([]int16, n)
		fm := make([]int16, n)
		for i := 0; i < n; i++ {
			envelope[i] = int16(rapid.IntRange(0, 8000).Draw(t, "env"))
			fm[i] = int16(rapid.IntRange(-20000, 20000).Draw(t, "fm"))
		}

		var d Detector
		var ook, fsk Buffer
		var lastOffset uint64
		var sawPacket bool

		for off := 0; off < n; off += 500 {
			end := minInt(off+500, n)
			window, fmWindow := envelope[off:end], fm[off:end]

			// Detect only advances past this window once it returns
			// NoPacket; a packet return leaves the cursor mid-window, so
			// the same slices must be handed back until it drains before
			// off advances to the next window - otherwise genuine samples
			// get skipped, same as drain() in the unit tests above.
			for {
				res := d.Detect(window, fmWindow, 0, sampleRate, uint64(off), &ook, &fsk)

				assert.GreaterOrEqual(t, d.highEstimate, OOKMinHighLevel)
				assert.LessOrEqual(t, d.highEstimate, OOKMaxHighLevel)

				if res == NoPacket {
					break
				}

				var buf *Buffer
				switch res {
				case OOKPacket:
					buf = &ook
				case FSKPacket:
					buf = &fsk
				}
				assert.LessOrEqual(t, buf.NumPulses, MaxPulses)
				if sawPacket {
					assert.GreaterOrEqual(t, buf.Offset, lastOffset)
				}
				lastOffset = buf.Offset
				sawPacket = true
				for k := 0; k < buf.NumPulses; k++ {
					if k == 0 && buf.Pulse[k] == 0 {
						continue // FSK sentinel
					}
					assert.GreaterOrEqual(t, buf.Pulse[k], uint32(PDMinPulseSamples))
				}
			}
		}
	})
}
