package pulse

// Constants fixed by the design (see original rtl_433 pulse_detect.h).
// Most of these are not meant to be tuned per-protocol at all (the OOK/FSK
// estimator ratios, the histogram bin cap, the clustering tolerance) and
// Detect/Analyze close over them directly. The five gap/glitch/commit
// thresholds below are the ones a deployment may reasonably want to tune
// for an unusual sample rate or protocol family; see Limits.
const (
	// MaxPulses bounds how many pulse/gap pairs a single Buffer can hold.
	MaxPulses = 1200

	// PDMinPulseSamples is the glitch threshold: any high or low interval
	// shorter than this is coalesced into its neighbour rather than
	// recorded as its own pulse or gap.
	PDMinPulseSamples = 10

	// PDMinPulses is how many FSK symbols must accumulate during the
	// first OOK pulse before the packet is reclassified as FSK.
	PDMinPulses = 16

	// PDMinGapMS and PDMaxGapMS bound the OOK end-of-packet gap heuristic
	// in milliseconds; PDMaxGapRatio bounds it as a multiple of the
	// largest pulse seen so far in the current packet.
	PDMinGapMS    = 10
	PDMaxGapMS    = 100
	PDMaxGapRatio = 10

	// OOK adaptive level estimator constants.
	OOKHighLowRatio  = 8
	OOKMinHighLevel  = 1000
	OOKMaxHighLevel  = 128 * 128
	OOKMaxLowLevel   = OOKMaxHighLevel / 2
	OOKEstHighRatio  = 64
	OOKEstLowRatio   = 1024

	// FSK adaptive frequency estimator constants.
	FSKDefaultFMDelta = 6000
	FSKEstRatio       = 32

	// MaxHistBins caps how many distinct clusters the histogram builder
	// will track; pulse streams are assumed to have few distinct widths.
	MaxHistBins = 16

	// Tolerance is the project-wide relative clustering tolerance used
	// by the histogram builder and the modulation analyzer.
	Tolerance = 0.2
)

// Limits bundles the five tunable thresholds that govern glitch
// suppression, FSK commit, and end-of-packet detection: PDMinPulseSamples,
// PDMinGapMS, PDMaxGapMS, PDMaxGapRatio and PDMinPulses. A Detector resolves
// its own Limits field against DefaultLimits field-by-field, so a caller
// only needs to set the fields it wants to override (see Config.Limits).
type Limits struct {
	PDMinPulseSamples int
	PDMinGapMS        int
	PDMaxGapMS        int
	PDMaxGapRatio     int
	PDMinPulses       int
}

// DefaultLimits returns the design's fixed thresholds as a Limits value.
func DefaultLimits() Limits {
	return Limits{
		PDMinPulseSamples: PDMinPulseSamples,
		PDMinGapMS:        PDMinGapMS,
		PDMaxGapMS:        PDMaxGapMS,
		PDMaxGapRatio:     PDMaxGapRatio,
		PDMinPulses:       PDMinPulses,
	}
}

// resolve fills any zero (unset) field of l with the corresponding
// DefaultLimits value.
func (l Limits) resolve() Limits {
	def := DefaultLimits()
	if l.PDMinPulseSamples <= 0 {
		l.PDMinPulseSamples = def.PDMinPulseSamples
	}
	if l.PDMinGapMS <= 0 {
		l.PDMinGapMS = def.PDMinGapMS
	}
	if l.PDMaxGapMS <= 0 {
		l.PDMaxGapMS = def.PDMaxGapMS
	}
	if l.PDMaxGapRatio <= 0 {
		l.PDMaxGapRatio = def.PDMaxGapRatio
	}
	if l.PDMinPulses <= 0 {
		l.PDMinPulses = def.PDMinPulses
	}
	return l
}
