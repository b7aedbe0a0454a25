package pulse

// Result reports what Detect found in the chunk it was just given.
type Result int

const (
	// NoPacket means the chunk was exhausted without a packet completing;
	// the detector's cursor is ready to continue on the next call.
	NoPacket Result = iota
	// OOKPacket means a complete OOK packet is ready in the ook Buffer.
	OOKPacket
	// FSKPacket means a complete FSK packet is ready in the fsk Buffer.
	FSKPacket
)

func (r Result) String() string {
	switch r {
	case NoPacket:
		return "no packet"
	case OOKPacket:
		return "OOK packet"
	case FSKPacket:
		return "FSK packet"
	default:
		return "unknown result"
	}
}

// ookState is the OOK detector's own state.
type ookState int

const (
	ookIdle ookState = iota
	ookPulse
	ookGapStart
	ookGap
)

// Detector is the OOK packet detector. It is long-lived: construct it
// once and feed it successive sample chunks with Detect. Its adaptive
// level estimators only make sense across many calls, so it must not be
// reset between them. It is not safe to share one Detector between
// concurrent streams; give each stream its own.
type Detector struct {
	// Limits overrides the glitch/gap/commit thresholds a deployment may
	// want to tune (see Limits, Config.Limits). Any zero field falls back
	// to DefaultLimits, so the zero Detector behaves exactly as before.
	Limits Limits

	state ookState

	pulseLength int // running sample counter for the current pulse/gap
	maxPulse    int // largest pulse seen so far in the current packet

	dataCounter   int // cursor into the current chunk
	leadInCounter int // samples spent settling the noise estimate

	lowEstimate  int // noise-floor estimate
	highEstimate int // high-level estimate

	fsk fskState
}

// Detect consumes samples from envelope/fm starting at the detector's
// internal cursor. If no packet completes within the chunk it returns
// NoPacket and resets the cursor to start fresh on the next call. If a
// packet completes, it returns immediately (without advancing past the
// sample that completed it) so the caller can consume the packet and
// call Detect again to resume exactly where it left off.
//
// levelLimit, when nonzero, overrides the adaptive threshold. sampleRate
// is in Hz and only affects the absolute-millisecond gap limits.
// sampleOffset is the absolute sample index of envelope[0]/fm[0].
func (d *Detector) Detect(envelope, fm []int16, levelLimit int16, sampleRate uint32, sampleOffset uint64, ook, fsk *Buffer) Result {
	lim := d.Limits.resolve()
	samplesPerMs := int(sampleRate) / 1000
	d.highEstimate = maxInt(d.highEstimate, OOKMinHighLevel)

	for d.dataCounter < len(envelope) {
		amN := int(envelope[d.dataCounter])
		threshold := d.lowEstimate + (d.highEstimate-d.lowEstimate)/2
		if levelLimit != 0 {
			threshold = int(levelLimit)
		}
		hysteresis := threshold / 8

		switch d.state {
		case ookIdle:
			if amN > threshold+hysteresis && d.leadInCounter > OOKEstLowRatio {
				ook.Clear()
				fsk.Clear()
				ook.Offset = sampleOffset + uint64(d.dataCounter)
				fsk.Offset = sampleOffset + uint64(d.dataCounter)
				d.pulseLength = 0
				d.maxPulse = 0
				d.fsk = fskState{}
				d.state = ookPulse
			} else {
				lowDelta := amN - d.lowEstimate
				d.lowEstimate += lowDelta / OOKEstLowRatio
				if lowDelta > 0 {
					d.lowEstimate++ // fixed-point nudge: without it the IIR stalls when lowDelta/1024 truncates to zero
				} else {
					d.lowEstimate--
				}
				d.highEstimate = OOKHighLowRatio * d.lowEstimate
				d.highEstimate = maxInt(d.highEstimate, OOKMinHighLevel)
				d.highEstimate = minInt(d.highEstimate, OOKMaxHighLevel)
				if d.leadInCounter <= OOKEstLowRatio {
					d.leadInCounter++
				}
			}

		case ookPulse:
			d.pulseLength++
			if amN < threshold-hysteresis {
				if d.pulseLength < lim.PDMinPulseSamples {
					d.state = ookIdle // spurious short pulse, discard silently
				} else {
					ook.Pulse[ook.NumPulses] = uint32(d.pulseLength)
					d.maxPulse = maxInt(d.pulseLength, d.maxPulse)
					d.pulseLength = 0
					d.state = ookGapStart
				}
			} else {
				d.highEstimate += amN/OOKEstHighRatio - d.highEstimate/OOKEstHighRatio
				d.highEstimate = maxInt(d.highEstimate, OOKMinHighLevel)
				d.highEstimate = minInt(d.highEstimate, OOKMaxHighLevel)
				ook.FSKF1Est += int(fm[d.dataCounter])/OOKEstHighRatio - ook.FSKF1Est/OOKEstHighRatio
			}
			if ook.NumPulses == 0 {
				d.fsk.detect(fm[d.dataCounter], fsk, lim.PDMinPulseSamples)
			}

		case ookGapStart:
			d.pulseLength++
			if amN > threshold+hysteresis {
				// Spurious short gap: merge back into the pulse.
				d.pulseLength += int(ook.Pulse[ook.NumPulses])
				d.state = ookPulse
			} else if d.pulseLength >= lim.PDMinPulseSamples {
				d.state = ookGap
				if fsk.NumPulses > lim.PDMinPulses {
					d.fsk.wrapUp(fsk)
					fsk.FSKF1Est = d.fsk.f1Est
					fsk.FSKF2Est = d.fsk.f2Est
					fsk.OOKLowEstimate = d.lowEstimate
					fsk.OOKHighEstimate = d.highEstimate
					d.state = ookIdle
					return FSKPacket
				}
			}
			if ook.NumPulses == 0 {
				d.fsk.detect(fm[d.dataCounter], fsk, lim.PDMinPulseSamples)
			}

		case ookGap:
			d.pulseLength++
			if amN > threshold+hysteresis {
				ook.Gap[ook.NumPulses] = uint32(d.pulseLength)
				ook.NumPulses++
				if ook.NumPulses >= MaxPulses {
					d.state = ookIdle
					ook.OOKLowEstimate = d.lowEstimate
					ook.OOKHighEstimate = d.highEstimate
					return OOKPacket
				}
				d.pulseLength = 0
				d.state = ookPulse
			}
			if (d.pulseLength > lim.PDMaxGapRatio*d.maxPulse && d.pulseLength > lim.PDMinGapMS*samplesPerMs) ||
				d.pulseLength > lim.PDMaxGapMS*samplesPerMs {
				ook.Gap[ook.NumPulses] = uint32(d.pulseLength)
				ook.NumPulses++
				d.state = ookIdle
				ook.OOKLowEstimate = d.lowEstimate
				ook.OOKHighEstimate = d.highEstimate
				return OOKPacket
			}

		default:
			Logger.Error("unknown OOK state, forcing reset", "state", d.state)
			d.state = ookIdle
		}

		d.dataCounter++
	}

	d.dataCounter = 0
	return NoPacket
}
