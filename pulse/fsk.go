package pulse

// fskSubState is the FSK sub-detector's own state, nested inside the OOK
// detector but resettable independently of it.
type fskSubState int

const (
	fskInit fskSubState = iota
	fskF1               // currently tracking the high-frequency side
	fskF2               // currently tracking the low-frequency side
	fskError
)

// fskState is the FSK sub-detector's internal state. It is owned by
// Detector and reinitialized at the start of every candidate packet.
type fskState struct {
	pulseLength int // running sample counter for the current symbol
	state       fskSubState
	f1Est       int // estimate of the high-frequency (pulse) tone
	f2Est       int // estimate of the low-frequency (gap) tone
}

// detect feeds one FM sample into the FSK sub-detector. It is called once
// per sample during the first OOK pulse (and the gap that follows it,
// until the OOK detector commits to FSK or gives up). fsk accumulates the
// pulse/gap widths of the candidate FSK packet. minPulseSamples is the
// glitch threshold (see Limits.PDMinPulseSamples), resolved by the caller.
func (s *fskState) detect(fmN int16, fsk *Buffer, minPulseSamples int) {
	f1Delta := absInt(int(fmN) - s.f1Est)
	f2Delta := absInt(int(fmN) - s.f2Est)
	s.pulseLength++

	switch s.state {
	case fskInit:
		if s.pulseLength < minPulseSamples {
			// Quick initial estimator while we don't know which side we're on yet.
			s.f1Est = s.f1Est/2 + int(fmN)/2
		} else if f1Delta > FSKDefaultFMDelta/2 {
			if int(fmN) > s.f1Est {
				// Positive delta: the initial frequency we were tracking was
				// actually the low side (a gap).
				s.state = fskF1
				s.f2Est = s.f1Est
				s.f1Est = int(fmN)
				fsk.Pulse[0] = 0 // sentinel: packet began on the low-frequency side
				fsk.Gap[0] = uint32(s.pulseLength)
				fsk.NumPulses++
				s.pulseLength = 0
			} else {
				// Negative delta: the initial frequency was the high side (a pulse).
				s.state = fskF2
				s.f2Est = int(fmN)
				fsk.Pulse[0] = uint32(s.pulseLength)
				s.pulseLength = 0
			}
		} else {
			s.f1Est += int(fmN)/FSKEstRatio - s.f1Est/FSKEstRatio
		}

	case fskF1: // pulse high at F1
		if f1Delta > f2Delta {
			s.state = fskF2
			if s.pulseLength >= minPulseSamples {
				fsk.Pulse[fsk.NumPulses] = uint32(s.pulseLength)
				s.pulseLength = 0
			} else {
				// Spurious: rewind to the gap we just closed.
				s.pulseLength += int(fsk.Gap[fsk.NumPulses-1])
				fsk.NumPulses--
				if fsk.NumPulses == 0 && fsk.Pulse[0] == 0 {
					// Back to the INIT shape; the first committed symbol was
					// a gap, so undo the estimate swap we made on entry.
					s.f1Est = s.f2Est
					s.state = fskInit
				}
			}
		} else {
			s.f1Est += int(fmN)/FSKEstRatio - s.f1Est/FSKEstRatio
		}

	case fskF2: // gap low at F2
		if f2Delta > f1Delta {
			s.state = fskF1
			if s.pulseLength >= minPulseSamples {
				fsk.Gap[fsk.NumPulses] = uint32(s.pulseLength)
				fsk.NumPulses++
				s.pulseLength = 0
				if fsk.NumPulses >= MaxPulses {
					Logger.Warn("FSK pulse buffer overflow, abandoning packet")
					s.state = fskError
				}
			} else {
				// Spurious: rewind to the pulse we just closed. No estimate
				// swap here - we never swapped on entry via this branch.
				s.pulseLength += int(fsk.Pulse[fsk.NumPulses])
				if fsk.NumPulses == 0 {
					s.state = fskInit
				}
			}
		} else {
			s.f2Est += int(fmN)/FSKEstRatio - s.f2Est/FSKEstRatio
		}

	case fskError:
		// Terminal until the OOK detector resets us at the next IDLE re-arm.

	default:
		Logger.Error("unknown FSK state, forcing reset", "state", s.state)
		s.state = fskError
	}
}

// wrapUp is called once, by the OOK detector, when it commits a candidate
// packet as FSK: it records the trailing symbol that was still in
// progress.
func (s *fskState) wrapUp(fsk *Buffer) {
	if fsk.NumPulses >= MaxPulses {
		return
	}
	s.pulseLength++
	if s.state == fskF1 {
		fsk.Pulse[fsk.NumPulses] = uint32(s.pulseLength)
		fsk.Gap[fsk.NumPulses] = 0
	} else {
		fsk.Gap[fsk.NumPulses] = uint32(s.pulseLength)
	}
	fsk.NumPulses++
}
