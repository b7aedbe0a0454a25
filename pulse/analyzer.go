package pulse

import "fmt"

// Modulation is the classifier's verdict on a finished packet.
type Modulation int

const (
	ModUnclassified Modulation = iota
	ModSinglePulse
	ModUnmodulatedPreamble
	ModPPM
	ModPWMFixedGap
	ModPWMFixedPeriod
	ModManchesterZerobit
	ModPWMMultiPacket
	ModPCMNRZ
	ModPWMSyncDelimiter
)

func (m Modulation) String() string {
	switch m {
	case ModUnclassified:
		return "unclassified"
	case ModSinglePulse:
		return "single pulse / noise"
	case ModUnmodulatedPreamble:
		return "unmodulated preamble"
	case ModPPM:
		return "PPM"
	case ModPWMFixedGap:
		return "PWM fixed-gap"
	case ModPWMFixedPeriod:
		return "PWM fixed-period"
	case ModManchesterZerobit:
		return "Manchester zero-bit"
	case ModPWMMultiPacket:
		return "PWM multi-packet"
	case ModPCMNRZ:
		return "PCM-NRZ"
	case ModPWMSyncDelimiter:
		return "PWM with sync delimiter"
	default:
		return "unknown"
	}
}

// Classification is the analyzer's output: a modulation guess plus the
// three threshold parameters (and, for the sync-delimiter case, a sync
// width) a downstream bit slicer needs.
type Classification struct {
	Modulation Modulation

	ShortLimit int
	LongLimit  int
	ResetLimit int
	SyncWidth  int

	NumPulses   int
	TotalPeriod int
	SampleRate  uint32

	Pulses, Gaps, Periods Histogram

	OOKLowEstimate  int
	OOKHighEstimate int
	FSKF1Est        int
	FSKF2Est        int
}

// Summary renders the same banner of totals the reference analyzer
// printed before attempting classification - total pulse count and
// period, level estimates, frequency offsets - useful for a diagnostic
// CLI without adding a new classification rule.
func (c Classification) Summary() string {
	return fmt.Sprintf(
		"pulses: %d  total width: %d  modulation: %s  levels[hi,lo]: %d,%d  freq[f1,f2]: %d,%d",
		c.NumPulses, c.TotalPeriod, c.Modulation,
		c.OOKHighEstimate, c.OOKLowEstimate, c.FSKF1Est, c.FSKF2Est,
	)
}

// Analyze classifies a finished packet's pulse/gap/period distributions
// and picks a modulation kind and demod thresholds. Classification rules
// are evaluated in order; the first match wins. When PPM, one of the PWM
// kinds or Manchester is selected, Analyze forces the packet's trailing
// gap to ResetLimit+1 so a downstream demodulator sees an unambiguous
// terminator; for PCM, single pulse, unmodulated preamble and
// unclassified packets the trailing gap is left as it is.
func Analyze(data *Buffer, sampleRate uint32) Classification {
	n := data.NumPulses

	periods := make([]uint32, n)
	totalPeriod := 0
	for i := 0; i < n; i++ {
		periods[i] = data.Pulse[i] + data.Gap[i]
		totalPeriod += int(data.Pulse[i]) + int(data.Gap[i])
	}
	if n > 0 {
		totalPeriod -= int(data.Gap[n-1])
	}

	var hp, hg, hper Histogram
	hp.Sum(data.Pulse[:n], Tolerance)
	if n > 0 {
		hg.Sum(data.Gap[:n-1], Tolerance)
		hper.Sum(periods[:n-1], Tolerance)
	}
	hp.Fuse(Tolerance)
	hg.Fuse(Tolerance)
	hper.Fuse(Tolerance)

	hp.SortMean()
	hg.SortMean()
	if hp.BinsCount > 0 && hp.Bins[0].Mean == 0 {
		hp.Delete(0) // FSK sentinel bin
	}

	c := Classification{
		NumPulses:       n,
		TotalPeriod:     totalPeriod,
		SampleRate:      sampleRate,
		Gaps:            hg,
		Periods:         hper,
		OOKLowEstimate:  data.OOKLowEstimate,
		OOKHighEstimate: data.OOKHighEstimate,
		FSKF1Est:        data.FSKF1Est,
		FSKF2Est:        data.FSKF2Est,
	}

	switch {
	case n == 1:
		c.Modulation = ModSinglePulse

	case hp.BinsCount == 1 && hg.BinsCount == 1:
		c.Modulation = ModUnmodulatedPreamble

	case hp.BinsCount == 1 && hg.BinsCount > 1:
		c.Modulation = ModPPM
		c.ShortLimit = (hg.Bins[0].Mean + hg.Bins[1].Mean) / 2
		c.LongLimit = hg.Bins[1].Max + 1
		c.ResetLimit = hg.Bins[hg.BinsCount-1].Max + 1

	case hp.BinsCount == 2 && hg.BinsCount == 1:
		c.Modulation = ModPWMFixedGap
		c.ShortLimit = (hp.Bins[0].Mean + hp.Bins[1].Mean) / 2
		c.LongLimit = hg.Bins[hg.BinsCount-1].Max + 1
		c.ResetLimit = c.LongLimit

	case hp.BinsCount == 2 && hg.BinsCount == 2 && hper.BinsCount == 1:
		c.Modulation = ModPWMFixedPeriod
		c.ShortLimit = (hp.Bins[0].Mean + hp.Bins[1].Mean) / 2
		c.LongLimit = hg.Bins[hg.BinsCount-1].Max + 1
		c.ResetLimit = c.LongLimit

	case hp.BinsCount == 2 && hg.BinsCount == 2 && hper.BinsCount == 3:
		c.Modulation = ModManchesterZerobit
		c.ShortLimit = minInt(hp.Bins[0].Mean, hp.Bins[1].Mean)
		c.LongLimit = 0
		c.ResetLimit = hg.Bins[hg.BinsCount-1].Max + 1

	case hp.BinsCount == 2 && hg.BinsCount >= 3:
		c.Modulation = ModPWMMultiPacket
		c.ShortLimit = (hp.Bins[0].Mean + hp.Bins[1].Mean) / 2
		c.LongLimit = hg.Bins[1].Max + 1
		c.ResetLimit = hg.Bins[hg.BinsCount-1].Max + 1

	case hp.BinsCount >= 3 && hg.BinsCount >= 3 &&
		absInt(hp.Bins[1].Mean-2*hp.Bins[0].Mean) <= hp.Bins[0].Mean/8 &&
		absInt(hp.Bins[2].Mean-3*hp.Bins[0].Mean) <= hp.Bins[0].Mean/8 &&
		absInt(hg.Bins[0].Mean-hp.Bins[0].Mean) <= hp.Bins[0].Mean/8 &&
		absInt(hg.Bins[1].Mean-2*hp.Bins[0].Mean) <= hp.Bins[0].Mean/8 &&
		absInt(hg.Bins[2].Mean-3*hp.Bins[0].Mean) <= hp.Bins[0].Mean/8:
		c.Modulation = ModPCMNRZ
		c.ShortLimit = hp.Bins[0].Mean
		c.LongLimit = hp.Bins[0].Mean
		c.ResetLimit = hp.Bins[0].Mean * 1024

	case hp.BinsCount == 3:
		c.Modulation = ModPWMSyncDelimiter
		hp.SortCount() // least-frequent bin is probably the sync/delimiter
		p1 := hp.Bins[1].Mean
		p2 := hp.Bins[2].Mean
		c.ShortLimit = minInt(p1, p2)
		c.LongLimit = maxInt(p1, p2)
		c.SyncWidth = hp.Bins[0].Mean
		c.ResetLimit = hg.Bins[hg.BinsCount-1].Max + 1

	default:
		c.Modulation = ModUnclassified
	}

	c.Pulses = hp

	switch c.Modulation {
	case ModPPM, ModPWMFixedGap, ModPWMFixedPeriod, ModManchesterZerobit, ModPWMMultiPacket, ModPWMSyncDelimiter:
		if n > 0 {
			data.Gap[n-1] = uint32(c.ResetLimit + 1)
		}
	}

	return c
}
