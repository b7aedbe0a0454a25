// Package pulse implements the pulse-detection and signal-classification
// core of a sub-GHz ISM-band decoder.
//
// It consumes two synchronous streams of 16-bit signed samples - an
// amplitude envelope and an instantaneous-frequency (FM discriminator)
// stream - and turns them into discrete packets of pulse/gap timings ready
// for protocol-level bit slicing. Three pieces cooperate:
//
//   - Detector: an adaptive-threshold OOK state machine that walks the
//     envelope stream and discovers packet boundaries.
//   - the nested FSK sub-detector, which watches the FM stream during the
//     first OOK pulse and can take over and claim the packet as FSK.
//   - Analyze: a histogram-based classifier that looks at a finished
//     packet's pulse/gap/period distributions and picks a modulation kind
//     plus the three thresholds a downstream bit slicer needs.
//
// None of this package touches sample acquisition, file formats, or the
// bit-level demodulators themselves - those are downstream consumers.
package pulse
