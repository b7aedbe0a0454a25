package pulse

// Buffer records one detected packet: the pulse/gap widths making it up,
// plus the estimator side-channels the detector had settled on when the
// packet was emitted.
//
// Pulse[k] is the width of the k-th high interval; Gap[k] is the width of
// the low interval immediately following it. Widths are in samples and
// always positive, except a distinguished Pulse[0] == 0 in an FSK buffer,
// which marks a packet that began on the low-frequency side (see the FSK
// sub-detector), and a zero trailing Gap in an FSK buffer whose packet
// ended on the high-frequency side.
type Buffer struct {
	// Offset is the absolute sample index of the packet's first in-packet
	// rising edge.
	Offset uint64

	// NumPulses is how many Pulse/Gap pairs are valid, 0 <= NumPulses <= MaxPulses.
	NumPulses int

	Pulse [MaxPulses]uint32
	Gap   [MaxPulses]uint32

	// Side-channel estimates captured at the moment the packet was closed.
	OOKLowEstimate  int
	OOKHighEstimate int
	FSKF1Est        int
	FSKF2Est        int
}

// Clear resets a buffer to its zero value, ready to record a new packet.
func (b *Buffer) Clear() {
	*b = Buffer{}
}
