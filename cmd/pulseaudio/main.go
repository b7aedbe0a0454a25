// Command pulseaudio captures a live signal from a sound card (the
// envelope and discriminator output of a 433 MHz receiver's audio-out data
// pin, the same front end a typical AFSK demodulator expects) and
// feeds it through a pulse.Detector. Sample acquisition and FM
// discrimination live here, outside the pulse package, which stays pure.
package main

import (
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	"github.com/kd9xyz/pulsecore/pulse"
)

func main() {
	device := pflag.StringP("device", "d", "", "input device name substring to match (default device if empty)")
	sampleRate := pflag.Float64P("sample-rate", "r", 48000, "capture sample rate in Hz")
	frames := pflag.IntP("frames", "f", 512, "capture buffer size in frames")
	pflag.Parse()

	log := pulse.Logger

	if err := portaudio.Initialize(); err != nil {
		log.Fatal("portaudio init failed", "err", err)
	}
	defer portaudio.Terminate()

	in, err := openInputStream(*device, *sampleRate, *frames)
	if err != nil {
		log.Fatal("opening input stream failed", "err", err)
	}
	defer in.Close()

	if err := in.Start(); err != nil {
		log.Fatal("starting capture failed", "err", err)
	}
	defer in.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	d := &pulse.Detector{}
	disc := &zeroCrossingDiscriminator{}
	var offset uint64

	log.Info("capturing", "sampleRate", *sampleRate, "frames", *frames)

	for {
		select {
		case <-sigCh:
			log.Info("shutting down")
			return
		default:
		}

		raw, err := in.Read()
		if err != nil {
			log.Error("read failed", "err", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}

		envelope := make([]int16, len(raw))
		fm := make([]int16, len(raw))
		for i, s := range raw {
			envelope[i] = int16(math.Abs(float64(s)) * math.MaxInt16)
			fm[i] = disc.next(s)
		}

		// Detect only advances its cursor past a chunk once it returns
		// NoPacket; a packet return leaves the cursor mid-chunk so the
		// same envelope/fm must be handed back until it drains, exactly
		// like pulsesim's driver loop. Only then has this chunk been
		// fully consumed and new audio may be read.
		var ook, fsk pulse.Buffer
		for {
			res := d.Detect(envelope, fm, 0, uint32(*sampleRate), offset, &ook, &fsk)
			if res == pulse.NoPacket {
				break
			}

			switch res {
			case pulse.OOKPacket:
				c := pulse.Analyze(&ook, uint32(*sampleRate))
				log.Info("OOK packet", "summary", c.Summary())
			case pulse.FSKPacket:
				c := pulse.Analyze(&fsk, uint32(*sampleRate))
				log.Info("FSK packet", "summary", c.Summary())
			}
		}
		offset += uint64(len(raw))
	}
}

// zeroCrossingDiscriminator turns a raw audio sample stream into a crude FM
// discriminator output: the instantaneous sign flips fast during the
// higher of two FSK tones and slow during the lower one, which the
// detector's FSK estimators track just as well as a true frequency
// measurement for the purposes of distinguishing the two tones.
type zeroCrossingDiscriminator struct {
	last     float32
	lastSign int8
}

func (z *zeroCrossingDiscriminator) next(s float32) int16 {
	sign := int8(1)
	if s < 0 {
		sign = -1
	}
	out := int16(0)
	if sign != z.lastSign {
		out = 8000
	} else {
		out = -8000
	}
	z.last = s
	z.lastSign = sign
	return out
}
