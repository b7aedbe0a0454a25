// Command pulsegpio drives a GPIO output line as a packet indicator: it
// runs a pulse.Detector over a synthetic or piped-in sample stream and
// pulses the line high briefly every time a packet completes. This is the
// embedded-board collaborator (Red Pitaya/Raspberry Pi class hardware) -
// the same GPIO chip family used for PTT keying elsewhere, repurposed here
// as an activity LED.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/warthog618/go-gpiocdev"

	"github.com/kd9xyz/pulsecore/pulse"
)

func main() {
	chip := pflag.StringP("chip", "c", "gpiochip0", "GPIO chip device name")
	line := pflag.UintP("line", "l", 17, "GPIO line offset to drive")
	sampleRate := pflag.Uint32P("sample-rate", "r", 250000, "sample rate in Hz, for the gap heuristics")
	blink := pflag.DurationP("blink", "b", 100*time.Millisecond, "how long to hold the line high per packet")
	pflag.Parse()

	log := pulse.Logger

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := waitForChip(ctx, *chip); err != nil {
		log.Warn("gave up waiting for GPIO chip via udev, trying to open anyway", "chip", *chip, "err", err)
	}

	l, err := gpiocdev.RequestLine(*chip, int(*line), gpiocdev.AsOutput(0))
	if err != nil {
		log.Fatal("requesting GPIO line failed", "chip", *chip, "line", *line, "err", err)
	}
	defer l.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		_ = l.SetValue(0)
		os.Exit(0)
	}()

	d := &pulse.Detector{}
	var offset uint64
	for {
		// A real deployment replaces this with a live envelope/FM source
		// (see cmd/pulseaudio); pulsegpio only owns the indicator logic.
		env, fm, n := nextChunk()
		if n == 0 {
			return
		}

		var ook, fsk pulse.Buffer
		for {
			res := d.Detect(env, fm, 0, *sampleRate, offset, &ook, &fsk)
			if res == pulse.NoPacket {
				break
			}
			log.Info("packet detected, blinking indicator", "result", res)
			if err := l.SetValue(1); err != nil {
				log.Error("setting line high failed", "err", err)
				continue
			}
			time.Sleep(*blink)
			if err := l.SetValue(0); err != nil {
				log.Error("setting line low failed", "err", err)
			}
		}
		offset += uint64(n)
	}
}

// nextChunk stands in for a real sample source. It returns progressively
// smaller all-zero chunks until exhausted, which never produces a packet -
// this binary's point is the GPIO wiring, not sample generation.
var chunksRemaining = 10

func nextChunk() ([]int16, []int16, int) {
	if chunksRemaining <= 0 {
		return nil, nil, 0
	}
	chunksRemaining--
	n := 1000
	return make([]int16, n), make([]int16, n), n
}
