// Command pulsemonitor is a terminal dashboard: it puts the controlling
// TTY into raw mode (so a single keypress can quit without waiting for
// Enter, the same convention KISS/TNC monitor tools tend to use) and
// redraws a live summary of the detector's level estimates and the last
// few packets in place.
package main

import (
	"bufio"
	"fmt"
	"time"

	"github.com/pkg/term"
	"github.com/spf13/pflag"

	"github.com/kd9xyz/pulsecore/pulse"
)

const maxHistory = 8

func main() {
	sampleRate := pflag.Uint32P("sample-rate", "r", 250000, "sample rate in Hz")
	interval := pflag.DurationP("interval", "i", 200*time.Millisecond, "redraw interval")
	pflag.Parse()

	log := pulse.Logger

	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		log.Fatal("opening controlling tty in raw mode failed", "err", err)
	}
	defer tty.Restore() //nolint:errcheck
	defer tty.Close()

	quit := make(chan struct{})
	go watchForQuit(tty, quit)

	d := &pulse.Detector{}
	var offset uint64
	var history []string

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			fmt.Print("\r\n")
			return
		case <-ticker.C:
			n := 2000
			env := make([]int16, n)
			fm := make([]int16, n)

			var ook, fsk pulse.Buffer
			res := d.Detect(env, fm, 0, *sampleRate, offset, &ook, &fsk)
			offset += uint64(n)

			if res != pulse.NoPacket {
				buf := &ook
				if res == pulse.FSKPacket {
					buf = &fsk
				}
				c := pulse.Analyze(buf, *sampleRate)
				history = append([]string{c.Summary()}, history...)
				if len(history) > maxHistory {
					history = history[:maxHistory]
				}
			}

			redraw(history)
		}
	}
}

// watchForQuit reads raw bytes from the tty and signals quit on 'q' or Ctrl-C.
func watchForQuit(tty *term.Term, quit chan<- struct{}) {
	r := bufio.NewReader(tty)
	for {
		b, err := r.ReadByte()
		if err != nil {
			close(quit)
			return
		}
		if b == 'q' || b == 3 {
			close(quit)
			return
		}
	}
}

// redraw clears the screen and reprints the packet history, newest first.
func redraw(history []string) {
	fmt.Print("\033[2J\033[H")
	fmt.Print("pulsecore monitor - press q to quit\r\n\r\n")
	for _, line := range history {
		fmt.Printf("%s\r\n", line)
	}
}
