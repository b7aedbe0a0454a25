// Command pulsesim generates the worked scenarios from the pulse package's
// test suite (pure noise, a single pulse, PPM/PWM/Manchester trains, an FSK
// PCM burst and a glitch-suppression case) as synthetic envelope/FM sample
// streams, drives them through a pulse.Detector, and reports what the
// analyzer made of each packet. It exists to give a human a way to see the
// detector and analyzer work without a real radio front end.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kd9xyz/pulsecore/pulse"
)

func main() {
	scenario := pflag.StringP("scenario", "s", "all", "scenario to run: noise, single, ppm, pwm, manchester, fsk, glitch, all")
	sampleRate := pflag.Uint32P("sample-rate", "r", 250000, "sample rate in Hz")
	verbose := pflag.BoolP("verbose", "v", false, "print the full pulse/gap histogram for each packet")
	pflag.Parse()

	log := pulse.Logger

	scenarios := allScenarios()
	if *scenario != "all" {
		s, ok := scenarios[*scenario]
		if !ok {
			log.Fatal("unknown scenario", "name", *scenario)
		}
		scenarios = map[string]scenarioFunc{*scenario: s}
	}

	exit := 0
	for name, fn := range scenarios {
		env, fm := fn()
		log.Info("running scenario", "name", name, "samples", len(env))

		d := &pulse.Detector{}
		packets := 0
		for {
			var ook, fsk pulse.Buffer
			res := d.Detect(env, fm, 0, *sampleRate, 0, &ook, &fsk)
			if res == pulse.NoPacket {
				break
			}
			packets++

			buf := &ook
			if res == pulse.FSKPacket {
				buf = &fsk
			}
			c := pulse.Analyze(buf, *sampleRate)
			fmt.Printf("[%s] %s: %s\n", name, res, c.Summary())
			if *verbose {
				fmt.Print(c.Pulses.String())
			}
		}
		if packets == 0 {
			fmt.Printf("[%s] no packets detected\n", name)
		}
	}

	os.Exit(exit)
}
