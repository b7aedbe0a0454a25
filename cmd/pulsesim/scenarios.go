package main

// scenarioFunc builds a (envelope, fm) sample pair for one worked example.
// These mirror the scenarios exercised by the pulse package's own test
// suite; pulse/detector_test.go builds the same streams with the same
// sample counts.
type scenarioFunc func() ([]int16, []int16)

func allScenarios() map[string]scenarioFunc {
	return map[string]scenarioFunc{
		"noise":      noiseScenario,
		"single":     singlePulseScenario,
		"ppm":        ppmScenario,
		"pwm":        pwmScenario,
		"manchester": manchesterScenario,
		"fsk":        fskPCMScenario,
		"glitch":     glitchScenario,
	}
}

func constantRun(v int16, n int) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func concat(parts ...[]int16) []int16 {
	var out []int16
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func noiseScenario() ([]int16, []int16) {
	n := 50000
	env := make([]int16, n)
	v := int16(100)
	for i := range env {
		// A cheap deterministic oscillation rather than a real PRNG - good
		// enough to exercise the noise-floor estimator without a packet.
		if i%2 == 0 {
			v += 7
		} else {
			v -= 7
		}
		if v < 50 {
			v = 50
		}
		if v > 150 {
			v = 150
		}
		env[i] = v
	}
	return env, make([]int16, n)
}

func singlePulseScenario() ([]int16, []int16) {
	env := concat(constantRun(200, 25000), constantRun(4000, 200), constantRun(200, 30000))
	return env, make([]int16, len(env))
}

func ppmScenario() ([]int16, []int16) {
	env := []int16{}
	env = append(env, constantRun(200, 25000)...)
	for i := 0; i < 20; i++ {
		env = append(env, constantRun(4000, 250)...)
		if i < 19 {
			gap := 500
			if i%2 == 1 {
				gap = 1000
			}
			env = append(env, constantRun(200, gap)...)
		}
	}
	env = append(env, constantRun(200, 3000)...)
	return env, make([]int16, len(env))
}

func pwmScenario() ([]int16, []int16) {
	env := []int16{}
	env = append(env, constantRun(200, 25000)...)
	for i := 0; i < 16; i++ {
		width := 200
		if i%2 == 1 {
			width = 600
		}
		env = append(env, constantRun(4000, width)...)
		if i < 15 {
			env = append(env, constantRun(200, 400)...)
		}
	}
	env = append(env, constantRun(200, 30000)...)
	return env, make([]int16, len(env))
}

func manchesterScenario() ([]int16, []int16) {
	type symbol struct{ pulse, gap int }
	symbols := []symbol{{250, 250}, {250, 500}, {500, 250}, {500, 500}}

	env := []int16{}
	env = append(env, constantRun(200, 25000)...)
	const total = 32
	for i := 0; i < total; i++ {
		s := symbols[i%len(symbols)]
		env = append(env, constantRun(4000, s.pulse)...)
		if i < total-1 {
			env = append(env, constantRun(200, s.gap)...)
		}
	}
	env = append(env, constantRun(200, 30000)...)
	return env, make([]int16, len(env))
}

func fskPCMScenario() ([]int16, []int16) {
	const unit = 125
	runs := []int{1, 2, 3}
	const numSymbols = 48

	var fm []int16
	sign := int16(1)
	for i := 0; i < numSymbols; i++ {
		width := runs[i%len(runs)] * unit
		v := int16(5000)
		if sign < 0 {
			v = -5000
		}
		fm = append(fm, constantRun(v, width)...)
		sign = -sign
	}

	idle := 25000
	env := concat(constantRun(200, idle), constantRun(4000, len(fm)), constantRun(200, 3000))
	fullFM := concat(make([]int16, idle), fm, constantRun(fm[len(fm)-1], 3000))
	return env, fullFM
}

func glitchScenario() ([]int16, []int16) {
	env := concat(
		constantRun(200, 25000),
		constantRun(4000, 250),
		constantRun(200, 3),
		constantRun(4000, 247),
		constantRun(200, 9000),
	)
	return env, make([]int16, len(env))
}
