package pulse

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger is used for the handful of invariant-violation messages the
// state machines can emit (unknown state, FSK pulse-buffer overflow).
// Well-formed input never reaches any of these paths. Callers embedding
// this package in a larger program may replace it wholesale.
var Logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "pulse",
})
