package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferClear(t *testing.T) {
	var b Buffer
	b.Offset = 42
	b.NumPulses = 3
	b.Pulse[0] = 100
	b.Gap[0] = 200
	b.OOKLowEstimate = 5
	b.FSKF1Est = 6

	b.Clear()

	assert.Equal(t, Buffer{}, b)
}
