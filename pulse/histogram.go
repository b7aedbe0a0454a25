package pulse

import (
	"fmt"
	"strings"
)

// Bin is one cluster in a Histogram: how many values fell in it, their
// running sum, current mean (sum/count), and the observed range.
type Bin struct {
	Count int
	Sum   int
	Mean  int
	Min   int
	Max   int
}

// Histogram is a small set of at most MaxHistBins clusters built by
// tolerance-matching incoming values against existing bin means. Bin
// order is not semantic unless SortMean/SortCount has been called.
type Histogram struct {
	BinsCount int
	Bins      [MaxHistBins]Bin
}

// Sum inserts each value of data into an existing bin whose current mean
// is within tolerance*max(value, mean) of it, or opens a new bin if fewer
// than MaxHistBins exist yet. Values beyond the cap are silently dropped,
// matching the fixed-size design (see MaxHistBins).
func (h *Histogram) Sum(data []uint32, tolerance float64) {
	for _, raw := range data {
		v := int(raw)
		matched := -1
		for i := 0; i < h.BinsCount; i++ {
			m := h.Bins[i].Mean
			if absInt(v-m) < int(tolerance*float64(maxInt(v, m))) {
				matched = i
				break
			}
		}
		if matched >= 0 {
			b := &h.Bins[matched]
			b.Count++
			b.Sum += v
			b.Mean = b.Sum / b.Count
			b.Min = minInt(b.Min, v)
			b.Max = maxInt(b.Max, v)
		} else if h.BinsCount < MaxHistBins {
			h.Bins[h.BinsCount] = Bin{Count: 1, Sum: v, Mean: v, Min: v, Max: v}
			h.BinsCount++
		}
	}
}

// Delete removes bin i, compacting the remaining bins left and zeroing
// the now-unused last slot.
func (h *Histogram) Delete(i int) {
	if h.BinsCount < 1 {
		return
	}
	for n := i; n < h.BinsCount-1; n++ {
		h.Bins[n] = h.Bins[n+1]
	}
	h.BinsCount--
	h.Bins[h.BinsCount] = Bin{}
}

func (h *Histogram) swap(i, j int) {
	if i < h.BinsCount && j < h.BinsCount {
		h.Bins[i], h.Bins[j] = h.Bins[j], h.Bins[i]
	}
}

// SortMean orders bins ascending by mean. A quadratic sort is fine at
// n <= MaxHistBins and stability is not required.
func (h *Histogram) SortMean() {
	if h.BinsCount < 2 {
		return
	}
	for n := 0; n < h.BinsCount-1; n++ {
		for m := n + 1; m < h.BinsCount; m++ {
			if h.Bins[m].Mean < h.Bins[n].Mean {
				h.swap(m, n)
			}
		}
	}
}

// SortCount orders bins ascending by count.
func (h *Histogram) SortCount() {
	if h.BinsCount < 2 {
		return
	}
	for n := 0; n < h.BinsCount-1; n++ {
		for m := n + 1; m < h.BinsCount; m++ {
			if h.Bins[m].Count < h.Bins[n].Count {
				h.swap(m, n)
			}
		}
	}
}

// Fuse pairwise-merges any two bins whose means are within tolerance of
// each other, repeating over the shrinking bin set until a full pass
// merges nothing. After Fuse, no two surviving bins satisfy the tolerance
// match.
func (h *Histogram) Fuse(tolerance float64) {
	if h.BinsCount < 2 {
		return
	}
	merged := false
	for n := 0; n < h.BinsCount-1; n++ {
		for m := n + 1; m < h.BinsCount; m++ {
			bn := h.Bins[n].Mean
			bm := h.Bins[m].Mean
			if absInt(bn-bm) < int(tolerance*float64(maxInt(bn, bm))) {
				h.Bins[n].Count += h.Bins[m].Count
				h.Bins[n].Sum += h.Bins[m].Sum
				h.Bins[n].Mean = h.Bins[n].Sum / h.Bins[n].Count
				h.Bins[n].Min = minInt(h.Bins[n].Min, h.Bins[m].Min)
				h.Bins[n].Max = maxInt(h.Bins[n].Max, h.Bins[m].Max)
				h.Delete(m)
				m-- // re-examine this position, a new bin just slid into it
				merged = true
			}
		}
	}
	// A merge moves bin n's mean, which can bring it within tolerance of a
	// bin this pass already compared it against, so another pass follows.
	if merged {
		h.Fuse(tolerance)
	}
}

// String renders the histogram one bin per line, in the style of the
// reference implementation's diagnostic dump.
func (h *Histogram) String() string {
	var b strings.Builder
	for n := 0; n < h.BinsCount; n++ {
		bin := h.Bins[n]
		fmt.Fprintf(&b, " [%2d] count: %4d, width: %5d [%d;%d]\n", n, bin.Count, bin.Mean, bin.Min, bin.Max)
	}
	return b.String()
}
