package palette

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

type channel int

const (
	channelR channel = iota
	channelG
	channelB
)

func (c channel) of(w WeightedColor) uint8 {
	switch c {
	case channelR:
		return w.R
	case channelG:
		return w.G
	default:
		return w.B
	}
}

// bucket is a run of histogram bins considered as one cluster.
type bucket []WeightedColor

// widestChannel returns the channel with the largest value range. Ties go to
// R, then G.
func (b bucket) widestChannel() channel {
	lo := [3]uint8{255, 255, 255}
	var hi [3]uint8
	for _, c := range b {
		for ch, v := range [3]uint8{c.R, c.G, c.B} {
			lo[ch] = min(lo[ch], v)
			hi[ch] = max(hi[ch], v)
		}
	}
	rr := int(hi[0]) - int(lo[0])
	gr := int(hi[1]) - int(lo[1])
	br := int(hi[2]) - int(lo[2])
	switch {
	case rr >= gr && rr >= br:
		return channelR
	case gr >= rr && gr >= br:
		return channelG
	default:
		return channelB
	}
}

// split sorts the bucket along its widest channel and cuts it at the median
// index. Both halves are non-empty for buckets of two or more colors.
func (b bucket) split() (bucket, bucket) {
	ch := b.widestChannel()
	sort.SliceStable(b, func(i, j int) bool {
		return ch.of(b[i]) < ch.of(b[j])
	})
	mid := len(b) / 2
	return b[:mid:mid], b[mid:]
}

// average is the count-weighted mean color of the bucket.
func (b bucket) average() (RGB, bool) {
	if len(b) == 0 {
		return RGB{}, false
	}
	rs := make([]float64, len(b))
	gs := make([]float64, len(b))
	bs := make([]float64, len(b))
	ws := make([]float64, len(b))
	var total float64
	for i, c := range b {
		rs[i], gs[i], bs[i] = float64(c.R), float64(c.G), float64(c.B)
		ws[i] = float64(c.Count)
		total += ws[i]
	}
	if total <= 0 {
		return RGB{}, false
	}
	return RGB{
		R: clampChannel(roundHalfUp(stat.Mean(rs, ws))),
		G: clampChannel(roundHalfUp(stat.Mean(gs, ws))),
		B: clampChannel(roundHalfUp(stat.Mean(bs, ws))),
	}, true
}

func splittable(buckets []bucket) bool {
	for _, b := range buckets {
		if len(b) > 1 {
			return true
		}
	}
	return false
}

// MedianCut reduces the histogram to roughly k clusters. Every pass splits
// all buckets holding more than one color, so the result can overshoot k by
// up to a factor of two. Weights are bucket sizes over the histogram size.
func MedianCut(colors []WeightedColor, k int) []QuantizedColor {
	if len(colors) == 0 {
		return nil
	}

	work := make(bucket, len(colors))
	copy(work, colors)
	buckets := []bucket{work}

	for len(buckets) < k && splittable(buckets) {
		next := make([]bucket, 0, len(buckets)*2)
		for _, b := range buckets {
			if len(b) <= 1 {
				next = append(next, b)
				continue
			}
			left, right := b.split()
			next = append(next, left, right)
		}
		buckets = next
	}

	total := float64(len(colors))
	out := make([]QuantizedColor, 0, len(buckets))
	for _, b := range buckets {
		avg, ok := b.average()
		if !ok {
			continue
		}
		out = append(out, QuantizedColor{RGB: avg, Weight: float64(len(b)) / total})
	}
	return out
}
