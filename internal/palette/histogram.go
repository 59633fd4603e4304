package palette

import (
	"image"
	"math"
)

// binKey identifies a quantized color bin.
type binKey struct {
	r, g, b uint8
}

// Histogram is an insertion-ordered set of quantized color bins.
type Histogram struct {
	index map[binKey]int
	bins  []WeightedColor
}

func newHistogram() *Histogram {
	return &Histogram{index: make(map[binKey]int)}
}

func (h *Histogram) add(c RGB) {
	k := binKey{c.R, c.G, c.B}
	if i, ok := h.index[k]; ok {
		h.bins[i].Count++
		return
	}
	h.index[k] = len(h.bins)
	h.bins = append(h.bins, WeightedColor{RGB: c, Count: 1})
}

// Len returns the number of distinct bins.
func (h *Histogram) Len() int {
	return len(h.bins)
}

// Colors returns the bins in first-seen order.
func (h *Histogram) Colors() []WeightedColor {
	out := make([]WeightedColor, len(h.bins))
	copy(out, h.bins)
	return out
}

// quantizeChannel snaps v to the nearest multiple of step. The top bin is
// clamped so channels stay within [0,255].
func quantizeChannel(v uint8, step int) uint8 {
	if step <= 1 {
		return v
	}
	q := int(math.Floor(float64(v)/float64(step)+0.5)) * step
	return clampChannel(q)
}

// BuildHistogram bins every opaque, non-extreme pixel of img.
func BuildHistogram(img *image.NRGBA, step int) *Histogram {
	h := newHistogram()
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			r, g, bl, a := row[x], row[x+1], row[x+2], row[x+3]
			if a < alphaThreshold {
				continue
			}
			brightness := RGB{r, g, bl}.Brightness()
			if brightness < minHistogramBrightness || brightness > maxHistogramBrightness {
				continue
			}
			h.add(RGB{
				R: quantizeChannel(r, step),
				G: quantizeChannel(g, step),
				B: quantizeChannel(bl, step),
			})
		}
	}
	return h
}
