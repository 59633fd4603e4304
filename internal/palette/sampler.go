package palette

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

const (
	// alphaThreshold is the minimum alpha for a pixel to be sampled.
	alphaThreshold = 128

	// toneStride samples every Nth pixel of the full-resolution frame.
	toneStride = 4

	darkMaxBrightness   = 85
	mediumMaxBrightness = 170

	// Pixels whose mean brightness falls outside this range are kept out of
	// the histogram.
	minHistogramBrightness = 5
	maxHistogramBrightness = 250
)

// toNRGBA returns a full-resolution, zero-origin NRGBA copy of img.
func toNRGBA(img image.Image) *image.NRGBA {
	if img == nil || img.Bounds().Empty() {
		return image.NewNRGBA(image.Rectangle{})
	}
	return imaging.Clone(img)
}

type toneAccumulator struct {
	r, g, b, count int
}

func (a *toneAccumulator) add(r, g, b uint8) {
	a.r += int(r)
	a.g += int(g)
	a.b += int(b)
	a.count++
}

func (a toneAccumulator) average() RGB {
	n := float64(a.count)
	return RGB{
		R: clampChannel(roundHalfUp(float64(a.r) / n)),
		G: clampChannel(roundHalfUp(float64(a.g) / n)),
		B: clampChannel(roundHalfUp(float64(a.b) / n)),
	}
}

// AnalyzeTones walks every toneStride-th pixel of the frame in row-major
// order and averages the opaque ones per brightness tier. Tiers without any
// pixel fall back to a fixed gray with a zero percentage.
func AnalyzeTones(img *image.NRGBA) ToneAnalysis {
	var acc [Vibrant]toneAccumulator

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	total := w * h
	sampled := 0
	for p := 0; p < total; p += toneStride {
		off := (p/w)*img.Stride + (p%w)*4
		px := img.Pix[off : off+4 : off+4]
		if px[3] < alphaThreshold {
			continue
		}
		// round((r+g+b)/3) on integers
		brightness := (int(px[0]) + int(px[1]) + int(px[2]) + 1) / 3
		acc[brightnessCategory(float64(brightness))].add(px[0], px[1], px[2])
		sampled++
	}

	var tones ToneAnalysis
	for _, c := range ToneOrder {
		a := acc[c]
		if a.count == 0 {
			gray := categoryTable[c].fallbackGray
			tones[c] = Tone{RGB: RGB{gray, gray, gray}}
			continue
		}
		tones[c] = Tone{
			RGB:        a.average(),
			Percentage: float64(a.count) / float64(sampled) * 100,
			Count:      a.count,
		}
	}
	return tones
}

// sampleDimensions returns the size of the quantization canvas: the frame
// scaled uniformly so that neither side exceeds maxDim.
func sampleDimensions(w, h, maxDim int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	sw, sh := min(w, maxDim), min(h, maxDim)
	scale := math.Min(float64(sw)/float64(w), float64(sh)/float64(h))
	if scale >= 1 {
		return w, h
	}
	return max(1, roundHalfUp(float64(w)*scale)), max(1, roundHalfUp(float64(h)*scale))
}

// downsample shrinks img to its sample dimensions. Images that already fit
// are returned as-is.
func downsample(img *image.NRGBA, maxDim int) *image.NRGBA {
	b := img.Bounds()
	tw, th := sampleDimensions(b.Dx(), b.Dy(), maxDim)
	if tw == b.Dx() && th == b.Dy() {
		return img
	}
	return imaging.Resize(img, tw, th, imaging.Lanczos)
}
