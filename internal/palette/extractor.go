package palette

import "image"

const (
	MinColorCount     = 3
	MaxColorCount     = 12
	DefaultColorCount = 6

	DefaultSampleSize       = 200
	DefaultQuantizationStep = 16
)

// Options tunes an extraction. The zero value of any field selects its
// default.
type Options struct {
	// ColorCount is the requested palette size. Callers clamp it into
	// [MinColorCount, MaxColorCount]; Extract accepts any positive value.
	ColorCount int
	// SampleSize bounds both sides of the quantization canvas.
	SampleSize int
	// QuantizationStep is the per-channel bin width of the histogram.
	QuantizationStep int
	// DuplicateThreshold is the Delta E under which colors are merged.
	DuplicateThreshold float64
}

func DefaultOptions() Options {
	return Options{
		ColorCount:         DefaultColorCount,
		SampleSize:         DefaultSampleSize,
		QuantizationStep:   DefaultQuantizationStep,
		DuplicateThreshold: DuplicateThreshold,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.ColorCount <= 0 {
		o.ColorCount = d.ColorCount
	}
	if o.SampleSize <= 0 {
		o.SampleSize = d.SampleSize
	}
	if o.QuantizationStep <= 0 {
		o.QuantizationStep = d.QuantizationStep
	}
	if o.DuplicateThreshold <= 0 {
		o.DuplicateThreshold = d.DuplicateThreshold
	}
	return o
}

// Extract runs the whole pipeline on img. It never fails: empty or fully
// transparent input yields an empty palette and fallback tones.
func Extract(img image.Image, opts Options) Result {
	opts = opts.normalized()

	full := toNRGBA(img)
	sample := downsample(full, opts.SampleSize)
	hist := BuildHistogram(sample, opts.QuantizationStep)
	clusters := MedianCut(hist.Colors(), opts.ColorCount*2)
	categories := Categorize(clusters, opts.ColorCount, opts.DuplicateThreshold)

	return Result{
		Colors:        Select(categories, opts.ColorCount),
		Tones:         AnalyzeTones(full),
		Categories:    suggest(categories),
		Width:         full.Bounds().Dx(),
		Height:        full.Bounds().Dy(),
		SampleWidth:   sample.Bounds().Dx(),
		SampleHeight:  sample.Bounds().Dy(),
		HistogramSize: hist.Len(),
		ClusterCount:  len(clusters),
	}
}
