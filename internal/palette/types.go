package palette

// RGB is an 8-bit sRGB color.
type RGB struct {
	R, G, B uint8
}

// Brightness is the plain channel mean, not a luma-weighted value.
func (c RGB) Brightness() float64 {
	return float64(int(c.R)+int(c.G)+int(c.B)) / 3
}

// WeightedColor is a histogram bin: a quantized color and the number of
// sampled pixels that fell into it.
type WeightedColor struct {
	RGB
	Count int
}

// QuantizedColor is the representative color of one median-cut bucket.
// Weight is the bucket's share of histogram entries, not of pixels.
type QuantizedColor struct {
	RGB
	Weight float64
}

// HSL holds rounded hue (degrees), saturation and lightness (percent).
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// ClassifiedColor is a quantized color annotated for presentation.
type ClassifiedColor struct {
	QuantizedColor
	HSL      HSL
	Name     string
	Category Category
}

// Tone is the average color of one brightness tier.
type Tone struct {
	RGB
	Percentage float64
	Count      int
}

// ToneAnalysis holds the Dark, Medium and Light tiers indexed by Category.
type ToneAnalysis [Vibrant]Tone

// Get returns the tone for a brightness tier. Vibrant is not a tier and
// yields the zero Tone.
func (t ToneAnalysis) Get(c Category) Tone {
	if c < 0 || c >= Vibrant {
		return Tone{}
	}
	return t[c]
}

// CategoryBuckets holds one color list per Category.
type CategoryBuckets [numCategories][]ClassifiedColor

// Get returns the colors for c, or nil for an unknown category.
func (s CategoryBuckets) Get(c Category) []ClassifiedColor {
	if !c.valid() {
		return nil
	}
	return s[c]
}

// Result is the outcome of one extraction.
type Result struct {
	Colors []ClassifiedColor
	Tones  ToneAnalysis
	// Categories holds at most SuggestionsPerCategory colors per category.
	Categories CategoryBuckets

	Width        int
	Height       int
	SampleWidth  int
	SampleHeight int
	// HistogramSize is the number of distinct quantized bins.
	HistogramSize int
	// ClusterCount is the number of median-cut clusters before classification.
	ClusterCount int
}
