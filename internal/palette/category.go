package palette

// Category is the closed set of buckets a palette color can fall into.
// Dark, Medium and Light double as the tone tiers of the tone analysis.
type Category int

const (
	Dark Category = iota
	Medium
	Light
	Vibrant

	numCategories
)

// SelectionOrder is the order in which category buckets are merged into the
// final palette. Vibrant accents come first so they survive truncation.
var SelectionOrder = [...]Category{Vibrant, Dark, Medium, Light}

// ToneOrder lists the brightness tiers from darkest to lightest.
var ToneOrder = [...]Category{Dark, Medium, Light}

type categoryInfo struct {
	key         string
	label       string
	description string
	usages      []string

	toneLabel    string
	toneUsages   []string
	fallbackGray uint8
}

var categoryTable = [numCategories]categoryInfo{
	Dark: {
		key:          "dark",
		label:        "Dark Elements",
		description:  "Contrast and readability",
		usages:       []string{"Text", "Headers", "Footers"},
		toneLabel:    "Dark Tones",
		toneUsages:   []string{"Background", "Text", "Borders"},
		fallbackGray: 30,
	},
	Medium: {
		key:          "medium",
		label:        "Medium Elements",
		description:  "Balanced mid-tones",
		usages:       []string{"Cards", "Forms", "Secondary"},
		toneLabel:    "Medium Tones",
		toneUsages:   []string{"Secondary", "Buttons", "Cards"},
		fallbackGray: 150,
	},
	Light: {
		key:          "light",
		label:        "Light Elements",
		description:  "Light backgrounds and spacing",
		usages:       []string{"Backgrounds", "Spacing", "Borders"},
		toneLabel:    "Light Tones",
		toneUsages:   []string{"Background", "Highlight", "Spacing"},
		fallbackGray: 230,
	},
	Vibrant: {
		key:         "vibrant",
		label:       "Vibrant Accents",
		description: "High saturation colors for attention",
		usages:      []string{"Primary CTAs", "Highlights", "Icons"},
	},
}

func (c Category) valid() bool {
	return c >= 0 && c < numCategories
}

// String returns the lowercase key used in JSON payloads.
func (c Category) String() string {
	if !c.valid() {
		return "unknown"
	}
	return categoryTable[c].key
}

// Label returns the display label of the category suggestion.
func (c Category) Label() string {
	if !c.valid() {
		return ""
	}
	return categoryTable[c].label
}

func (c Category) Description() string {
	if !c.valid() {
		return ""
	}
	return categoryTable[c].description
}

// Usages returns the suggested UI usages for colors of this category.
func (c Category) Usages() []string {
	if !c.valid() {
		return nil
	}
	return append([]string(nil), categoryTable[c].usages...)
}

// ToneLabel returns the label used by the tone analysis. Vibrant is not a
// tone and returns an empty string.
func (c Category) ToneLabel() string {
	if !c.valid() {
		return ""
	}
	return categoryTable[c].toneLabel
}

func (c Category) ToneUsages() []string {
	if !c.valid() {
		return nil
	}
	return append([]string(nil), categoryTable[c].toneUsages...)
}

// MarshalText lets categories serialize as their key.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseCategory maps a key back to its Category.
func ParseCategory(key string) (Category, bool) {
	for c := Category(0); c < numCategories; c++ {
		if categoryTable[c].key == key {
			return c, true
		}
	}
	return 0, false
}

// brightnessCategory assigns a brightness tier using inclusive upper bounds.
func brightnessCategory(brightness float64) Category {
	switch {
	case brightness <= darkMaxBrightness:
		return Dark
	case brightness <= mediumMaxBrightness:
		return Medium
	default:
		return Light
	}
}
