package models

import "time"

// RGB is a color in 0-255 channels
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSL uses degrees for hue and percentages for saturation and lightness
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// PaletteColor is one swatch of an extracted palette
type PaletteColor struct {
	Hex        string  `json:"hex"`
	RGB        RGB     `json:"rgb"`
	HSL        HSL     `json:"hsl"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Weight     float64 `json:"weight"`
	Brightness float64 `json:"brightness"`
	Luminance  float64 `json:"luminance"`
	TextColor  string  `json:"text_color"`
}

// Tone is the average color of one brightness tier
type Tone struct {
	Label          string   `json:"label"`
	Hex            string   `json:"hex"`
	RGB            RGB      `json:"rgb"`
	Percentage     float64  `json:"percentage"`
	PixelCount     int      `json:"pixel_count"`
	SuggestedUsage []string `json:"suggested_usage"`
}

// ToneAnalysis covers the three brightness tiers
type ToneAnalysis struct {
	Dark   Tone `json:"dark"`
	Medium Tone `json:"medium"`
	Light  Tone `json:"light"`
}

// CategoryGroup lists suggested colors for one category
type CategoryGroup struct {
	Label          string         `json:"label"`
	Description    string         `json:"description"`
	SuggestedUsage []string       `json:"suggested_usage"`
	Colors         []PaletteColor `json:"colors"`
}

// PaletteResponse is returned by every extraction endpoint and stored in
// palette history
type PaletteResponse struct {
	ID                string                   `json:"id"`
	Source            string                   `json:"source"`
	CreatedAt         time.Time                `json:"created_at"`
	Width             int                      `json:"width"`
	Height            int                      `json:"height"`
	Format            string                   `json:"format,omitempty"`
	RequestedColors   int                      `json:"requested_colors"`
	ProcessingTimeSec float64                  `json:"processing_time_sec"`
	Colors            []PaletteColor           `json:"colors"`
	ToneAnalysis      ToneAnalysis             `json:"tone_analysis"`
	Categories        map[string]CategoryGroup `json:"categories"`
}

// PaletteSummary is a compact history entry
type PaletteSummary struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Hexes     []string  `json:"hexes"`
}

// Summary condenses a full response into a history entry
func (p *PaletteResponse) Summary() PaletteSummary {
	hexes := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		hexes[i] = c.Hex
	}
	return PaletteSummary{
		ID:        p.ID,
		Source:    p.Source,
		CreatedAt: p.CreatedAt,
		Hexes:     hexes,
	}
}
