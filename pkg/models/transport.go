package models

// URLPaletteRequest asks for a palette of a remote image
type URLPaletteRequest struct {
	URL        string `json:"url" binding:"required"`
	ColorCount int    `json:"color_count,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// HistoryResponse lists recent palettes, newest first
type HistoryResponse struct {
	Items []PaletteSummary `json:"items"`
	Count int              `json:"count"`
}

// EndpointDescriptor documents the palette endpoint for GET requests
type EndpointDescriptor struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Endpoint    string            `json:"endpoint"`
	Parameters  map[string]string `json:"parameters"`
	Returns     string            `json:"returns"`
	Features    []string          `json:"features"`
}

// PaletteEndpointDescriptor describes POST /api/design/color-palette
func PaletteEndpointDescriptor(maxUploadLabel string) EndpointDescriptor {
	return EndpointDescriptor{
		Name:        "Intelligent Color Palette Generator with Tone Analysis",
		Description: "Generates professional color palettes with dark/light/medium tone analysis and usage suggestions",
		Endpoint:    "POST /api/design/color-palette",
		Parameters: map[string]string{
			"file":       "Image file (multipart/form-data, JPG/PNG/GIF/WebP/AVIF, max " + maxUploadLabel + ")",
			"colorCount": "Number of colors to extract (3-12, optional, default: 6)",
		},
		Returns: "JSON palette with tone analysis and usage suggestions",
		Features: []string{
			"Dominant color extraction using median cut quantization",
			"Image tone analysis (dark/medium/light)",
			"Color categorization by brightness",
			"Usage suggestions for each tone category",
			"Vibrant accent color identification",
		},
	}
}
