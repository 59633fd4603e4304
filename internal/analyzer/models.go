package analyzer

import (
	"time"

	"github.com/anime-shed/palette-inspector-go/internal/palette"
)

// AnalysisResult wraps an extracted palette with run metadata
type AnalysisResult struct {
	ID                string
	Timestamp         time.Time
	ProcessingTimeSec float64
	Options           AnalysisOptions
	Palette           palette.Result
}
