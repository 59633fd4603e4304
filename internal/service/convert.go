package service

import (
	"time"

	"github.com/samber/lo"

	"github.com/anime-shed/palette-inspector-go/internal/analyzer"
	"github.com/anime-shed/palette-inspector-go/internal/palette"
	"github.com/anime-shed/palette-inspector-go/pkg/models"
)

func toRGB(c palette.RGB) models.RGB {
	return models.RGB{R: c.R, G: c.G, B: c.B}
}

func toPaletteColor(c palette.ClassifiedColor, _ int) models.PaletteColor {
	return models.PaletteColor{
		Hex:        c.Hex(),
		RGB:        toRGB(c.RGB),
		HSL:        models.HSL{H: c.HSL.H, S: c.HSL.S, L: c.HSL.L},
		Name:       c.Name,
		Category:   c.Category.String(),
		Weight:     c.Weight,
		Brightness: c.Brightness(),
		Luminance:  c.Luminance(),
		TextColor:  c.TextColor().Hex(),
	}
}

func toTone(cat palette.Category, t palette.Tone) models.Tone {
	return models.Tone{
		Label:          cat.ToneLabel(),
		Hex:            t.Hex(),
		RGB:            toRGB(t.RGB),
		Percentage:     t.Percentage,
		PixelCount:     t.Count,
		SuggestedUsage: cat.ToneUsages(),
	}
}

// BuildResponse converts an analyzer result into the response shared by the
// HTTP API, the CLI and palette history.
func BuildResponse(result analyzer.AnalysisResult, source, format string) *models.PaletteResponse {
	p := result.Palette

	categories := make(map[string]models.CategoryGroup, len(palette.SelectionOrder))
	for _, cat := range palette.SelectionOrder {
		categories[cat.String()] = models.CategoryGroup{
			Label:          cat.Label(),
			Description:    cat.Description(),
			SuggestedUsage: cat.Usages(),
			Colors:         lo.Map(p.Categories.Get(cat), toPaletteColor),
		}
	}

	return &models.PaletteResponse{
		ID:                result.ID,
		Source:            source,
		CreatedAt:         result.Timestamp.UTC().Truncate(time.Millisecond),
		Width:             p.Width,
		Height:            p.Height,
		Format:            format,
		RequestedColors:   result.Options.ColorCount,
		ProcessingTimeSec: result.ProcessingTimeSec,
		Colors:            lo.Map(p.Colors, toPaletteColor),
		ToneAnalysis: models.ToneAnalysis{
			Dark:   toTone(palette.Dark, p.Tones.Get(palette.Dark)),
			Medium: toTone(palette.Medium, p.Tones.Get(palette.Medium)),
			Light:  toTone(palette.Light, p.Tones.Get(palette.Light)),
		},
		Categories: categories,
	}
}
