package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/term"

	"github.com/anime-shed/palette-inspector-go/pkg/models"
)

const defaultTermWidth = 80

// terminalWidth returns the column count of w, or a default when w is not a terminal
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}

func swatch(rgb models.RGB, width int) string {
	return color.BgRGB(int(rgb.R), int(rgb.G), int(rgb.B)).Sprint(strings.Repeat(" ", width))
}

// swatchWidth scales swatches with the terminal, between 4 and 12 cells
func swatchWidth(termWidth int) int {
	return min(max(termWidth/10, 4), 12)
}

func renderPalette(w io.Writer, p *models.PaletteResponse, termWidth int) {
	sw := swatchWidth(termWidth)
	bold := color.New(color.Bold)

	fmt.Fprintf(w, "%s  %dx%d %s  %.3fs\n", bold.Sprint(p.Source), p.Width, p.Height, p.Format, p.ProcessingTimeSec)

	if len(p.Colors) == 0 {
		fmt.Fprintln(w, "  no opaque pixels")
	}
	for _, c := range p.Colors {
		fmt.Fprintf(w, "  %s  %s  %-14s %-8s %5.1f%%\n",
			swatch(c.RGB, sw), c.Hex, c.Name, c.Category, c.Weight*100)
	}

	fmt.Fprintln(w, bold.Sprint("  Tones"))
	for _, t := range []models.Tone{p.ToneAnalysis.Dark, p.ToneAnalysis.Medium, p.ToneAnalysis.Light} {
		fmt.Fprintf(w, "  %s  %s  %-14s %5.1f%%\n", swatch(t.RGB, sw), t.Hex, t.Label, t.Percentage)
	}
}

func renderHistory(w io.Writer, items []models.PaletteSummary) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no saved palettes")
		return
	}
	for _, item := range items {
		var swatches strings.Builder
		for _, hex := range item.Hexes {
			c, err := colorful.Hex(hex)
			if err != nil {
				continue
			}
			r, g, b := c.RGB255()
			swatches.WriteString(swatch(models.RGB{R: r, G: g, B: b}, 2))
		}
		fmt.Fprintf(w, "%s  %-14s %s  %s  %s\n",
			item.ID, humanize.Time(item.CreatedAt), swatches.String(), strings.Join(item.Hexes, " "), item.Source)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
