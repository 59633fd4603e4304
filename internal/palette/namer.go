package palette

// Name returns a human-readable name for an HSL color. Rules are evaluated
// in order and the first match wins. Hues in [330,360) have no band of their
// own and fall through to "Red".
func Name(c HSL) string {
	h, s, l := c.H, c.S, c.L

	switch {
	case l < 15:
		return "Black"
	case l > 95 && s < 10:
		return "White"
	case s < 20:
		switch {
		case l < 35:
			return "Dark Gray"
		case l > 65:
			return "Light Gray"
		default:
			return "Gray"
		}
	}

	switch {
	case h >= 0 && h < 15:
		if s > 50 {
			return "Red"
		}
		return "Pink"
	case h >= 15 && h < 45:
		return "Orange"
	case h >= 45 && h < 65:
		return "Yellow"
	case h >= 65 && h < 150:
		return shade(l, "Green")
	case h >= 150 && h < 195:
		return "Cyan"
	case h >= 195 && h < 240:
		return shade(l, "Blue")
	case h >= 240 && h < 280:
		if s < 40 {
			return "Lavender"
		}
		return "Purple"
	case h >= 280 && h < 330:
		return "Magenta"
	}
	return "Red"
}

func shade(l int, base string) string {
	switch {
	case l > 70:
		return "Light " + base
	case l < 40:
		return "Dark " + base
	default:
		return base
	}
}
