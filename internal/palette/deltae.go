package palette

import "math"

// DuplicateThreshold is the Delta E below which two colors of the same
// category count as duplicates.
const DuplicateThreshold = 15.0

// Lab is a CIE Lab-like triple. The tristimulus values are not normalized
// against a reference white, so absolute values are uncalibrated and only
// meaningful relative to each other. Palette thresholds are tuned against
// this scale; keep it as-is.
type Lab struct {
	L, A, B float64
}

func labF(t float64) float64 {
	if t > 0.008856 {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}

// Lab converts c through linear sRGB and XYZ.
func (c RGB) Lab() Lab {
	r, g, b := c.colorful().LinearRgb()

	x := r*0.4124564 + g*0.3575761 + b*0.1804375
	y := r*0.2126729 + g*0.7151522 + b*0.0721750
	z := r*0.0193339 + g*0.1191920 + b*0.9503041

	fx, fy, fz := labF(x), labF(y), labF(z)
	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// DeltaE is the Euclidean distance between the Lab coordinates of two colors.
func DeltaE(a, b RGB) float64 {
	la, lb := a.Lab(), b.Lab()
	dl, da, db := la.L-lb.L, la.A-lb.A, la.B-lb.B
	return math.Sqrt(dl*dl + da*da + db*db)
}
