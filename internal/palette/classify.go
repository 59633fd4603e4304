package palette

import (
	"sort"
)

const (
	// VibrantSaturation is the HSL saturation (percent) above which a color
	// is also considered a vibrant accent.
	VibrantSaturation = 60

	// SuggestionsPerCategory caps each category in the suggestion output.
	SuggestionsPerCategory = 2
)

// categorySet collects deduplicated candidates per category.
type categorySet struct {
	threshold float64
	accepted  CategoryBuckets
}

// offer appends c to category cat unless it lies within the duplicate
// threshold of a color already accepted there.
func (s *categorySet) offer(cat Category, c ClassifiedColor) bool {
	for _, prev := range s.accepted[cat] {
		if DeltaE(c.RGB, prev.RGB) < s.threshold {
			return false
		}
	}
	c.Category = cat
	s.accepted[cat] = append(s.accepted[cat], c)
	return true
}

func classifyColor(q QuantizedColor) ClassifiedColor {
	hsl := q.HSL()
	return ClassifiedColor{
		QuantizedColor: q,
		HSL:            hsl,
		Name:           Name(hsl),
		Category:       brightnessCategory(q.Brightness()),
	}
}

// Categorize buckets clusters by brightness tier and, independently, by
// vibrancy. Within each category candidates are deduplicated in input order,
// then ranked by weight and cut to ceil(colorCount/3).
func Categorize(clusters []QuantizedColor, colorCount int, threshold float64) CategoryBuckets {
	set := categorySet{threshold: threshold}
	for _, q := range clusters {
		c := classifyColor(q)
		if c.HSL.S > VibrantSaturation {
			set.offer(Vibrant, c)
		}
		set.offer(c.Category, c)
	}

	limit := (colorCount + 2) / 3
	for cat := range set.accepted {
		list := set.accepted[cat]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Weight > list[j].Weight
		})
		if len(list) > limit {
			list = list[:limit]
		}
		set.accepted[cat] = list
	}
	return set.accepted
}

// Select merges the categories into the final palette: vibrant first, then
// dark, medium and light, truncated to colorCount and ordered from darkest
// to lightest. A color accepted by two categories may appear twice.
func Select(categories CategoryBuckets, colorCount int) []ClassifiedColor {
	out := make([]ClassifiedColor, 0, colorCount)
	for _, cat := range SelectionOrder {
		for _, c := range categories[cat] {
			if len(out) == colorCount {
				break
			}
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Brightness() < out[j].Brightness()
	})
	return out
}

// suggest keeps the first SuggestionsPerCategory colors of every category.
func suggest(categories CategoryBuckets) CategoryBuckets {
	var s CategoryBuckets
	for cat, list := range categories {
		n := min(len(list), SuggestionsPerCategory)
		s[cat] = append([]ClassifiedColor(nil), list[:n]...)
	}
	return s
}
