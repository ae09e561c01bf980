package colormap

import "math"

// Classifier maps observed colors to semantic labels. It is stateless and
// safe for concurrent use; the mapping is read-only after construction.
type Classifier struct {
	mapping Mapping
}

func NewClassifier(m Mapping) *Classifier {
	if m.Tolerance <= 0 {
		m.Tolerance = DefaultTolerance
	}
	return &Classifier{mapping: m}
}

// Classify returns the label whose canonical color is nearest to the
// observation, with confidence 1 - distance/255, or ("", 0) when no
// canonical color lies within the tolerance. A color that cannot be
// normalized to RGB classifies as no label.
func (c *Classifier) Classify(src ColorSource) (string, float64) {
	rgb, ok := src.RGB()
	if !ok {
		return "", 0
	}
	return c.ClassifyRGB(rgb)
}

// ClassifyRGB is Classify for an already-normalized color.
func (c *Classifier) ClassifyRGB(rgb RGB) (string, float64) {
	bestLabel := ""
	bestDist := math.Inf(1)
	for _, lc := range c.mapping.Colors {
		d := distance(rgb, lc.Color)
		if d <= c.mapping.Tolerance && d < bestDist {
			bestDist = d
			bestLabel = lc.Label
		}
	}
	if bestLabel == "" {
		return "", 0
	}
	return bestLabel, 1 - bestDist/255
}

func distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
