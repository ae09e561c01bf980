package colormap

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultTolerance is the Euclidean distance within which an observed color
// still matches a canonical label color.
const DefaultTolerance = 10.0

// LabelColor binds one canonical color to a semantic label. Several colors
// may map to the same label (e.g. the gray variants of "appendix").
type LabelColor struct {
	Label string
	Color RGB
}

// Mapping is the ordered label table shared by all documents in a session.
// Order matters: ties in color distance resolve to the earliest entry.
type Mapping struct {
	Tolerance float64
	Colors    []LabelColor
}

// Default returns the built-in audit-document table.
func Default() Mapping {
	return Mapping{
		Tolerance: DefaultTolerance,
		Colors: []LabelColor{
			{Label: "findings", Color: RGB{0, 255, 0}},
			{Label: "appendix", Color: RGB{128, 128, 128}},
			{Label: "appendix", Color: RGB{192, 192, 192}},
			{Label: "appendix", Color: RGB{105, 105, 105}},
			{Label: "wik", Color: RGB{0, 255, 255}},
			{Label: "introduction", Color: RGB{255, 255, 0}},
			{Label: "evaluation", Color: RGB{0, 0, 255}},
			{Label: "response", Color: RGB{255, 0, 255}},
			{Label: "recommendations", Color: RGB{255, 165, 0}},
			{Label: "recommendations", Color: RGB{255, 215, 0}},
			{Label: "recommendations", Color: RGB{255, 140, 0}},
		},
	}
}

type mappingFile struct {
	Tolerance *float64 `json:"tolerance"`
	Colors    []struct {
		Label string `json:"label"`
		Hex   string `json:"hex"`
	} `json:"colors"`
}

// Load reads a label table from a JSON config file. Entries keep file order.
func Load(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("read color config: %w", err)
	}
	var f mappingFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Mapping{}, fmt.Errorf("parse color config: %w", err)
	}
	m := Mapping{Tolerance: DefaultTolerance}
	if f.Tolerance != nil {
		m.Tolerance = *f.Tolerance
	}
	for _, c := range f.Colors {
		src, ok := FromHex(c.Hex)
		if !ok {
			return Mapping{}, fmt.Errorf("color config: invalid hex %q for label %q", c.Hex, c.Label)
		}
		rgb, _ := src.RGB()
		if c.Label == "" {
			return Mapping{}, fmt.Errorf("color config: empty label for color %s", c.Hex)
		}
		m.Colors = append(m.Colors, LabelColor{Label: c.Label, Color: rgb})
	}
	if len(m.Colors) == 0 {
		return Mapping{}, fmt.Errorf("color config: no colors defined")
	}
	return m, nil
}
