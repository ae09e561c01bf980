package colormap

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is a 24-bit color observed on a run or paragraph.
type RGB struct {
	R, G, B uint8
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

type sourceKind int

const (
	kindNone sourceKind = iota
	kindRGB
	kindHighlightName
	kindHighlightIndex
)

// ColorSource is a color observation before normalization: either an RGB
// triple or an enumerated Word highlight (by name or numeric index).
type ColorSource struct {
	kind  sourceKind
	rgb   RGB
	name  string
	index int
}

// FromRGB builds a ColorSource from explicit channel values.
func FromRGB(r, g, b uint8) ColorSource {
	return ColorSource{kind: kindRGB, rgb: RGB{r, g, b}}
}

// FromHex parses "#RRGGBB" or "RRGGBB". Malformed input yields a zero
// ColorSource and false; it is never an error condition.
func FromHex(s string) (ColorSource, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return ColorSource{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return ColorSource{}, false
	}
	return FromRGB(uint8(v>>16), uint8(v>>8), uint8(v)), true
}

// FromHighlightName builds a ColorSource from a Word highlight name as it
// appears in w:highlight ("yellow", "green", "darkGray", ...).
func FromHighlightName(name string) ColorSource {
	return ColorSource{kind: kindHighlightName, name: name}
}

// FromHighlightIndex builds a ColorSource from a numeric WD_COLOR_INDEX
// highlight value (1-16).
func FromHighlightIndex(i int) ColorSource {
	return ColorSource{kind: kindHighlightIndex, index: i}
}

// IsZero reports whether no color was observed.
func (c ColorSource) IsZero() bool {
	return c.kind == kindNone
}

// RGB normalizes the observation to an RGB triple. Unknown highlight names
// or indices normalize to nothing, matching the "no color" treatment of
// unparseable input.
func (c ColorSource) RGB() (RGB, bool) {
	switch c.kind {
	case kindRGB:
		return c.rgb, true
	case kindHighlightName:
		rgb, ok := highlightNames[normalizeHighlightName(c.name)]
		return rgb, ok
	case kindHighlightIndex:
		rgb, ok := highlightIndices[c.index]
		return rgb, ok
	}
	return RGB{}, false
}

// highlightNames maps Word highlight names to their rendered colors. Both
// the OOXML ST_HighlightColor names and the legacy WD_COLOR_INDEX spellings
// are accepted.
var highlightNames = map[string]RGB{
	"yellow":      {255, 255, 0},
	"green":       {0, 255, 0},
	"brightgreen": {0, 255, 0},
	"cyan":        {0, 255, 255},
	"turquoise":   {0, 255, 255},
	"magenta":     {255, 0, 255},
	"pink":        {255, 0, 255},
	"blue":        {0, 0, 255},
	"red":         {255, 0, 0},
	"darkblue":    {0, 0, 128},
	"darkcyan":    {0, 128, 128},
	"teal":        {0, 128, 128},
	"darkgreen":   {0, 128, 0},
	"darkmagenta": {128, 0, 128},
	"violet":      {128, 0, 128},
	"darkred":     {128, 0, 0},
	"darkyellow":  {255, 140, 0},
	"darkgray":    {128, 128, 128},
	"gray50":      {128, 128, 128},
	"lightgray":   {192, 192, 192},
	"gray25":      {192, 192, 192},
	"black":       {0, 0, 0},
	"white":       {255, 255, 255},
}

// highlightIndices maps numeric WD_COLOR_INDEX values to rendered colors.
var highlightIndices = map[int]RGB{
	1:  {0, 0, 0},       // black
	2:  {0, 0, 255},     // blue
	3:  {0, 255, 255},   // turquoise
	4:  {0, 255, 0},     // bright green
	5:  {255, 0, 255},   // pink
	6:  {255, 0, 0},     // red
	7:  {255, 255, 0},   // yellow
	8:  {255, 255, 255}, // white
	9:  {0, 0, 128},     // dark blue
	10: {0, 128, 128},   // teal
	11: {0, 128, 0},     // green
	12: {128, 0, 128},   // violet
	13: {128, 0, 0},     // dark red
	14: {255, 140, 0},   // dark yellow
	15: {128, 128, 128}, // gray 50%
	16: {192, 192, 192}, // gray 25%
}

func normalizeHighlightName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, " ", "")
	name = strings.TrimPrefix(name, "wdhighlight")
	return name
}
