// Package document is the neutral model the segmentation engine consumes:
// an ordered paragraph stream with run-level color and style attributes.
package document

import (
	"strings"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/colormap"
)

// Document is a parsed rich-text document in reading order.
type Document struct {
	Title      string
	Paragraphs []Paragraph
}

// Paragraph carries the attributes the section assembler inspects.
type Paragraph struct {
	Runs      []Run
	StyleName string               // paragraph style, e.g. "Heading1" ("" if none)
	Shading   colormap.ColorSource // paragraph-level fill (zero if none)
	PageBreak bool                 // paragraph contains an explicit page break
}

// Run is a span of text with uniform formatting.
type Run struct {
	Text   string
	Color  colormap.ColorSource // highlight/shading/font color (zero if none)
	Bold   bool
	SizePt float64 // font size in points, 0 when unspecified
}

// Text returns the paragraph's concatenated run text, trimmed.
func (p Paragraph) Text() string {
	var buf strings.Builder
	for _, r := range p.Runs {
		buf.WriteString(r.Text)
	}
	return strings.TrimSpace(buf.String())
}
