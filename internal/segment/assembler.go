package segment

import (
	"strings"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/colormap"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/document"
)

// Section is a maximal run of contiguous same-labeled paragraphs. Closed
// sections are never mutated again.
type Section struct {
	Label      string       `json:"label"`
	Text       string       `json:"text"`
	StartPage  int          `json:"start_page"`
	EndPage    int          `json:"end_page"`
	Confidence float64      `json:"confidence"`
	Color      colormap.RGB `json:"-"`
}

// Config controls section assembly.
type Config struct {
	TitleFontThresholdPt float64 // font size above which a paragraph reads as a title
	ParagraphsPerPage    int     // page estimation heuristic
	MinSectionChars      int     // validator threshold
}

// DefaultConfig returns the assembly defaults.
func DefaultConfig() Config {
	return Config{
		TitleFontThresholdPt: 12,
		ParagraphsPerPage:    DefaultParagraphsPerPage,
		MinSectionChars:      10,
	}
}

// accumulator is the fold state: the section currently being grown plus the
// closed sections so far.
type accumulator struct {
	open     *Section
	sections []Section
}

// Assemble walks the paragraph stream in order and groups contiguous
// same-label content into sections. Classification is strictly local to
// each paragraph; there is no smoothing across paragraphs, so an isolated
// misclassified paragraph fragments its section.
func Assemble(doc *document.Document, cls *colormap.Classifier, pages PageEstimator, cfg Config) []Section {
	if cfg.TitleFontThresholdPt <= 0 {
		cfg.TitleFontThresholdPt = 12
	}

	acc := accumulator{}
	for _, para := range doc.Paragraphs {
		text := para.Text()
		if text == "" {
			continue
		}
		page := pages.Page(para.PageBreak)

		label, confidence := "", 0.0
		var rgb colormap.RGB
		if src := dominantColor(para); !src.IsZero() {
			if c, ok := src.RGB(); ok {
				rgb = c
				label, confidence = cls.ClassifyRGB(c)
			}
		}

		acc = step(acc, paragraphInfo{
			text:       text,
			page:       page,
			label:      label,
			confidence: confidence,
			color:      rgb,
			isTitle:    isTitle(para, cfg.TitleFontThresholdPt),
		})
	}

	if acc.open != nil {
		acc.sections = append(acc.sections, *acc.open)
	}
	return acc.sections
}

type paragraphInfo struct {
	text       string
	page       int
	label      string
	confidence float64
	color      colormap.RGB
	isTitle    bool
}

// step folds one classified paragraph into the accumulator.
func step(acc accumulator, p paragraphInfo) accumulator {
	if p.label == "" {
		// Unlabeled text continues the open section; leading unlabeled
		// text has no section to join and is discarded.
		if acc.open != nil {
			acc.open.Text += "\n" + p.text
			if p.page > acc.open.EndPage {
				acc.open.EndPage = p.page
			}
		}
		return acc
	}

	if acc.open != nil && acc.open.Label == p.label {
		if p.isTitle && acc.open.Text != "" {
			// Titles read better first even when encountered mid-stream.
			acc.open.Text = p.text + "\n" + acc.open.Text
		} else {
			acc.open.Text += "\n" + p.text
		}
		if p.page > acc.open.EndPage {
			acc.open.EndPage = p.page
		}
		return acc
	}

	if acc.open != nil {
		acc.sections = append(acc.sections, *acc.open)
	}
	acc.open = &Section{
		Label:      p.label,
		Text:       p.text,
		StartPage:  p.page,
		EndPage:    p.page,
		Confidence: p.confidence,
		Color:      p.color,
	}
	return acc
}

// dominantColor picks the paragraph's color observation: the first colored
// non-empty run wins, paragraph-level shading is the fallback.
func dominantColor(para document.Paragraph) colormap.ColorSource {
	for _, run := range para.Runs {
		if strings.TrimSpace(run.Text) == "" {
			continue
		}
		if !run.Color.IsZero() {
			return run.Color
		}
	}
	return para.Shading
}

// isTitle reports whether a paragraph is likely a section title: all
// non-empty runs bold, or average font size above the threshold, or a
// heading paragraph style.
func isTitle(para document.Paragraph, fontThresholdPt float64) bool {
	allBold := false
	for _, run := range para.Runs {
		if strings.TrimSpace(run.Text) == "" {
			continue
		}
		if !run.Bold {
			allBold = false
			break
		}
		allBold = true
	}
	if allBold {
		return true
	}

	var sum float64
	var sized int
	for _, run := range para.Runs {
		if run.SizePt > 0 {
			sum += run.SizePt
			sized++
		}
	}
	if sized > 0 && sum/float64(sized) > fontThresholdPt {
		return true
	}

	style := strings.ToLower(para.StyleName)
	return strings.Contains(style, "heading") || strings.Contains(style, "überschrift")
}
