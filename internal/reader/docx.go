package reader

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/colormap"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/document"
	"github.com/fumiama/go-docx"
)

// DOCXReader handles .docx files. It maps run highlights, run and paragraph
// shading fills, font colors, bold flags, sizes, paragraph styles and
// explicit page breaks into the neutral document model.
type DOCXReader struct{}

func (p *DOCXReader) Parse(r io.Reader, filename string) (*document.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "metasynth-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	out := &document.Document{
		Title: strings.TrimSuffix(filename, ".docx"),
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		out.Paragraphs = append(out.Paragraphs, convertParagraph(para))
	}

	return out, nil
}

func convertParagraph(para *docx.Paragraph) document.Paragraph {
	p := document.Paragraph{}

	if para.Properties != nil {
		if para.Properties.Style != nil {
			p.StyleName = para.Properties.Style.Val
		}
		if para.Properties.Shade != nil {
			p.Shading = shadeColor(para.Properties.Shade)
		}
	}

	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		r := document.Run{}
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				r.Text += t.Text
			case *docx.BarterRabbet:
				// go-docx's name for <w:br/>.
				if strings.EqualFold(t.Type, "page") {
					p.PageBreak = true
				}
			}
		}
		if rp := run.RunProperties; rp != nil {
			r.Bold = rp.Bold != nil
			if rp.Size != nil {
				if v, err := strconv.ParseFloat(fmt.Sprint(rp.Size.Val), 64); err == nil {
					r.SizePt = v / 2 // w:sz is half-points
				}
			}
			r.Color = runColor(rp)
		}
		p.Runs = append(p.Runs, r)
	}

	return p
}

// runColor picks the run's observable color: highlight first, then run
// shading fill, then font color.
func runColor(rp *docx.RunProperties) colormap.ColorSource {
	if rp.Highlight != nil && rp.Highlight.Val != "" && rp.Highlight.Val != "none" {
		return colormap.FromHighlightName(rp.Highlight.Val)
	}
	if rp.Shade != nil {
		if c := shadeColor(rp.Shade); !c.IsZero() {
			return c
		}
	}
	if rp.Color != nil && rp.Color.Val != "" && !strings.EqualFold(rp.Color.Val, "auto") {
		if c, ok := colormap.FromHex(rp.Color.Val); ok {
			return c
		}
	}
	return colormap.ColorSource{}
}

func shadeColor(sh *docx.Shade) colormap.ColorSource {
	if sh.Fill == "" || strings.EqualFold(sh.Fill, "auto") {
		return colormap.ColorSource{}
	}
	if c, ok := colormap.FromHex(sh.Fill); ok {
		return c
	}
	return colormap.ColorSource{}
}
