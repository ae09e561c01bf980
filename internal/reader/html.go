package reader

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/colormap"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/document"
	"golang.org/x/net/html"
)

// HTMLReader handles reconstructed colored HTML documents: highlight colors
// arrive as inline background-color styles on spans, titles as heading tags
// or bold/font-size styling.
type HTMLReader struct{}

func (p *HTMLReader) Parse(r io.Reader, filename string) (*document.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	out := &document.Document{
		Title: strings.TrimSuffix(strings.TrimSuffix(filename, ".html"), ".htm"),
	}
	if title := findTitle(doc); title != "" {
		out.Title = title
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6":
				para := paragraphFromNode(n)
				para.StyleName = "Heading" + n.Data[1:]
				out.Paragraphs = append(out.Paragraphs, para)
				return
			case "p", "li", "td", "blockquote", "div":
				if n.Data == "div" && !isLeafBlock(n) {
					break // keep descending into container divs
				}
				para := paragraphFromNode(n)
				if styleHasPageBreak(attr(n, "style")) || strings.Contains(attr(n, "class"), "page-break") {
					para.PageBreak = true
				}
				out.Paragraphs = append(out.Paragraphs, para)
				return
			case "hr":
				if strings.Contains(attr(n, "class"), "page-break") || styleHasPageBreak(attr(n, "style")) {
					out.Paragraphs = append(out.Paragraphs, document.Paragraph{PageBreak: true})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return out, nil
}

// inlineStyle is the formatting context inherited while descending into a
// block element's children.
type inlineStyle struct {
	color  colormap.ColorSource
	bold   bool
	sizePt float64
}

func paragraphFromNode(n *html.Node) document.Paragraph {
	para := document.Paragraph{}
	if c, ok := backgroundColor(attr(n, "style")); ok {
		para.Shading = c
	}
	collectRuns(n, applyNodeStyle(n, inlineStyle{}), &para.Runs)
	return para
}

func collectRuns(n *html.Node, st inlineStyle, runs *[]document.Run) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			text := c.Data
			if strings.TrimSpace(text) == "" {
				continue
			}
			*runs = append(*runs, document.Run{
				Text:   text,
				Color:  st.color,
				Bold:   st.bold,
				SizePt: st.sizePt,
			})
		case html.ElementNode:
			collectRuns(c, applyNodeStyle(c, st), runs)
		}
	}
}

func applyNodeStyle(n *html.Node, st inlineStyle) inlineStyle {
	if n.Type != html.ElementNode {
		return st
	}
	if n.Data == "b" || n.Data == "strong" {
		st.bold = true
	}
	style := attr(n, "style")
	if c, ok := backgroundColor(style); ok {
		st.color = c
	}
	if pt, ok := fontSizePt(style); ok {
		st.sizePt = pt
	}
	if strings.Contains(styleValue(style, "font-weight"), "bold") {
		st.bold = true
	}
	return st
}

// backgroundColor extracts a highlight color from an inline style.
func backgroundColor(style string) (colormap.ColorSource, bool) {
	v := styleValue(style, "background-color")
	if v == "" {
		v = styleValue(style, "background")
	}
	if v == "" {
		return colormap.ColorSource{}, false
	}
	if c, ok := colormap.FromHex(v); ok {
		return c, true
	}
	if c, ok := parseRGBFunc(v); ok {
		return c, true
	}
	// Named colors double as highlight names ("yellow", "cyan", ...).
	c := colormap.FromHighlightName(v)
	if _, ok := c.RGB(); ok {
		return c, true
	}
	return colormap.ColorSource{}, false
}

// parseRGBFunc handles "rgb(r, g, b)" notation.
func parseRGBFunc(v string) (colormap.ColorSource, bool) {
	v = strings.TrimSpace(strings.ToLower(v))
	if !strings.HasPrefix(v, "rgb(") || !strings.HasSuffix(v, ")") {
		return colormap.ColorSource{}, false
	}
	parts := strings.Split(v[4:len(v)-1], ",")
	if len(parts) != 3 {
		return colormap.ColorSource{}, false
	}
	var ch [3]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return colormap.ColorSource{}, false
		}
		ch[i] = uint8(n)
	}
	return colormap.FromRGB(ch[0], ch[1], ch[2]), true
}

func fontSizePt(style string) (float64, bool) {
	v := strings.ToLower(styleValue(style, "font-size"))
	switch {
	case strings.HasSuffix(v, "pt"):
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "pt"), 64); err == nil {
			return f, true
		}
	case strings.HasSuffix(v, "px"):
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64); err == nil {
			return f * 0.75, true
		}
	}
	return 0, false
}

func styleHasPageBreak(style string) bool {
	return styleValue(style, "page-break-before") != "" ||
		styleValue(style, "page-break-after") != "" ||
		styleValue(style, "break-before") != ""
}

// styleValue extracts one declaration's value from an inline style string.
func styleValue(style, prop string) string {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), prop) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// isLeafBlock reports whether a div contains no nested block elements and
// can therefore be treated as a paragraph itself.
func isLeafBlock(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "p", "div", "li", "td", "blockquote", "table", "ul", "ol",
				"h1", "h2", "h3", "h4", "h5", "h6":
				return false
			}
		}
	}
	return true
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}
