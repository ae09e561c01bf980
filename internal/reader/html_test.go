package reader

import (
	"strings"
	"testing"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/colormap"
)

func parseHTML(t *testing.T, body string) []paragraphView {
	t.Helper()
	doc, err := (&HTMLReader{}).Parse(strings.NewReader(body), "bericht.html")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	views := make([]paragraphView, 0, len(doc.Paragraphs))
	for _, p := range doc.Paragraphs {
		views = append(views, paragraphView{p.Text(), p.StyleName, p.PageBreak})
	}
	return views
}

type paragraphView struct {
	text      string
	style     string
	pageBreak bool
}

func TestHTMLReader_TitleFromTitleTag(t *testing.T) {
	doc, err := (&HTMLReader{}).Parse(strings.NewReader(
		`<html><head><title>Prüfbericht 2024</title></head><body><p>Text.</p></body></html>`,
	), "datei.html")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Prüfbericht 2024" {
		t.Errorf("expected title from tag, got %q", doc.Title)
	}
}

func TestHTMLReader_TitleFallsBackToFilename(t *testing.T) {
	doc, err := (&HTMLReader{}).Parse(strings.NewReader(`<p>Nur Text.</p>`), "bericht.html")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "bericht" {
		t.Errorf("expected filename-derived title, got %q", doc.Title)
	}
}

func TestHTMLReader_HeadingsBecomeStyledParagraphs(t *testing.T) {
	paras := parseHTML(t, `<body><h1>Einleitung</h1><p>Der erste Absatz.</p><h3>Unterkapitel</h3></body>`)
	if len(paras) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(paras))
	}
	if paras[0].style != "Heading1" || paras[0].text != "Einleitung" {
		t.Errorf("unexpected first paragraph: %+v", paras[0])
	}
	if paras[2].style != "Heading3" {
		t.Errorf("expected Heading3, got %q", paras[2].style)
	}
}

func TestHTMLReader_BackgroundColorOnSpan(t *testing.T) {
	doc, err := (&HTMLReader{}).Parse(strings.NewReader(
		`<body><p><span style="background-color: #00FF00">Feststellung im grünen Bereich.</span></p></body>`,
	), "x.html")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Paragraphs) != 1 || len(doc.Paragraphs[0].Runs) != 1 {
		t.Fatalf("expected 1 paragraph with 1 run, got %+v", doc.Paragraphs)
	}
	rgb, ok := doc.Paragraphs[0].Runs[0].Color.RGB()
	if !ok || rgb != (colormap.RGB{R: 0, G: 255, B: 0}) {
		t.Errorf("expected green run, got %v (ok=%v)", rgb, ok)
	}
}

func TestHTMLReader_ColorNotations(t *testing.T) {
	doc, err := (&HTMLReader{}).Parse(strings.NewReader(
		`<body>
			<p><span style="background: rgb(255, 255, 0)">Gelb als rgb.</span></p>
			<p><span style="background-color: cyan">Cyan als Name.</span></p>
		</body>`,
	), "x.html")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(doc.Paragraphs))
	}
	rgb, ok := doc.Paragraphs[0].Runs[0].Color.RGB()
	if !ok || rgb != (colormap.RGB{R: 255, G: 255, B: 0}) {
		t.Errorf("expected yellow from rgb(), got %v", rgb)
	}
	rgb, ok = doc.Paragraphs[1].Runs[0].Color.RGB()
	if !ok || rgb != (colormap.RGB{R: 0, G: 255, B: 255}) {
		t.Errorf("expected cyan from name, got %v", rgb)
	}
}

func TestHTMLReader_ColorInheritedByNestedText(t *testing.T) {
	doc, err := (&HTMLReader{}).Parse(strings.NewReader(
		`<body><p style="background-color:#FFFF00">Äusserer Text <em>innen kursiv</em> weiter.</p></body>`,
	), "x.html")
	if err != nil {
		t.Fatal(err)
	}
	runs := doc.Paragraphs[0].Runs
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i, r := range runs {
		rgb, ok := r.Color.RGB()
		if !ok || rgb != (colormap.RGB{R: 255, G: 255, B: 0}) {
			t.Errorf("run %d: expected inherited yellow, got %v", i, rgb)
		}
	}
}

func TestHTMLReader_BoldDetection(t *testing.T) {
	doc, err := (&HTMLReader{}).Parse(strings.NewReader(
		`<body><p><b>Fett per Tag.</b><span style="font-weight: bold"> Fett per Stil.</span> Normal.</p></body>`,
	), "x.html")
	if err != nil {
		t.Fatal(err)
	}
	runs := doc.Paragraphs[0].Runs
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if !runs[0].Bold || !runs[1].Bold {
		t.Error("expected first two runs bold")
	}
	if runs[2].Bold {
		t.Error("expected plain run not bold")
	}
}

func TestHTMLReader_FontSizeConversion(t *testing.T) {
	doc, err := (&HTMLReader{}).Parse(strings.NewReader(
		`<body><p><span style="font-size: 14pt">Punkte.</span><span style="font-size: 16px"> Pixel.</span></p></body>`,
	), "x.html")
	if err != nil {
		t.Fatal(err)
	}
	runs := doc.Paragraphs[0].Runs
	if runs[0].SizePt != 14 {
		t.Errorf("expected 14pt, got %f", runs[0].SizePt)
	}
	if runs[1].SizePt != 12 {
		t.Errorf("expected 16px = 12pt, got %f", runs[1].SizePt)
	}
}

func TestHTMLReader_PageBreaks(t *testing.T) {
	paras := parseHTML(t, `<body>
		<p>Seite eins.</p>
		<hr class="page-break">
		<p style="page-break-before: always">Seite zwei.</p>
	</body>`)
	if len(paras) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(paras))
	}
	if !paras[1].pageBreak {
		t.Error("expected hr to produce a page-break paragraph")
	}
	if !paras[2].pageBreak {
		t.Error("expected page-break-before style to mark paragraph")
	}
}

func TestHTMLReader_SkipsScriptAndNav(t *testing.T) {
	paras := parseHTML(t, `<body>
		<nav><p>Navigation.</p></nav>
		<script>var x = 1;</script>
		<p>Inhalt.</p>
	</body>`)
	if len(paras) != 1 || paras[0].text != "Inhalt." {
		t.Errorf("expected only content paragraph, got %+v", paras)
	}
}

func TestHTMLReader_ContainerDivsDescend(t *testing.T) {
	paras := parseHTML(t, `<body><div><div><p>Verschachtelt.</p></div><div>Blattknoten.</div></div></body>`)
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %+v", len(paras), paras)
	}
	if paras[0].text != "Verschachtelt." || paras[1].text != "Blattknoten." {
		t.Errorf("unexpected paragraphs: %+v", paras)
	}
}

func TestForFile_Dispatch(t *testing.T) {
	if _, err := ForFile("bericht.docx"); err != nil {
		t.Errorf("expected docx to be supported: %v", err)
	}
	if _, err := ForFile("Bericht.HTML"); err != nil {
		t.Errorf("expected case-insensitive html: %v", err)
	}
	if _, err := ForFile("notizen.txt"); err == nil {
		t.Error("expected txt to be rejected")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	for name, want := range map[string]bool{
		"a.docx": true,
		"a.htm":  true,
		"a.pdf":  false,
		"a":      false,
	} {
		if got := IsSupportedExtension(name); got != want {
			t.Errorf("%s: expected %v, got %v", name, want, got)
		}
	}
}
