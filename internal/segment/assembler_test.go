package segment

import (
	"strings"
	"testing"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/colormap"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/document"
)

func coloredPara(text string, r, g, b uint8) document.Paragraph {
	return document.Paragraph{
		Runs: []document.Run{{Text: text, Color: colormap.FromRGB(r, g, b)}},
	}
}

func plainPara(text string) document.Paragraph {
	return document.Paragraph{Runs: []document.Run{{Text: text}}}
}

func assemble(t *testing.T, paras []document.Paragraph, cfg Config) []Section {
	t.Helper()
	cls := colormap.NewClassifier(colormap.Default())
	pages := NewParagraphCounter(cfg.ParagraphsPerPage)
	return Assemble(&document.Document{Paragraphs: paras}, cls, pages, cfg)
}

func TestAssemble_ContiguousSameLabelMergesIntoOneSection(t *testing.T) {
	paras := []document.Paragraph{
		coloredPara("Erste Feststellung.", 0, 255, 0),
		coloredPara("Zweite Feststellung.", 0, 255, 0),
		coloredPara("Dritte Feststellung.", 0, 255, 0),
		coloredPara("Vierte Feststellung.", 0, 255, 0),
		coloredPara("Einleitung beginnt hier.", 255, 255, 0),
	}

	sections := assemble(t, paras, DefaultConfig())
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Label != "findings" {
		t.Errorf("expected first section findings, got %q", sections[0].Label)
	}
	if got := strings.Count(sections[0].Text, "\n"); got != 3 {
		t.Errorf("expected 4 joined paragraphs (3 newlines), got %d", got)
	}
	if sections[1].Label != "introduction" {
		t.Errorf("expected second section introduction, got %q", sections[1].Label)
	}
}

func TestAssemble_LabelChangeClosesSection(t *testing.T) {
	paras := []document.Paragraph{
		coloredPara("Findings text.", 0, 255, 0),
		coloredPara("Evaluation text.", 0, 0, 255),
		coloredPara("More findings.", 0, 255, 0),
	}

	sections := assemble(t, paras, DefaultConfig())
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	wantLabels := []string{"findings", "evaluation", "findings"}
	for i, w := range wantLabels {
		if sections[i].Label != w {
			t.Errorf("section %d: expected %q, got %q", i, w, sections[i].Label)
		}
	}
}

func TestAssemble_UnlabeledContinuesOpenSection(t *testing.T) {
	paras := []document.Paragraph{
		coloredPara("Labeled start.", 0, 255, 0),
		plainPara("Unlabeled continuation."),
	}

	sections := assemble(t, paras, DefaultConfig())
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	want := "Labeled start.\nUnlabeled continuation."
	if sections[0].Text != want {
		t.Errorf("expected %q, got %q", want, sections[0].Text)
	}
}

func TestAssemble_LeadingUnlabeledDiscarded(t *testing.T) {
	paras := []document.Paragraph{
		plainPara("Kopfzeile ohne Farbe."),
		plainPara("Noch eine."),
		coloredPara("Findings start.", 0, 255, 0),
	}

	sections := assemble(t, paras, DefaultConfig())
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if strings.Contains(sections[0].Text, "Kopfzeile") {
		t.Errorf("leading unlabeled text leaked into section: %q", sections[0].Text)
	}
}

func TestAssemble_TitlePrependedWithinSection(t *testing.T) {
	title := document.Paragraph{
		Runs: []document.Run{{Text: "Feststellungen", Color: colormap.FromRGB(0, 255, 0), Bold: true}},
	}
	paras := []document.Paragraph{
		coloredPara("Der Text der Feststellung.", 0, 255, 0),
		title,
	}

	sections := assemble(t, paras, DefaultConfig())
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	want := "Feststellungen\nDer Text der Feststellung."
	if sections[0].Text != want {
		t.Errorf("expected title prepended: %q, got %q", want, sections[0].Text)
	}
}

func TestAssemble_TitleOpeningSectionStaysFirst(t *testing.T) {
	title := document.Paragraph{
		Runs: []document.Run{{Text: "Empfehlungen", Color: colormap.FromRGB(255, 165, 0), Bold: true}},
	}
	paras := []document.Paragraph{
		title,
		coloredPara("Empfehlung eins.", 255, 165, 0),
	}

	sections := assemble(t, paras, DefaultConfig())
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if !strings.HasPrefix(sections[0].Text, "Empfehlungen\n") {
		t.Errorf("expected title first, got %q", sections[0].Text)
	}
}

func TestAssemble_EmptyParagraphsSkipped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParagraphsPerPage = 2

	paras := []document.Paragraph{
		coloredPara("Eins.", 0, 255, 0),
		{Runs: []document.Run{{Text: "   "}}},
		{},
		coloredPara("Zwei.", 0, 255, 0),
	}

	sections := assemble(t, paras, cfg)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	// Empty paragraphs consume no page-estimator positions: the second
	// non-empty paragraph fills page 1 and lands on page 2.
	if sections[0].StartPage != 1 || sections[0].EndPage != 2 {
		t.Errorf("expected pages 1-2, got %d-%d", sections[0].StartPage, sections[0].EndPage)
	}
}

func TestAssemble_ContinuationAdvancesEndPage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParagraphsPerPage = 2

	paras := []document.Paragraph{
		coloredPara("Start.", 0, 255, 0),
		plainPara("Fortsetzung auf Folgeseite."),
		plainPara("Weiterer Text."),
	}

	sections := assemble(t, paras, cfg)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].StartPage != 1 {
		t.Errorf("expected start page 1, got %d", sections[0].StartPage)
	}
	if sections[0].EndPage != 2 {
		t.Errorf("expected continuation to advance end page to 2, got %d", sections[0].EndPage)
	}
}

func TestAssemble_ShadingFallbackWhenRunsUncolored(t *testing.T) {
	shaded := document.Paragraph{
		Runs:    []document.Run{{Text: "Schattierter Absatz."}},
		Shading: colormap.FromRGB(0, 255, 255),
	}

	sections := assemble(t, []document.Paragraph{shaded}, DefaultConfig())
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Label != "wik" {
		t.Errorf("expected shading to classify as wik, got %q", sections[0].Label)
	}
}

func TestAssemble_FirstColoredRunWins(t *testing.T) {
	mixed := document.Paragraph{
		Runs: []document.Run{
			{Text: "Grüner Anfang. ", Color: colormap.FromRGB(0, 255, 0)},
			{Text: "Gelber Rest.", Color: colormap.FromRGB(255, 255, 0)},
		},
	}

	sections := assemble(t, []document.Paragraph{mixed}, DefaultConfig())
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Label != "findings" {
		t.Errorf("expected first colored run to decide, got %q", sections[0].Label)
	}
}

func TestAssemble_ConfidenceComesFromOpeningParagraph(t *testing.T) {
	paras := []document.Paragraph{
		coloredPara("Exakt grün.", 0, 255, 0),
		coloredPara("Fast grün.", 3, 252, 2),
	}

	sections := assemble(t, paras, DefaultConfig())
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Confidence != 1.0 {
		t.Errorf("expected opening confidence 1.0, got %f", sections[0].Confidence)
	}
}

func TestIsTitle(t *testing.T) {
	cases := []struct {
		name string
		para document.Paragraph
		want bool
	}{
		{
			name: "all bold",
			para: document.Paragraph{Runs: []document.Run{
				{Text: "Titel", Bold: true},
				{Text: " Zwei", Bold: true},
			}},
			want: true,
		},
		{
			name: "partially bold",
			para: document.Paragraph{Runs: []document.Run{
				{Text: "Titel", Bold: true},
				{Text: " fortgesetzt"},
			}},
			want: false,
		},
		{
			name: "large font",
			para: document.Paragraph{Runs: []document.Run{{Text: "Gross", SizePt: 14}}},
			want: true,
		},
		{
			name: "threshold font not a title",
			para: document.Paragraph{Runs: []document.Run{{Text: "Normal", SizePt: 12}}},
			want: false,
		},
		{
			name: "heading style",
			para: document.Paragraph{Runs: []document.Run{{Text: "x"}}, StyleName: "Heading2"},
			want: true,
		},
		{
			name: "german heading style",
			para: document.Paragraph{Runs: []document.Run{{Text: "x"}}, StyleName: "Überschrift 1"},
			want: true,
		},
		{
			name: "plain text",
			para: document.Paragraph{Runs: []document.Run{{Text: "Fliesstext ohne alles."}}},
			want: false,
		},
	}

	for _, tc := range cases {
		if got := isTitle(tc.para, 12); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
