package segment

import "testing"

func TestParagraphCounter_AdvancesEveryPerPage(t *testing.T) {
	pages := NewParagraphCounter(3)

	want := []int{1, 1, 2, 2, 2, 3}
	for i, w := range want {
		if got := pages.Page(false); got != w {
			t.Errorf("paragraph %d: expected page %d, got %d", i, w, got)
		}
	}
}

func TestParagraphCounter_ExplicitBreakStartsNewPage(t *testing.T) {
	pages := NewParagraphCounter(30)

	if got := pages.Page(false); got != 1 {
		t.Fatalf("expected page 1, got %d", got)
	}
	if got := pages.Page(true); got != 2 {
		t.Errorf("expected explicit break to land on page 2, got %d", got)
	}
	if got := pages.Page(false); got != 2 {
		t.Errorf("expected page 2 after break, got %d", got)
	}
}

func TestParagraphCounter_BreakResetsCount(t *testing.T) {
	pages := NewParagraphCounter(3)

	pages.Page(false) // 1
	pages.Page(false) // 1
	pages.Page(true)  // break -> 2, count restarts
	if got := pages.Page(false); got != 2 {
		t.Errorf("expected count reset after break, got page %d", got)
	}
	if got := pages.Page(false); got != 3 {
		t.Errorf("expected page 3 when restarted count fills, got %d", got)
	}
}

func TestParagraphCounter_InvalidPerPageFallsBack(t *testing.T) {
	pages := NewParagraphCounter(0)
	for i := range DefaultParagraphsPerPage - 1 {
		if got := pages.Page(false); got != 1 {
			t.Fatalf("paragraph %d: expected page 1, got %d", i, got)
		}
	}
	if got := pages.Page(false); got != 2 {
		t.Errorf("expected page 2 at default threshold, got %d", got)
	}
}
