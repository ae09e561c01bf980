package segment

// PageEstimator yields the page number for each non-empty paragraph in
// stream order. Implementations are per-document state; callers must treat
// the numbers as approximate.
type PageEstimator interface {
	// Page advances the estimator by one paragraph and returns the page
	// that paragraph falls on. explicitBreak marks a paragraph carrying a
	// hard page break.
	Page(explicitBreak bool) int
}

// DefaultParagraphsPerPage is the paragraph-count heuristic used when no
// layout information is available.
const DefaultParagraphsPerPage = 30

// paragraphCounter estimates pages from paragraph position: an explicit
// break always starts a new page; otherwise every perPage paragraphs do.
type paragraphCounter struct {
	page    int
	count   int
	perPage int
}

// NewParagraphCounter returns a fresh estimator starting at page 1.
func NewParagraphCounter(perPage int) PageEstimator {
	if perPage <= 0 {
		perPage = DefaultParagraphsPerPage
	}
	return &paragraphCounter{page: 1, perPage: perPage}
}

func (t *paragraphCounter) Page(explicitBreak bool) int {
	if explicitBreak {
		t.page++
		t.count = 0
	}
	t.count++
	if t.count >= t.perPage {
		t.page++
		t.count = 0
	}
	return t.page
}
