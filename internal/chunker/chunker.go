package chunker

import (
	"fmt"
	"strings"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/segment"
)

// Config controls chunking behavior.
type Config struct {
	MaxTokens     int // hard token budget per chunk
	MinTokens     int // greedy packing target for closing a buffer early
	OverlapTokens int // budget for overlap context between adjacent chunks
}

// DefaultConfig returns the chunking defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     500,
		MinTokens:     50,
		OverlapTokens: 50,
	}
}

// Chunk is a token-bounded unit of text derived from exactly one section.
// After overlap linking, a chunk is an immutable value.
type Chunk struct {
	Text           string `json:"text"`
	Label          string `json:"label"`
	DocID          string `json:"doc_id"`
	ChunkID        string `json:"chunk_id"`
	StartPage      int    `json:"start_page"`
	EndPage        int    `json:"end_page"`
	Tokens         int    `json:"tokens"`
	OverlapContext string `json:"overlap_context,omitempty"`
}

// HybridChunker re-splits sections into chunks obeying the token budget
// while preserving label boundaries. Splitting cascades through three
// strategies: paragraph packing, then sentence packing for oversized
// paragraphs, then hard token windows for oversized sentences.
type HybridChunker struct {
	tok   Tokenizer
	split SentenceSplitter
	cfg   Config
}

func NewHybridChunker(tok Tokenizer, split SentenceSplitter, cfg Config) *HybridChunker {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.MinTokens <= 0 {
		cfg.MinTokens = 50
	}
	if cfg.OverlapTokens <= 0 {
		cfg.OverlapTokens = 50
	}
	return &HybridChunker{tok: tok, split: split, cfg: cfg}
}

// WithConfig returns a chunker sharing this one's tokenizer and sentence
// splitter but using cfg's budgets. Used for per-request overrides.
func (h *HybridChunker) WithConfig(cfg Config) *HybridChunker {
	return NewHybridChunker(h.tok, h.split, cfg)
}

// ChunkSections produces the ordered chunk list for one document. Each
// section's text is covered exactly once, in original order.
func (h *HybridChunker) ChunkSections(sections []segment.Section, docID string) []Chunk {
	var chunks []Chunk
	for idx, section := range sections {
		if h.tok.Count(section.Text) <= h.cfg.MaxTokens {
			chunks = append(chunks, h.newChunk(section, docID, idx, 0, section.Text, section.StartPage, section.EndPage))
			continue
		}
		chunks = append(chunks, h.splitSection(section, docID, idx)...)
	}
	return chunks
}

// splitSection splits one oversized section, assigning pages to each piece
// by linear interpolation of character position over the section's span.
func (h *HybridChunker) splitSection(section segment.Section, docID string, sectionIdx int) []Chunk {
	pieces := h.splitText(section.Text)

	chunks := make([]Chunk, 0, len(pieces))
	total := len(section.Text)
	consumed := 0
	for i, piece := range pieces {
		start := h.pageAt(section, consumed, total)
		consumed += len(piece)
		end := h.pageAt(section, consumed, total)
		chunks = append(chunks, h.newChunk(section, docID, sectionIdx, i, piece, start, end))
	}
	return chunks
}

func (h *HybridChunker) newChunk(section segment.Section, docID string, sectionIdx, chunkIdx int, text string, startPage, endPage int) Chunk {
	return Chunk{
		Text:      text,
		Label:     section.Label,
		DocID:     docID,
		ChunkID:   fmt.Sprintf("%s_s%d_c%d", docID, sectionIdx, chunkIdx),
		StartPage: startPage,
		EndPage:   endPage,
		Tokens:    h.tok.Count(text),
	}
}

// pageAt interpolates a page number for a character offset, clamped to the
// section's range. The result inherits the page tracker's estimation error.
func (h *HybridChunker) pageAt(section segment.Section, offset, total int) int {
	if total <= 0 {
		return section.StartPage
	}
	span := section.EndPage - section.StartPage
	page := section.StartPage + int(float64(offset)/float64(total)*float64(span))
	if page < section.StartPage {
		page = section.StartPage
	}
	if page > section.EndPage {
		page = section.EndPage
	}
	return page
}

// splitText is the top of the fallback cascade: greedy packing of blank-line
// paragraphs, delegating anything that cannot fit to the next strategy.
func (h *HybridChunker) splitText(text string) []string {
	var pieces []string
	buf := newPackBuffer(h, "\n\n")

	for _, para := range splitParagraphs(text) {
		if h.tok.Count(para) > h.cfg.MaxTokens {
			pieces = buf.flushInto(pieces)
			pieces = append(pieces, h.splitOversizedParagraph(para)...)
			continue
		}
		pieces = buf.add(pieces, para)
	}
	return buf.finish(pieces)
}

// splitOversizedParagraph packs sentences greedily, delegating oversized
// sentences to hard token-window slicing.
func (h *HybridChunker) splitOversizedParagraph(para string) []string {
	var pieces []string
	buf := newPackBuffer(h, " ")

	for _, sent := range h.split(para) {
		if h.tok.Count(sent) > h.cfg.MaxTokens {
			pieces = buf.flushInto(pieces)
			pieces = append(pieces, h.sliceTokenWindows(sent)...)
			continue
		}
		pieces = buf.add(pieces, sent)
	}
	return buf.finish(pieces)
}

// sliceTokenWindows is the last resort for a single indivisible sentence
// over the budget: consecutive windows of exactly MaxTokens tokens, the
// final window shorter.
func (h *HybridChunker) sliceTokenWindows(text string) []string {
	tokens := h.tok.Encode(text)
	var pieces []string
	for i := 0; i < len(tokens); i += h.cfg.MaxTokens {
		end := min(i+h.cfg.MaxTokens, len(tokens))
		pieces = append(pieces, h.tok.Decode(tokens[i:end]))
	}
	return pieces
}

// packBuffer accumulates units into a piece until the token budget would be
// exceeded. The buffer always flushes rather than dropping text; MinTokens
// only steers the trailing merge, never discards content.
type packBuffer struct {
	h   *HybridChunker
	sep string
	buf string
}

func newPackBuffer(h *HybridChunker, sep string) *packBuffer {
	return &packBuffer{h: h, sep: sep}
}

func (b *packBuffer) add(pieces []string, unit string) []string {
	if b.buf == "" {
		b.buf = unit
		return pieces
	}
	candidate := b.buf + b.sep + unit
	if b.h.tok.Count(candidate) <= b.h.cfg.MaxTokens {
		b.buf = candidate
		return pieces
	}
	pieces = append(pieces, b.buf)
	b.buf = unit
	return pieces
}

func (b *packBuffer) flushInto(pieces []string) []string {
	if b.buf != "" {
		pieces = append(pieces, b.buf)
		b.buf = ""
	}
	return pieces
}

// finish flushes the trailing buffer. A final fragment below MinTokens is
// merged back into the previous piece when the combined text still fits the
// budget.
func (b *packBuffer) finish(pieces []string) []string {
	if b.buf == "" {
		return pieces
	}
	if len(pieces) > 0 && b.h.tok.Count(b.buf) < b.h.cfg.MinTokens {
		merged := pieces[len(pieces)-1] + b.sep + b.buf
		if b.h.tok.Count(merged) <= b.h.cfg.MaxTokens {
			pieces[len(pieces)-1] = merged
			b.buf = ""
			return pieces
		}
	}
	pieces = append(pieces, b.buf)
	b.buf = ""
	return pieces
}

// splitParagraphs splits on blank-line boundaries.
func splitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
