package chunker

import "strings"

// LinkOverlap attaches trailing context between adjacent same-label chunks:
// the last one-or-two sentences of the previous chunk, when they fit the
// overlap budget. Chunk text itself is never altered; overlap context is
// retrieval-continuity metadata, not indexed content. This is the only
// post-creation mutation a chunk sees.
func (h *HybridChunker) LinkOverlap(chunks []Chunk) {
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Label != chunks[i-1].Label {
			continue
		}
		sentences := h.split(chunks[i-1].Text)
		if len(sentences) == 0 {
			continue
		}
		tail := sentences[len(sentences)-1]
		if len(sentences) > 1 {
			tail = strings.TrimSpace(sentences[len(sentences)-2] + " " + tail)
		}
		if h.tok.Count(tail) <= h.cfg.OverlapTokens {
			chunks[i].OverlapContext = tail
		}
	}
}
