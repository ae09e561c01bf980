package segment

import (
	"log/slog"
	"strings"
)

// Validate filters and clamps assembled sections into a new list. Sections
// whose trimmed text is shorter than minChars are dropped with a diagnostic
// log entry; page numbers are clamped so end_page >= start_page >= 1.
// Validate never fails.
func Validate(sections []Section, minChars int, log *slog.Logger) []Section {
	if minChars <= 0 {
		minChars = 10
	}

	validated := make([]Section, 0, len(sections))
	for _, s := range sections {
		if len(strings.TrimSpace(s.Text)) < minChars {
			log.Warn("discarding section fragment",
				"label", s.Label,
				"chars", len(strings.TrimSpace(s.Text)),
				"start_page", s.StartPage,
			)
			continue
		}
		if s.StartPage < 1 {
			s.StartPage = 1
		}
		if s.EndPage < s.StartPage {
			s.EndPage = s.StartPage
		}
		validated = append(validated, s)
	}

	log.Info("validated sections", "kept", len(validated), "raw", len(sections))
	return validated
}
