package chunker

import (
	"strings"
	"unicode"
)

// SentenceSplitter is the external sentence-segmentation collaborator.
type SentenceSplitter func(text string) []string

// germanAbbreviations lists terminal-dot abbreviations common in German
// audit text that must not end a sentence.
var germanAbbreviations = map[string]bool{
	"abs":  true,
	"art":  true,
	"aufl": true,
	"bspw": true,
	"bst":  true,
	"bzgl": true,
	"bzw":  true,
	"ca":   true,
	"chf":  true,
	"d.h":  true,
	"dr":   true,
	"etc":  true,
	"evtl": true,
	"ff":   true,
	"ggf":  true,
	"inkl": true,
	"insb": true,
	"kap":  true,
	"lit":  true,
	"mio":  true,
	"mrd":  true,
	"nr":   true,
	"prof": true,
	"resp": true,
	"s":    true,
	"sog":  true,
	"u.a":  true,
	"usw":  true,
	"vgl":  true,
	"z.b":  true,
	"ziff": true,
	"zit":  true,
}

// SplitSentencesGerman splits text into sentences on terminal punctuation,
// guarding against German abbreviation patterns and decimal/ordinal
// numbers. Text without any boundary comes back as a single sentence.
func SplitSentencesGerman(text string) []string {
	runes := []rune(text)
	var sentences []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for i, r := range runes {
		current.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if r == '.' && !dotEndsSentence(current.String(), runes, i) {
			continue
		}
		flush()
	}
	flush()

	return sentences
}

// dotEndsSentence decides whether a period at position i terminates a
// sentence rather than an abbreviation or an ordinal number.
func dotEndsSentence(soFar string, runes []rune, i int) bool {
	word := lastWord(soFar)
	if word == "" {
		return false
	}
	if germanAbbreviations[strings.ToLower(word)] {
		return false
	}
	// "5." followed by lowercase continues the sentence (ordinal).
	if isAllDigits(word) {
		if next := nextNonSpace(runes, i); next != 0 && unicode.IsLower(next) {
			return false
		}
	}
	return true
}

// lastWord extracts the token immediately preceding the final period,
// keeping interior dots so "z.B." matches as one abbreviation.
func lastWord(s string) string {
	s = strings.TrimSuffix(s, ".")
	if idx := strings.LastIndexFunc(s, unicode.IsSpace); idx >= 0 {
		s = s[idx+1:]
	}
	return strings.Trim(s, ".,;:()[]\"'«»")
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func nextNonSpace(runes []rune, i int) rune {
	for j := i + 1; j < len(runes); j++ {
		if !unicode.IsSpace(runes[j]) {
			return runes[j]
		}
	}
	return 0
}
