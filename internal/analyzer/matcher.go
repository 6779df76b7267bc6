package analyzer

import (
	"strings"
	"unicode"
)

// TermMatch represents occurrences of a search term within a result's
// enriched page text.
type TermMatch struct {
	Term      string   `json:"term"`
	Href      string   `json:"href"`
	Count     int      `json:"count"`
	Sentences []string `json:"sentences"`
}

// FindTermMatches scans the flattened page text for each term
// (case-insensitive) and returns one TermMatch per term that occurs at
// least once, with the sentences containing it. Sentences are naively split
// on '.', '!' and '?'.
func FindTermMatches(pageText, href string, terms []string) []TermMatch {
	if pageText == "" || len(terms) == 0 {
		return nil
	}

	lowerText := strings.ToLower(pageText)

	sentences := splitIntoSentences(pageText)
	lowerSentences := make([]string, len(sentences))
	for i, s := range sentences {
		lowerSentences[i] = strings.ToLower(s)
	}

	matches := make([]TermMatch, 0, len(terms))
	for _, term := range terms {
		lowerTerm := strings.ToLower(term)
		count := strings.Count(lowerText, lowerTerm)
		if count == 0 {
			continue
		}

		var matched []string
		for i, ls := range lowerSentences {
			if strings.Contains(ls, lowerTerm) {
				matched = append(matched, strings.TrimSpace(sentences[i]))
			}
		}

		matches = append(matches, TermMatch{
			Term:      term,
			Href:      href,
			Count:     count,
			Sentences: matched,
		})
	}

	return matches
}

func splitIntoSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimFunc(current.String(), unicode.IsSpace)
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimFunc(current.String(), unicode.IsSpace); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
