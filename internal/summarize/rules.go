package summarize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Recognized summary types. Unknown values behave as brief.
const (
	TypeBrief        = "brief"
	TypeDetailed     = "detailed"
	TypeBulletPoints = "bullet_points"
	TypeKeyTopics    = "key_topics"
)

const (
	maxKeyTopics     = 5
	minTopicLen      = 4
	minSentenceLen   = 10
	briefSentences   = 3
	detailedMax      = 8
	bulletSentences  = 5
	noSummaryMessage = "Não foi possível gerar um resumo do conteúdo."
	topicsHeader     = "Principais tópicos abordados:"
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// WordCount splits on whitespace runs.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// KeyTopics extracts up to five topics: lowercased, punctuation stripped,
// tokens longer than three characters, stop words discarded, ranked by
// frequency with ties broken by first appearance, then capitalized.
func KeyTopics(text, language string) []string {
	stops := stopWordsFor(language)

	counts := make(map[string]int)
	var order []string
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = stripPunctuation(tok)
		if utf8.RuneCountInString(tok) < minTopicLen || stops[tok] {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	n := len(order)
	if n > maxKeyTopics {
		n = maxKeyTopics
	}
	topics := make([]string, 0, n)
	for _, tok := range order[:n] {
		topics = append(topics, capitalize(tok))
	}
	return topics
}

// Sentiment classifies by counting whitespace tokens that contain any
// positive- or negative-list entry as a substring. Ties are neutral.
func Sentiment(text string) string {
	positive, negative := 0, 0
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if containsAny(tok, positiveWords) {
			positive++
		}
		if containsAny(tok, negativeWords) {
			negative++
		}
	}
	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// RuleBased is the deterministic fallback summarizer. It never fails: with
// zero usable sentences it returns a fixed message.
func RuleBased(text, summaryType string, topics []string) string {
	sentences := splitSentences(text)

	if summaryType == TypeKeyTopics {
		if len(topics) == 0 {
			return noSummaryMessage
		}
		lines := make([]string, 0, len(topics)+1)
		lines = append(lines, topicsHeader)
		for _, t := range topics {
			lines = append(lines, "• "+t)
		}
		return strings.Join(lines, "\n")
	}

	if len(sentences) == 0 {
		return noSummaryMessage
	}

	switch summaryType {
	case TypeDetailed:
		n := detailedMax
		if len(sentences) < n {
			n = len(sentences)
		}
		return strings.Join(sentences[:n], ". ") + "."
	case TypeBulletPoints:
		n := bulletSentences
		if len(sentences) < n {
			n = len(sentences)
		}
		lines := make([]string, 0, n)
		for _, s := range sentences[:n] {
			lines = append(lines, "• "+s)
		}
		return strings.Join(lines, "\n")
	default: // brief, and any unknown type
		n := briefSentences
		if len(sentences) < n {
			n = len(sentences)
		}
		return strings.Join(sentences[:n], ". ") + "."
	}
}

// splitSentences breaks on sentence-terminal punctuation and drops
// fragments shorter than the minimum usable length.
func splitSentences(text string) []string {
	var sentences []string
	for _, frag := range sentenceEnd.Split(text, -1) {
		frag = strings.TrimSpace(frag)
		if utf8.RuneCountInString(frag) < minSentenceLen {
			continue
		}
		sentences = append(sentences, frag)
	}
	return sentences
}

func stripPunctuation(tok string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return -1
	}, tok)
}

func capitalize(tok string) string {
	r, size := utf8.DecodeRuneInString(tok)
	if r == utf8.RuneError {
		return tok
	}
	return string(unicode.ToUpper(r)) + tok[size:]
}

func containsAny(tok string, words []string) bool {
	for _, w := range words {
		if strings.Contains(tok, w) {
			return true
		}
	}
	return false
}
