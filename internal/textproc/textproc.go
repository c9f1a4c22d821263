// Package textproc extracts query-relevant sentences from retrieved
// documents and packs them into a token-budgeted context string.
package textproc

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	// approximate chars per token for English text
	charsPerToken = 4

	// sentences shorter than this carry too little signal to score
	minSentenceLength = 20

	// query terms at or below this length behave like stopwords
	minQueryTermLength = 3

	// how many sentences to keep per document when packing context
	sentencesPerDocument = 4
)

var (
	sentenceSplitRegex = regexp.MustCompile(`[.!?]+`)
	nonWordRegex       = regexp.MustCompile(`[^\w\s]`)
	whitespaceRegex    = regexp.MustCompile(`\s+`)
)

// a retrieved document as seen by the optimizer: ranked upstream, read-only here
type Document struct {
	Title string
	Text  string
}

// stopwords excluded from keyword extraction
var stopWords = map[string]struct{}{
	"the": {}, "is": {}, "at": {}, "which": {}, "on": {}, "a": {}, "an": {},
	"and": {}, "or": {}, "but": {}, "in": {}, "with": {}, "to": {}, "for": {},
	"of": {}, "as": {}, "by": {}, "that": {}, "this": {}, "it": {},
	"from": {}, "are": {}, "was": {}, "were": {}, "been": {}, "be": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "should": {}, "could": {}, "can": {},
	"may": {}, "might": {}, "must": {}, "shall": {},
}

// SelectRelevantSentences returns the sentences of text most relevant to
// query, up to maxSentences. Documents that are already short enough are
// returned unchanged, since dropping sentences there would lose information.
func SelectRelevantSentences(text, query string, maxSentences int) string {
	var sentences []string

	for _, s := range sentenceSplitRegex.Split(text, -1) {
		s = strings.TrimSpace(s)
		if len(s) > minSentenceLength {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) <= maxSentences {
		return text
	}

	queryTerms := queryTerms(query)

	type scored struct {
		sentence string
		score    int
	}

	scoredSentences := make([]scored, len(sentences))

	for i, sentence := range sentences {
		lower := strings.ToLower(sentence)
		score := 0

		for _, term := range queryTerms {
			if strings.Contains(lower, term) {
				score++
			}
		}

		scoredSentences[i] = scored{sentence: sentence, score: score}
	}

	// stable: equal-score sentences keep their original relative order
	sort.SliceStable(scoredSentences, func(i, j int) bool {
		return scoredSentences[i].score > scoredSentences[j].score
	})

	top := make([]string, 0, maxSentences)
	for _, s := range scoredSentences[:maxSentences] {
		top = append(top, s.sentence)
	}

	return strings.Join(top, ". ") + "."
}

// OptimizeContext packs the most relevant portions of the ranked documents
// into a context string costing at most maxTokens. Documents are consumed in
// their given order; packing stops at the first document that would overflow
// the budget rather than skipping it and continuing.
func OptimizeContext(docs []Document, query string, maxTokens int) string {
	var context strings.Builder

	currentTokens := 0

	for _, doc := range docs {
		relevantText := SelectRelevantSentences(doc.Text, query, sentencesPerDocument)
		tokens := (len(relevantText) + charsPerToken - 1) / charsPerToken

		if currentTokens+tokens > maxTokens {
			break
		}

		title := doc.Title
		if title == "" {
			title = "Unknown Source"
		}

		context.WriteString("\n\n[Source: ")
		context.WriteString(title)
		context.WriteString("]\n")
		context.WriteString(relevantText)

		currentTokens += tokens
	}

	return strings.TrimSpace(context.String())
}

// ExtractKeywords returns the top maxKeywords tokens of text by descending
// frequency, excluding stopwords and tokens of three characters or fewer.
// Frequency ties keep first-seen order.
func ExtractKeywords(text string, maxKeywords int) []string {
	cleaned := nonWordRegex.ReplaceAllString(strings.ToLower(text), " ")

	freq := make(map[string]int)

	var firstSeen []string

	for _, word := range strings.Fields(cleaned) {
		if len(word) <= minQueryTermLength {
			continue
		}

		if _, stop := stopWords[word]; stop {
			continue
		}

		if freq[word] == 0 {
			firstSeen = append(firstSeen, word)
		}

		freq[word]++
	}

	sort.SliceStable(firstSeen, func(i, j int) bool {
		return freq[firstSeen[i]] > freq[firstSeen[j]]
	})

	if len(firstSeen) > maxKeywords {
		firstSeen = firstSeen[:maxKeywords]
	}

	return firstSeen
}

// EstimateTokens approximates the token cost of text. Averaging the
// character and word estimates tracks real tokenizers better than either
// alone.
func EstimateTokens(text string) int {
	charCount := len(text)
	wordCount := len(strings.Fields(text))

	estimate := (float64(charCount)/charsPerToken + float64(wordCount)) / 2

	return int(math.Ceil(estimate))
}

// returns the lowercased query terms long enough to carry signal
func queryTerms(query string) []string {
	var terms []string

	for _, w := range whitespaceRegex.Split(strings.ToLower(query), -1) {
		if len(w) > minQueryTermLength {
			terms = append(terms, w)
		}
	}

	return terms
}
