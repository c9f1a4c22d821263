// Package chunker splits raw document text into overlapping, metadata
// annotated chunks, descending through structural separators from coarsest
// to finest so chunk boundaries fall on natural breaks where possible.
package chunker

import (
	"strings"
	"time"

	"codeberg.org/knowledgehub/server/internal/textproc"
)

// chars per token for converting the token budget to a character budget
const charsPerToken = 4

// how many keywords to attach per chunk
const maxChunkKeywords = 5

// separator patterns tried in order; raw character boundary is the implicit
// last resort when none of these occur in an oversized span
var separators = []string{
	"\n\n\n",
	"\n\n",
	"\n",
	". ",
	"! ",
	"? ",
	"; ",
	": ",
	", ",
	" ",
}

// Split chunks text into overlapping windows no larger than the character
// budget derived from opts.MaxTokens, then annotates each window with the
// base metadata plus positional fields. Empty or whitespace-only input
// yields zero chunks; callers must treat that as "no extractable content",
// not an error.
func Split(text string, base Metadata, opts Options) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if opts.MaxTokens <= 0 {
		opts = DefaultOptions()
	}

	budget := opts.MaxTokens * charsPerToken
	overlap := int(float64(budget) * opts.OverlapPercent)

	units := splitRecursive(text, separators, budget)
	windows := assembleWindows(units, budget, overlap)

	now := time.Now().UTC().Format(time.RFC3339)

	chunks := make([]Chunk, len(windows))

	for i, window := range windows {
		meta := base
		meta.ChunkIndex = i
		meta.ChunkTotal = len(windows)
		meta.CharCount = len(window)
		meta.WordCount = len(strings.Fields(window))
		meta.Position = positionBucket(i, len(windows))
		meta.Preview = firstSentence(window)
		meta.Keywords = textproc.ExtractKeywords(window, maxChunkKeywords)

		if meta.UpdatedAt == "" {
			meta.UpdatedAt = now
		}

		chunks[i] = Chunk{Text: window, Metadata: meta}
	}

	return chunks
}

// breaks text into units no larger than budget, preferring the coarsest
// separator that occurs in the text. Separators stay attached to the end of
// the unit they terminate, so concatenating all units reproduces the input
// byte for byte.
func splitRecursive(text string, seps []string, budget int) []string {
	if len(text) <= budget {
		return []string{text}
	}

	if len(seps) == 0 {
		return splitFixed(text, budget)
	}

	sep := seps[0]

	if !strings.Contains(text, sep) {
		return splitRecursive(text, seps[1:], budget)
	}

	var units []string

	for _, part := range strings.SplitAfter(text, sep) {
		if part == "" {
			continue
		}

		if len(part) <= budget {
			units = append(units, part)
			continue
		}

		units = append(units, splitRecursive(part, seps[1:], budget)...)
	}

	return units
}

// last-resort split on raw character boundaries
func splitFixed(text string, budget int) []string {
	var units []string

	for len(text) > budget {
		units = append(units, text[:budget])
		text = text[budget:]
	}

	if text != "" {
		units = append(units, text)
	}

	return units
}

// packs units into chunk windows. Each window after the first begins with
// the trailing overlap characters of its predecessor, so adjacent chunks
// share bounded textual context.
func assembleWindows(units []string, budget, overlap int) []string {
	var windows []string

	var current strings.Builder

	seedLen := 0

	for _, unit := range units {
		if current.Len() > seedLen && current.Len()+len(unit) > budget {
			window := current.String()
			windows = append(windows, window)

			seed := tailChars(window, overlap)
			current.Reset()
			current.WriteString(seed)
			seedLen = len(seed)
		}

		current.WriteString(unit)
	}

	if current.Len() > seedLen || len(windows) == 0 {
		windows = append(windows, current.String())
	}

	return windows
}

func tailChars(s string, n int) string {
	if n <= 0 {
		return ""
	}

	if len(s) <= n {
		return s
	}

	return s[len(s)-n:]
}
