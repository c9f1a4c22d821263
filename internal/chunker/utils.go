package chunker

import (
	"regexp"
	"strings"
)

const maxPreviewLength = 150

var terminalPunctRegex = regexp.MustCompile(`[.!?]`)

// maps a chunk's normalized position within its document to a bucket
func positionBucket(index, total int) string {
	if total <= 1 {
		return PositionBeginning
	}

	ratio := float64(index) / float64(total)

	switch {
	case ratio < 1.0/3.0:
		return PositionBeginning
	case ratio < 2.0/3.0:
		return PositionMiddle
	default:
		return PositionEnd
	}
}

// returns the chunk's first sentence, capped at maxPreviewLength characters
func firstSentence(text string) string {
	text = strings.TrimSpace(text)

	if loc := terminalPunctRegex.FindStringIndex(text); loc != nil {
		text = text[:loc[1]]
	}

	if len(text) > maxPreviewLength {
		text = text[:maxPreviewLength]
	}

	return text
}
