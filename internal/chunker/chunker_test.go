package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata() Metadata {
	return Metadata{
		SourceURL: "https://example.test/page",
		Title:     "Example Page",
	}
}

func longText(paragraphs int) string {
	var b strings.Builder

	for i := 0; i < paragraphs; i++ {
		b.WriteString("This paragraph discusses delivery logistics and restaurant onboarding. ")
		b.WriteString("Each sentence here exists to push the text past the chunk budget. ")
		b.WriteString("Couriers, menus, refunds and loyalty points all make an appearance.")
		b.WriteString("\n\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n")
}

func TestSplitEmptyInput(t *testing.T) {
	assert.Empty(t, Split("", testMetadata(), DefaultOptions()))
	assert.Empty(t, Split("   \n\t  ", testMetadata(), DefaultOptions()))
}

func TestSplitShortInputSingleChunk(t *testing.T) {
	text := "A single short paragraph that fits comfortably in one chunk."

	chunks := Split(text, testMetadata(), DefaultOptions())

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Metadata.ChunkIndex)
	assert.Equal(t, 1, chunks[0].Metadata.ChunkTotal)
	assert.Equal(t, PositionBeginning, chunks[0].Metadata.Position)
}

func TestSplitMetadataConsistency(t *testing.T) {
	opts := Options{MaxTokens: 100, OverlapPercent: 0.2}

	chunks := Split(longText(20), testMetadata(), opts)
	require.Greater(t, len(chunks), 1)

	total := chunks[0].Metadata.ChunkTotal

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Metadata.ChunkIndex, "indices must be contiguous from zero")
		assert.Equal(t, total, chunk.Metadata.ChunkTotal, "chunk_total must be constant")
		assert.Equal(t, len(chunk.Text), chunk.Metadata.CharCount)
		assert.Equal(t, len(strings.Fields(chunk.Text)), chunk.Metadata.WordCount)
		assert.Equal(t, "https://example.test/page", chunk.Metadata.SourceURL)
		assert.NotEmpty(t, chunk.Metadata.UpdatedAt)
		assert.NotEmpty(t, chunk.Metadata.Preview)
		assert.LessOrEqual(t, len(chunk.Metadata.Preview), 150)
	}

	assert.Equal(t, len(chunks), total)
}

func TestSplitReassembly(t *testing.T) {
	opts := Options{MaxTokens: 100, OverlapPercent: 0.2}
	budget := opts.MaxTokens * charsPerToken
	overlap := int(float64(budget) * opts.OverlapPercent)

	original := longText(20)

	chunks := Split(original, testMetadata(), opts)
	require.Greater(t, len(chunks), 1)

	// dropping each chunk's leading overlap region reconstructs the input
	var rebuilt strings.Builder

	rebuilt.WriteString(chunks[0].Text)

	for i := 1; i < len(chunks); i++ {
		seedLen := overlap
		if len(chunks[i-1].Text) < seedLen {
			seedLen = len(chunks[i-1].Text)
		}

		rebuilt.WriteString(chunks[i].Text[seedLen:])
	}

	assert.Equal(t, original, rebuilt.String())
}

func TestSplitAdjacentChunksShareOverlap(t *testing.T) {
	opts := Options{MaxTokens: 100, OverlapPercent: 0.2}
	budget := opts.MaxTokens * charsPerToken
	overlap := int(float64(budget) * opts.OverlapPercent)

	chunks := Split(longText(20), testMetadata(), opts)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Text
		tail := prev

		if len(prev) > overlap {
			tail = prev[len(prev)-overlap:]
		}

		assert.True(t, strings.HasPrefix(chunks[i].Text, tail),
			"chunk %d must begin with the overlap tail of chunk %d", i, i-1)
	}
}

func TestSplitRespectsBudget(t *testing.T) {
	opts := Options{MaxTokens: 100, OverlapPercent: 0.1}
	budget := opts.MaxTokens * charsPerToken
	overlap := int(float64(budget) * opts.OverlapPercent)

	chunks := Split(longText(30), testMetadata(), opts)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Text), budget+overlap,
			"chunk %d exceeds the window bound", i)
	}
}

func TestSplitKeepsSeparators(t *testing.T) {
	opts := Options{MaxTokens: 100, OverlapPercent: 0}

	text := longText(10)

	chunks := Split(text, testMetadata(), opts)
	require.Greater(t, len(chunks), 1)

	// separators are retained in chunk text rather than stripped, so the
	// plain concatenation (zero overlap) reproduces the input
	var rebuilt strings.Builder
	for _, chunk := range chunks {
		rebuilt.WriteString(chunk.Text)
	}

	assert.Equal(t, text, rebuilt.String())
}

func TestSplitUnbrokenTextFallsBackToFixedWidth(t *testing.T) {
	opts := Options{MaxTokens: 10, OverlapPercent: 0}
	budget := opts.MaxTokens * charsPerToken

	text := strings.Repeat("x", 3*budget+7)

	chunks := Split(text, testMetadata(), opts)

	require.Equal(t, 4, len(chunks))

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Text), budget)
	}
}

func TestPositionBuckets(t *testing.T) {
	assert.Equal(t, PositionBeginning, positionBucket(0, 1))
	assert.Equal(t, PositionBeginning, positionBucket(0, 9))
	assert.Equal(t, PositionBeginning, positionBucket(2, 9))
	assert.Equal(t, PositionMiddle, positionBucket(3, 9))
	assert.Equal(t, PositionMiddle, positionBucket(5, 9))
	assert.Equal(t, PositionEnd, positionBucket(6, 9))
	assert.Equal(t, PositionEnd, positionBucket(8, 9))
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "Short sentence.", firstSentence("Short sentence. More text follows here."))

	long := strings.Repeat("a", 300) + ". Next."
	assert.Len(t, firstSentence(long), 150)

	// no terminal punctuation: capped raw text
	assert.Equal(t, "no punctuation here", firstSentence("no punctuation here"))
}
