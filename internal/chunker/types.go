package chunker

// a bounded slice of a source document's text plus descriptive metadata
type Chunk struct {
	Text     string
	Metadata Metadata
}

// Metadata describes a chunk's origin and position. ChunkIndex values are
// contiguous from zero within one Split call and ChunkTotal is identical
// across all chunks of that call.
type Metadata struct {
	SourceURL  string   `json:"source_url"`
	Title      string   `json:"title"`
	SourceName string   `json:"source_name,omitempty"`
	ChunkIndex int      `json:"chunk_index"`
	ChunkTotal int      `json:"chunk_total"`
	CharCount  int      `json:"char_count"`
	WordCount  int      `json:"word_count"`
	Position   string   `json:"position"`
	Preview    string   `json:"preview"`
	Keywords   []string `json:"keywords"`
	UpdatedAt  string   `json:"updated_at"`
}

// position buckets, a pure function of chunk_index/chunk_total
const (
	PositionBeginning = "beginning"
	PositionMiddle    = "middle"
	PositionEnd       = "end"
)

type Options struct {
	MaxTokens      int
	OverlapPercent float64
}

func DefaultOptions() Options {
	return Options{
		MaxTokens:      600,
		OverlapPercent: 0.2,
	}
}
