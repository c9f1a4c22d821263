package vectorstore

const (
	getChunkCountQuery   = "SELECT COUNT(*) FROM kb_embeddings"
	deleteAllChunksQuery = "DELETE FROM kb_embeddings"
	deleteBySourceQuery  = "DELETE FROM kb_embeddings WHERE source_url = $1"
	deleteForUpsertQuery = "DELETE FROM kb_embeddings WHERE source_url = ANY($1)"

	insertChunkQuery = `
		INSERT INTO kb_embeddings (source_url, title, content, embedding, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`

	listSourcesQuery = `
		SELECT
			source_url,
			MAX(title) AS title,
			COUNT(*) AS chunks_count,
			MAX((metadata->>'updated_at')::timestamptz) AS last_updated
		FROM kb_embeddings
		GROUP BY source_url
		ORDER BY last_updated DESC NULLS LAST, source_url
	`

	vectorSearchQuery = `
		SELECT
			id::text,
			source_url,
			title,
			content,
			embedding,
			metadata,
			1 - (embedding <=> $1) AS similarity
		FROM kb_embeddings
	`
)
