package chat

import "codeberg.org/knowledgehub/server/internal/rag"

// Request represents the request body for a chat question
type Request struct {
	Question    string            `json:"question" binding:"required"`
	ChatHistory []rag.Message     `json:"chat_history"`
	K           int               `json:"k"`
	Filter      map[string]string `json:"filter"`
}

// Response represents the answer envelope
type Response struct {
	Success bool         `json:"success"`
	Answer  string       `json:"answer"`
	Sources []rag.Source `json:"sources"`
	Cached  bool         `json:"cached"`
	Debug   rag.Debug    `json:"debug"`
}
