package main

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/knowledgehub/server/internal/config"
	"codeberg.org/knowledgehub/server/internal/llm"
	"codeberg.org/knowledgehub/server/internal/rag"
	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

// holds all dependencies and state for the API server
type Server struct {
	config *config.Config
	store  vectorstore.Store
	llm    llm.LLM
	rag    *rag.Service
	router *gin.Engine
}
