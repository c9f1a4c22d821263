package rag

import (
	"fmt"
	"strings"
)

// answers come only from supplied context; the model is told to admit
// gaps rather than fill them from its own knowledge
const systemPrompt = `You are the KnowledgeHub assistant. You provide helpful, conversational answers using ONLY the knowledge base context provided.

CRITICAL RULES:
1. ONLY use information from the Knowledge Base Context below
2. DO NOT use external knowledge or make assumptions
3. Be conversational and natural in your responses
4. If you need to reference previous conversation, use the chat history
5. If the answer is not in the context, say "I don't have that information in the knowledge base"
6. Provide clear, well-structured answers
7. Be concise but thorough`

// at most the last 6 turns (3 user/assistant exchanges) are replayed
const maxHistoryMessages = 6

func buildUserPrompt(contextText, historyText, question string) string {
	return fmt.Sprintf(`Knowledge Base Context:
%s
%s

Current Question: %s

Provide a helpful answer based ONLY on the knowledge base context above:`,
		contextText, historyText, question)
}

func formatHistory(history []Message) string {
	if len(history) == 0 {
		return ""
	}

	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}

	var sb strings.Builder

	sb.WriteString("\n\nPrevious Conversation:\n")

	lines := make([]string, 0, len(history))

	for _, msg := range history {
		speaker := "Assistant"
		if msg.Role == RoleUser {
			speaker = "User"
		}

		lines = append(lines, fmt.Sprintf("%s: %s", speaker, msg.Content))
	}

	sb.WriteString(strings.Join(lines, "\n"))

	return sb.String()
}
