package rag

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHistoryEmpty(t *testing.T) {
	assert.Empty(t, formatHistory(nil))
	assert.Empty(t, formatHistory([]Message{}))
}

func TestFormatHistoryLabelsSpeakers(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi there"},
	}

	text := formatHistory(history)

	assert.Contains(t, text, "Previous Conversation:")
	assert.Contains(t, text, "User: hello")
	assert.Contains(t, text, "Assistant: hi there")
}

func TestFormatHistoryKeepsLastSixTurns(t *testing.T) {
	var history []Message
	for i := range 10 {
		history = append(history, Message{Role: RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}

	text := formatHistory(history)

	assert.NotContains(t, text, "turn 3")
	assert.Contains(t, text, "turn 4")
	assert.Contains(t, text, "turn 9")
	assert.Equal(t, 6, strings.Count(text, "turn "))
}

func TestBuildUserPromptContainsAllSections(t *testing.T) {
	prompt := buildUserPrompt("some context", "\n\nPrevious Conversation:\nUser: hi", "the question")

	assert.Contains(t, prompt, "Knowledge Base Context:\nsome context")
	assert.Contains(t, prompt, "Previous Conversation:")
	assert.Contains(t, prompt, "Current Question: the question")
	assert.Less(t, strings.Index(prompt, "some context"), strings.Index(prompt, "the question"))
}

func TestSystemPromptConstrainsToKnowledgeBase(t *testing.T) {
	assert.Contains(t, systemPrompt, "ONLY use information from the Knowledge Base Context")
	assert.Contains(t, systemPrompt, "I don't have that information in the knowledge base")
}
