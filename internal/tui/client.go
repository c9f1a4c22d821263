package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// answers can take a while when the generation model is cold
const chatRequestTimeout = 60 * time.Second

// manages HTTP requests to the knowledgehub REST API
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// creates a new REST client
func NewClient() *Client {
	endpoint := os.Getenv("KNOWLEDGEHUB_API_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:8080"
	}

	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: chatRequestTimeout,
		},
	}
}

// sends a question to the chat endpoint
func (c *Client) Ask(ctx context.Context, question string, conversationHistory []Message) (*ChatResponseMsg, error) {
	// the chat endpoint rejects history entries with empty content
	filteredHistory := make([]Message, 0, len(conversationHistory))
	for _, msg := range conversationHistory {
		if msg.Content != "" {
			filteredHistory = append(filteredHistory, msg)
		}
	}

	payload := chatRequest{
		Question:    question,
		ChatHistory: filteredHistory,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/chat", c.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
		}
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &ChatResponseMsg{
		question: question,
		answer:   result.Answer,
		sources:  result.Sources,
		cached:   result.Cached,
		metadata: formatChatMetadata(result),
	}, nil
}

// returns a tea.Cmd that sends a chat request
func (c *Client) AskCmd(question string, conversationHistory []Message) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatRequestTimeout)
		defer cancel()

		resp, err := c.Ask(ctx, question, conversationHistory)
		if err != nil {
			return ChatErrorMsg{question: question, err: err}
		}

		return *resp
	}
}

// returns a tea.Cmd that probes the health endpoint
func (c *Client) HealthCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		url := fmt.Sprintf("%s/health", c.endpoint)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return ErrorMsg{err: fmt.Errorf("failed to create request: %w", err)}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return ErrorMsg{err: fmt.Errorf("server unreachable: %w", err)}
		}
		defer resp.Body.Close() //nolint:errcheck

		var result healthResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return ErrorMsg{err: fmt.Errorf("failed to parse health response: %w", err)}
		}

		return HealthMsg{
			status:        result.Status,
			chunksIndexed: result.ChunksIndexed,
			cacheSize:     result.CacheSize,
		}
	}
}

// REST API request/response types

type chatRequest struct {
	Question    string    `json:"question"`
	ChatHistory []Message `json:"chat_history,omitempty"`
}

type chatResponse struct {
	Success bool          `json:"success"`
	Answer  string        `json:"answer"`
	Sources []SourceModel `json:"sources"`
	Cached  bool          `json:"cached"`
	Debug   chatDebug     `json:"debug"`
}

type chatDebug struct {
	DocsRetrieved      int     `json:"docs_retrieved"`
	DocsAfterFiltering int     `json:"docs_after_filtering"`
	AvgScore           float64 `json:"avg_score"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type healthResponse struct {
	Status        string `json:"status"`
	ChunksIndexed int    `json:"chunks_indexed"`
	CacheSize     int    `json:"cache_size"`
}

// builds the one-line footer shown under each answer
func formatChatMetadata(result chatResponse) string {
	parts := []string{
		fmt.Sprintf("retrieved: %d docs, %d after filtering", result.Debug.DocsRetrieved, result.Debug.DocsAfterFiltering),
		fmt.Sprintf("avg score: %.2f", result.Debug.AvgScore),
	}

	if result.Cached {
		parts = append(parts, "cached")
	}

	return strings.Join(parts, " | ")
}
