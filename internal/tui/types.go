package tui

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateChat
)

// main TUI application model
type Model struct {
	state   AppState
	width   int
	height  int
	err     error
	welcome *Welcome
	chat    *ChatModel
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to transition to the chat state
type EnterChatMsg struct{}

// one turn of the conversation, as the chat endpoint expects it
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// a knowledge-base citation attached to an answer
type SourceModel struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// sent when the server answers a question
type ChatResponseMsg struct {
	question string
	answer   string
	sources  []SourceModel
	cached   bool
	metadata string
}

// sent when a chat request fails
type ChatErrorMsg struct {
	question string
	err      error
}

// sent when the health probe completes
type HealthMsg struct {
	status        string
	chunksIndexed int
	cacheSize     int
}

// welcome screen model
type Welcome struct {
	input    string
	status   string
	commands []Command
	client   *Client
}

// represents an available TUI command
type Command struct {
	Name        string
	Description string
}
