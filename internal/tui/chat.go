package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// one rendered turn in the transcript
type transcriptEntry struct {
	question string
	answer   string
	sources  []SourceModel
	metadata string
	isError  bool
}

// chat interface against the knowledge base
type ChatModel struct {
	input               textinput.Model
	viewport            viewport.Model
	spinner             spinner.Model
	width               int
	height              int
	conversationHistory []Message
	transcript          []transcriptEntry
	isFetching          bool
	ready               bool
	glamourRenderer     *glamour.TermRenderer
	client              *Client
}

// returns a new chat model
func NewChatModel(client *Client) *ChatModel {
	ti := textinput.New()
	ti.Placeholder = "ask the knowledge base..."
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorLightGray)

	return &ChatModel{
		input:               ti,
		spinner:             sp,
		conversationHistory: []Message{},
		client:              client,
	}
}

func (m *ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ChatModel) Update(msg tea.Msg) (*ChatModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.isFetching {
				return m, nil
			}

			m.isFetching = true
			m.input.SetValue("")

			m.conversationHistory = append(m.conversationHistory, Message{
				Role:    "user",
				Content: question,
			})

			return m, tea.Batch(
				m.spinner.Tick,
				m.client.AskCmd(question, m.conversationHistory),
			)

		case "ctrl+l":
			m.input.SetValue("")
			m.conversationHistory = []Message{}
			m.transcript = nil
			m.isFetching = false
			m.refreshViewport()
			return m, nil

		case "up", "down", "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case ChatResponseMsg:
		m.isFetching = false

		m.conversationHistory = append(m.conversationHistory, Message{
			Role:    "assistant",
			Content: msg.answer,
		})

		m.transcript = append(m.transcript, transcriptEntry{
			question: msg.question,
			answer:   msg.answer,
			sources:  msg.sources,
			metadata: msg.metadata,
		})

		m.refreshViewport()
		m.viewport.GotoBottom()
		m.input.Focus()
		return m, nil

	case ChatErrorMsg:
		m.isFetching = false

		// drop the unanswered question so history stays role-alternating
		if n := len(m.conversationHistory); n > 0 && m.conversationHistory[n-1].Role == "user" {
			m.conversationHistory = m.conversationHistory[:n-1]
		}

		m.transcript = append(m.transcript, transcriptEntry{
			question: msg.question,
			answer:   fmt.Sprintf("Error: %v", msg.err),
			isError:  true,
		})

		m.refreshViewport()
		m.viewport.GotoBottom()
		m.input.Focus()
		return m, nil

	case spinner.TickMsg:
		if m.isFetching {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 10

		viewportHeight := max(msg.Height-8, 3)
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(msg.Width-8, 20)),
		)
		if err == nil {
			m.glamourRenderer = renderer
		}

		m.refreshViewport()
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ChatModel) View() string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWhite).
		Render("KNOWLEDGEHUB CHAT")

	help := lipgloss.NewStyle().
		Foreground(colorGray).
		Render("[Enter: Ask] [Ctrl+L: Clear] [Ctrl+C: Back]")

	headerLine := lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		strings.Repeat(" ", max(0, m.width-lipgloss.Width(header)-lipgloss.Width(help)-2)),
		help,
	)

	b.WriteString(headerLine)
	b.WriteString("\n\n")

	transcriptBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		Width(m.width - 4).
		Padding(0, 1).
		Render(m.viewport.View())

	b.WriteString(transcriptBox)
	b.WriteString("\n")

	inputBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		Width(m.width - 4).
		Padding(0, 1).
		Render(m.input.View())

	b.WriteString(inputBox)
	b.WriteString("\n")

	if m.isFetching {
		b.WriteString(infoStyle.Render(m.spinner.View() + " asking the knowledge base..."))
	}

	return b.String()
}

// rebuilds the viewport content from the transcript
func (m *ChatModel) refreshViewport() {
	if !m.ready {
		return
	}

	if len(m.transcript) == 0 {
		m.viewport.SetContent(infoStyle.Render("ready! ask a question about anything in the knowledge base."))
		return
	}

	var b strings.Builder

	for i, entry := range m.transcript {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString(userLabelStyle.Render("You: "))
		b.WriteString(entry.question)
		b.WriteString("\n\n")

		b.WriteString(m.renderAnswer(entry.answer))

		if len(entry.sources) > 0 {
			b.WriteString("\n")
			b.WriteString(sourceStyle.Render("sources:"))
			b.WriteString("\n")
			for _, src := range entry.sources {
				b.WriteString(sourceStyle.Render(fmt.Sprintf("  • %s (%s)", src.Title, src.URL)))
				b.WriteString("\n")
			}
		}

		if entry.metadata != "" {
			b.WriteString(infoStyle.Render(entry.metadata))
			b.WriteString("\n")
		}
	}

	m.viewport.SetContent(b.String())
}

// renders markdown answers through glamour, falling back to plain text
func (m *ChatModel) renderAnswer(answer string) string {
	if m.glamourRenderer == nil {
		return answer + "\n"
	}

	rendered, err := m.glamourRenderer.Render(answer)
	if err != nil {
		return answer + "\n"
	}

	return rendered
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
