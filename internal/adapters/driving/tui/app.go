// Package tui implements the interactive chat interface following the
// Elm architecture on top of Bubbletea.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports provides the TUI access to core services.
type Ports struct {
	// Chat answers questions grounded in the loaded documents.
	Chat driving.ChatService

	// Collection is the resolved collection to retrieve from. Blank
	// means the default collection.
	Collection string
}

// Styles for the chat transcript.
var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// entry is one transcript turn.
type entry struct {
	role    string
	content string
}

// Messages emitted by the streaming goroutine.
type (
	fragmentMsg struct{ text string }
	doneMsg     struct{ err error }
)

// App is the chat TUI application. It implements tea.Model.
type App struct {
	ports Ports
	ctx   context.Context

	viewport viewport.Model
	input    textarea.Model

	entries   []entry
	streaming bool
	stream    chan tea.Msg
	cancel    context.CancelFunc

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat application.
func NewApp(ports Ports) *App {
	input := textarea.New()
	input.Placeholder = "Ask about your documents..."
	input.SetHeight(1)
	input.ShowLineNumbers = false
	input.Focus()

	return &App{
		ports: ports,
		ctx:   context.Background(),
		input: input,
	}
}

// WithContext sets the context used for chat requests.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if a.cancel != nil {
				a.cancel()
			}
			return a, tea.Quit

		case tea.KeyEnter:
			return a, a.send()
		}

	case fragmentMsg:
		a.appendToAnswer(msg.text)
		a.refresh()
		return a, a.listen()

	case doneMsg:
		a.streaming = false
		a.cancel = nil
		if msg.err != nil {
			a.entries = append(a.entries, entry{role: "error", content: msg.err.Error()})
		}
		a.refresh()
		return a, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}
	return a.viewport.View() + "\n" + inputBoxStyle.Width(a.width-2).Render(a.input.View())
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	inputHeight := 3
	if !a.ready {
		a.viewport = viewport.New(width, height-inputHeight-1)
		a.ready = true
	} else {
		a.viewport.Width = width
		a.viewport.Height = height - inputHeight - 1
	}
	a.input.SetWidth(width - 4)
	a.refresh()
}

// send starts a streaming chat request for the current input.
func (a *App) send() tea.Cmd {
	if a.streaming || a.ports.Chat == nil {
		return nil
	}

	question := strings.TrimSpace(a.input.Value())
	if question == "" {
		return nil
	}

	history := a.history()
	a.entries = append(a.entries,
		entry{role: domain.RoleUser, content: question},
		entry{role: domain.RoleAssistant})
	a.input.Reset()
	a.streaming = true
	a.stream = make(chan tea.Msg, 16)
	a.refresh()

	ctx, cancel := context.WithCancel(a.ctx)
	a.cancel = cancel

	req := domain.ChatRequest{
		Message:        question,
		History:        history,
		CollectionName: a.ports.Collection,
	}

	stream := a.stream
	go func() {
		err := a.ports.Chat.ChatStream(ctx, req, func(fragment string) error {
			select {
			case stream <- fragmentMsg{text: fragment}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		stream <- doneMsg{err: err}
	}()

	return a.listen()
}

// listen waits for the next message from the streaming goroutine.
func (a *App) listen() tea.Cmd {
	stream := a.stream
	return func() tea.Msg {
		return <-stream
	}
}

// history converts the transcript into chat history, excluding error
// entries and the in-flight answer.
func (a *App) history() []domain.ChatMessage {
	history := make([]domain.ChatMessage, 0, len(a.entries))
	for _, e := range a.entries {
		if e.role != domain.RoleUser && e.role != domain.RoleAssistant {
			continue
		}
		if e.content == "" {
			continue
		}
		history = append(history, domain.ChatMessage{Role: e.role, Content: e.content})
	}
	return history
}

func (a *App) appendToAnswer(fragment string) {
	if len(a.entries) == 0 {
		return
	}
	last := &a.entries[len(a.entries)-1]
	if last.role == domain.RoleAssistant {
		last.content += fragment
	}
}

// refresh re-renders the transcript into the viewport and keeps it
// scrolled to the bottom.
func (a *App) refresh() {
	if !a.ready {
		return
	}

	var b strings.Builder
	for _, e := range a.entries {
		switch e.role {
		case domain.RoleUser:
			b.WriteString(userStyle.Render("You: "))
		case domain.RoleAssistant:
			b.WriteString(assistantStyle.Render("Docchat: "))
		default:
			b.WriteString(errorStyle.Render("Error: "))
		}
		b.WriteString(e.content)
		b.WriteString("\n\n")
	}

	a.viewport.SetContent(lipgloss.NewStyle().Width(a.viewport.Width).Render(b.String()))
	a.viewport.GotoBottom()
}
